package auth

import (
	"errors"
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\d{10,15}$`)

	passwordLower   = regexp.MustCompile(`[a-z]`)
	passwordUpper   = regexp.MustCompile(`[A-Z]`)
	passwordDigit   = regexp.MustCompile(`\d`)
	passwordSpecial = regexp.MustCompile(`[@$!%*?&#]`)
)

// ValidateSignup checks a signup request field by field and returns the
// first failure. Surfaced verbatim next to the form field that caused it.
func ValidateSignup(req SignupRequest) error {
	if len(strings.TrimSpace(req.FirstName)) < 2 {
		return errors.New("first name must be at least 2 characters")
	}
	if len(strings.TrimSpace(req.LastName)) < 2 {
		return errors.New("last name must be at least 2 characters")
	}
	if !emailPattern.MatchString(req.Email) {
		return errors.New("enter a valid email address")
	}
	if !phonePattern.MatchString(req.PhoneNumber) {
		return errors.New("phone number must be 10 to 15 digits")
	}
	return ValidatePassword(req.Password)
}

// ValidatePassword enforces the account password rules: at least 8
// characters with a lowercase letter, an uppercase letter, a digit, and
// one of @$!%*?&#.
func ValidatePassword(password string) error {
	switch {
	case len(password) < 8:
		return errors.New("password must be at least 8 characters")
	case !passwordLower.MatchString(password):
		return errors.New("password needs a lowercase letter")
	case !passwordUpper.MatchString(password):
		return errors.New("password needs an uppercase letter")
	case !passwordDigit.MatchString(password):
		return errors.New("password needs a digit")
	case !passwordSpecial.MatchString(password):
		return errors.New("password needs a special character (@$!%*?&#)")
	}
	return nil
}
