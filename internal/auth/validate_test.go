package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSignup() SignupRequest {
	return SignupRequest{
		FirstName:   "Ann",
		LastName:    "Lee",
		Email:       "ann@example.com",
		PhoneNumber: "0123456789",
		Password:    "Secret#123",
	}
}

func TestValidateSignup(t *testing.T) {
	require.NoError(t, ValidateSignup(validSignup()))

	t.Run("short first name", func(t *testing.T) {
		req := validSignup()
		req.FirstName = "A"
		assert.ErrorContains(t, ValidateSignup(req), "first name")
	})

	t.Run("whitespace last name", func(t *testing.T) {
		req := validSignup()
		req.LastName = "  B "
		assert.ErrorContains(t, ValidateSignup(req), "last name")
	})

	t.Run("bad email", func(t *testing.T) {
		req := validSignup()
		req.Email = "ann@@example"
		assert.ErrorContains(t, ValidateSignup(req), "email")
	})

	t.Run("phone length and digits only", func(t *testing.T) {
		req := validSignup()
		req.PhoneNumber = "12345"
		assert.ErrorContains(t, ValidateSignup(req), "phone")

		req.PhoneNumber = "01234abc89"
		assert.ErrorContains(t, ValidateSignup(req), "phone")
	})
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		want     string
	}{
		{"too short", "Ab1#", "at least 8"},
		{"missing lowercase", "SECRET#123", "lowercase"},
		{"missing uppercase", "secret#123", "uppercase"},
		{"missing digit", "Secret#abc", "digit"},
		{"missing special", "Secret1234", "special"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorContains(t, ValidatePassword(tc.password), tc.want)
		})
	}

	assert.NoError(t, ValidatePassword("Secret#123"))
}
