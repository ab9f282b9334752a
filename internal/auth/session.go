package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/hudo-ng/ShoppingList/internal/credential"
)

// Session is an authenticated user session. The token is never validated
// locally; DisplayName is decoded from its claims for greeting purposes
// only.
type Session struct {
	Token       string
	DisplayName string
}

// Authenticator owns the session lifecycle: exchanging credentials for a
// token, stashing it in the system keyring, and restoring it on startup.
type Authenticator struct {
	client *Client
	log    zerolog.Logger

	// Keyring access, swappable in tests.
	getCred func(key string) (string, error)
	setCred func(key, value string) error
	delCred func(key string) error
}

// NewAuthenticator creates an authenticator backed by the given API
// client and the system keyring.
func NewAuthenticator(client *Client, log zerolog.Logger) *Authenticator {
	return &Authenticator{
		client:  client,
		log:     log,
		getCred: credential.Get,
		setCred: credential.Set,
		delCred: credential.Delete,
	}
}

// Login signs in with email/password and persists the returned token.
func (a *Authenticator) Login(ctx context.Context, creds Credentials) (*Session, error) {
	token, err := a.client.SignIn(ctx, creds)
	if err != nil {
		return nil, err
	}
	return a.adopt(token)
}

// Signup registers a new account and persists the returned token.
func (a *Authenticator) Signup(ctx context.Context, req SignupRequest) (*Session, error) {
	token, err := a.client.SignUp(ctx, req)
	if err != nil {
		return nil, err
	}
	return a.adopt(token)
}

// Logout discards the stored token.
func (a *Authenticator) Logout() error {
	if err := a.delCred(credential.TokenKey); err != nil {
		return fmt.Errorf("removing stored token: %w", err)
	}
	return nil
}

// Restore rebuilds the session from the stored token. A missing token or
// one whose claims cannot be decoded means logged out; an undecodable
// token is also removed so the next start is clean.
func (a *Authenticator) Restore() *Session {
	token, err := a.getCred(credential.TokenKey)
	if err != nil || token == "" {
		return nil
	}

	name, err := DisplayNameFromToken(token)
	if err != nil {
		a.log.Warn().Err(err).Msg("stored token is not decodable, discarding")
		if delErr := a.delCred(credential.TokenKey); delErr != nil {
			a.log.Debug().Err(delErr).Msg("removing stale token")
		}
		return nil
	}

	return &Session{Token: token, DisplayName: name}
}

// adopt stores the token and builds the session around it.
func (a *Authenticator) adopt(token string) (*Session, error) {
	if err := a.setCred(credential.TokenKey, token); err != nil {
		return nil, fmt.Errorf("storing token: %w", err)
	}

	name, err := DisplayNameFromToken(token)
	if err != nil {
		// A token whose claims cannot be decoded means logged out, even
		// when the server just issued it.
		if delErr := a.delCred(credential.TokenKey); delErr != nil {
			a.log.Debug().Err(delErr).Msg("removing undecodable token")
		}
		return nil, fmt.Errorf("decoding token: %w", err)
	}

	return &Session{Token: token, DisplayName: name}, nil
}

// DisplayNameFromToken decodes the token payload without verifying the
// signature (the server owns validation) and picks a display name from
// its claims, preferring firstName, then name, then email.
func DisplayNameFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("decoding token claims: %w", err)
	}

	for _, key := range []string{"firstName", "name", "email"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v, nil
		}
	}
	return "", nil
}
