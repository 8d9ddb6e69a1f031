// Package auth is the gateway to the identity provider: sign-up, sign-in and sign-out,
// and verification of the bearer tokens it issues.
package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrRejected           = errors.New("rejected by identity provider")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnavailable        = errors.New("identity provider unavailable")
)

// Identity is the authenticated user as known to the provider. Its ID is also the profile ID.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Session is the result of a successful sign-up or sign-in.
// AccessToken is empty when the provider requires email confirmation first.
type Session struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int // seconds
	User        Identity
}

// Provider is implemented by the local credential store and by Supabase GoTrue.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
}
