// Package identity authenticates users. Provider is the contract the
// session layer depends on; LocalProvider implements it with an account
// repository, argon2id password hashes and HS256 session tokens.
package identity

import (
	"context"
	"time"
)

// Session is the result of a successful sign-in or account creation.
type Session struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

// SessionChangeFunc receives the user id on sign-in and "" on sign-out.
type SessionChangeFunc func(userID string)

// Provider is an identity provider. Credential failures are returned as
// *common.AuthError.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (Session, error)
	CreateAccount(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context) error
	CurrentUserID(ctx context.Context) (string, error)
	// OnSessionChange calls fn for every transition until stop is called.
	// stop waits for fn to return, so fn must not call it.
	OnSessionChange(fn SessionChangeFunc) (stop func())
}
