package identity

import (
	"context"
	"errors"
)

// ErrDuplicateEmail is returned by Repository.Create when the email is taken.
var ErrDuplicateEmail = errors.New("email already registered")

type User struct {
	ID           string
	Email        string
	Salt         []byte
	PasswordHash []byte
	Disabled     bool
}

// Repository stores provider accounts. GetByEmail returns
// common.ErrorNotFound for unknown emails.
type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
