package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/schedkeeper/internal/common"
	"github.com/google/uuid"
)

// MemoryRepository keeps accounts in process memory. Emails are compared
// case-insensitively.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[string]User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]User)}
}

func (r *MemoryRepository) Create(_ context.Context, u *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, ok := r.users[key]; ok {
		return nil, ErrDuplicateEmail
	}
	u.ID = uuid.NewString()
	r.users[key] = *u
	return u, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

// SetDisabled flips the disabled flag of an existing account.
func (r *MemoryRepository) SetDisabled(email string, disabled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(email)
	u, ok := r.users[key]
	if ok {
		u.Disabled = disabled
		r.users[key] = u
	}
	return ok
}
