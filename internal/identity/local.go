package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/schedkeeper/internal/common"
	"github.com/dmitrijs2005/schedkeeper/internal/cryptox"
	"github.com/dmitrijs2005/schedkeeper/internal/eventbus"
	"github.com/dmitrijs2005/schedkeeper/internal/logging"
	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest password CreateAccount accepts.
const MinPasswordLength = 6

const sessionEventBuffer = 16

// codeInternal has no entry in the message table and renders as the
// generic fallback.
const codeInternal = "auth/internal-error"

var validate = validator.New()

// LocalProvider keeps one session per process.
type LocalProvider struct {
	repo   Repository
	secret []byte
	ttl    time.Duration
	bus    eventbus.Bus
	now    func() time.Time
	log    logging.Logger

	mu    sync.Mutex
	token string
}

type Option func(*LocalProvider)

func WithClock(now func() time.Time) Option {
	return func(p *LocalProvider) { p.now = now }
}

func NewLocalProvider(repo Repository, secret []byte, ttl time.Duration, bus eventbus.Bus, log logging.Logger, opts ...Option) *LocalProvider {
	p := &LocalProvider{
		repo:   repo,
		secret: secret,
		ttl:    ttl,
		bus:    bus,
		now:    time.Now,
		log:    log,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func checkEmail(email string) error {
	if email == "" {
		return common.NewAuthError(common.AuthMissingEmail)
	}
	if err := validate.Var(email, "email"); err != nil {
		return common.NewAuthError(common.AuthInvalidEmail)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *LocalProvider) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if err := checkEmail(email); err != nil {
		return Session{}, err
	}

	u, err := p.repo.GetByEmail(ctx, email)
	if errors.Is(err, common.ErrorNotFound) {
		return Session{}, common.NewAuthError(common.AuthUserNotFound)
	}
	if err != nil {
		p.log.Error(ctx, "account lookup failed", "error", err)
		return Session{}, common.NewAuthError(codeInternal)
	}
	if u.Disabled {
		return Session{}, common.NewAuthError(common.AuthUserDisabled)
	}
	if !cryptox.VerifyPassword([]byte(password), u.Salt, u.PasswordHash) {
		return Session{}, common.NewAuthError(common.AuthWrongPassword)
	}

	return p.startSession(ctx, u.ID)
}

// CreateAccount registers email and signs the new account in.
func (p *LocalProvider) CreateAccount(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if err := checkEmail(email); err != nil {
		return Session{}, err
	}
	if len(password) < MinPasswordLength {
		return Session{}, common.NewAuthError(common.AuthWeakPassword)
	}

	salt, err := cryptox.NewSalt()
	if err != nil {
		p.log.Error(ctx, "salt generation failed", "error", err)
		return Session{}, common.NewAuthError(codeInternal)
	}
	u, err := p.repo.Create(ctx, &User{
		Email:        email,
		Salt:         salt,
		PasswordHash: cryptox.HashPassword([]byte(password), salt),
	})
	if errors.Is(err, ErrDuplicateEmail) {
		return Session{}, common.NewAuthError(common.AuthEmailAlreadyInUse)
	}
	if err != nil {
		p.log.Error(ctx, "account creation failed", "error", err)
		return Session{}, common.NewAuthError(codeInternal)
	}

	return p.startSession(ctx, u.ID)
}

func (p *LocalProvider) startSession(ctx context.Context, userID string) (Session, error) {
	now := p.now()
	token, err := GenerateToken(userID, p.secret, now, p.ttl)
	if err != nil {
		p.log.Error(ctx, "token signing failed", "error", err)
		return Session{}, common.NewAuthError(codeInternal)
	}

	p.mu.Lock()
	p.token = token
	p.mu.Unlock()

	p.bus.Publish(eventbus.Event{Type: eventbus.SessionSignedIn, Data: userID})
	p.log.Info(ctx, "signed in", "user", userID)
	return Session{UserID: userID, Token: token, ExpiresAt: now.Add(p.ttl)}, nil
}

// SignOut drops the current session. Signing out while signed out is a
// no-op and publishes nothing.
func (p *LocalProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	had := p.token != ""
	p.token = ""
	p.mu.Unlock()

	if had {
		p.bus.Publish(eventbus.Event{Type: eventbus.SessionSignedOut})
		p.log.Info(ctx, "signed out")
	}
	return nil
}

// CurrentUserID returns common.ErrorUnauthorized when there is no session
// or its token no longer validates.
func (p *LocalProvider) CurrentUserID(ctx context.Context) (string, error) {
	p.mu.Lock()
	token := p.token
	p.mu.Unlock()

	if token == "" {
		return "", common.ErrorUnauthorized
	}
	uid, err := UserIDFromToken(token, p.secret, p.now())
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	return uid, nil
}

func (p *LocalProvider) OnSessionChange(fn SessionChangeFunc) func() {
	ch, unsub := p.bus.Subscribe(sessionEventBuffer)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range ch {
			switch e.Type {
			case eventbus.SessionSignedIn:
				fn(e.Data)
			case eventbus.SessionSignedOut:
				fn("")
			}
		}
	}()
	return func() {
		unsub()
		<-done
	}
}
