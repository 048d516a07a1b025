package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/schedkeeper/internal/common"
	"github.com/dmitrijs2005/schedkeeper/internal/identity"
	"github.com/dmitrijs2005/schedkeeper/internal/logging"
)

type State int32

const (
	SignedOut State = iota
	SignedIn
)

func (s State) String() string {
	if s == SignedIn {
		return "signed-in"
	}
	return "signed-out"
}

// SessionService moves the process between SignedOut and SignedIn and
// keeps the local stores in step with the session.
type SessionService struct {
	mu       *sync.Mutex
	provider identity.Provider
	stores   Stores
	log      logging.Logger
	state    atomic.Int32
}

func NewSessionService(mu *sync.Mutex, provider identity.Provider, stores Stores, log logging.Logger) *SessionService {
	return &SessionService{mu: mu, provider: provider, stores: stores, log: log}
}

func (s *SessionService) State() State {
	return State(s.state.Load())
}

// SignIn authenticates, then replaces the cache and triggers with the
// user's remote schedules. Credential failures come back as
// *common.AuthError. If loading the schedules fails the provider is signed
// out again and the state stays SignedOut.
func (s *SessionService) SignIn(ctx context.Context, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.log.Warn(ctx, "sign-in rejected", "code", common.AuthCode(err))
		return err
	}
	return s.loadLocked(ctx, sess.UserID)
}

// CreateAccount registers a new account and signs it in. A confirmation
// that differs from password fails before the provider is contacted.
func (s *SessionService) CreateAccount(ctx context.Context, email, password, confirmation string) error {
	if password != confirmation {
		return common.ErrPasswordMismatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.provider.CreateAccount(ctx, email, password)
	if err != nil {
		s.log.Warn(ctx, "account creation rejected", "code", common.AuthCode(err))
		return err
	}
	return s.loadLocked(ctx, sess.UserID)
}

func (s *SessionService) loadLocked(ctx context.Context, userID string) error {
	list, err := s.stores.Remote.FetchAll(ctx)
	if err == nil {
		err = s.stores.replace(ctx, list)
	}
	if err != nil {
		s.state.Store(int32(SignedOut))
		s.log.Error(ctx, "failed to load schedules, signing out", "user", userID, "error", err)
		return errors.Join(err, s.stores.teardown(ctx), s.provider.SignOut(ctx))
	}

	s.state.Store(int32(SignedIn))
	s.log.Info(ctx, "session ready", "user", userID, "schedules", len(list))
	return nil
}

// Logout signs out and removes every trigger and cached schedule. The
// remote store is not touched. The state is SignedOut afterwards even if a
// local step failed.
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.provider.SignOut(ctx); err != nil {
		return err
	}
	s.state.Store(int32(SignedOut))

	if err := s.stores.teardown(ctx); err != nil {
		s.log.Error(ctx, "logout teardown incomplete", "error", err)
		return err
	}
	s.log.Info(ctx, "logged out")
	return nil
}

// MonitorSessionState reports provider session transitions until stop is
// called.
func (s *SessionService) MonitorSessionState(onSignIn func(userID string), onSignOut func()) (stop func()) {
	return s.provider.OnSessionChange(func(userID string) {
		if userID != "" {
			if onSignIn != nil {
				onSignIn(userID)
			}
			return
		}
		if onSignOut != nil {
			onSignOut()
		}
	})
}
