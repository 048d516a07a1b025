package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/schedkeeper/internal/common"
	"github.com/dmitrijs2005/schedkeeper/internal/eventbus"
	"github.com/dmitrijs2005/schedkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, opts ...Option) (*LocalProvider, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	return NewLocalProvider(repo, []byte("test-secret"), time.Hour, eventbus.New(), logging.Nop(), opts...), repo
}

func requireAuthCode(t *testing.T, err error, code string) {
	t.Helper()
	var ae *common.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, code, ae.Code)
}

func TestCreateAccountAndSignIn(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	s, err := p.CreateAccount(ctx, " A@B.com ", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, s.UserID)
	require.NotEmpty(t, s.Token)

	uid, err := p.CurrentUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.UserID, uid)

	require.NoError(t, p.SignOut(ctx))
	_, err = p.CurrentUserID(ctx)
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	s2, err := p.SignInWithPassword(ctx, "a@b.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, s.UserID, s2.UserID)
}

func TestSignIn_ErrorCodes(t *testing.T) {
	p, repo := newTestProvider(t)
	ctx := context.Background()
	_, err := p.CreateAccount(ctx, "a@b.com", "hunter22")
	require.NoError(t, err)
	require.NoError(t, p.SignOut(ctx))

	_, err = p.SignInWithPassword(ctx, "", "x")
	requireAuthCode(t, err, common.AuthMissingEmail)
	assert.Equal(t, "Please enter an email.", err.Error())

	_, err = p.SignInWithPassword(ctx, "not-an-email", "x")
	requireAuthCode(t, err, common.AuthInvalidEmail)

	_, err = p.SignInWithPassword(ctx, "nobody@b.com", "x")
	requireAuthCode(t, err, common.AuthUserNotFound)

	_, err = p.SignInWithPassword(ctx, "a@b.com", "wrong-pass")
	requireAuthCode(t, err, common.AuthWrongPassword)
	assert.Equal(t, "Invalid Email / Password.", err.Error())

	require.True(t, repo.SetDisabled("a@b.com", true))
	_, err = p.SignInWithPassword(ctx, "a@b.com", "hunter22")
	requireAuthCode(t, err, common.AuthUserDisabled)

	_, err = p.CurrentUserID(ctx)
	require.ErrorIs(t, err, common.ErrorUnauthorized, "failed sign-ins leave the provider signed out")
}

func TestCreateAccount_ErrorCodes(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	_, err := p.CreateAccount(ctx, "a@b.com", "123")
	requireAuthCode(t, err, common.AuthWeakPassword)

	_, err = p.CreateAccount(ctx, "a@b.com", "hunter22")
	require.NoError(t, err)

	_, err = p.CreateAccount(ctx, "A@b.com", "hunter22")
	requireAuthCode(t, err, common.AuthEmailAlreadyInUse)
	assert.Equal(t, "Email already used.", err.Error())
}

type brokenRepo struct{}

func (brokenRepo) Create(context.Context, *User) (*User, error)      { return nil, errors.New("db down") }
func (brokenRepo) GetByEmail(context.Context, string) (*User, error) { return nil, errors.New("db down") }

func TestBackendFailure_IsGenericAuthError(t *testing.T) {
	p := NewLocalProvider(brokenRepo{}, []byte("s"), time.Hour, eventbus.New(), logging.Nop())
	_, err := p.SignInWithPassword(context.Background(), "a@b.com", "hunter22")
	requireAuthCode(t, err, "auth/internal-error")
	assert.Equal(t, "Unknown error, please try again.", err.Error())
}

func TestCurrentUserID_ExpiredSession(t *testing.T) {
	now := time.Now()
	p, _ := newTestProvider(t, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	_, err := p.CreateAccount(ctx, "a@b.com", "hunter22")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = p.CurrentUserID(ctx)
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestOnSessionChange(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	changes := make(chan string, 4)
	stop := p.OnSessionChange(func(uid string) { changes <- uid })

	s, err := p.CreateAccount(ctx, "a@b.com", "hunter22")
	require.NoError(t, err)
	require.NoError(t, p.SignOut(ctx))
	require.NoError(t, p.SignOut(ctx))

	assert.Equal(t, s.UserID, recv(t, changes))
	assert.Equal(t, "", recv(t, changes))

	stop()
	_, err = p.SignInWithPassword(ctx, "a@b.com", "hunter22")
	require.NoError(t, err)
	select {
	case uid := <-changes:
		t.Fatalf("callback after stop: %q", uid)
	case <-time.After(50 * time.Millisecond):
	}
}

func recv(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for session change")
		return ""
	}
}
