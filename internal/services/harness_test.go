package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/schedkeeper/internal/cache"
	"github.com/dmitrijs2005/schedkeeper/internal/eventbus"
	"github.com/dmitrijs2005/schedkeeper/internal/identity"
	"github.com/dmitrijs2005/schedkeeper/internal/logging"
	"github.com/dmitrijs2005/schedkeeper/internal/models"
	"github.com/dmitrijs2005/schedkeeper/internal/recurrence"
	"github.com/dmitrijs2005/schedkeeper/internal/remote"
	"github.com/dmitrijs2005/schedkeeper/internal/repositories/kv"
	"github.com/dmitrijs2005/schedkeeper/internal/timers"
	"github.com/stretchr/testify/require"
)

// 2024-01-03 was a Wednesday.
var wednesday = time.Date(2024, 1, 3, 10, 0, 0, 0, time.Local)

type harness struct {
	provider  *identity.LocalProvider
	users     *identity.MemoryRepository
	store     *remote.MemoryStore
	kv        *kv.MemoryRepository
	timers    *timers.Recorder
	session   *SessionService
	schedules *ScheduleService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := logging.Nop()
	clock := func() time.Time { return wednesday }

	h := &harness{
		users:  identity.NewMemoryRepository(),
		store:  remote.NewMemoryStore(),
		kv:     kv.NewMemoryRepository(),
		timers: timers.NewRecorder(),
	}
	h.provider = identity.NewLocalProvider(h.users, []byte("secret"), 24*time.Hour, eventbus.New(), log)

	stores := Stores{
		Cache:     cache.New(h.kv, log),
		Remote:    remote.NewSync(h.store, h.provider, log),
		Scheduler: recurrence.NewScheduler(h.timers, clock, log),
	}
	var mu sync.Mutex
	h.session = NewSessionService(&mu, h.provider, stores, log)
	h.schedules = NewScheduleService(&mu, stores, clock, log)
	return h
}

// signUp creates an account through the session service.
func (h *harness) signUp(t *testing.T, email string) {
	t.Helper()
	require.NoError(t, h.session.CreateAccount(context.Background(), email, "hunter22", "hunter22"))
}

func newSchedule(url string, h, m int, days ...int) *models.Schedule {
	d := make([]int, 7)
	for _, i := range days {
		d[i] = 1
	}
	return &models.Schedule{
		Name:    "reminder",
		URL:     url,
		Time:    models.TimeOfDay{Hour: h, Minute: m},
		Days:    d,
		Enabled: true,
	}
}

func (h *harness) keys(t *testing.T) []string {
	t.Helper()
	keys, err := h.timers.Keys(context.Background())
	require.NoError(t, err)
	return keys
}
