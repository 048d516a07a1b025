package timers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/schedkeeper/internal/logging"
	"github.com/robfig/cron/v3"
)

// CronService implements Service on a robfig/cron engine.
type CronService struct {
	mu      sync.Mutex
	c       *cron.Cron
	entries map[string]cron.EntryID
	fire    FireFunc
	log     logging.Logger
}

type Option func(*CronService)

// WithLocation sets the engine location; the default is time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *CronService) { s.c = cron.New(cron.WithLocation(loc)) }
}

func NewCronService(fire FireFunc, log logging.Logger, opts ...Option) *CronService {
	s := &CronService{
		c:       cron.New(cron.WithLocation(time.Local)),
		entries: make(map[string]cron.EntryID),
		fire:    fire,
		log:     log,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start runs the engine in its own goroutine.
func (s *CronService) Start() {
	s.c.Start()
}

// Stop halts the engine and returns a context that is done once running
// jobs have finished. Registrations are kept.
func (s *CronService) Stop() context.Context {
	return s.c.Stop()
}

func (s *CronService) CreateTrigger(ctx context.Context, key string, firstFire time.Time, period time.Duration) error {
	if key == "" {
		return errors.New("trigger key is empty")
	}
	if period <= 0 {
		return fmt.Errorf("trigger %q: period must be positive, got %s", key, period)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[key]; ok {
		s.c.Remove(id)
	}
	sched := newWeeklySchedule(firstFire, period)
	s.entries[key] = s.c.Schedule(sched, cron.FuncJob(func() {
		s.log.Debug(context.Background(), "trigger fired", "key", key)
		if s.fire != nil {
			s.fire(key)
		}
	}))
	return nil
}

func (s *CronService) CancelTrigger(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[key]; ok {
		s.c.Remove(id)
		delete(s.entries, key)
	}
	return nil
}

func (s *CronService) CancelAllTriggers(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, id := range s.entries {
		s.c.Remove(id)
		delete(s.entries, key)
	}
	return nil
}

func (s *CronService) Keys(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// NextFire reports when the trigger registered under key fires next. The
// time is zero until the engine has been started.
func (s *CronService) NextFire(key string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.entries[key]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return s.c.Entry(id).Next, true
}
