package timers

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Recorder is an in-memory Service that only remembers registrations.
// Used for dry runs and in tests. Set FailCreate to make CreateTrigger
// return an error for specific keys.
type Recorder struct {
	mu         sync.Mutex
	triggers   map[string]Trigger
	FailCreate map[string]error
	Created    int
	Cancelled  int
}

func NewRecorder() *Recorder {
	return &Recorder{triggers: make(map[string]Trigger)}
}

func (r *Recorder) CreateTrigger(ctx context.Context, key string, firstFire time.Time, period time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.FailCreate[key]; err != nil {
		return err
	}
	r.triggers[key] = Trigger{Key: key, FirstFire: firstFire, Period: period}
	r.Created++
	return nil
}

func (r *Recorder) CancelTrigger(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.triggers[key]; ok {
		delete(r.triggers, key)
		r.Cancelled++
	}
	return nil
}

func (r *Recorder) CancelAllTriggers(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Cancelled += len(r.triggers)
	r.triggers = make(map[string]Trigger)
	return nil
}

func (r *Recorder) Keys(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.triggers))
	for k := range r.triggers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Get returns the registration for key.
func (r *Recorder) Get(key string) (Trigger, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.triggers[key]
	return t, ok
}

// Len returns the number of active registrations.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.triggers)
}
