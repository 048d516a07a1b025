package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/schedkeeper/internal/cache"
	"github.com/dmitrijs2005/schedkeeper/internal/common"
	"github.com/dmitrijs2005/schedkeeper/internal/logging"
	"github.com/dmitrijs2005/schedkeeper/internal/models"
	"github.com/dmitrijs2005/schedkeeper/internal/recurrence"
	"github.com/dmitrijs2005/schedkeeper/internal/remote"
	"github.com/dmitrijs2005/schedkeeper/internal/weekday"
)

// ScheduleService applies user mutations to the remote store first, then
// the cache, then the triggers. A failure stops the sequence; stores
// already written are not rolled back.
type ScheduleService struct {
	mu     *sync.Mutex
	stores Stores
	now    func() time.Time
	log    logging.Logger
}

func NewScheduleService(mu *sync.Mutex, stores Stores, now func() time.Time, log logging.Logger) *ScheduleService {
	if now == nil {
		now = time.Now
	}
	return &ScheduleService{mu: mu, stores: stores, now: now, log: log}
}

// Create stores a new schedule for the signed-in user and registers its
// triggers. The returned copy carries the remote id and owner.
func (s *ScheduleService) Create(ctx context.Context, sc *models.Schedule) (*models.Schedule, error) {
	if sc == nil {
		return nil, fmt.Errorf("%w: nil schedule", common.ErrTypeMismatch)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := sc.Clone()
	c.ID = ""
	id, err := s.stores.Remote.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id

	if _, err := s.stores.Cache.Add(ctx, c); err != nil {
		return nil, fmt.Errorf("schedule %s created remotely but not cached: %w", id, err)
	}
	if err := s.stores.Scheduler.Register(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "schedule created", "id", id, "days", c.ActiveDays())
	return c, nil
}

// Edit replaces the schedule with sc.ID. The owner cannot change.
func (s *ScheduleService) Edit(ctx context.Context, sc *models.Schedule) (*models.Schedule, error) {
	if sc == nil {
		return nil, fmt.Errorf("%w: nil schedule", common.ErrTypeMismatch)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.stores.Cache.Get(ctx, sc.ID)
	if err != nil {
		return nil, err
	}
	updated := sc.Clone()
	updated.OwnerID = old.OwnerID

	if err := s.stores.Remote.Update(ctx, updated); err != nil {
		return nil, err
	}
	if err := s.stores.Cache.Edit(ctx, updated); err != nil {
		return nil, err
	}
	if err := s.stores.Scheduler.Reconcile(ctx, old, updated); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "schedule edited", "id", updated.ID)
	return updated, nil
}

// Delete removes the schedule everywhere. A document already missing from
// the remote store does not stop the local cleanup.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.stores.Cache.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.stores.Remote.Delete(ctx, id); err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		s.log.Warn(ctx, "schedule already gone remotely", "id", id)
	}
	if err := s.stores.Scheduler.Unregister(ctx, old); err != nil {
		return err
	}
	if err := s.stores.Cache.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "schedule deleted", "id", id)
	return nil
}

// Toggle flips Enabled and registers or cancels the triggers to match.
func (s *ScheduleService) Toggle(ctx context.Context, id string) (*models.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.stores.Cache.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	flipped := old.Clone()
	flipped.Enabled = !old.Enabled
	if err := s.stores.Remote.Update(ctx, flipped); err != nil {
		return nil, err
	}

	updated, err := s.stores.Cache.Toggle(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated.Enabled {
		err = s.stores.Scheduler.Register(ctx, updated)
	} else {
		err = s.stores.Scheduler.Unregister(ctx, updated)
	}
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "schedule toggled", "id", id, "enabled", updated.Enabled)
	return updated, nil
}

// DeleteAll removes the user's remote schedules one by one, then reloads
// the cache and triggers from whatever remains remotely.
func (s *ScheduleService) DeleteAll(ctx context.Context) (remote.BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.stores.Remote.DeleteAllForOwner(ctx)
	if err != nil {
		return res, err
	}
	left, err := s.stores.Remote.FetchAll(ctx)
	if err != nil {
		return res, err
	}
	return res, s.stores.replace(ctx, left)
}

// Resync reloads the cache and triggers from the remote store.
func (s *ScheduleService) Resync(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.stores.Remote.FetchAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(list), s.stores.replace(ctx, list)
}

func (s *ScheduleService) List(ctx context.Context) (cache.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stores.Cache.GetAll(ctx)
}

func (s *ScheduleService) ListForWeekDay(ctx context.Context, name string) (cache.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stores.Cache.GetAllForWeekDay(ctx, name)
}

// Today lists the schedules flagged for the current host-local weekday.
func (s *ScheduleService) Today(ctx context.Context) (cache.Listing, error) {
	return s.ListForWeekDay(ctx, weekday.Current(s.now))
}

// Check compares the cached schedules with the registered triggers.
func (s *ScheduleService) Check(ctx context.Context) (recurrence.Drift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.stores.Cache.GetAll(ctx)
	if err != nil {
		return recurrence.Drift{}, err
	}
	return s.stores.Scheduler.Drift(ctx, l.Schedules)
}
