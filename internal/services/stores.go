// Package services coordinates the local cache, the remote store and the
// recurrence scheduler. SessionService drives sign-in and sign-out;
// ScheduleService applies user edits. Both serialize on one shared mutex so
// a mutation never interleaves with a session transition.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/schedkeeper/internal/cache"
	"github.com/dmitrijs2005/schedkeeper/internal/models"
	"github.com/dmitrijs2005/schedkeeper/internal/recurrence"
	"github.com/dmitrijs2005/schedkeeper/internal/remote"
)

// Stores groups the three schedule stores.
type Stores struct {
	Cache     *cache.ScheduleCache
	Remote    *remote.Sync
	Scheduler *recurrence.Scheduler
}

// replace makes the cache and the triggers mirror list.
func (s Stores) replace(ctx context.Context, list []models.Schedule) error {
	old, err := s.Cache.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}
	for i := range old.Schedules {
		if err := s.Scheduler.Unregister(ctx, &old.Schedules[i]); err != nil {
			return err
		}
	}
	if _, err := s.Cache.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	if err := s.Cache.AddAll(ctx, list); err != nil {
		return fmt.Errorf("failed to populate cache: %w", err)
	}
	return s.Scheduler.RegisterAll(ctx, list)
}

// teardown removes every trigger and every cached schedule. Both steps run
// even if the first fails.
func (s Stores) teardown(ctx context.Context) error {
	var errs []error
	if err := s.Scheduler.UnregisterAll(ctx); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.Cache.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to clear cache: %w", err))
	}
	return errors.Join(errs...)
}
