// Package recurrence turns schedules into weekly timer registrations. It is
// the only package that creates or cancels triggers.
//
// A schedule contributes one trigger per flagged weekday. The trigger key
// is "<url> weekDay:<index>", so two schedules sharing a URL and a weekday
// share a trigger: the later registration wins and cancelling either one
// removes it.
package recurrence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/schedkeeper/internal/logging"
	"github.com/dmitrijs2005/schedkeeper/internal/models"
	"github.com/dmitrijs2005/schedkeeper/internal/timers"
	"github.com/dmitrijs2005/schedkeeper/internal/weekday"
)

// Period is the repeat interval of every trigger: 10080 minutes.
const Period = 10080 * time.Minute

// TriggerKey returns the timer key for url on weekday index i.
func TriggerKey(url string, i int) string {
	return fmt.Sprintf("%s weekDay:%d", url, i)
}

// NextOccurrence returns the next instant falling on weekday index i at tod,
// in now's location. Seconds and nanoseconds are zero.
//
// When i is today the result is today at tod even if that time has already
// passed.
func NextOccurrence(now time.Time, i int, tod models.TimeOfDay) time.Time {
	today := int(now.Weekday())
	offset := (i + weekday.DaysInWeek - today) % weekday.DaysInWeek
	d := now.AddDate(0, 0, offset)
	return time.Date(d.Year(), d.Month(), d.Day(), tod.Hour, tod.Minute, 0, 0, now.Location())
}

type Scheduler struct {
	timers timers.Service
	now    func() time.Time
	log    logging.Logger
}

// NewScheduler returns a Scheduler using svc. A nil clock means the host
// local clock.
func NewScheduler(svc timers.Service, now func() time.Time, log logging.Logger) *Scheduler {
	if now == nil {
		now = func() time.Time { return time.Now().Local() }
	}
	return &Scheduler{timers: svc, now: now, log: log}
}

// Register creates one trigger per flagged weekday of an enabled schedule.
// A disabled schedule registers nothing. Registration stops at the first
// Timer Service failure; triggers created before it are left in place.
func (s *Scheduler) Register(ctx context.Context, sc *models.Schedule) error {
	if !sc.Enabled {
		return nil
	}
	now := s.now()
	for _, i := range sc.ActiveDays() {
		key := TriggerKey(sc.URL, i)
		at := NextOccurrence(now, i, sc.Time)
		if err := s.timers.CreateTrigger(ctx, key, at, Period); err != nil {
			return fmt.Errorf("failed to create trigger %q: %w", key, err)
		}
		s.log.Debug(ctx, "trigger registered", "key", key, "first_fire", at)
	}
	return nil
}

// Unregister cancels the trigger of every flagged weekday, whether or not
// it is currently registered.
func (s *Scheduler) Unregister(ctx context.Context, sc *models.Schedule) error {
	for _, i := range sc.ActiveDays() {
		key := TriggerKey(sc.URL, i)
		if err := s.timers.CancelTrigger(ctx, key); err != nil {
			return fmt.Errorf("failed to cancel trigger %q: %w", key, err)
		}
		s.log.Debug(ctx, "trigger cancelled", "key", key)
	}
	return nil
}

// UnregisterAll cancels every trigger known to the Timer Service.
func (s *Scheduler) UnregisterAll(ctx context.Context) error {
	if err := s.timers.CancelAllTriggers(ctx); err != nil {
		return fmt.Errorf("failed to cancel all triggers: %w", err)
	}
	return nil
}

// Reconcile replaces old's triggers with updated's. There is no rollback:
// if registering updated fails, old's triggers stay cancelled.
func (s *Scheduler) Reconcile(ctx context.Context, old, updated *models.Schedule) error {
	if err := s.Unregister(ctx, old); err != nil {
		return err
	}
	return s.Register(ctx, updated)
}

// RegisterAll registers every schedule and joins the failures.
func (s *Scheduler) RegisterAll(ctx context.Context, list []models.Schedule) error {
	var errs []error
	for i := range list {
		if err := s.Register(ctx, &list[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
