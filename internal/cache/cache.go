// Package cache is the on-device mirror of the signed-in user's schedules.
// Every schedule is stored as flat JSON under its id in an injected
// kv.Repository; the repository may hold unrelated keys, which reads skip.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/schedkeeper/internal/common"
	"github.com/dmitrijs2005/schedkeeper/internal/logging"
	"github.com/dmitrijs2005/schedkeeper/internal/models"
	"github.com/dmitrijs2005/schedkeeper/internal/repositories/kv"
	"github.com/dmitrijs2005/schedkeeper/internal/weekday"
	"github.com/google/uuid"
)

// Listing is the lenient result of a full scan.
type Listing struct {
	// Schedules are sorted by time of day, earliest first.
	Schedules []models.Schedule
	// Skipped holds the keys whose payload is not a schedule.
	Skipped []string
}

// ClearResult reports what Clear removed.
type ClearResult struct {
	Deleted int
	Skipped []string
}

type ScheduleCache struct {
	repo kv.Repository
	log  logging.Logger
}

func New(repo kv.Repository, log logging.Logger) *ScheduleCache {
	return &ScheduleCache{repo: repo, log: log}
}

// Add stores s and returns its id. An empty id is replaced by a fresh
// uuid, written back onto s.
func (c *ScheduleCache) Add(ctx context.Context, s *models.Schedule) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	b, err := models.Encode(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode schedule %s: %w", s.ID, err)
	}
	if err := c.repo.Set(ctx, s.ID, b); err != nil {
		return "", err
	}
	return s.ID, nil
}

// AddAll stores every schedule in one write. Nothing is written if any of
// them is malformed.
func (c *ScheduleCache) AddAll(ctx context.Context, list []models.Schedule) error {
	values := make(map[string][]byte, len(list))
	for i := range list {
		s := &list[i]
		if err := s.Validate(); err != nil {
			return err
		}
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		b, err := models.Encode(s)
		if err != nil {
			return fmt.Errorf("failed to encode schedule %s: %w", s.ID, err)
		}
		values[s.ID] = b
	}
	if len(values) == 0 {
		return nil
	}
	return c.repo.SetMany(ctx, values)
}

// Get returns the schedule stored under id. A missing key and a payload that
// is not a schedule both yield ErrorNotFound.
func (c *ScheduleCache) Get(ctx context.Context, id string) (*models.Schedule, error) {
	b, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("schedule %s: %w", id, common.ErrorNotFound)
	}
	s, err := models.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("schedule %s: %w", id, common.ErrorNotFound)
	}
	s.ID = id
	return s, nil
}

// GetAll returns every valid schedule ordered by time of day. Each ID is
// the key the entry is stored under.
func (c *ScheduleCache) GetAll(ctx context.Context) (Listing, error) {
	entries, err := c.repo.List(ctx)
	if err != nil {
		return Listing{}, err
	}

	var l Listing
	for key, b := range entries {
		s, err := models.Decode(b)
		if err != nil {
			l.Skipped = append(l.Skipped, key)
			continue
		}
		// the storage key is the address Get, Edit and Delete use
		s.ID = key
		l.Schedules = append(l.Schedules, *s)
	}
	sort.SliceStable(l.Schedules, func(i, j int) bool {
		return l.Schedules[i].Time.Before(l.Schedules[j].Time)
	})
	sort.Strings(l.Skipped)

	if len(l.Skipped) > 0 {
		c.log.Debug(ctx, "skipped foreign cache entries", "count", len(l.Skipped))
	}
	return l, nil
}

// GetAllForWeekDay narrows GetAll to schedules flagged on the named day.
func (c *ScheduleCache) GetAllForWeekDay(ctx context.Context, name string) (Listing, error) {
	i, err := weekday.NameToIndex(name)
	if err != nil {
		return Listing{}, err
	}
	all, err := c.GetAll(ctx)
	if err != nil {
		return Listing{}, err
	}

	out := Listing{Skipped: all.Skipped}
	for _, s := range all.Schedules {
		if s.ActiveOn(i) {
			out.Schedules = append(out.Schedules, s)
		}
	}
	return out, nil
}

func (c *ScheduleCache) Delete(ctx context.Context, id string) error {
	if _, err := c.Get(ctx, id); err != nil {
		return err
	}
	return c.repo.Delete(ctx, id)
}

// Edit overwrites the schedule stored under s.ID.
func (c *ScheduleCache) Edit(ctx context.Context, s *models.Schedule) error {
	if s == nil {
		return fmt.Errorf("%w: nil schedule", common.ErrTypeMismatch)
	}
	if _, err := c.Get(ctx, s.ID); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	b, err := models.Encode(s)
	if err != nil {
		return fmt.Errorf("failed to encode schedule %s: %w", s.ID, err)
	}
	return c.repo.Set(ctx, s.ID, b)
}

// Toggle flips Enabled and returns the stored result.
func (c *ScheduleCache) Toggle(ctx context.Context, id string) (*models.Schedule, error) {
	s, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Enabled = !s.Enabled
	if err := c.Edit(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Clear deletes every schedule entry. Keys that do not hold a schedule are
// left in place and reported as skipped; a storage failure stops the sweep.
func (c *ScheduleCache) Clear(ctx context.Context) (ClearResult, error) {
	entries, err := c.repo.List(ctx)
	if err != nil {
		return ClearResult{}, err
	}

	var res ClearResult
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		err := c.Delete(ctx, key)
		switch {
		case errors.Is(err, common.ErrorNotFound):
			res.Skipped = append(res.Skipped, key)
		case err != nil:
			return res, err
		default:
			res.Deleted++
		}
	}
	return res, nil
}
