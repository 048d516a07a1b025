package recurrence

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/schedkeeper/internal/models"
	mapset "github.com/deckarep/golang-set/v2"
)

// Drift lists differences between the triggers a set of schedules implies
// and those the Timer Service actually holds.
type Drift struct {
	// Missing keys are implied by the schedules but not registered.
	Missing []string
	// Stale keys are registered but no schedule implies them.
	Stale []string
}

func (d Drift) Empty() bool {
	return len(d.Missing) == 0 && len(d.Stale) == 0
}

// ExpectedKeys returns the trigger keys of every enabled schedule.
func ExpectedKeys(list []models.Schedule) mapset.Set[string] {
	keys := mapset.NewThreadUnsafeSet[string]()
	for i := range list {
		if !list[i].Enabled {
			continue
		}
		for _, d := range list[i].ActiveDays() {
			keys.Add(TriggerKey(list[i].URL, d))
		}
	}
	return keys
}

// Drift compares list against the Timer Service. It changes nothing.
func (s *Scheduler) Drift(ctx context.Context, list []models.Schedule) (Drift, error) {
	registered, err := s.timers.Keys(ctx)
	if err != nil {
		return Drift{}, fmt.Errorf("failed to list triggers: %w", err)
	}
	have := mapset.NewThreadUnsafeSet(registered...)
	want := ExpectedKeys(list)

	d := Drift{
		Missing: want.Difference(have).ToSlice(),
		Stale:   have.Difference(want).ToSlice(),
	}
	sort.Strings(d.Missing)
	sort.Strings(d.Stale)
	return d, nil
}
