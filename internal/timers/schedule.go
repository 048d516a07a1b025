package timers

import "time"

// weeklySchedule is a cron.Schedule that fires at first and then every
// period. If first has already passed when the engine first asks for a run
// time, the trigger fires once right away and then continues on the grid
// anchored at first.
type weeklySchedule struct {
	first   time.Time
	period  time.Duration
	started bool
}

func newWeeklySchedule(first time.Time, period time.Duration) *weeklySchedule {
	return &weeklySchedule{first: first, period: period}
}

// Next is only called from the cron goroutine, or under the engine lock
// while the engine is stopped.
func (s *weeklySchedule) Next(t time.Time) time.Time {
	if !s.started {
		s.started = true
		if s.first.Before(t) {
			return t
		}
		return s.first
	}
	if t.Before(s.first) {
		return s.first
	}
	n := t.Sub(s.first)/s.period + 1
	return s.first.Add(n * s.period)
}
