// Package timers abstracts the host timer service that fires schedule
// triggers. Triggers are addressed by an opaque string key and repeat with
// a fixed period after their first fire time.
package timers

import (
	"context"
	"time"
)

// Service is the host timer facility.
//
// CreateTrigger replaces any trigger already registered under key.
// CancelTrigger is a no-op for unknown keys.
type Service interface {
	CreateTrigger(ctx context.Context, key string, firstFire time.Time, period time.Duration) error
	CancelTrigger(ctx context.Context, key string) error
	CancelAllTriggers(ctx context.Context) error
	Keys(ctx context.Context) ([]string, error)
}

// Trigger describes one registration.
type Trigger struct {
	Key       string
	FirstFire time.Time
	Period    time.Duration
}

// FireFunc is invoked with the trigger key each time a trigger fires.
type FireFunc func(key string)
