// Package app wires the configured backends into the session and schedule
// services and owns their lifetime.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/schedkeeper/internal/cache"
	"github.com/dmitrijs2005/schedkeeper/internal/config"
	"github.com/dmitrijs2005/schedkeeper/internal/eventbus"
	"github.com/dmitrijs2005/schedkeeper/internal/identity"
	"github.com/dmitrijs2005/schedkeeper/internal/logging"
	"github.com/dmitrijs2005/schedkeeper/internal/recurrence"
	"github.com/dmitrijs2005/schedkeeper/internal/remote"
	"github.com/dmitrijs2005/schedkeeper/internal/services"
	"github.com/dmitrijs2005/schedkeeper/internal/timers"
)

type App struct {
	config *config.Config
	logger logging.Logger
	bus    eventbus.Bus
	cron   *timers.CronService

	Session   *services.SessionService
	Schedules *services.ScheduleService

	pg      *sql.DB
	closers []func() error
}

// NewApp opens the configured cache, remote store and account backends and
// builds the services on top of them. Logs go to out. On error everything
// opened so far is closed again.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (_ *App, err error) {
	app := &App{
		config: c,
		logger: logging.New(out, c.LogFormat, c.LogLevel),
		bus:    eventbus.New(),
	}
	defer func() {
		if err != nil {
			_ = app.closeAll()
		}
	}()

	kvRepo, err := app.openCache(ctx)
	if err != nil {
		return nil, fmt.Errorf("cache init error: %w", err)
	}
	store, err := app.openRemote(ctx)
	if err != nil {
		return nil, fmt.Errorf("remote store init error: %w", err)
	}
	users, err := app.openUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("identity init error: %w", err)
	}

	app.cron = timers.NewCronService(app.onFire, app.logger.With("component", "timers"))
	provider := identity.NewLocalProvider(users, []byte(c.SecretKey), c.SessionTTL, app.bus,
		app.logger.With("component", "identity"))

	stores := services.Stores{
		Cache:     cache.New(kvRepo, app.logger.With("component", "cache")),
		Remote:    remote.NewSync(store, provider, app.logger.With("component", "remote")),
		Scheduler: recurrence.NewScheduler(app.cron, nil, app.logger.With("component", "scheduler")),
	}

	var mu sync.Mutex
	app.Session = services.NewSessionService(&mu, provider, stores, app.logger)
	app.Schedules = services.NewScheduleService(&mu, stores, nil, app.logger)

	app.logger.Info(ctx, "app ready",
		"cache", c.CacheDriver, "remote", c.RemoteDriver, "identity", c.IdentityDriver)
	return app, nil
}

func (app *App) Logger() logging.Logger {
	return app.logger
}

// onFire is the timer engine callback.
func (app *App) onFire(key string) {
	app.logger.Info(context.Background(), "reminder due", "trigger", key)
	app.bus.Publish(eventbus.Event{Type: eventbus.TriggerFired, Data: key})
}

// Triggers streams the keys of fired triggers until unsubscribe is called.
func (app *App) Triggers(buffer int) (<-chan string, func()) {
	events, unsubscribeBus := app.bus.Subscribe(buffer)
	out := make(chan string, buffer)
	done := make(chan struct{})
	go func() {
		defer close(out)
		for e := range events {
			if e.Type != eventbus.TriggerFired {
				continue
			}
			select {
			case out <- e.Data:
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return out, func() {
		once.Do(func() {
			close(done)
			unsubscribeBus()
		})
	}
}

// Start runs the timer engine. Triggers already registered begin firing.
func (app *App) Start() {
	app.cron.Start()
}

// Close stops the timer engine, waits for running callbacks up to ctx, and
// closes the backends. The session is left as it is.
func (app *App) Close(ctx context.Context) error {
	var errs []error
	select {
	case <-app.cron.Stop().Done():
	case <-ctx.Done():
		errs = append(errs, fmt.Errorf("timer shutdown: %w", ctx.Err()))
	}
	if err := app.closeAll(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (app *App) closeAll() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil
	return errors.Join(errs...)
}
