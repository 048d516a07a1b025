package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/schedkeeper/internal/app"
	"github.com/dmitrijs2005/schedkeeper/internal/config"
	"github.com/dmitrijs2005/schedkeeper/internal/flagx"
	"github.com/dmitrijs2005/schedkeeper/internal/prompt"
)

const shutdownTimeout = 5 * time.Second

func signUpRequested(args []string) bool {
	fs := flag.NewFlagSet("agent", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	signUp := fs.Bool("signup", false, "create an account instead of signing in")
	_ = fs.Parse(flagx.FilterArgs(args, []string{"-signup", "--signup"}))
	return *signUp
}

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	a, err := app.NewApp(ctx, cfg, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := run(ctx, a, signUpRequested(os.Args[1:])); err != nil {
		log.Printf("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Close(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func run(ctx context.Context, a *app.App, signUp bool) error {
	logger := a.Logger()
	p := prompt.New(os.Stdin, int(os.Stdin.Fd()), os.Stdout)

	creds, err := p.Credentials(signUp)
	if err != nil {
		return err
	}
	if signUp {
		err = a.Session.CreateAccount(ctx, creds.Email, creds.Password, creds.Confirmation)
	} else {
		err = a.Session.SignIn(ctx, creds.Email, creds.Password)
	}
	if err != nil {
		return err
	}

	today, err := a.Schedules.Today(ctx)
	if err != nil {
		return err
	}
	for _, s := range today.Schedules {
		state := "on"
		if !s.Enabled {
			state = "off"
		}
		fmt.Printf("%s  %-20s %s (%s)\n", s.Time, s.Name, s.URL, state)
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stopMonitor := a.Session.MonitorSessionState(
		func(userID string) { logger.Info(ctx, "session started", "user", userID) },
		func() {
			logger.Info(ctx, "session ended")
			cancel()
		},
	)
	defer stopMonitor()

	keys, unsubscribe := a.Triggers(16)
	defer unsubscribe()

	a.Start()
	logger.Info(ctx, "waiting for reminders", "today", len(today.Schedules))

	for {
		select {
		case <-ctx.Done():
			return nil
		case k, ok := <-keys:
			if !ok {
				return nil
			}
			fmt.Printf("reminder: %s\n", k)
		}
	}
}
