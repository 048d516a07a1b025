// Package migrations applies the embedded goose migrations for the local
// cache database and the remote PostgreSQL database.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/schedkeeper/internal/migrations/cache"
	"github.com/dmitrijs2005/schedkeeper/internal/migrations/remote"
	"github.com/pressly/goose/v3"
)

// RunCache migrates a SQLite cache database.
func RunCache(ctx context.Context, db *sql.DB) error {
	return run(ctx, db, goose.DialectSQLite3, cache.Migrations)
}

// RunRemote migrates the PostgreSQL documents and users schema.
func RunRemote(ctx context.Context, db *sql.DB) error {
	return run(ctx, db, goose.DialectPostgres, remote.Migrations)
}

func run(ctx context.Context, db *sql.DB, dialect goose.Dialect, fsys fs.FS) error {
	p, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
