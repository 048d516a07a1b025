package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/schedkeeper/internal/config"
	"github.com/dmitrijs2005/schedkeeper/internal/filex"
	"github.com/dmitrijs2005/schedkeeper/internal/identity"
	"github.com/dmitrijs2005/schedkeeper/internal/migrations"
	"github.com/dmitrijs2005/schedkeeper/internal/remote"
	"github.com/dmitrijs2005/schedkeeper/internal/remote/pgstore"
	"github.com/dmitrijs2005/schedkeeper/internal/remote/s3store"
	"github.com/dmitrijs2005/schedkeeper/internal/repositories/kv"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

func (app *App) openCache(ctx context.Context) (kv.Repository, error) {
	switch app.config.CacheDriver {
	case config.DriverMemory:
		return kv.NewMemoryRepository(), nil

	case config.DriverSQLite:
		if err := filex.EnsureParentDir(app.config.CachePath); err != nil {
			return nil, err
		}
		db, err := sql.Open("sqlite", app.config.CachePath)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		app.closers = append(app.closers, db.Close)
		if err := migrations.RunCache(ctx, db); err != nil {
			return nil, err
		}
		return kv.NewSQLiteRepository(db), nil

	case config.DriverRedis:
		rdb := redis.NewClient(&redis.Options{Addr: app.config.RedisAddr})
		app.closers = append(app.closers, rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis error: %w", err)
		}
		return kv.NewRedisRepository(rdb, app.config.RedisPrefix), nil
	}
	return nil, fmt.Errorf("unknown cache driver %q", app.config.CacheDriver)
}

func (app *App) openRemote(ctx context.Context) (remote.Store, error) {
	switch app.config.RemoteDriver {
	case config.DriverMemory:
		return remote.NewMemoryStore(), nil

	case config.DriverPostgres:
		db, err := app.postgres(ctx)
		if err != nil {
			return nil, err
		}
		return pgstore.New(db), nil

	case config.DriverS3:
		s, err := s3store.New(ctx, s3store.Config{
			Bucket:       app.config.S3Bucket,
			Region:       app.config.S3Region,
			BaseEndpoint: app.config.S3BaseEndpoint,
			AccessKey:    app.config.S3AccessKey,
			SecretKey:    app.config.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown remote driver %q", app.config.RemoteDriver)
}

func (app *App) openUsers(ctx context.Context) (identity.Repository, error) {
	switch app.config.IdentityDriver {
	case config.DriverMemory:
		return identity.NewMemoryRepository(), nil

	case config.DriverPostgres:
		db, err := app.postgres(ctx)
		if err != nil {
			return nil, err
		}
		return identity.NewPostgresRepository(db), nil
	}
	return nil, fmt.Errorf("unknown identity driver %q", app.config.IdentityDriver)
}

// postgres opens and migrates the shared PostgreSQL pool on first use.
func (app *App) postgres(ctx context.Context) (*sql.DB, error) {
	if app.pg != nil {
		return app.pg, nil
	}
	db, err := sql.Open("pgx", app.config.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	app.closers = append(app.closers, db.Close)
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := migrations.RunRemote(ctx, db); err != nil {
		return nil, err
	}
	app.pg = db
	return db, nil
}
