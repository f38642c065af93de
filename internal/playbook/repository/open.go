package repository

import (
	"context"
	"fmt"
	"path/filepath"
)

// ============================================================
// Store selection
// ============================================================

type Options struct {
	Driver        string
	SQLitePath    string
	PostgresDSN   string
	RedisURL      string
	MigrationsDir string
}

// Open builds the store named by opts.Driver and applies its migration. The
// sqlite driver must be registered by the caller.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemoryStore(), nil

	case "sqlite":
		db, err := OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		store := NewSQLiteStore(db)
		if err := store.Init(ctx, filepath.Join(opts.MigrationsDir, "001_init_plays.sql")); err != nil {
			db.Close()
			return nil, err
		}
		return store, nil

	case "postgres":
		if opts.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres driver requires POSTGRES_DSN")
		}
		store, err := NewPostgresStore(opts.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := store.Init(ctx, filepath.Join(opts.MigrationsDir, "001_init_plays.pg.sql")); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil

	case "redis":
		client, err := OpenRedis(opts.RedisURL)
		if err != nil {
			return nil, err
		}
		store := NewRedisStore(client)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
}
