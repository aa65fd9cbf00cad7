package repository

import (
	"context"
	"fmt"

	"skinpricer/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Open connects the catalog store selected by cfg.Driver and ensures its table exists.
func Open(ctx context.Context, cfg config.DatabaseConfig) (CatalogStore, error) {
	var store CatalogStore
	switch cfg.Driver {
	case "sqlite":
		s, err := OpenSQLiteStore(cfg.Path, cfg.MaxConns, cfg.AcquireTimeout)
		if err != nil {
			return nil, err
		}
		store = s
		log.Infof("✅ Opened sqlite catalog at %s", cfg.Path)

	case "postgres":
		poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to parse database config: %w", err)
		}
		poolConfig.MaxConns = int32(cfg.MaxConns)

		db, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, cfg.AcquireTimeout)
		defer cancel()
		if err := db.Ping(pingCtx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}

		store = NewPostgresStore(db, cfg.AcquireTimeout)
		log.Infof("✅ Connected to postgres %s:%d/%s (max %d connections)", cfg.Host, cfg.Port, cfg.Name, cfg.MaxConns)

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
