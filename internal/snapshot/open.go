package snapshot

import (
	"context"
	"fmt"

	"github.com/aliskhannn/xueling-bot/internal/config"
	"github.com/aliskhannn/xueling-bot/internal/infra/postgres"
)

// Open builds the store selected by cfg.Snapshot.Driver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Snapshot.Driver {
	case config.DriverMemory:
		return NewMemoryStore(), nil

	case config.DriverSQLite:
		return OpenSQLite(cfg.Snapshot.Path)

	case config.DriverPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("postgres snapshot store: %w", err)
		}
		store, err := NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown snapshot driver: %s", cfg.Snapshot.Driver)
	}
}
