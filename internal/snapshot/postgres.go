package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS client_snapshots (
	namespace  TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (namespace, key)
)`

// PostgresStore keeps snapshots in PostgreSQL, so several bot replicas can
// share chat state.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore uses pool and makes sure the table exists.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("migrate snapshots: %w", err)
	}
	return &PostgresStore{db: pool}, nil
}

func (s *PostgresStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	query := `
		SELECT value
		FROM client_snapshots
		WHERE namespace = $1 AND key = $2
	`

	var value []byte
	err := s.db.QueryRow(ctx, query, namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get snapshot: %w", err)
	}

	return value, true, nil
}

func (s *PostgresStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	query := `
		INSERT INTO client_snapshots (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace, key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := s.db.Exec(ctx, query, namespace, key, string(value)); err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}

	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
