package dedup

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists processed event identifiers in the
// processed_events table, so duplicates are caught across restarts and
// across instances sharing the database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore over an existing pool. The pool
// is owned by the caller and is not closed by Close.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Exists(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM processed_events WHERE event_id = $1)`,
		eventID,
	).Scan(&exists)
	return exists, err
}

func (s *PostgresStore) Insert(ctx context.Context, eventID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO processed_events (event_id) VALUES ($1)
		 ON CONFLICT (event_id) DO NOTHING`,
		eventID,
	)
	return err
}

func (s *PostgresStore) Close() error {
	return nil
}
