package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgQuerier is the subset of *pgxpool.Pool used by PgSnapshotRepository.
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgSnapshotRepository is the PostgreSQL implementation of SnapshotRepository.
type PgSnapshotRepository struct {
	pool pgQuerier
}

// NewPgSnapshotRepository creates a PgSnapshotRepository backed by the given pool.
func NewPgSnapshotRepository(pool pgQuerier) *PgSnapshotRepository {
	return &PgSnapshotRepository{pool: pool}
}

var _ SnapshotRepository = (*PgSnapshotRepository)(nil)

// Save upserts the page_snapshots row for key.
func (r *PgSnapshotRepository) Save(ctx context.Context, key string, payload []byte) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO page_snapshots (key, payload, saved_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, saved_at = EXCLUDED.saved_at`,
		key, payload,
	)
	return err
}

// Load reads the snapshot stored under key.
func (r *PgSnapshotRepository) Load(ctx context.Context, key string) (*Snapshot, error) {
	s := Snapshot{Key: key}
	err := r.pool.QueryRow(ctx,
		`SELECT payload, saved_at FROM page_snapshots WHERE key = $1`, key,
	).Scan(&s.Payload, &s.SavedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
