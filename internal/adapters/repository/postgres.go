package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/natal/internal/domain/model"
)

const backendPostgres = "postgres"

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS chart_snapshots (
	id         UUID PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL,
	payload    JSONB NOT NULL
)`
	insertSnapshotSQL = `INSERT INTO chart_snapshots (id, created_at, payload) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`
	selectSnapshotSQL = `SELECT payload FROM chart_snapshots WHERE id = $1`
	countSnapshotsSQL = `SELECT count(*) FROM chart_snapshots`
)

// pgxPool is the subset of *pgxpool.Pool the store needs.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore keeps snapshots as JSONB rows.
type PostgresStore struct {
	pool pgxPool
}

// NewPostgresStore connects to dsn and ensures the snapshot table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", ErrBackend, err)
	}
	s := NewPostgresStoreWithPool(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStoreWithPool wraps an existing pool.
func NewPostgresStoreWithPool(pool pgxPool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the snapshot table if it is missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("%w: migrate: %w", ErrBackend, err)
	}
	return nil
}

// Save implements Store.Save.
func (s *PostgresStore) Save(ctx context.Context, snap model.Snapshot) (err error) {
	defer func(start time.Time) { observe(backendPostgres, "save", start, err) }(time.Now())

	if err := checkID(snap.ID); err != nil {
		return err
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrBackend, snap.ID, err)
	}
	tag, err := s.pool.Exec(ctx, insertSnapshotSQL, snap.ID, snap.CreatedAt, raw)
	if err != nil {
		return fmt.Errorf("%w: insert %s: %w", ErrBackend, snap.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, snap.ID)
	}
	return nil
}

// Get implements Store.Get.
func (s *PostgresStore) Get(ctx context.Context, id string) (snap model.Snapshot, err error) {
	defer func(start time.Time) { observe(backendPostgres, "get", start, err) }(time.Now())

	if err := checkID(id); err != nil {
		return model.Snapshot{}, err
	}
	var raw []byte
	if err := s.pool.QueryRow(ctx, selectSnapshotSQL, id).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return model.Snapshot{}, fmt.Errorf("%w: select %s: %w", ErrBackend, id, err)
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: decode %s: %w", ErrBackend, id, err)
	}
	return snap, nil
}

// Count implements Store.Count.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, countSnapshotsSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count: %w", ErrBackend, err)
	}
	return int(n), nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
