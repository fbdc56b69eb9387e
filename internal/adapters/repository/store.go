// Package repository persists chart snapshots. Every backend is write-once:
// a snapshot ID is stored at most one time and never updated.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/natal/internal/domain/model"
	"github.com/okian/natal/pkg/metrics"
)

// Store provides write-once access to chart snapshots.
type Store interface {
	// Save stores s under s.ID. Returns ErrAlreadyExists if the ID is taken.
	Save(ctx context.Context, s model.Snapshot) error

	// Get returns the snapshot stored under id.
	// Returns ErrNotFound if the ID is unknown.
	Get(ctx context.Context, id string) (model.Snapshot, error)

	// Count returns the number of stored snapshots.
	Count(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}

// checkID rejects IDs that could not have come from model.NewSnapshot.
// File and key names are derived from IDs, so this also guards paths.
func checkID(id string) error {
	if !model.ValidID(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// observe records the latency and outcome of one store call.
func observe(backend, op string, start time.Time, err error) {
	metrics.RecordStoreLatency(backend, op, float64(time.Since(start).Microseconds())/1000)
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrAlreadyExists):
		outcome = "conflict"
	case errors.Is(err, ErrInvalidID):
		outcome = "invalid_id"
	default:
		outcome = "error"
		metrics.RecordErrorByComponent("repository", backend+"_"+op)
	}
	metrics.RecordStoreOperation(backend, op, outcome)
}

// Settings selects and configures a backend for Open.
type Settings struct {
	Backend     string
	Dir         string
	PostgresDSN string
	RedisAddr   string
}

// Open builds the backend named by st.Backend.
func Open(ctx context.Context, st Settings) (Store, error) {
	switch st.Backend {
	case "", backendMemory:
		return NewMemoryStore(ctx), nil
	case backendFile:
		return NewFileStore(st.Dir)
	case backendPostgres:
		return NewPostgresStore(ctx, st.PostgresDSN)
	case backendRedis:
		return NewRedisStore(ctx, st.RedisAddr)
	}
	return nil, fmt.Errorf("%w: unknown backend %q", ErrBackend, st.Backend)
}
