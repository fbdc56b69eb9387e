package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/natal/internal/domain/model"
	"github.com/okian/natal/pkg/metrics"
)

const backendMemory = "memory"

// ErrFull is returned by a capped MemoryStore once it holds capacity snapshots.
var ErrFull = errors.New("memory store is full")

// MemoryStore keeps encoded snapshots in a map. Entries are stored as JSON
// so callers never share the stored value.
type MemoryStore struct {
	mu                    sync.RWMutex
	byID                  map[string][]byte
	capacity              int
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewMemoryStore constructs an in-process store and starts its metrics
// updater, which stops when ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:                  make(map[string][]byte),
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	metrics.UpdateSnapshotsStored(0)
	s.startMetricsUpdater(ctx)
	return s
}

// Save implements Store.Save.
func (s *MemoryStore) Save(_ context.Context, snap model.Snapshot) (err error) {
	defer func(start time.Time) { observe(backendMemory, "save", start, err) }(time.Now())

	if err := checkID(snap.ID); err != nil {
		return err
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrBackend, snap.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[snap.ID]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, snap.ID)
	}
	if s.capacity > 0 && len(s.byID) >= s.capacity {
		return fmt.Errorf("%w: %d snapshots", ErrFull, s.capacity)
	}
	s.byID[snap.ID] = raw
	return nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, id string) (snap model.Snapshot, err error) {
	defer func(start time.Time) { observe(backendMemory, "get", start, err) }(time.Now())

	if err := checkID(id); err != nil {
		return model.Snapshot{}, err
	}
	s.mu.RLock()
	raw, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return model.Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: decode %s: %w", ErrBackend, id, err)
	}
	return snap, nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}

// Close stops the metrics updater.
func (s *MemoryStore) Close() error {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				n, _ := s.Count(ctx)
				metrics.UpdateSnapshotsStored(n)
			}
		}
	}()
}
