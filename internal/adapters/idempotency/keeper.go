// Package idempotency remembers which snapshot an Idempotency-Key produced so
// a retried request replays the original result instead of computing again.
package idempotency

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// State is the outcome of Reserve.
type State int

// Reserve outcomes.
const (
	// Reserved means the key is new and the caller owns it until Complete or Release.
	Reserved State = iota
	// Replay means the key already produced a snapshot; Entry.SnapshotID is set.
	Replay
	// InFlight means another request holding the key has not finished.
	InFlight
	// Mismatch means the key was used with a different request body.
	Mismatch
)

func (s State) String() string {
	switch s {
	case Reserved:
		return "reserved"
	case Replay:
		return "replay"
	case InFlight:
		return "in_flight"
	case Mismatch:
		return "mismatch"
	}
	return "unknown"
}

// Entry is what the keeper remembers for a key.
type Entry struct {
	Fingerprint string
	SnapshotID  string
}

func (e Entry) done() bool { return e.SnapshotID != "" }

// Keeper tracks Idempotency-Key usage.
type Keeper interface {
	// Reserve atomically claims key for a request with the given body
	// fingerprint, or reports why it cannot.
	Reserve(ctx context.Context, key, fingerprint string) (Entry, State)

	// Complete records the snapshot a reserved key produced.
	Complete(ctx context.Context, key, snapshotID string)

	// Release forgets a reserved key so a failed request can be retried.
	// Completed keys are kept.
	Release(ctx context.Context, key string)

	Size() int
}

// lruKeeper is a bounded Keeper. The least recently used keys are evicted
// first, so a very old key may be computed twice.
type lruKeeper struct {
	mu      sync.Mutex
	entries *lru.Cache[string, Entry]
	maxSize int
}

// NewLRUKeeper creates an in-memory keeper.
func NewLRUKeeper(opts ...Option) (Keeper, error) {
	k := &lruKeeper{maxSize: 10_000}
	for _, opt := range opts {
		opt(k)
	}
	cache, err := lru.New[string, Entry](k.maxSize)
	if err != nil {
		return nil, err
	}
	k.entries = cache
	return k, nil
}

func (k *lruKeeper) Reserve(_ context.Context, key, fingerprint string) (Entry, State) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.entries.Get(key)
	switch {
	case !ok:
		e = Entry{Fingerprint: fingerprint}
		k.entries.Add(key, e)
		return e, Reserved
	case e.Fingerprint != fingerprint:
		return e, Mismatch
	case e.done():
		return e, Replay
	}
	return e, InFlight
}

func (k *lruKeeper) Complete(_ context.Context, key, snapshotID string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.entries.Peek(key)
	if !ok {
		return
	}
	e.SnapshotID = snapshotID
	k.entries.Add(key, e)
}

func (k *lruKeeper) Release(_ context.Context, key string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if e, ok := k.entries.Peek(key); ok && !e.done() {
		k.entries.Remove(key)
	}
}

func (k *lruKeeper) Size() int {
	return k.entries.Len()
}
