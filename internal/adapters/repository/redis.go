package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/natal/internal/domain/model"
)

const (
	backendRedis       = "redis"
	defaultRedisPrefix = "natal:snapshot:"
)

// RedisStore keeps each snapshot under its own key, written with SETNX.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrBackend, addr, err)
	}
	return NewRedisStoreWithClient(client, defaultRedisPrefix), nil
}

// NewRedisStoreWithClient wraps an existing client. Keys are prefix+id.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(id string) string { return s.prefix + id }
func (s *RedisStore) indexKey() string     { return s.prefix + "ids" }

// Save implements Store.Save.
func (s *RedisStore) Save(ctx context.Context, snap model.Snapshot) (err error) {
	defer func(start time.Time) { observe(backendRedis, "save", start, err) }(time.Now())

	if err := checkID(snap.ID); err != nil {
		return err
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrBackend, snap.ID, err)
	}
	ok, err := s.client.SetNX(ctx, s.key(snap.ID), raw, 0).Result()
	if err != nil {
		return fmt.Errorf("%w: setnx %s: %w", ErrBackend, snap.ID, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, snap.ID)
	}
	if err := s.client.SAdd(ctx, s.indexKey(), snap.ID).Err(); err != nil {
		return fmt.Errorf("%w: index %s: %w", ErrBackend, snap.ID, err)
	}
	return nil
}

// Get implements Store.Get.
func (s *RedisStore) Get(ctx context.Context, id string) (snap model.Snapshot, err error) {
	defer func(start time.Time) { observe(backendRedis, "get", start, err) }(time.Now())

	if err := checkID(id); err != nil {
		return model.Snapshot{}, err
	}
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: get %s: %w", ErrBackend, id, err)
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: decode %s: %w", ErrBackend, id, err)
	}
	return snap, nil
}

// Count implements Store.Count.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, s.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: count: %w", ErrBackend, err)
	}
	return int(n), nil
}

// Close closes the client.
func (s *RedisStore) Close() error { return s.client.Close() }
