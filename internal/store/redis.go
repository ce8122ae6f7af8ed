package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"PivotDesk/internal/model"
)

const redisKeyPrefix = "pivotdesk:bars:"

// RedisStore caches each symbol's bars as one JSON value that expires after the TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

type barSet struct {
	FetchedAt time.Time     `json:"fetched_at"`
	Bars      []model.OHLCV `json:"bars"`
}

// NewRedisStore connects lazily to addr; ttl <= 0 keeps entries until pruned by Redis itself.
func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	return NewRedisStoreWithClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), ttl)
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(symbol string) string { return redisKeyPrefix + symbol }

func encodeBarSet(bars []model.OHLCV, fetchedAt time.Time) ([]byte, error) {
	return json.Marshal(barSet{FetchedAt: fetchedAt.UTC(), Bars: bars})
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) Load(ctx context.Context, symbol string) ([]model.OHLCV, time.Time, error) {
	raw, err := s.client.Get(ctx, redisKey(symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, time.Time{}, ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("redis get %s: %w", symbol, err)
	}
	var set barSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode cached bars %s: %w", symbol, err)
	}
	return set.Bars, set.FetchedAt, nil
}

func (s *RedisStore) Save(ctx context.Context, symbol string, bars []model.OHLCV, fetchedAt time.Time) error {
	payload, err := encodeBarSet(bars, fetchedAt)
	if err != nil {
		return fmt.Errorf("encode bars %s: %w", symbol, err)
	}
	if err := s.client.Set(ctx, redisKey(symbol), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", symbol, err)
	}
	return nil
}

// Prune is a no-op: Redis expires entries on its own.
func (s *RedisStore) Prune(_ context.Context, _ time.Time) (int64, error) { return 0, nil }

func (s *RedisStore) Close() error { return s.client.Close() }
