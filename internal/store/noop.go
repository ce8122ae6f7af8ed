package store

import (
	"context"
	"time"

	"PivotDesk/internal/model"
)

// NoopStore caches nothing; every Load misses.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) Load(_ context.Context, _ string) ([]model.OHLCV, time.Time, error) {
	return nil, time.Time{}, ErrNotFound
}
func (n *NoopStore) Save(_ context.Context, _ string, _ []model.OHLCV, _ time.Time) error {
	return nil
}
func (n *NoopStore) Prune(_ context.Context, _ time.Time) (int64, error) { return 0, nil }
func (n *NoopStore) Name() string                                        { return "none" }
func (n *NoopStore) Close() error                                        { return nil }
