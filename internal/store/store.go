// Package store caches fetched daily bars per symbol so repeated analyses
// do not hit the data provider. It never stores decisions.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"PivotDesk/internal/model"
)

// ErrNotFound is returned by Load when nothing is cached for a symbol.
var ErrNotFound = errors.New("no cached bars")

// BarStore persists the latest fetched bar sequence of each symbol.
type BarStore interface {
	Load(ctx context.Context, symbol string) (bars []model.OHLCV, fetchedAt time.Time, err error)
	Save(ctx context.Context, symbol string, bars []model.OHLCV, fetchedAt time.Time) error
	// Prune drops symbols fetched before the cutoff and returns how many were removed.
	Prune(ctx context.Context, before time.Time) (int64, error)
	Name() string
	Close() error
}

// Options selects and configures a BarStore.
type Options struct {
	Driver        string // sqlite, redis or none
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// Open builds the BarStore named by opts.Driver.
func Open(opts Options) (BarStore, error) {
	switch opts.Driver {
	case "", "none":
		return NewNoopStore(), nil
	case "sqlite":
		return NewSQLiteStore(opts.SQLitePath)
	case "redis":
		return NewRedisStore(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.TTL), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", opts.Driver)
	}
}
