package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"PivotDesk/internal/metrics"
	"PivotDesk/internal/model"
	"PivotDesk/internal/store"
)

// Collector fetches daily bars through a Fetcher and keeps the latest set of
// each symbol in a BarStore for CacheTTL.
type Collector struct {
	Fetcher  Fetcher
	Store    store.BarStore
	CacheTTL time.Duration
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

// NewCollector creates a Collector; st may be nil to disable caching.
func NewCollector(fetcher Fetcher, st store.BarStore, ttl time.Duration, m *metrics.Metrics) *Collector {
	if st == nil {
		st = store.NewNoopStore()
	}
	return &Collector{Fetcher: fetcher, Store: st, CacheTTL: ttl, Metrics: m, Now: time.Now}
}

func (c *Collector) now() time.Time {
	if c.Now != nil {
		return c.Now().UTC()
	}
	return time.Now().UTC()
}

// Collect returns cleaned, date-ordered bars covering the last days calendar days.
func (c *Collector) Collect(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	logger := zerolog.Ctx(ctx).With().Str("symbol", symbol).Str("source", c.Fetcher.Name()).Logger()
	now := c.now()
	since := model.Day(now).AddDate(0, 0, -(days + 10))

	cached, fetchedAt, err := c.Store.Load(ctx, symbol)
	switch {
	case err == nil && c.fresh(fetchedAt, now) && covers(cached, model.Day(now).AddDate(0, 0, -days)):
		c.Metrics.ObserveCache("hit")
		logger.Debug().Int("bars", len(cached)).
			Str("age", humanize.RelTime(fetchedAt, now, "old", "ahead")).Msg("serving cached bars")
		return trimBefore(cached, since), nil
	case err == nil:
		c.Metrics.ObserveCache("stale")
	case errors.Is(err, store.ErrNotFound):
		c.Metrics.ObserveCache("miss")
	default:
		c.Metrics.ObserveCache("error")
		logger.Warn().Err(err).Msg("bar cache lookup failed")
	}

	bars, err := c.fetch(ctx, symbol, days)
	if err != nil {
		return nil, err
	}
	if err := c.Store.Save(ctx, symbol, bars, now); err != nil {
		logger.Warn().Err(err).Msg("bar cache save failed")
	}
	return trimBefore(bars, since), nil
}

// Refresh re-fetches the symbol and overwrites its cache entry.
func (c *Collector) Refresh(ctx context.Context, symbol string, days int) (int, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	bars, err := c.fetch(ctx, symbol, days)
	if err != nil {
		return 0, err
	}
	if err := c.Store.Save(ctx, symbol, bars, c.now()); err != nil {
		return 0, fmt.Errorf("cache %s: %w", symbol, err)
	}
	return len(bars), nil
}

func (c *Collector) fetch(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	start := time.Now()
	raw, err := c.Fetcher.FetchDailyBars(ctx, symbol, days)
	c.Metrics.ObserveFetch(c.Fetcher.Name(), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars %s: %w", symbol, err)
	}
	bars := Clean(raw)
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch daily bars %s: %w", symbol, ErrNoData)
	}
	if dropped := len(raw) - len(bars); dropped > 0 {
		zerolog.Ctx(ctx).Debug().Str("symbol", symbol).Int("dropped", dropped).Msg("discarded invalid or duplicate bars")
	}
	return bars, nil
}

func (c *Collector) fresh(fetchedAt, now time.Time) bool {
	return c.CacheTTL > 0 && now.Sub(fetchedAt) < c.CacheTTL
}

func covers(bars []model.OHLCV, from time.Time) bool {
	return len(bars) > 0 && !bars[0].Time.After(from)
}

func trimBefore(bars []model.OHLCV, since time.Time) []model.OHLCV {
	i := sort.Search(len(bars), func(i int) bool { return !bars[i].Time.Before(since) })
	return bars[i:]
}

// Clean normalises bar times to calendar days, drops invalid bars, orders by
// date and keeps the last bar seen for a duplicated date. The input is not modified.
func Clean(raw []model.OHLCV) []model.OHLCV {
	bars := make([]model.OHLCV, 0, len(raw))
	for _, b := range raw {
		if !b.Valid() {
			continue
		}
		b.Time = model.Day(b.Time)
		bars = append(bars, b)
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
