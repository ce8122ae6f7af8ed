package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"PivotDesk/internal/analyst"
	"PivotDesk/internal/collector"
	"PivotDesk/internal/config"
	"PivotDesk/internal/metrics"
	"PivotDesk/internal/store"
	"PivotDesk/internal/strategy"
)

// app is the wired object graph shared by the analyze and bot commands.
type app struct {
	store     store.BarStore
	collector *collector.Collector
	analyst   *analyst.Analyst
	metrics   *metrics.Metrics
	params    strategy.Params
}

func newFetcher(c *config.Config) (collector.Fetcher, error) {
	p := c.Provider
	switch p.Source {
	case "polygon":
		return collector.NewPolygonFetcher(p.PolygonURL, p.PolygonAPIKey, c.Proxy, p.Timeout), nil
	case "yahoo":
		return collector.NewYahooFetcher(p.YahooURL, c.Proxy, p.Timeout), nil
	case "mock":
		return &collector.MockFetcher{Price: 100}, nil
	default:
		return nil, fmt.Errorf("unknown data source %q", p.Source)
	}
}

func buildApp(c *config.Config) (*app, error) {
	params, err := c.StrategyParams()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	fetcher, err := newFetcher(c)
	if err != nil {
		return nil, err
	}
	guarded := collector.Guard(fetcher, collector.GuardOptions{
		RequestsPerMinute: c.Provider.RequestsPerMinute,
		FailureThreshold:  c.Provider.FailureThreshold,
		OpenTimeout:       c.Provider.BreakerTimeout,
	}, m)
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")

	st, err := store.Open(store.Options{
		Driver:        c.Cache.Driver,
		SQLitePath:    c.Cache.SQLitePath,
		RedisAddr:     c.Cache.RedisAddr,
		RedisPassword: c.Cache.RedisPassword,
		RedisDB:       c.Cache.RedisDB,
		TTL:           c.Cache.TTL,
	})
	if err != nil {
		log.Warn().Err(err).Str("driver", c.Cache.Driver).Msg("init bar cache failed, caching disabled")
		st = store.NewNoopStore()
	}

	col := collector.NewCollector(guarded, st, c.Cache.TTL, m)
	return &app{
		store:     st,
		collector: col,
		analyst:   analyst.New(col, params, m),
		metrics:   m,
		params:    params,
	}, nil
}

// maxLookback is the deepest history any horizon asks for.
func maxLookback(p strategy.Params) int {
	days := 0
	for _, th := range p.Horizons {
		if th.LookbackDays > days {
			days = th.LookbackDays
		}
	}
	return days
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log.Warn().Err(err).Msg("close bar cache")
	}
}
