package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"PivotDesk/internal/metrics"
	"PivotDesk/internal/model"
)

// GuardOptions tunes the rate limiter and circuit breaker around a Fetcher.
type GuardOptions struct {
	RequestsPerMinute int           // <= 0 disables rate limiting
	FailureThreshold  uint32        // consecutive failures that open the breaker
	OpenTimeout       time.Duration // how long the breaker stays open
}

// GuardedFetcher throttles calls to a provider and stops calling it after
// repeated failures until the open timeout passes.
type GuardedFetcher struct {
	next    Fetcher
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// Guard wraps next with a limiter and a breaker. m may be nil.
func Guard(next Fetcher, opts GuardOptions, m *metrics.Metrics) *GuardedFetcher {
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 3
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = time.Minute
	}

	g := &GuardedFetcher{next: next}
	if opts.RequestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	threshold := opts.FailureThreshold
	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= threshold
		},
		// An unknown symbol or a caller giving up says nothing about provider health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoData) ||
				errors.Is(err, context.Canceled) || errors.Is(err, ErrNoAPIKey)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("source", name).Str("from", from.String()).Str("to", to.String()).
				Msg("provider circuit breaker state changed")
			m.SetBreakerOpen(name, to == gobreaker.StateOpen)
		},
	})
	return g
}

func (g *GuardedFetcher) Name() string { return g.next.Name() }

func (g *GuardedFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %w", ErrProvider, err)
		}
	}
	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.next.FetchDailyBars(ctx, symbol, days)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%s: %w", g.next.Name(), ErrUnavailable)
	}
	if err != nil {
		return nil, err
	}
	return out.([]model.OHLCV), nil
}
