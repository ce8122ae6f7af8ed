// Package analyst ties bar collection to the strategy engine for one
// user request.
package analyst

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"PivotDesk/internal/metrics"
	"PivotDesk/internal/model"
	"PivotDesk/internal/strategy"
)

var (
	ErrNoSymbol   = errors.New("no symbol given")
	ErrBadHorizon = errors.New("bad horizon")
)

// BarSource supplies cleaned daily bars covering the last days calendar days.
type BarSource interface {
	Collect(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
}

// Report is one finished analysis.
type Report struct {
	RequestID string          `json:"request_id"`
	Symbol    string          `json:"symbol"`
	Bars      int             `json:"bars"`
	Decision  *model.Decision `json:"decision"`
}

// Analyst runs analyses on demand. It is safe for concurrent use as long as
// its BarSource is.
type Analyst struct {
	Source  BarSource
	Params  strategy.Params
	Metrics *metrics.Metrics
}

func New(src BarSource, params strategy.Params, m *metrics.Metrics) *Analyst {
	return &Analyst{Source: src, Params: params, Metrics: m}
}

// Analyze fetches the horizon's lookback of bars for symbol and returns the
// decision. An empty horizon means mid.
func (a *Analyst) Analyze(ctx context.Context, symbol, horizon string) (*Report, error) {
	reqID := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().Str("request_id", reqID).Logger()

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		a.Metrics.ObserveAnalysisError("input")
		return nil, ErrNoSymbol
	}
	h := model.HorizonMid
	if strings.TrimSpace(horizon) != "" {
		parsed, err := model.ParseHorizon(horizon)
		if err != nil {
			a.Metrics.ObserveAnalysisError("input")
			return nil, fmt.Errorf("%w: %w", ErrBadHorizon, err)
		}
		h = parsed
	}
	logger = logger.With().Str("symbol", symbol).Str("horizon", string(h)).Logger()
	ctx = logger.WithContext(ctx)

	th := a.Params.For(h)
	start := time.Now()
	bars, err := a.Source.Collect(ctx, symbol, th.LookbackDays)
	if err != nil {
		a.Metrics.ObserveAnalysisError("provider")
		logger.Warn().Err(err).Msg("bar collection failed")
		return nil, err
	}

	dec, err := strategy.Analyze(bars, h, a.Params)
	if err != nil {
		a.Metrics.ObserveAnalysisError("input")
		return nil, fmt.Errorf("analyze %s: %w", symbol, err)
	}
	a.Metrics.ObserveAnalysis(string(h), string(dec.Stance))

	logger.Info().
		Str("stance", string(dec.Stance)).
		Int("bars", len(bars)).
		Str("near", dec.Diagnostics.NearLevel).
		Dur("took", time.Since(start)).
		Msg("analysis complete")

	return &Report{RequestID: reqID, Symbol: symbol, Bars: len(bars), Decision: dec}, nil
}
