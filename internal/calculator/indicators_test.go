package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PivotDesk/internal/model"
)

func TestEMA(t *testing.T) {
	assert.Empty(t, EMA(nil, 0.5))
	assert.Equal(t, []float64{1, 1.5, 2.25}, EMA([]float64{1, 2, 3}, 0.5))

	constant := EMA([]float64{100, 100, 100, 100}, SpanAlpha(12))
	for _, v := range constant {
		assert.Equal(t, 100.0, v)
	}
}

func TestSmoothCandles(t *testing.T) {
	bars := []model.OHLCV{
		{Open: 10, High: 14, Low: 8, Close: 12},
		{Open: 12, High: 16, Low: 11, Close: 15},
	}
	c := SmoothCandles(bars)
	require.Len(t, c, 2)
	assert.InDelta(t, 11.0, c[0].Open, 1e-12)
	assert.InDelta(t, 11.0, c[0].Close, 1e-12)
	assert.Equal(t, 0, c[0].Direction())
	assert.InDelta(t, 11.0, c[1].Open, 1e-12)
	assert.InDelta(t, 13.5, c[1].Close, 1e-12)
	assert.Equal(t, 1, c[1].Direction())
}

func TestTrendStreak(t *testing.T) {
	assert.Equal(t, 0, TrendStreak(nil))
	assert.Equal(t, 9, TrendStreak(rampBars(10, 100, 1)))
	assert.Equal(t, -9, TrendStreak(rampBars(10, 100, -1)))
	assert.Equal(t, 0, TrendStreak(flatBars(30, 100)))
}

func TestMomentumStreak(t *testing.T) {
	assert.Equal(t, 59, MomentumStreak(model.Closes(rampBars(60, 100, 0.5))))
	assert.Equal(t, -59, MomentumStreak(model.Closes(rampBars(60, 200, -0.5))))
	assert.Equal(t, 0, MomentumStreak(model.Closes(flatBars(60, 100))))
	assert.Equal(t, 0, MomentumStreak(nil))
}

func TestCalculateRSI(t *testing.T) {
	rsi, err := CalculateRSI(flatBars(100, 100), RSIPeriod)
	require.NoError(t, err)
	assert.Equal(t, 50.0, rsi)

	rsi, err = CalculateRSI(rampBars(50, 100, 1), RSIPeriod)
	require.NoError(t, err)
	assert.Greater(t, rsi, 99.9)

	rsi, err = CalculateRSI(rampBars(50, 200, -1), RSIPeriod)
	require.NoError(t, err)
	assert.Less(t, rsi, 0.1)

	rsi, err = CalculateRSI(flatBars(1, 100), RSIPeriod)
	require.NoError(t, err)
	assert.Equal(t, 50.0, rsi)

	_, err = CalculateRSI(flatBars(10, 100), 0)
	assert.Error(t, err)
}

func TestCalculateRSI_Bounded(t *testing.T) {
	bars := rampBars(40, 100, 1)
	bars = append(bars, rampBars(40, 140, -1.5)...)
	rsi, err := CalculateRSI(bars, RSIPeriod)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, rsi, 0.0)
	assert.LessOrEqual(t, rsi, 100.0)
}

func TestCalculateATR(t *testing.T) {
	atr, err := CalculateATR(flatBars(100, 100), ATRPeriod)
	require.NoError(t, err)
	assert.Equal(t, 0.0, atr)

	atr, err = CalculateATR(nil, ATRPeriod)
	require.NoError(t, err)
	assert.Equal(t, 0.0, atr)

	one := []model.OHLCV{{Open: 10, High: 12, Low: 9, Close: 11}}
	atr, err = CalculateATR(one, ATRPeriod)
	require.NoError(t, err)
	assert.Equal(t, 3.0, atr)

	// Constant two-point range with no gaps.
	bars := make([]model.OHLCV, 30)
	for i := range bars {
		bars[i] = model.OHLCV{Open: 100, High: 101, Low: 99, Close: 100}
	}
	atr, err = CalculateATR(bars, ATRPeriod)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, atr, 1e-12)

	_, err = CalculateATR(bars, -1)
	assert.Error(t, err)
}

func TestTrueRange_Gap(t *testing.T) {
	bar := model.OHLCV{Open: 110, High: 112, Low: 108, Close: 111}
	assert.Equal(t, 12.0, TrueRange(bar, 100))
	assert.Equal(t, 4.0, TrueRange(bar, 110))
}

func TestSnapshot_FlatHistory(t *testing.T) {
	snap := Snapshot(flatBars(100, 100))
	assert.Equal(t, 0, snap.TrendStreak)
	assert.Equal(t, 0, snap.MomentumStreak)
	assert.Equal(t, 50.0, snap.Oscillator)
	assert.Equal(t, 0.0, snap.Volatility)
}

func TestContext(t *testing.T) {
	assert.Equal(t, model.MarketContext{}, Context(nil))

	short := rampBars(20, 100, 1)
	ctx := Context(short)
	assert.Equal(t, short[len(short)-1].Close, ctx.SMA200)
	assert.InDelta(t, 120.5, ctx.High52w, 1e-9)
	assert.InDelta(t, 99.5, ctx.Low52w, 1e-9)

	long := rampBars(300, 100, 1)
	ctx = Context(long)
	// Mean of the last 200 closes 201..400.
	assert.InDelta(t, 300.5, ctx.SMA200, 1e-9)
	assert.InDelta(t, 400.5, ctx.High52w, 1e-9)
	assert.InDelta(t, 147.5, ctx.Low52w, 1e-9)
	assert.Greater(t, ctx.Position52w, 0.99)
}

func TestCalculate52WeekPosition(t *testing.T) {
	pos, err := Calculate52WeekPosition(100, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.5, pos)

	pos, err = Calculate52WeekPosition(150, 200, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.5, pos)

	_, err = Calculate52WeekPosition(150, 100, 200)
	assert.Error(t, err)
}
