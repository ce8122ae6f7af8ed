package calculator

import "PivotDesk/internal/model"

// SmoothedCandle is one Heikin-Ashi style candle.
type SmoothedCandle struct {
	Open  float64
	Close float64
}

// Direction is +1 for an up candle, -1 for a down candle and 0 when open equals close.
func (c SmoothedCandle) Direction() int {
	return Sign(c.Close - c.Open)
}

// SmoothCandles converts raw bars into smoothed trend candles. Each close is the
// mean of the raw OHLC; each open is the midpoint of the previous smoothed candle.
func SmoothCandles(bars []model.OHLCV) []SmoothedCandle {
	out := make([]SmoothedCandle, len(bars))
	for i, b := range bars {
		out[i].Close = (b.Open + b.High + b.Low + b.Close) / 4.0
		if i == 0 {
			out[i].Open = (b.Open + b.Close) / 2.0
			continue
		}
		out[i].Open = (out[i-1].Open + out[i-1].Close) / 2.0
	}
	return out
}

// TrendStreak is the signed run length of smoothed candle directions ending at the latest bar.
func TrendStreak(bars []model.OHLCV) int {
	candles := SmoothCandles(bars)
	dirs := make([]int, len(candles))
	for i, c := range candles {
		dirs[i] = c.Direction()
	}
	return Streak(dirs)
}
