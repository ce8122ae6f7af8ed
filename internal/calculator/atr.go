package calculator

import (
	"errors"
	"math"

	"PivotDesk/internal/model"
)

// TrueRange is the largest of high-low and the gaps from the prior close.
func TrueRange(bar model.OHLCV, prevClose float64) float64 {
	return math.Max(bar.High-bar.Low, math.Max(math.Abs(bar.High-prevClose), math.Abs(bar.Low-prevClose)))
}

// CalculateATR returns the latest volatility reading: the true range smoothed
// with factor 1/period, seeded with the first bar that has a prior close.
func CalculateATR(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	switch len(bars) {
	case 0:
		return 0, nil
	case 1:
		return bars[0].High - bars[0].Low, nil
	}

	alpha := 1.0 / float64(period)
	atr := TrueRange(bars[1], bars[0].Close)
	for i := 2; i < len(bars); i++ {
		atr += alpha * (TrueRange(bars[i], bars[i-1].Close) - atr)
	}
	return atr, nil
}
