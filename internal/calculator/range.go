package calculator

import (
	"errors"

	talib "github.com/markcheno/go-talib"

	"PivotDesk/internal/model"
)

// TradingDaysPerYear approximates one calendar year of daily bars.
const TradingDaysPerYear = 252

// Calculate52WeekRange scans the most recent 252 trading days and returns the high and low.
func Calculate52WeekRange(dailyBars []model.OHLCV) (high, low float64, err error) {
	if len(dailyBars) == 0 {
		return 0, 0, errors.New("no daily bars provided")
	}
	n := len(dailyBars)
	if n == 1 {
		return dailyBars[0].High, dailyBars[0].Low, nil
	}
	period := TradingDaysPerYear
	if n < period {
		period = n
	}
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, b := range dailyBars {
		highs[i] = b.High
		lows[i] = b.Low
	}
	maxs := talib.Max(highs, period)
	mins := talib.Min(lows, period)
	return maxs[n-1], mins[n-1], nil
}

// Calculate52WeekPosition returns where the current price sits within the 52-week range (0.0~1.0).
func Calculate52WeekPosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
