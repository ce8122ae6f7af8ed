package calculator

import (
	"errors"

	talib "github.com/markcheno/go-talib"

	"PivotDesk/internal/model"
)

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sma := talib.Sma(prices, period)
	return sma[len(sma)-1], nil
}

// CalculateMA200 returns the 200-day simple moving average from daily bars.
func CalculateMA200(dailyBars []model.OHLCV) (float64, error) {
	return CalculateSMA(model.Closes(dailyBars), 200)
}
