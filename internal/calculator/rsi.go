package calculator

import (
	"errors"

	"PivotDesk/internal/model"
)

const rsiEpsilon = 1e-12

// CalculateRSI computes the momentum oscillator over the given period. Gains and
// losses are smoothed with factor 1/period starting from the first bar, whose change
// counts as zero. Returns 50.0 when there is no movement at all.
func CalculateRSI(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < 2 {
		return 50.0, nil
	}

	closes := model.Closes(bars)
	alpha := 1.0 / float64(period)

	var avgGain, avgLoss float64
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain += alpha * (gain - avgGain)
		avgLoss += alpha * (loss - avgLoss)
	}

	if avgGain == 0 && avgLoss == 0 {
		return 50.0, nil
	}
	rs := avgGain / (avgLoss + rsiEpsilon)
	return 100.0 - 100.0/(1.0+rs), nil
}
