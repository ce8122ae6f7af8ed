// Package pivot builds the Fibonacci pivot ladder of the previous completed
// calendar period.
package pivot

import (
	"math"

	"PivotDesk/internal/model"
)

// Fibonacci retracement ratios for the first, second and third levels.
const (
	Ratio1 = 0.382
	Ratio2 = 0.618
	Ratio3 = 1.000
)

// Fibonacci maps one period's high, low and close onto the seven-level ladder.
// A zero range collapses every level onto P.
func Fibonacci(high, low, close float64) model.PivotLadder {
	rng := high - low
	p := (high + low + close) / 3.0
	return model.PivotLadder{
		P:  p,
		R1: p + Ratio1*rng,
		R2: p + Ratio2*rng,
		R3: p + Ratio3*rng,
		S1: p - Ratio1*rng,
		S2: p - Ratio2*rng,
		S3: p - Ratio3*rng,
	}
}

// FromSegment uses the segment's highest high, lowest low and final close.
func FromSegment(seg []model.OHLCV) model.PivotLadder {
	if len(seg) == 0 {
		return model.PivotLadder{}
	}
	high := math.Inf(-1)
	low := math.Inf(1)
	for _, b := range seg {
		high = math.Max(high, b.High)
		low = math.Min(low, b.Low)
	}
	return Fibonacci(high, low, seg[len(seg)-1].Close)
}
