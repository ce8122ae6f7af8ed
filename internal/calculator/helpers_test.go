package calculator

import (
	"time"

	"PivotDesk/internal/model"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func flatBars(n int, price float64) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	for i := range bars {
		bars[i] = model.OHLCV{Time: day0.AddDate(0, 0, i), Open: price, High: price, Low: price, Close: price, Volume: 1000}
	}
	return bars
}

// rampBars moves open→close by step every bar with half a step of wick on each side.
func rampBars(n int, start, step float64) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	for i := range bars {
		o := start + float64(i)*step
		c := o + step
		hi, lo := c, o
		if lo > hi {
			hi, lo = lo, hi
		}
		wick := step / 2
		if wick < 0 {
			wick = -wick
		}
		bars[i] = model.OHLCV{Time: day0.AddDate(0, 0, i), Open: o, High: hi + wick, Low: lo - wick, Close: c, Volume: 1000}
	}
	return bars
}
