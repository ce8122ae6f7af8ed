package calculator

import "PivotDesk/internal/model"

// Default smoothing periods for the oscillator and the volatility measure.
const (
	RSIPeriod = 14
	ATRPeriod = 14
)

// Snapshot derives the indicator readings the decision engine consumes from the full bar sequence.
func Snapshot(bars []model.OHLCV) model.IndicatorSnapshot {
	snap := model.IndicatorSnapshot{
		TrendStreak:    TrendStreak(bars),
		MomentumStreak: MomentumStreak(model.Closes(bars)),
		Oscillator:     50,
	}
	if rsi, err := CalculateRSI(bars, RSIPeriod); err == nil {
		snap.Oscillator = rsi
	}
	if atr, err := CalculateATR(bars, ATRPeriod); err == nil {
		snap.Volatility = atr
	}
	return snap
}

// Context computes the informational SMA200 and 52-week range block.
// Missing history falls back to the latest close, as a flat reading.
func Context(bars []model.OHLCV) model.MarketContext {
	var ctx model.MarketContext
	if len(bars) == 0 {
		return ctx
	}
	price := bars[len(bars)-1].Close

	if ma, err := CalculateMA200(bars); err == nil {
		ctx.SMA200 = ma
	} else {
		ctx.SMA200 = price
	}
	if h, l, err := Calculate52WeekRange(bars); err == nil {
		ctx.High52w, ctx.Low52w = h, l
	} else {
		ctx.High52w, ctx.Low52w = price, price
	}
	if pos, err := Calculate52WeekPosition(price, ctx.High52w, ctx.Low52w); err == nil {
		ctx.Position52w = pos
	} else {
		ctx.Position52w = 0.5
	}
	return ctx
}
