package strategy

import (
	"PivotDesk/internal/model"
	"PivotDesk/internal/pivot"
)

// Thresholds are the horizon-dependent constants of the decision rules.
type Thresholds struct {
	TrendNeed    int     // smoothed-candle streak that counts as exhausted
	MomentumNeed int     // histogram streak that counts as exhausted
	Tolerance    float64 // max relative distance still "at" a pivot level
	LookbackDays int     // calendar days of history to request
}

// DefaultThresholds is the horizon lookup table.
var DefaultThresholds = map[model.Horizon]Thresholds{
	model.HorizonShort: {TrendNeed: 4, MomentumNeed: 4, Tolerance: 0.008, LookbackDays: 420},
	model.HorizonMid:   {TrendNeed: 5, MomentumNeed: 6, Tolerance: 0.010, LookbackDays: 420},
	model.HorizonLong:  {TrendNeed: 6, MomentumNeed: 8, Tolerance: 0.012, LookbackDays: 900},
}

// Params bundles every tunable of one analysis.
type Params struct {
	Horizons map[model.Horizon]Thresholds
	Periods  pivot.Config
}

// DefaultParams returns a fresh copy of the default tables.
func DefaultParams() Params {
	horizons := make(map[model.Horizon]Thresholds, len(DefaultThresholds))
	for h, th := range DefaultThresholds {
		horizons[h] = th
	}
	return Params{Horizons: horizons, Periods: pivot.DefaultConfig()}
}

// For returns the thresholds of h, falling back to the defaults for unknown entries.
func (p Params) For(h model.Horizon) Thresholds {
	if th, ok := p.Horizons[h]; ok {
		return th
	}
	if th, ok := DefaultThresholds[h]; ok {
		return th
	}
	return DefaultThresholds[model.HorizonMid]
}
