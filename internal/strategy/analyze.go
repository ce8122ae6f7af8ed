package strategy

import (
	"errors"

	"PivotDesk/internal/calculator"
	"PivotDesk/internal/model"
	"PivotDesk/internal/pivot"
)

// ErrNoBars is returned when there is no price history to analyse.
var ErrNoBars = errors.New("no price bars")

// Analyze runs the full pipeline over a date-ordered bar sequence: indicators and
// period selection, the pivot ladder, then the decision rules for the horizon.
func Analyze(bars []model.OHLCV, h model.Horizon, params Params) (*model.Decision, error) {
	if len(bars) == 0 {
		return nil, ErrNoBars
	}
	seg, window, fallback := params.Periods.Segment(bars, pivot.PeriodFor(h))
	last := bars[len(bars)-1]

	in := Input{
		Price:    last.Close,
		LastDate: model.Day(last.Time),
		Horizon:  h,
		Window:   window,
		Fallback: fallback,
		Ladder:   pivot.FromSegment(seg),
		Snapshot: calculator.Snapshot(bars),
		Context:  calculator.Context(bars),
	}
	return Decide(in, params.For(h)), nil
}
