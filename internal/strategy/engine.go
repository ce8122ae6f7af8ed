package strategy

import (
	"math"
	"time"

	"PivotDesk/internal/model"
	"PivotDesk/internal/pivot"
)

const proximityEpsilon = 1e-6

// Entry band half-widths and stop multipliers (in units of tolerance).
const (
	outerBand = 0.003 // around R3/S3
	innerBand = 0.004 // around R2/S2 and the shadow levels R1/S1
	outerStop = 1.2
	innerStop = 1.5
)

// Near level labels carried in diagnostics.
const (
	LevelR3   = "R3"
	LevelR2   = "R2"
	LevelS3   = "S3"
	LevelS2   = "S2"
	LevelNone = "none"
)

// Input is everything the engine needs for one decision.
type Input struct {
	Price    float64
	LastDate time.Time
	Horizon  model.Horizon
	Window   pivot.Window
	Fallback bool
	Ladder   model.PivotLadder
	Snapshot model.IndicatorSnapshot
	Context  model.MarketContext
}

// Near reports whether price is within tol of level, relative to the level.
func Near(price, level, tol float64) bool {
	return math.Abs(price-level)/math.Max(proximityEpsilon, level) <= tol
}

// NearResistance also holds once price has pushed through the level.
func NearResistance(price, level, tol float64) bool {
	return Near(price, level, tol) || price > level
}

// NearSupport also holds once price has dropped through the level.
func NearSupport(price, level, tol float64) bool {
	return Near(price, level, tol) || price < level
}

// Decide applies the rules in priority order: short zone, long zone, then WAIT with
// a shadow plan around the central pivot.
func Decide(in Input, th Thresholds) *model.Decision {
	l, price, tol := in.Ladder, in.Price, th.Tolerance
	snap := in.Snapshot

	nearR2 := NearResistance(price, l.R2, tol)
	nearR3 := NearResistance(price, l.R3, tol)
	nearS2 := NearSupport(price, l.S2, tol)
	nearS3 := NearSupport(price, l.S3, tol)

	exhaustedUp := snap.TrendStreak >= th.TrendNeed || snap.MomentumStreak >= th.MomentumNeed
	exhaustedDown := snap.TrendStreak <= -th.TrendNeed || snap.MomentumStreak <= -th.MomentumNeed

	d := &model.Decision{Diagnostics: diagnostics(in, nearLevel(nearR3, nearR2, nearS3, nearS2))}

	switch {
	case (nearR2 || nearR3) && exhaustedUp:
		d.Stance = model.StanceShort
		if nearR3 {
			setPlan(d, band(l.R3, outerBand), l.R2, l.P, l.R3*(1+outerStop*tol))
		} else {
			setPlan(d, band(l.R2, innerBand), (l.P+l.S1)/2, l.S1, l.R2*(1+innerStop*tol))
		}
	case (nearS2 || nearS3) && exhaustedDown:
		d.Stance = model.StanceBuy
		if nearS3 {
			setPlan(d, band(l.S3, outerBand), l.S2, l.P, l.S3*(1-outerStop*tol))
		} else {
			setPlan(d, band(l.S2, innerBand), (l.P+l.R1)/2, l.R1, l.S2*(1-innerStop*tol))
		}
	default:
		d.Stance = model.StanceWait
		d.Shadow = true
		if price < l.P {
			setPlan(d, band(l.S1, innerBand), l.P, l.R1, l.S2*(1-outerStop*tol))
		} else {
			setPlan(d, band(l.R1, innerBand), l.P, l.S1, l.R2*(1+outerStop*tol))
		}
	}
	return d
}

func nearLevel(r3, r2, s3, s2 bool) string {
	switch {
	case r3:
		return LevelR3
	case r2:
		return LevelR2
	case s3:
		return LevelS3
	case s2:
		return LevelS2
	default:
		return LevelNone
	}
}

func diagnostics(in Input, near string) model.Diagnostics {
	return model.Diagnostics{
		Price:          in.Price,
		LastDate:       in.LastDate,
		Horizon:        in.Horizon,
		PeriodLabel:    string(in.Window.Period),
		PeriodStart:    in.Window.Start,
		PeriodEnd:      in.Window.End,
		PeriodFallback: in.Fallback,
		Ladder:         in.Ladder,
		Indicators:     in.Snapshot,
		NearLevel:      near,
		Context:        in.Context,
	}
}

func band(level, pct float64) model.Zone {
	return model.Zone{Low: level * (1 - pct), High: level * (1 + pct)}
}

func setPlan(d *model.Decision, entry model.Zone, t1, t2, stop float64) {
	d.Entry = &entry
	d.Target1 = &t1
	d.Target2 = &t2
	d.Stop = &stop
}
