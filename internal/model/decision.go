package model

import "time"

// Stance is the engine's directional recommendation.
type Stance string

const (
	StanceBuy   Stance = "BUY"
	StanceShort Stance = "SHORT"
	StanceWait  Stance = "WAIT"
)

// Zone is a closed price interval.
type Zone struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Mid returns the centre of the zone.
func (z Zone) Mid() float64 { return (z.Low + z.High) / 2 }

// PivotLadder holds the seven support/resistance levels of one reference period.
type PivotLadder struct {
	P  float64 `json:"p"`
	R1 float64 `json:"r1"`
	R2 float64 `json:"r2"`
	R3 float64 `json:"r3"`
	S1 float64 `json:"s1"`
	S2 float64 `json:"s2"`
	S3 float64 `json:"s3"`
}

// IndicatorSnapshot holds the latest indicator readings used by the engine.
// Streak sign encodes direction, magnitude the run length ending at the latest bar.
type IndicatorSnapshot struct {
	TrendStreak    int     `json:"trend_streak"`
	MomentumStreak int     `json:"momentum_streak"`
	Oscillator     float64 `json:"oscillator"`
	Volatility     float64 `json:"volatility"`
}

// MarketContext is informational only and never drives the stance.
type MarketContext struct {
	SMA200      float64 `json:"sma200"`
	High52w     float64 `json:"high_52w"`
	Low52w      float64 `json:"low_52w"`
	Position52w float64 `json:"position_52w"` // 0.0 ~ 1.0
}

// Diagnostics is the operator-facing view of how a decision was reached.
type Diagnostics struct {
	Price          float64           `json:"price"`
	LastDate       time.Time         `json:"last_date"`
	Horizon        Horizon           `json:"horizon"`
	PeriodLabel    string            `json:"period"`
	PeriodStart    time.Time         `json:"period_start"`
	PeriodEnd      time.Time         `json:"period_end"`
	PeriodFallback bool              `json:"period_fallback"`
	Ladder         PivotLadder       `json:"pivots"`
	Indicators     IndicatorSnapshot `json:"indicators"`
	NearLevel      string            `json:"near_level"`
	Context        MarketContext     `json:"context"`
}

// Decision is the final output of the strategy engine. Plan fields are nil when absent;
// Shadow marks the lower-conviction plan that accompanies a WAIT stance.
type Decision struct {
	Stance      Stance      `json:"stance"`
	Entry       *Zone       `json:"entry,omitempty"`
	Target1     *float64    `json:"target1,omitempty"`
	Target2     *float64    `json:"target2,omitempty"`
	Stop        *float64    `json:"stop,omitempty"`
	Shadow      bool        `json:"shadow"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// HasPlan reports whether any price level is attached to the decision.
func (d *Decision) HasPlan() bool {
	return d.Entry != nil || d.Target1 != nil || d.Target2 != nil || d.Stop != nil
}
