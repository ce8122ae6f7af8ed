package model

import (
	"fmt"
	"strings"
)

// Horizon selects lookback depth, streak thresholds, proximity tolerance
// and the calendar period that anchors the pivot ladder.
type Horizon string

const (
	HorizonShort Horizon = "short"
	HorizonMid   Horizon = "mid"
	HorizonLong  Horizon = "long"
)

// Horizons lists every horizon in display order.
var Horizons = []Horizon{HorizonShort, HorizonMid, HorizonLong}

var horizonAliases = map[string]Horizon{
	"short":  HorizonShort,
	"trade":  HorizonShort,
	"mid":    HorizonMid,
	"swing":  HorizonMid,
	"long":   HorizonLong,
	"invest": HorizonLong,
}

// ParseHorizon accepts a horizon name or one of its aliases, case-insensitively.
func ParseHorizon(s string) (Horizon, error) {
	if h, ok := horizonAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return h, nil
	}
	return "", fmt.Errorf("unknown horizon %q (want short, mid or long)", s)
}

// Label is the human-facing name of the horizon.
func (h Horizon) Label() string {
	switch h {
	case HorizonShort:
		return "Trade (1–5 days)"
	case HorizonMid:
		return "Swing (1–4 weeks)"
	case HorizonLong:
		return "Position (1–6 months)"
	default:
		return string(h)
	}
}
