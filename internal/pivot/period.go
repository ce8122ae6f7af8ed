package pivot

import (
	"time"

	"PivotDesk/internal/model"
)

// Period is the calendar unit a pivot ladder is anchored to.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// PeriodFor maps a horizon onto its reference period.
func PeriodFor(h model.Horizon) Period {
	switch h {
	case model.HorizonShort:
		return PeriodWeek
	case model.HorizonLong:
		return PeriodYear
	default:
		return PeriodMonth
	}
}

// Config holds the calendar conventions of the period selector.
type Config struct {
	// WeekStart is the first day of a trading week.
	WeekStart time.Weekday
	// FallbackBars is how many trailing bars stand in for a period with no bars.
	FallbackBars map[Period]int
}

// DefaultConfig uses Monday-start weeks and 5/21/252 fallback bars.
func DefaultConfig() Config {
	return Config{
		WeekStart: time.Monday,
		FallbackBars: map[Period]int{
			PeriodWeek:  5,
			PeriodMonth: 21,
			PeriodYear:  252,
		},
	}
}

// Window is an inclusive range of calendar dates.
type Window struct {
	Period Period
	Start  time.Time
	End    time.Time
}

// Contains reports whether t falls on a date inside the window.
func (w Window) Contains(t time.Time) bool {
	d := model.Day(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// PreviousWindow returns the last period of the given kind that ended before the one containing last.
func (c Config) PreviousWindow(p Period, last time.Time) Window {
	d := model.Day(last)
	switch p {
	case PeriodWeek:
		offset := (int(d.Weekday()) - int(c.WeekStart) + 7) % 7
		start := d.AddDate(0, 0, -offset-7)
		return Window{Period: p, Start: start, End: start.AddDate(0, 0, 6)}
	case PeriodYear:
		y := d.Year() - 1
		return Window{
			Period: p,
			Start:  time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:    time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC),
		}
	default:
		end := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
		return Window{
			Period: PeriodMonth,
			Start:  time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC),
			End:    end,
		}
	}
}

// Segment selects the bars of the previous completed period. When that window holds
// no bars it falls back to the trailing FallbackBars[p] bars and reports fallback=true.
// The returned segment is empty only when bars is empty.
func (c Config) Segment(bars []model.OHLCV, p Period) (seg []model.OHLCV, w Window, fallback bool) {
	if len(bars) == 0 {
		return nil, Window{Period: p}, false
	}
	w = c.PreviousWindow(p, bars[len(bars)-1].Time)
	for _, b := range bars {
		if w.Contains(b.Time) {
			seg = append(seg, b)
		}
	}
	if len(seg) > 0 {
		return seg, w, false
	}

	n := c.FallbackBars[p]
	if n <= 0 || n > len(bars) {
		n = len(bars)
	}
	return bars[len(bars)-n:], w, true
}
