package pivot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PivotDesk/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodFor(t *testing.T) {
	assert.Equal(t, PeriodWeek, PeriodFor(model.HorizonShort))
	assert.Equal(t, PeriodMonth, PeriodFor(model.HorizonMid))
	assert.Equal(t, PeriodYear, PeriodFor(model.HorizonLong))
}

func TestPreviousWindow(t *testing.T) {
	cfg := DefaultConfig()
	sundayStart := DefaultConfig()
	sundayStart.WeekStart = time.Sunday

	tests := []struct {
		name       string
		cfg        Config
		period     Period
		last       time.Time
		start, end time.Time
	}{
		{"week from wednesday", cfg, PeriodWeek, date(2024, 5, 15), date(2024, 5, 6), date(2024, 5, 12)},
		{"week from monday", cfg, PeriodWeek, date(2024, 5, 13), date(2024, 5, 6), date(2024, 5, 12)},
		{"week from sunday", cfg, PeriodWeek, date(2024, 5, 19), date(2024, 5, 6), date(2024, 5, 12)},
		{"week across month", cfg, PeriodWeek, date(2024, 3, 4), date(2024, 2, 26), date(2024, 3, 3)},
		{"sunday-start week", sundayStart, PeriodWeek, date(2024, 5, 15), date(2024, 5, 5), date(2024, 5, 11)},
		{"month leap february", cfg, PeriodMonth, date(2024, 3, 10), date(2024, 2, 1), date(2024, 2, 29)},
		{"month across year", cfg, PeriodMonth, date(2024, 1, 2), date(2023, 12, 1), date(2023, 12, 31)},
		{"year", cfg, PeriodYear, date(2024, 6, 1), date(2023, 1, 1), date(2023, 12, 31)},
		{"year on jan 1", cfg, PeriodYear, date(2024, 1, 1), date(2023, 1, 1), date(2023, 12, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.cfg.PreviousWindow(tt.period, tt.last.Add(15*time.Hour))
			assert.Equal(t, tt.period, w.Period)
			assert.True(t, tt.start.Equal(w.Start), "start %s, want %s", w.Start, tt.start)
			assert.True(t, tt.end.Equal(w.End), "end %s, want %s", w.End, tt.end)
		})
	}
}

func dailyBars(from time.Time, n int) []model.OHLCV {
	bars := make([]model.OHLCV, 0, n)
	for d := from; len(bars) < n; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := 100 + float64(len(bars))
		bars = append(bars, model.OHLCV{Time: d, Open: p, High: p + 1, Low: p - 1, Close: p})
	}
	return bars
}

func TestSegment_PreviousMonth(t *testing.T) {
	cfg := DefaultConfig()
	bars := dailyBars(date(2024, 1, 1), 60) // runs into late March
	seg, w, fallback := cfg.Segment(bars, PeriodMonth)
	require.NotEmpty(t, seg)
	assert.False(t, fallback)
	assert.Equal(t, date(2024, 2, 1), w.Start)
	for _, b := range seg {
		assert.Equal(t, time.February, b.Time.Month())
	}
	assert.Len(t, seg, 21)
}

func TestSegment_FallbackWhenWindowEmpty(t *testing.T) {
	cfg := DefaultConfig()
	// A new listing: every bar is inside the current month.
	bars := dailyBars(date(2024, 4, 1), 15)
	seg, w, fallback := cfg.Segment(bars, PeriodMonth)
	assert.True(t, fallback)
	assert.Equal(t, date(2024, 3, 1), w.Start)
	assert.Len(t, seg, 15)

	bars = dailyBars(date(2024, 1, 1), 40)
	seg, _, fallback = cfg.Segment(bars, PeriodYear)
	assert.True(t, fallback)
	assert.Len(t, seg, 40)

	seg, _, fallback = cfg.Segment(bars[:12], PeriodWeek)
	// 2024-01-01 is a Monday, so twelve weekdays reach into the third week.
	assert.False(t, fallback)
	assert.Len(t, seg, 5)

	cfg.FallbackBars[PeriodWeek] = 3
	seg, _, fallback = cfg.Segment(bars[:4], PeriodWeek)
	assert.True(t, fallback)
	assert.Len(t, seg, 3)
	assert.Equal(t, bars[3], seg[len(seg)-1])
}

func TestSegment_Empty(t *testing.T) {
	seg, w, fallback := DefaultConfig().Segment(nil, PeriodWeek)
	assert.Empty(t, seg)
	assert.False(t, fallback)
	assert.Equal(t, PeriodWeek, w.Period)
}
