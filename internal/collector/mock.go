package collector

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"PivotDesk/internal/model"
)

// MockFetcher returns deterministic data for development and testing.
type MockFetcher struct {
	Price     float64
	DailyData []model.OHLCV
	Err       error
	Now       func() time.Time
	Calls     atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.OHLCV, error) {
	m.Calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	price := m.Price
	if price <= 0 {
		price = 100
	}
	// Providers pad the window by ten calendar days; so does the mock.
	return generateMockBars(price, days+10, model.Day(now())), nil
}

// generateMockBars draws one bar per calendar day ending at last: a slow drift
// with a sine swing so every indicator has something to chew on.
func generateMockBars(basePrice float64, count int, last time.Time) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001 + 0.04*math.Sin(float64(i)/9))
		bars[i] = model.OHLCV{
			Time:   last.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
