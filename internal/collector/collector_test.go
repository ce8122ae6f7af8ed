package collector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PivotDesk/internal/model"
	"PivotDesk/internal/store"
)

var testNow = time.Date(2024, 6, 14, 18, 0, 0, 0, time.UTC)

type memStore struct {
	bars      map[string][]model.OHLCV
	fetchedAt map[string]time.Time
	saves     int
}

func newMemStore() *memStore {
	return &memStore{bars: map[string][]model.OHLCV{}, fetchedAt: map[string]time.Time{}}
}

func (s *memStore) Load(_ context.Context, symbol string) ([]model.OHLCV, time.Time, error) {
	b, ok := s.bars[symbol]
	if !ok {
		return nil, time.Time{}, store.ErrNotFound
	}
	return b, s.fetchedAt[symbol], nil
}

func (s *memStore) Save(_ context.Context, symbol string, bars []model.OHLCV, at time.Time) error {
	s.saves++
	s.bars[symbol] = bars
	s.fetchedAt[symbol] = at
	return nil
}

func (s *memStore) Prune(context.Context, time.Time) (int64, error) { return 0, nil }
func (s *memStore) Name() string                                    { return "mem" }
func (s *memStore) Close() error                                    { return nil }

func bar(day time.Time, c float64) model.OHLCV {
	return model.OHLCV{Time: day, Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 10}
}

func TestCleanSortsDedupsAndDropsInvalid(t *testing.T) {
	d := func(n int) time.Time { return time.Date(2024, 1, n, 15, 30, 0, 0, time.UTC) }
	raw := []model.OHLCV{
		bar(d(3), 103),
		bar(d(1), 101),
		{Time: d(2), Open: 0, High: 1, Low: 0, Close: 1}, // non-positive
		{Time: d(4), Open: 5, High: 4, Low: 6, Close: 5}, // low above high
		bar(d(3), 113),
		bar(d(2), 102),
	}
	got := Clean(raw)
	require.Len(t, got, 3)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), got[0].Time)
	assert.Equal(t, 102.0, got[1].Close)
	assert.Equal(t, 113.0, got[2].Close, "last duplicate wins")
	assert.Equal(t, 103.0, raw[0].Close, "input untouched")
}

func TestCollectorCachesFreshBars(t *testing.T) {
	mock := &MockFetcher{Price: 50, Now: func() time.Time { return testNow }}
	mem := newMemStore()
	c := NewCollector(mock, mem, time.Hour, nil)
	c.Now = func() time.Time { return testNow }

	first, err := c.Collect(context.Background(), " aapl ", 60)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	assert.Equal(t, int64(1), mock.Calls.Load())
	assert.Contains(t, mem.bars, "AAPL")

	second, err := c.Collect(context.Background(), "AAPL", 60)
	require.NoError(t, err)
	assert.Equal(t, int64(1), mock.Calls.Load(), "served from cache")
	assert.Equal(t, first, second)

	// A deeper lookback than the cached set forces a fetch.
	_, err = c.Collect(context.Background(), "AAPL", 400)
	require.NoError(t, err)
	assert.Equal(t, int64(2), mock.Calls.Load())

	// Expired entries are refetched.
	c.Now = func() time.Time { return testNow.Add(2 * time.Hour) }
	_, err = c.Collect(context.Background(), "AAPL", 60)
	require.NoError(t, err)
	assert.Equal(t, int64(3), mock.Calls.Load())
}

func TestCollectorTrimsToLookback(t *testing.T) {
	mock := &MockFetcher{Price: 50, Now: func() time.Time { return testNow }}
	c := NewCollector(mock, nil, 0, nil)
	c.Now = func() time.Time { return testNow }

	bars, err := c.Collect(context.Background(), "X", 30)
	require.NoError(t, err)
	assert.Len(t, bars, 40)
	assert.Equal(t, model.Day(testNow), bars[len(bars)-1].Time)
}

func TestCollectorPropagatesProviderErrors(t *testing.T) {
	c := NewCollector(&MockFetcher{Err: ErrProvider}, nil, time.Hour, nil)
	_, err := c.Collect(context.Background(), "AAPL", 30)
	assert.ErrorIs(t, err, ErrProvider)

	c = NewCollector(&MockFetcher{DailyData: []model.OHLCV{}}, nil, time.Hour, nil)
	_, err = c.Collect(context.Background(), "AAPL", 30)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestCollectorRefresh(t *testing.T) {
	mem := newMemStore()
	c := NewCollector(&MockFetcher{Price: 10, Now: func() time.Time { return testNow }}, mem, time.Hour, nil)
	c.Now = func() time.Time { return testNow }

	n, err := c.Refresh(context.Background(), "msft", 20)
	require.NoError(t, err)
	assert.Equal(t, 30, n)
	assert.Equal(t, testNow, mem.fetchedAt["MSFT"])

	c.Fetcher = &MockFetcher{Err: errors.New("boom")}
	_, err = c.Refresh(context.Background(), "msft", 20)
	assert.Error(t, err)
	assert.Equal(t, 1, mem.saves)
}

func TestMockFetcherCountsConcurrentCalls(t *testing.T) {
	mock := &MockFetcher{Price: 20, Now: func() time.Time { return testNow }}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mock.FetchDailyBars(context.Background(), "BTCUSD", 15)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(32), mock.Calls.Load())
}
