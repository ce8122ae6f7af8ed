package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PivotDesk/internal/metrics"
	"PivotDesk/internal/store"
)

type fakeRefresher struct {
	fail map[string]error
	seen []string
	days int
}

func (f *fakeRefresher) Refresh(_ context.Context, symbol string, days int) (int, error) {
	f.seen = append(f.seen, symbol)
	f.days = days
	if err := f.fail[symbol]; err != nil {
		return 0, err
	}
	return 10, nil
}

type fakeAlerter struct {
	chatID int64
	texts  []string
}

func (f *fakeAlerter) SendWithRetry(_ context.Context, chatID int64, text string, _ int) error {
	f.chatID = chatID
	f.texts = append(f.texts, text)
	return nil
}

type pruneStore struct {
	store.NoopStore
	cutoff time.Time
	err    error
}

func (p *pruneStore) Prune(_ context.Context, before time.Time) (int64, error) {
	p.cutoff = before
	return 2, p.err
}

func TestRefreshWalksWholeWatchlist(t *testing.T) {
	r := &fakeRefresher{fail: map[string]error{"BAD": errors.New("provider error")}}
	a := &fakeAlerter{}
	s := NewScheduler(context.Background(), r, nil, []string{"AAPL", "BAD", "MSFT"}, 900, 0)
	s.Alerter, s.AdminChatID = a, 77
	s.Metrics = metrics.New(prometheus.NewRegistry())

	err := s.RunRefreshNow()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAD: provider error")
	assert.Equal(t, []string{"AAPL", "BAD", "MSFT"}, r.seen)
	assert.Equal(t, 900, r.days)
	assert.Equal(t, 2.0, testutil.ToFloat64(s.Metrics.RefreshTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics.RefreshTotal.WithLabelValues("error")))

	s.refreshTask()
	require.Len(t, a.texts, 1)
	assert.Equal(t, int64(77), a.chatID)
	assert.Contains(t, a.texts[0], "Cache refresh failed")
}

func TestRefreshSuccessSendsNoAlert(t *testing.T) {
	a := &fakeAlerter{}
	s := NewScheduler(context.Background(), &fakeRefresher{}, nil, []string{"SPY"}, 420, 0)
	s.Alerter, s.AdminChatID = a, 1

	s.refreshTask()
	assert.Empty(t, a.texts)
}

func TestRefreshStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &fakeRefresher{}
	s := NewScheduler(ctx, r, nil, []string{"A", "B"}, 10, 0)

	assert.ErrorIs(t, s.RunRefreshNow(), context.Canceled)
	assert.Empty(t, r.seen)
}

func TestPruneUsesRetention(t *testing.T) {
	now := time.Date(2024, 6, 14, 3, 0, 0, 0, time.UTC)
	st := &pruneStore{}
	s := NewScheduler(context.Background(), &fakeRefresher{}, st, nil, 10, 48*time.Hour)
	s.Now = func() time.Time { return now }

	n, err := s.RunPruneNow()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, now.Add(-48*time.Hour), st.cutoff)

	a := &fakeAlerter{}
	s.Alerter, s.AdminChatID = a, 5
	st.err = errors.New("disk full")
	s.pruneTask()
	require.Len(t, a.texts, 1)
	assert.Contains(t, a.texts[0], "disk full")
}

func TestRegisterAll(t *testing.T) {
	s := NewScheduler(context.Background(), &fakeRefresher{}, nil, nil, 10, time.Hour)
	require.NoError(t, s.RegisterAll("0 30 22 * * 1-5", "0 0 3 * * 0"))
	assert.Len(t, s.Cron.Entries(), 2)

	s = NewScheduler(context.Background(), &fakeRefresher{}, nil, nil, 10, time.Hour)
	require.NoError(t, s.RegisterAll("", "0 0 3 * * 0"))
	assert.Len(t, s.Cron.Entries(), 1)

	assert.Error(t, s.RegisterAll("not a cron", ""))
}
