package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"PivotDesk/internal/metrics"
	"PivotDesk/internal/store"
)

// Refresher re-fetches one symbol into the bar cache.
type Refresher interface {
	Refresh(ctx context.Context, symbol string, days int) (int, error)
}

// Alerter delivers operator alerts.
type Alerter interface {
	SendWithRetry(ctx context.Context, chatID int64, text string, maxRetries int) error
}

// Scheduler keeps the bar cache warm for the watchlist and prunes stale
// entries. It never computes or stores decisions.
type Scheduler struct {
	Cron        *cron.Cron
	Refresher   Refresher
	Store       store.BarStore
	Alerter     Alerter // nil disables alerts
	AdminChatID int64
	Watchlist   []string
	Days        int           // lookback to refresh, the deepest any horizon needs
	Retention   time.Duration // cache entries older than this are pruned
	Metrics     *metrics.Metrics
	Ctx         context.Context
	Now         func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, r Refresher, st store.BarStore, watchlist []string, days int, retention time.Duration) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Refresher: r,
		Store:     st,
		Watchlist: watchlist,
		Days:      days,
		Retention: retention,
		Ctx:       ctx,
		Now:       time.Now,
	}
}

// RegisterAll registers the refresh and prune tasks; an empty expression skips a task.
func (s *Scheduler) RegisterAll(refreshCron, pruneCron string) error {
	if refreshCron != "" {
		if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
			return fmt.Errorf("register refresh task: %w", err)
		}
	}
	if pruneCron != "" {
		if _, err := s.Cron.AddFunc(pruneCron, s.pruneTask); err != nil {
			return fmt.Errorf("register prune task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunRefreshNow refreshes the watchlist immediately (RUN_ON_START).
func (s *Scheduler) RunRefreshNow() error {
	return s.refresh()
}

// RunPruneNow prunes the cache immediately.
func (s *Scheduler) RunPruneNow() (int64, error) {
	return s.prune()
}

func (s *Scheduler) refreshTask() {
	if err := s.refresh(); err != nil {
		s.trySend("❌ Cache refresh failed\n" + html.EscapeString(err.Error()))
	}
}

func (s *Scheduler) pruneTask() {
	if _, err := s.prune(); err != nil {
		s.trySend("❌ Cache prune failed: " + html.EscapeString(err.Error()))
	}
}

// refresh walks the whole watchlist even when some symbols fail and returns
// the joined failures.
func (s *Scheduler) refresh() error {
	if len(s.Watchlist) == 0 {
		return nil
	}
	log.Info().Int("symbols", len(s.Watchlist)).Msg("refreshing bar cache")

	var errs []error
	for _, sym := range s.Watchlist {
		if s.Ctx.Err() != nil {
			errs = append(errs, s.Ctx.Err())
			break
		}
		n, err := s.Refresher.Refresh(s.Ctx, sym, s.Days)
		s.Metrics.ObserveRefresh(err)
		if err != nil {
			log.Error().Err(err).Str("symbol", sym).Msg("refresh failed")
			errs = append(errs, fmt.Errorf("%s: %w", sym, err))
			continue
		}
		log.Debug().Str("symbol", sym).Int("bars", n).Msg("refreshed")
	}
	if len(errs) > 0 {
		log.Warn().Int("failed", len(errs)).Int("symbols", len(s.Watchlist)).Msg("refresh finished with errors")
	}
	return errors.Join(errs...)
}

func (s *Scheduler) prune() (int64, error) {
	if s.Store == nil || s.Retention <= 0 {
		return 0, nil
	}
	cutoff := s.Now().Add(-s.Retention)
	n, err := s.Store.Prune(s.Ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("prune failed")
		return 0, err
	}
	log.Info().Int64("removed", n).Time("cutoff", cutoff).Msg("bar cache pruned")
	return n, nil
}

func (s *Scheduler) trySend(text string) {
	if s.Alerter == nil || s.AdminChatID == 0 {
		return
	}
	if err := s.Alerter.SendWithRetry(s.Ctx, s.AdminChatID, text, 3); err != nil {
		log.Error().Err(err).Msg("send alert failed")
	}
}
