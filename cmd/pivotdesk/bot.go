package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"PivotDesk/internal/config"
	"PivotDesk/internal/notifier"
	"PivotDesk/internal/scheduler"
)

// botCmd implements 'pivotdesk bot'
var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot with cache refresh jobs and a metrics endpoint",
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(config.ModeBot); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	log.Info().Msg("PivotDesk bot starting...")

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	api, err := notifier.NewBotAPI(cfg.Telegram.BotToken, cfg.Proxy)
	if err != nil {
		return err
	}
	tn := notifier.NewTelegramNotifier(api)
	bot := notifier.NewBot(a.analyst, notifier.NewNarrator(cfg.Telegram.Template, true), tn)

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(ctx, a.collector, a.store, cfg.Schedule.Watchlist, maxLookback(a.params), cfg.Cache.Retention)
	sched.Alerter, sched.AdminChatID, sched.Metrics = tn, cfg.Telegram.AdminChatID, a.metrics
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.PruneCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("metrics endpoint listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	go bot.Run(ctx, api, cfg.Telegram.PollTimeout)

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, refreshing watchlist now")
		go func() {
			if err := sched.RunRefreshNow(); err != nil {
				log.Warn().Err(err).Msg("startup refresh incomplete")
			}
		}()
	}

	log.Info().Strs("watchlist", cfg.Schedule.Watchlist).Msg("PivotDesk is running. Press Ctrl+C to stop.")
	<-ctx.Done()

	log.Info().Msg("shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("metrics server shutdown")
	}
	log.Info().Msg("PivotDesk stopped")
	return nil
}
