// Command wiz-sync pulls the current Wiz issue set through the proxy and
// refreshes the reporting database. With SYNC_SCHEDULE unset it performs a
// single sync and exits; with a cron expression it keeps syncing on that
// schedule until interrupted.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	commonhttp "wiz-graphql-proxy/internal/common/http"
	"wiz-graphql-proxy/internal/common/logging"
	"wiz-graphql-proxy/internal/config"
	"wiz-graphql-proxy/internal/storage/postgres"
	"wiz-graphql-proxy/internal/sync"
	"wiz-graphql-proxy/internal/wiz"
)

const (
	// syncRunTimeout bounds one full fetch-and-refresh cycle.
	syncRunTimeout = 5 * time.Minute

	// proxyRequestTimeout bounds the issues query, which passes through
	// the proxy's token and upstream legs before returning.
	proxyRequestTimeout = 2 * time.Minute
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load environment variables
	_ = godotenv.Load()

	runtime.GOMAXPROCS(runtime.NumCPU())

	// Initialize logging
	logging.InitGlobalLogger()
	defer logging.MustSync()

	logging.Info("Starting Wiz sync job")

	// Load and validate configuration
	cfg := config.Load()
	if err := cfg.ValidateSync(); err != nil {
		logging.Error("Configuration validation failed", err)
		return err
	}

	client := wiz.NewClient(cfg.WizProxyURL, commonhttp.NewHTTPClientWithTimeout(proxyRequestTimeout))

	// Each run opens its own connection so a scheduled job survives
	// database restarts between runs.
	runOnce := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), syncRunTimeout)
		defer cancel()

		store, err := postgres.Connect(ctx, postgres.NewConfig(cfg))
		if err != nil {
			logging.Error("Failed to connect to PostgreSQL", err)
			return err
		}
		defer store.Close(ctx)

		return sync.New(client, store).Run(ctx)
	}

	if cfg.SyncSchedule == "" {
		return runOnce()
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.SyncSchedule, func() {
		if err := runOnce(); err != nil {
			logging.Error("Scheduled sync failed", err)
		}
	}); err != nil {
		logging.Error("Invalid sync schedule", err,
			logging.String("schedule", cfg.SyncSchedule))
		return err
	}

	scheduler.Start()
	logging.Info("Sync scheduler started",
		logging.String("schedule", cfg.SyncSchedule))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logging.Info("Stopping sync scheduler...")
	<-scheduler.Stop().Done()
	logging.Info("Scheduler exited")
	return nil
}
