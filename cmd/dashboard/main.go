package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sam-maryland/gridiron-dashboard/internal/api"
	"github.com/sam-maryland/gridiron-dashboard/internal/config"
	"github.com/sam-maryland/gridiron-dashboard/internal/dashboard"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	config.LoadDotEnv()
	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		dashboard.NewLogger("info").WithError(err).Fatal("Failed to load config")
	}
	cfg.ApplyEnv()

	logger := dashboard.NewLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closeStore, err := dashboard.Open(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize dashboard")
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.WithError(err).Warn("Failed to close snapshot store")
		}
	}()

	var scheduler *dashboard.Scheduler
	if cfg.Schedule.Enabled {
		scheduler, err = dashboard.NewScheduler(cfg.Schedule.RefreshCron, cfg.Schedule.Timezone, 2*time.Minute, svc, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create refresh scheduler")
		}
		scheduler.Start()
	}

	srv := api.NewServer(cfg.Server.Addr, svc, logger)
	if err := srv.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to start dashboard API")
	}

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("Dashboard API did not shut down cleanly")
	}
	if scheduler != nil {
		select {
		case <-scheduler.Stop().Done():
		case <-shutdownCtx.Done():
			logger.Warn("Refresh still running at shutdown")
		}
	}
	logger.Info("Stopped")
}
