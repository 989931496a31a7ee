package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"moneymap/internal/amqp"
	"moneymap/internal/config"
	"moneymap/internal/core"
	"moneymap/internal/services"
	"moneymap/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting materialize-worker")

	// Load configuration
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite repository
	sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer sqliteRepo.Close()

	// Initialize AMQP client for publishing period notifications
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in SQLite-only mode", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized - period notifications will be published")
		}
	} else {
		logger.Info("AMQP disabled - period notifications will not be published")
	}

	materializer := services.NewMaterializer(sqliteRepo)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Materializer configured",
		"cron", cfg.MaterializeCron,
		"horizon_months", cfg.HorizonMonths,
		"sqlite_db", cfg.SQLiteDBPath)

	run := func() {
		report, err := materializer.Materialize(ctx, core.DateOf(time.Now()), cfg.HorizonMonths)
		if err != nil {
			logger.Error("Materialization run failed", "error", err)
			return
		}
		logger.Info("Materialization run complete",
			"entries_created", report.Created,
			"failed_units", len(report.Failed))

		if amqpClient == nil {
			return
		}
		for _, p := range report.Periods {
			err := amqpClient.PublishPeriodMaterialized(ctx, p.Period.Year, p.Period.Month, p.Created, p.Failed)
			if err != nil {
				logger.Error("Failed to publish period notification",
					"period", p.Period.String(),
					"error", err)
			}
		}
	}

	// Run once on startup
	logger.Info("Running initial materialization...")
	run()

	// Schedule recurring runs
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.MaterializeCron, run); err != nil {
		logger.Error("Failed to schedule materialization", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down materialize-worker...")
	cancel()

	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
		logger.Info("Materialize-worker shutdown complete")
	case <-time.After(30 * time.Second):
		logger.Warn("Shutdown timeout reached")
	}
}
