package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finsight/internal/amqp"
	"finsight/internal/config"
	applog "finsight/internal/log"
	"finsight/internal/services"
	"finsight/internal/source"
	"finsight/internal/source/google"
	"finsight/internal/source/memory"
	"finsight/internal/storage"
	"finsight/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: applog.ParseLevel(os.Getenv("LOG_LEVEL")), Component: "finsight-worker"})
	applog.SetDefault(logger)

	logger.Info("Starting finsight-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Digests always persist to SQLite, whatever the ledger backend.
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var store source.Store
	switch cfg.DataBackend {
	case "sheets":
		creds, err := googleCredentials(cfg)
		if err != nil {
			logger.Error("Failed to load Google credentials", "error", err)
			os.Exit(1)
		}
		cli, err := google.New(context.Background(), google.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			LedgerSheet:     cfg.GoogleSheetName,
			CredentialsJSON: creds,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		store = cli
		logger.Info("Reading ledger from Google Sheets", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	case "sqlite":
		store = repo
		logger.Info("Reading ledger from SQLite", "path", cfg.SQLiteDBPath)
	default:
		store = memory.NewSeeded(time.Now())
		logger.Info("Reading ledger from seeded memory store")
	}

	service := services.NewInsightService(store, nil)
	digestWorker := worker.NewDigestWorker(service, repo, cfg.InsightLimit, cfg.TrendLimit)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// Consume refresh requests, reconnecting when the broker drops.
	go func() {
		for {
			err := amqpClient.ConsumeRefresh(ctx, func(msg *amqp.RefreshMessage) error {
				return digestWorker.HandleRefreshMessage(ctx, msg)
			})
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			if err != nil {
				logger.Error("Message consumption failed", "error", err)
			}
			if err := amqpClient.Reconnect(ctx); err != nil {
				logger.Error("Reconnect failed, stopping consumer", "error", err)
				cancel()
				return
			}
		}
	}()

	// Scheduled regeneration catches any refresh the broker lost.
	go func() {
		if err := digestWorker.RunScheduled(ctx, cfg.DigestInterval); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Scheduled digest loop failed", "error", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	logger.Info("Shutting down worker...")

	// Give in-flight digest generation a moment to finish.
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}

// googleCredentials resolves credentials from the inline env value or
// the configured file, preferring the inline form.
func googleCredentials(cfg *config.Config) ([]byte, error) {
	if cfg.GoogleOAuthClientJSON != "" {
		return []byte(cfg.GoogleOAuthClientJSON), nil
	}
	return os.ReadFile(cfg.GoogleOAuthClientFile)
}
