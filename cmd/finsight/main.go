package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finsight/internal/amqp"
	"finsight/internal/config"
	apphttp "finsight/internal/http"
	applog "finsight/internal/log"
	"finsight/internal/services"
	"finsight/internal/source"
	"finsight/internal/source/google"
	"finsight/internal/source/memory"
	"finsight/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: applog.ParseLevel(os.Getenv("LOG_LEVEL")), Component: "finsight"})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var (
		store   source.Store
		digests apphttp.DigestReader
	)

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
			logger.Error("Failed to initialize Google Sheets client", "error", err, "backend", cfg.DataBackend)
			os.Exit(1)
		}
		store = cli
		logger.Info("Initialized Google Sheets backend", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		store = repo
		digests = repo
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	default:
		store = memory.NewSeeded(time.Now())
		logger.Info("Initialized memory backend with seeded demo data")
	}

	// The broker is optional: without it, writes still land but no
	// digest refresh is requested.
	var publisher services.Publisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, refresh publishing disabled", "error", err)
	} else {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	service := services.NewInsightService(store, publisher)

	srv := apphttp.NewServer(service, apphttp.Options{
		Addr:         ":" + cfg.Port,
		InsightLimit: cfg.InsightLimit,
		TrendLimit:   cfg.TrendLimit,
		CacheTTL:     cfg.CacheTTL,
		Digests:      digests,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting finsight server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

// googleCredentials resolves credentials from the inline env value or
// the configured file, preferring the inline form.
func googleCredentials(cfg *config.Config) ([]byte, error) {
	if cfg.GoogleOAuthClientJSON != "" {
		return []byte(cfg.GoogleOAuthClientJSON), nil
	}
	return os.ReadFile(cfg.GoogleOAuthClientFile)
}
