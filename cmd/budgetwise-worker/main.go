package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budgetwise/internal/amqp"
	"budgetwise/internal/config"
	"budgetwise/internal/export"
	"budgetwise/internal/services"
	"budgetwise/internal/storage"
	"budgetwise/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting budgetwise-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer sqliteRepo.Close()

	// Initialize the Google Sheets exporter (optional)
	var exporter worker.InsightsExporter
	if cfg.ExportEnabled() {
		sheetsExporter, err := export.New(context.Background(), export.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsFile: cfg.GoogleCredentialsFile,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets exporter", "error", err)
			os.Exit(1)
		}
		exporter = sheetsExporter
		logger.Info("Google Sheets exporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	// Initialize AMQP client for consuming analysis requests
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// The worker computes reports but never enqueues new requests, so its
	// service runs without a publisher.
	insights := services.NewInsightService(sqliteRepo, nil)

	analysisWorker := worker.NewAnalysisWorker(insights, exporter)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// On startup, recompute reports for known users so stored reports and
	// trained models survive a database restore.
	logger.Info("Performing startup recompute check...")
	userIDs, err := sqliteRepo.ListUserIDs(ctx)
	if err != nil {
		logger.Error("Failed to list users for startup recompute", "error", err)
		// Don't exit - continue with normal operation
	} else if err := analysisWorker.StartupRecomputeCheck(ctx, userIDs, cfg.AnalysisMonths); err != nil {
		logger.Error("Failed startup recompute check", "error", err)
		// Don't exit - continue with normal operation
	}

	// Start message consumption
	go func() {
		handler := func(msg *amqp.AnalysisRequestMessage) error {
			return analysisWorker.HandleAnalysisRequest(ctx, msg)
		}
		if err := amqpClient.ConsumeAnalysisRequests(ctx, handler); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Give worker time to finish current operations
	logger.Info("Shutting down worker...")
	cancel()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-time.After(5 * time.Second):
		logger.Info("Worker shutdown complete")
	}
}
