package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tally/internal/amqp"
	"tally/internal/blobstore"
	"tally/internal/config"
	"tally/internal/export"
	"tally/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting tally-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	blobs, err := blobstore.Open(ctx, cfg.Backend, cfg.SQLiteDBPath, cfg.PostgresURL)
	if err != nil {
		logger.Error("Failed to initialize blob store", "error", err, "backend", cfg.Backend)
		os.Exit(1)
	}
	defer blobs.Close()

	fileExporter, err := export.NewFileExporter(cfg.ExportDir)
	if err != nil {
		logger.Error("Failed to initialize file exporter", "error", err, "dir", cfg.ExportDir)
		os.Exit(1)
	}
	exporters := []export.Exporter{fileExporter}

	// Google Sheets mirror is optional
	if cfg.SheetsSpreadsheetID != "" {
		sheets, err := export.NewSheetsExporter(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsSheetName)
		if err != nil {
			logger.Error("Failed to initialize sheets exporter", "error", err)
			os.Exit(1)
		}
		exporters = append(exporters, sheets)
		logger.Info("Sheets mirror enabled", "spreadsheet_id", cfg.SheetsSpreadsheetID, "sheet", cfg.SheetsSheetName)
	} else {
		logger.Info("Sheets mirror disabled - no SHEETS_SPREADSHEET_ID provided")
	}

	// AMQP is optional; without it the worker runs on the interval alone
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	w := worker.NewExportWorker(blobs, exporters...)

	// Catch up on anything missed while the worker was down
	if err := w.ExportOnce(ctx); err != nil {
		logger.Error("Startup export failed", "error", err)
	}

	logger.Info("Worker running", "interval", cfg.ExportInterval.String(), "export_dir", cfg.ExportDir)
	if err := w.Run(ctx, amqpClient, cfg.ExportInterval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
