package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budgetbook/internal/amqp"
	"budgetbook/internal/analysis"
	"budgetbook/internal/config"
	gexport "budgetbook/internal/export/google"
	apphttp "budgetbook/internal/http"
	applog "budgetbook/internal/log"
	"budgetbook/internal/seed"
	"budgetbook/internal/services"
	"budgetbook/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	defaultUserID, err := repo.EnsureUser(ctx, "default", "default@localhost")
	if err != nil {
		logger.Error("Failed to ensure default user", "error", err)
		os.Exit(1)
	}

	if cfg.SeedCategories {
		if _, err := seed.Categories(ctx, repo, logger); err != nil {
			logger.Error("Failed to seed categories", "error", err)
			os.Exit(1)
		}
	}

	aggregator := analysis.NewAggregator(repo)
	orchestrator := analysis.NewOrchestrator(repo, aggregator, logger)
	projector := analysis.NewProjector(repo, repo)

	// AMQP is optional: without a broker every recompute runs synchronously.
	var publisher services.RecomputePublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, recomputes will run synchronously", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	hook := services.NewRecomputeHook(publisher, orchestrator, logger)
	periodService := services.NewPeriodService(repo, hook)
	transactionService := services.NewTransactionService(repo, hook)
	budgetService := services.NewBudgetService(repo, hook)

	var exporter apphttp.ReportExporter
	if cfg.SheetsExportEnabled() {
		exp, err := gexport.New(ctx, gexport.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsFile: cfg.GoogleCredentialsFile,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
		})
		if err != nil {
			logger.Error("Failed to initialize Sheets exporter", "error", err)
			os.Exit(1)
		}
		exporter = exp
		logger.Info("Sheets exporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Options{
		Periods:         periodService,
		Transactions:    transactionService,
		Budget:          budgetService,
		Reporter:        projector,
		Recomputer:      orchestrator,
		Categories:      repo,
		Exporter:        exporter,
		DefaultUserID:   defaultUserID,
		ReportCacheSize: cfg.ReportCacheSize,
		ReportCacheTTL:  cfg.ReportCacheTTL,
	})

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

	logger.Info("Starting budgetbook server", "port", cfg.Port, "db", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
