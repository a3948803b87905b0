package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hello-world/internal/config"
	"hello-world/internal/infrastructure/external"
	"hello-world/internal/infrastructure/http"
	"hello-world/internal/infrastructure/http/handlers"
	"hello-world/internal/infrastructure/logger"
	"hello-world/internal/infrastructure/metrics"
	"hello-world/internal/infrastructure/storage"
	"hello-world/internal/infrastructure/storage/memory"
	"hello-world/internal/infrastructure/storage/postgres"
	"hello-world/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewSlogLogger(cfg.LogLevel)
	logger.Info("Starting service", slog.String("service", cfg.Service.Name))

	metricsCollector := metrics.NewCollector(
		cfg.Service.Name,
		metrics.WithQuantiles(cfg.Metrics.Quantiles),
		metrics.WithLogger(logger),
	)

	var db storage.Database
	switch cfg.Storage.Type {
	case config.StoragePostgres:
		postgresDB, err := postgres.NewDatabase(cfg.Storage.PostgresURL)
		if err != nil {
			logger.Error("Failed to initialize postgres database", slog.Any("error", err))
			os.Exit(1)
		}
		db = postgresDB
		logger.Info("Using PostgreSQL database")
	default:
		db = memory.NewDatabase()
		logger.Info("Using simulated database")
	}
	defer db.Close()

	var audit external.AuditClient
	switch cfg.External.Type {
	case config.ExternalHTTP:
		httpAudit, err := external.NewHTTPAudit(cfg.External.URL, time.Duration(cfg.External.Timeout)*time.Second)
		if err != nil {
			logger.Error("Failed to initialize audit client", slog.Any("error", err))
			os.Exit(1)
		}
		audit = httpAudit
		logger.Info("Using HTTP audit service", slog.String("url", cfg.External.URL))
	default:
		audit = external.NewSimulatedAudit()
		logger.Info("Using simulated audit service")
	}

	maxSleep := time.Duration(cfg.Simulation.MaxSleep * float64(time.Second))
	complexService := usecase.NewComplexService(db, audit, metricsCollector, maxSleep, logger)

	greetingHandler := handlers.NewGreetingHandler(logger)
	complexHandler := handlers.NewComplexHandler(complexService, logger)

	srv := http.NewServer(
		cfg,
		greetingHandler,
		complexHandler,
		metricsCollector,
		logger,
	)

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", fmt.Sprintf(":%d", cfg.Server.Port)))
		if err := srv.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Error("Server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", slog.Any("error", err))
	}

	logger.Info("Server exited")
}
