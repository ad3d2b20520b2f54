package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"gigtrack/internal/amqp"
	"gigtrack/internal/cli"
	apphttp "gigtrack/internal/http"
	"gigtrack/internal/log"
	"gigtrack/internal/services"
	"gigtrack/internal/transit"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// The event bus is optional for the API: entries stay durable in
	// SQLite either way, the worker just catches up later.
	var publisher services.EventPublisher
	if amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue); err != nil {
		logger.Warn("AMQP unavailable, entry events disabled", log.FieldError, err)
	} else {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	entries := services.NewEntryService(repo, repo, publisher)
	arrival := transit.NewSource(transit.Options{
		AeroDataBoxKey:  cfg.AeroDataBoxAPIKey,
		TransportAppID:  cfg.TransportAPIAppID,
		TransportAppKey: cfg.TransportAPIAppKey,
	})

	srv := apphttp.NewServer(":"+cfg.Port, repo, entries, arrival, cfg.TransitCacheSize, cfg.TransitCacheTTL)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	logger.Info("Starting gigtrack server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
