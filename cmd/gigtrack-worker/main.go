package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gigtrack/internal/amqp"
	"gigtrack/internal/cli"
	"gigtrack/internal/log"
	"gigtrack/internal/services"
	"gigtrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)

	logger.Info("Starting gigtrack-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	progress := services.NewProgressService(repo)
	renewal := services.NewRenewalService(repo)
	progressWorker := worker.NewProgressWorker(progress, renewal)

	// Reconcile once at boot: recover entry events missed while down and
	// roll over any targets that expired in the meantime.
	if err := progressWorker.StartupCheck(ctx); err != nil {
		logger.Error("Startup reconciliation failed", log.FieldError, err)
		// Don't exit - continue with normal operation
	}

	go func() {
		consumeErr := amqpClient.ConsumeEntryEvents(ctx, func(msg *amqp.EntryEventMessage) error {
			return progressWorker.HandleEntryEvent(ctx, msg)
		})
		if consumeErr != nil && !errors.Is(consumeErr, context.Canceled) {
			logger.Error("Entry event consumption failed", log.FieldError, consumeErr)
		}
		cancel()
	}()

	go progressWorker.RunRenewalLoop(ctx, cfg.RenewalInterval)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Shutting down worker...")
	cancel()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-time.After(5 * time.Second):
		logger.Info("Worker shutdown complete")
	}
}
