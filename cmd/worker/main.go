package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Raymond9734/support-protocol-desk/internal/config"
	"github.com/Raymond9734/support-protocol-desk/internal/db"
	"github.com/Raymond9734/support-protocol-desk/internal/logging"
	"github.com/Raymond9734/support-protocol-desk/internal/queue"
	"github.com/Raymond9734/support-protocol-desk/internal/repository"
	"github.com/Raymond9734/support-protocol-desk/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("starting handoff worker")

	if !cfg.Queue.Enabled {
		logger.Error("HANDOFF_QUEUE_ENABLED is false, nothing to consume")
		os.Exit(1)
	}

	// Connect to database
	database, err := db.New(db.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	if err := database.Migrate(context.Background()); err != nil {
		logger.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("connected to database")

	// Connect to Redis queue
	queueClient, err := queue.NewRedisClient(queue.RedisConfig{
		URL:       cfg.Redis.URL,
		QueueName: cfg.Queue.Name,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer queueClient.Close()

	processor := worker.NewHandoffProcessor(
		repository.NewHandoffRepository(database.DB),
		cfg.Queue.MaxRetries,
		worker.DefaultBackoff,
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start consuming handoffs
	consumerErrors := make(chan error, 1)
	go func() {
		logger.Info("starting handoff consumer",
			slog.Int("concurrency", cfg.Queue.Concurrency),
			slog.Int("max_retries", cfg.Queue.MaxRetries),
		)
		consumerErrors <- queueClient.Consume(ctx, processor.Process, cfg.Queue.Concurrency)
	}()

	// Wait for interrupt signal or consumer error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-consumerErrors:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("consumer error", slog.String("error", err.Error()))
			os.Exit(1)
		}

	case sig := <-quit:
		logger.Info("shutting down worker", slog.String("signal", sig.String()))
		cancel()

		// Consume drains in-flight handoffs before returning
		select {
		case <-consumerErrors:
		case <-time.After(30 * time.Second):
			logger.Warn("in-flight handoffs did not finish before timeout")
		}

		logger.Info("worker stopped gracefully")
	}
}
