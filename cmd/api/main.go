package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Raymond9734/support-protocol-desk/internal/clock"
	"github.com/Raymond9734/support-protocol-desk/internal/config"
	"github.com/Raymond9734/support-protocol-desk/internal/db"
	"github.com/Raymond9734/support-protocol-desk/internal/handler"
	"github.com/Raymond9734/support-protocol-desk/internal/logging"
	"github.com/Raymond9734/support-protocol-desk/internal/queue"
	"github.com/Raymond9734/support-protocol-desk/internal/repository"
	"github.com/Raymond9734/support-protocol-desk/internal/service"
	"github.com/Raymond9734/support-protocol-desk/internal/store"
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

	logger.Info("starting support desk API server",
		slog.String("env", cfg.Env),
		slog.String("store", cfg.Store.Driver),
	)

	ctx := context.Background()

	// Connect to database
	var database *db.DB
	if cfg.Database.Enabled {
		database, err = db.New(db.Config{
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

		if err := database.Migrate(ctx); err != nil {
			logger.Error("failed to migrate database", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("connected to database")
	} else {
		logger.Warn("database disabled, handoff log is not recorded")
	}

	// Open the key-value store
	kv, err := openStore(cfg, database, logger)
	if err != nil {
		logger.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer kv.Close()

	// Connect to the handoff queue
	var (
		publisher  service.HandoffPublisher
		queueCheck handler.HealthChecker
	)
	if cfg.Queue.Enabled {
		queueClient, err := queue.NewRedisClient(queue.RedisConfig{
			URL:       cfg.Redis.URL,
			QueueName: cfg.Queue.Name,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to handoff queue", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer queueClient.Close()
		publisher = queueClient
		queueCheck = queueClient
	}

	// Initialize repositories
	var (
		dbCheck     handler.HealthChecker
		handoffRepo repository.HandoffRepository
	)
	if database != nil {
		dbCheck = database
		handoffRepo = repository.NewHandoffRepository(database.DB)
	}

	// Initialize services
	sysClock := clock.System{}
	composerCfg := service.ComposerConfig{
		Brand:       cfg.Support.Brand,
		ChannelName: cfg.Support.ChannelName,
		Locale:      cfg.Support.MessageLocale,
	}

	settingsSvc := service.NewSettingsService(kv, service.SettingsDefaults{
		DefaultPhone: cfg.Support.DefaultPhone,
		Models:       cfg.Support.Models,
	}, logger)
	settingsSvc.Load(ctx)

	templateSvc := service.NewTemplateService()
	composer := service.NewMessageComposer(composerCfg, templateSvc)
	validator := service.NewValidator()
	handoffSvc := service.NewHandoffService(handoffRepo, publisher, logger)
	sessionSvc := service.NewSessionService(kv, sysClock, cfg.Support.SessionTTL, logger)
	noteSvc := service.NewNoteService(kv, sysClock, logger)
	exportSvc := service.NewExportService(cfg.Support.MessageLocale, logger)
	protocolSvc := service.NewProtocolService(settingsSvc, composer, handoffSvc, validator, sysClock, logger)
	quickSvc := service.NewQuickMessageService(settingsSvc, composerCfg, templateSvc, handoffSvc, validator, logger)

	if cfg.Support.AdminUser != "" {
		if err := sessionSvc.EnsureUser(ctx, cfg.Support.AdminUser, cfg.Support.AdminPassword); err != nil {
			logger.Error("failed to create admin account", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Initialize handlers
	router := handler.NewRouter(handler.RouterConfig{
		Health:         handler.NewHealthHandler(dbCheck, kv, queueCheck, logger),
		Sessions:       handler.NewSessionHandler(sessionSvc, logger),
		Protocols:      handler.NewProtocolHandler(protocolSvc, exportSvc, logger),
		QuickMessages:  handler.NewQuickMessageHandler(quickSvc, logger),
		Settings:       handler.NewSettingsHandler(settingsSvc, logger),
		Notes:          handler.NewNoteHandler(noteSvc, logger),
		Handoffs:       handler.NewHandoffHandler(handoffSvc, logger),
		SessionService: sessionSvc,
		AllowedOrigins: cfg.API.AllowedOrigins,
		Logger:         logger,
	})

	// Create server
	addr := fmt.Sprintf(":%d", cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", slog.String("addr", addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)

	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("server stopped gracefully")
	}
}

// openStore selects the key-value backend named by STORE_DRIVER
func openStore(cfg *config.Config, database *db.DB, logger *slog.Logger) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		if database == nil {
			return nil, fmt.Errorf("postgres store requires a database connection")
		}
		return store.NewPostgresStore(database.DB), nil
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store, settings and sessions are lost on restart")
		return store.NewMemoryStore(clock.System{}), nil
	default:
		return store.NewRedisStore(store.RedisConfig{
			URL:       cfg.Redis.URL,
			KeyPrefix: cfg.Redis.KeyPrefix,
		}, logger)
	}
}
