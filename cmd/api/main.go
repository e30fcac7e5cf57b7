package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dastarkhan/internal/config"
	"dastarkhan/internal/database"
	"dastarkhan/internal/events"
	"dastarkhan/internal/handler"
	"dastarkhan/internal/receipt"
	"dastarkhan/internal/repository"
	"dastarkhan/internal/router"
	"dastarkhan/internal/service"
	"dastarkhan/internal/upload"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting dastarkhan API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool and schema
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize repositories
	menuRepo := repository.NewMenuRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	settingsRepo := repository.NewSettingsRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	deviceRepo := repository.NewDeviceRepository(pool, logger)

	// Initialize the event fabric. With RabbitMQ disabled the service
	// still works; live views then only refresh at startup.
	var publisher events.Publisher = events.NopPublisher{}
	var mq *events.Client
	if cfg.Rabbit.Enabled {
		mq, err = events.Dial(cfg.Rabbit.URL(), logger)
		if err != nil {
			return fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		defer mq.Close()

		if err := mq.DeclareTopology(); err != nil {
			return fmt.Errorf("failed to declare rabbitmq topology: %w", err)
		}

		publisher = events.NewPublisher(mq, logger)
	} else {
		logger.Info().Msg("rabbitmq disabled, order events will not be published")
	}

	// Initialize services
	menuService := service.NewMenuService(menuRepo, logger)
	orderService := service.NewOrderService(orderRepo, menuRepo, settingsRepo, deviceRepo, publisher, logger)
	settingsService := service.NewSettingsService(settingsRepo, logger)
	userService := service.NewUserService(userRepo, logger)

	// The tracker mirrors active orders for the admin live view and rings
	// the notification sound through the fanout exchange.
	tracker := events.NewTracker(publisher.Sound, logger)
	tracker.Seed(ctx, orderRepo.ListActive)

	if mq != nil {
		deliveries, err := mq.Consume(events.TrackerQueue, "dastarkhan-tracker", 16)
		if err != nil {
			return fmt.Errorf("failed to start tracker consumer: %w", err)
		}
		go tracker.Run(ctx, deliveries, orderRepo.ListActive)
	}

	// Optional S3 uploads
	var uploader upload.Uploader
	if cfg.Uploads.Enabled {
		uploader, err = upload.NewS3Uploader(ctx, cfg.Uploads, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize uploader: %w", err)
		}
	} else {
		logger.Info().Msg("uploads disabled")
	}

	// Optional receipt print bridge; without it receipts come back as HTML
	// for the caller to print.
	var printer receipt.Printer
	if cfg.Print.BridgeURL != "" {
		printer = receipt.NewBridgePrinter(cfg.Print.BridgeURL, logger)
	}

	// Initialize HTTP handlers
	menuHandler := handler.NewMenuHandler(menuService, logger)
	orderHandler := handler.NewOrderHandler(orderService, userService, tracker, printer, logger)
	settingsHandler := handler.NewSettingsHandler(settingsService, logger)
	adminHandler := handler.NewAdminHandler(userService, logger)
	uploadHandler := handler.NewUploadHandler(uploader, logger)

	// Initialize router
	mux := router.New(
		menuHandler,
		orderHandler,
		settingsHandler,
		adminHandler,
		uploadHandler,
		userRepo,
		cfg.Auth.APIKey,
		logger,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
