package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/swasthyasaathi/bot/internal/content"
	"github.com/swasthyasaathi/bot/internal/delivery"
	"github.com/swasthyasaathi/bot/internal/router"
	"github.com/swasthyasaathi/bot/internal/server"
	"github.com/swasthyasaathi/bot/internal/storage"
	"github.com/swasthyasaathi/bot/pkg/config"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		dbConfig := storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		}
		store, err = storage.NewPostgresStorage(dbConfig)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Load content seeds
	seeds, err := content.NewLibrary()
	if err != nil {
		logger.Fatal("Failed to load content seeds", zap.Error(err))
	}

	// Initialize delivery client
	sender := delivery.NewWhatsAppClient(
		cfg.WhatsApp.BaseURL,
		cfg.WhatsApp.AccessToken,
		cfg.WhatsApp.PhoneNumberID,
		cfg.WhatsApp.Timeout,
		logger,
	)

	// Initialize conversation router
	rt := router.New(store, seeds, sender, logger)

	// Start the HTTP server
	handlers := server.NewHandlers(rt, cfg.WhatsApp.VerifyToken, logger)
	srv := server.New(cfg.Server.Host, cfg.Server.Port, handlers.Mux(), logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("Server error", zap.Error(err))
		}
	case sig := <-stop:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Shutdown error", zap.Error(err))
		}
	}
}
