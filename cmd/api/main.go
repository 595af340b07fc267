// Command api serves the items API over HTTP.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/novacaap/java-sample-docker/internal/config"
	"github.com/novacaap/java-sample-docker/internal/di"
)

// @title Sample Items API
// @version 1.0
// @description Greeting, health and in-memory item CRUD endpoints.
// @BasePath /
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	logger := container.Logger

	if path := os.Getenv(config.FileEnvVar); path != "" {
		watcher, err := config.NewWatcher(path, cfg, logger)
		if err != nil {
			logger.Warn("Config hot reload disabled", zap.String("path", path), zap.Error(err))
		} else {
			watcher.OnChange(container.ApplyConfig)
			defer watcher.Stop()
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      container.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			zap.String("address", srv.Addr),
			zap.String("environment", string(cfg.Environment)),
			zap.String("store", cfg.Store.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutting down server", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server stopped")
}
