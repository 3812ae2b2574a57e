// Package main is the entry point for the repair desk API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"repairdesk/internal/app"
	"repairdesk/internal/demo"
	"repairdesk/internal/infrastructure/idempotency"
	"repairdesk/internal/infrastructure/storage"
	"repairdesk/pkg/logger"
)

func main() {
	cfg := app.LoadConfig()

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}

	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), log))
	defer cancel()

	log.Infow("starting repairdesk server", "backend", cfg.Storage.Backend)

	// --- Storage ---
	backend, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		log.Fatalw("failed to open store backend", "error", err)
	}
	defer backend.Close()

	if backend.Listener != nil {
		if err := backend.Listener.Start(ctx); err != nil {
			log.Warnw("change listener not started", "error", err)
		}
	}

	if cfg.SeedDemo {
		if _, err := demo.Load(ctx, backend, demo.Build(time.Now())); err != nil {
			log.Fatalw("failed to load demo data", "error", err)
		}
	}

	// --- Services ---
	application := app.New(backend, app.Options{
		RequireSufficientStock: cfg.RequireSufficientStock,
	})

	// Purge expired idempotency keys.
	if purger, ok := backend.Idempotency.(idempotency.Purger); ok && cfg.JanitorInterval > 0 {
		go idempotency.RunJanitor(ctx, purger, cfg.JanitorInterval)
	}

	// --- Router ---
	handler, err := application.Handler(log, cfg.Development())
	if err != nil {
		log.Fatalw("failed to build router", "error", err)
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", cfg.Port, "backend", backend.Name)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	cancel()

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
