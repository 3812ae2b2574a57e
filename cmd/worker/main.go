// Package main is the entry point for the repair desk background worker.
// It purges expired idempotency keys from a shared store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"repairdesk/internal/app"
	"repairdesk/internal/infrastructure/idempotency"
	"repairdesk/internal/infrastructure/storage"
	"repairdesk/pkg/logger"
)

func main() {
	cfg := app.LoadConfig()

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
	if cfg.Storage.Backend != storage.BackendPostgres {
		log.Fatalw("worker needs a shared idempotency store", "backend", cfg.Storage.Backend)
	}

	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), log.WithComponent("worker")))
	defer cancel()

	log.Info("starting repairdesk worker")

	backend, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		log.Fatalw("failed to open store backend", "error", err)
	}
	defer backend.Close()

	purger, ok := backend.Idempotency.(idempotency.Purger)
	if !ok {
		log.Fatalw("idempotency store cannot purge", "backend", backend.Name)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		idempotency.RunJanitor(ctx, purger, cfg.JanitorInterval)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}
