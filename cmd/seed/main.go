// Package main provides a CLI tool for loading the demo data set into the
// configured store backend.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"repairdesk/internal/app"
	"repairdesk/internal/demo"
	"repairdesk/internal/infrastructure/storage"
	"repairdesk/pkg/logger"
)

func main() {
	cfg := app.LoadConfig()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}
	if cfg.Storage.Backend == storage.BackendMemory {
		log.Fatal("seeding the memory backend has no effect, set STORE_BACKEND to postgres or dynamodb")
	}

	ctx := logger.WithLogger(context.Background(), log)

	backend, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		log.Fatalw("failed to open store backend", "error", err)
	}
	defer backend.Close()

	rep, err := demo.Load(ctx, backend, demo.Build(time.Now()))
	if err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}

	for kind, n := range rep.Loaded {
		log.Infow("seeded", "kind", kind, "count", n)
	}
	for _, kind := range rep.Skipped {
		log.Infow("already populated, skipped", "kind", kind)
	}
	log.Info("seeding completed successfully")
}
