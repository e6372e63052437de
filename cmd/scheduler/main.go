// Command scheduler publishes games once and prints the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/dom/hops-games/internal/config"
	"github.com/dom/hops-games/internal/service"
	"github.com/dom/hops-games/internal/storage"
)

func main() {
	mode := flag.String("mode", "", "backfill or incremental (default picks by ENVIRONMENT)")
	timeout := flag.Duration("timeout", 2*time.Minute, "give up after this long")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	repos, closeStorage, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer closeStorage()

	services, err := service.NewServices(repos, cfg)
	if err != nil {
		log.Fatalf("failed to initialize services: %v", err)
	}

	scheduler := services.Scheduler
	switch *mode {
	case "":
	case service.BackfillMode.Name:
		scheduler = service.NewSchedulerService(repos.Game, nil, service.BackfillMode)
	case service.IncrementalMode.Name:
		scheduler = service.NewSchedulerService(repos.Game, nil, service.IncrementalMode)
	default:
		log.Fatalf("unknown mode %q", *mode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := scheduler.Run(ctx)
	if err != nil {
		log.Fatalf("scheduler failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatalf("failed to write result: %v", err)
	}
}
