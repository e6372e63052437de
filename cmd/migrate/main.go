// Command migrate applies the database migrations.
package main

import (
	"log"

	"github.com/dom/hops-games/internal/config"
	"github.com/dom/hops-games/internal/repository/postgres"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.StorageDriver != config.StorageDriverPostgres {
		log.Fatalf("nothing to migrate for %s storage", cfg.StorageDriver)
	}

	if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("Migrations applied")
}
