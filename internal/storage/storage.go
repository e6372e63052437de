// Package storage opens the repositories selected by STORAGE_DRIVER.
package storage

import (
	"fmt"
	"log"

	"github.com/dom/hops-games/internal/config"
	"github.com/dom/hops-games/internal/repository"
	"github.com/dom/hops-games/internal/repository/memory"
	"github.com/dom/hops-games/internal/repository/postgres"
	"gorm.io/gorm/logger"
)

// Open returns the repositories and a func that releases them. Postgres
// migrations are applied before connecting.
func Open(cfg *config.Config) (*repository.Repositories, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		log.Printf("WARN [storage.Open] using in-memory storage, games are lost on exit")
		return memory.NewRepositories(), func() {}, nil

	case config.StorageDriverPostgres:
		if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}

		db, err := postgres.NewConnection(cfg.DatabaseURL, LogLevel(cfg))
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		closer := func() {
			if err := sqlDB.Close(); err != nil {
				log.Printf("ERROR [storage.Close]: %v", err)
			}
		}
		return postgres.NewRepositories(db), closer, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// LogLevel logs every query in development and only warnings elsewhere.
func LogLevel(cfg *config.Config) logger.LogLevel {
	if cfg.Environment == "development" {
		return logger.Info
	}
	return logger.Warn
}
