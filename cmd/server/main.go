package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/hops-games/internal/api"
	"github.com/dom/hops-games/internal/config"
	"github.com/dom/hops-games/internal/service"
	"github.com/dom/hops-games/internal/storage"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize repositories
	repos, closeStorage, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer closeStorage()

	// Initialize services
	services, err := service.NewServices(repos, cfg)
	if err != nil {
		log.Fatalf("failed to initialize services: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Daily scheduling, unless an external cron calls the internal endpoint
	if cfg.ScheduleDailyAt != "" {
		offset, err := cfg.DailyScheduleOffset()
		if err != nil {
			log.Fatalf("invalid daily schedule: %v", err)
		}
		log.Printf("Scheduler running daily at %s UTC in %s mode", cfg.ScheduleDailyAt, services.Scheduler.Mode())
		go services.Scheduler.RunDaily(ctx, offset)
	}

	// Initialize router
	router := api.NewRouter(services, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s (%s, %s storage)", cfg.Port, cfg.Environment, cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
