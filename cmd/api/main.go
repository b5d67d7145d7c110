package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pageza/cucina/backend/config"
	"github.com/pageza/cucina/backend/internal/database"
	"github.com/pageza/cucina/backend/internal/logger"
	"github.com/pageza/cucina/backend/internal/server"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.ValidateConfig(cfg, config.GetEnvironment()); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer lg.Sync()

	db, err := database.Open(cfg, lg)
	if err != nil {
		lg.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, lg); err != nil {
		lg.Fatal("Failed to run migrations", "error", err)
	}

	rdb, err := database.NewRedisClient(cfg, lg)
	if err != nil {
		// Suggestions still work without the cache.
		lg.Warn("Failed to connect to Redis", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	srv := server.New(cfg, db, rdb, lg)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			lg.Fatal("Server error", "error", err)
		}
		return
	case sig := <-quit:
		lg.Info("Received signal", "signal", sig.String())
	}

	lg.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error("Server shutdown error", "error", err)
		return
	}
	lg.Info("Server stopped")
}
