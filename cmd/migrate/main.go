package main

import (
	"log"

	"github.com/pageza/cucina/backend/config"
	"github.com/pageza/cucina/backend/internal/database"
	"github.com/pageza/cucina/backend/internal/logger"
)

func main() {
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
		lg.Fatal("Failed to apply migrations", "error", err)
	}
	lg.Info("All migrations applied successfully")
}
