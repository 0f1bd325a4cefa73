package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"fincore/config"
	pgStorage "fincore/internal/adapter/storage/postgres"
	"fincore/pkg/logger"

	"github.com/joho/godotenv"
)

// migrate applies the embedded goose migrations. Usage:
//
//	migrate -command up
//	migrate -command down
//	migrate -command status
func main() {
	_ = godotenv.Load()

	command := flag.String("command", "up", "goose command: up, down, status, redo, version")
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("command", *command).
		Str("database", cfg.Database.DBName).
		Msg("Running migrations")

	if err := pgStorage.RunMigrations(context.Background(), cfg.Database.DSN(), *command); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}

	log.Info().Msg("Migrations complete")
}
