// Package main provides a CLI for the database schema.
//
//	migrate up
//	migrate down [steps]
//	migrate version
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"kitchenledger/internal/config"
	"kitchenledger/internal/infrastructure/storage/postgres"
	"kitchenledger/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: true})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()

	mg, err := postgres.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("failed to open migrator", "error", err)
	}
	defer func() {
		if err := mg.Close(); err != nil {
			log.Warnw("failed to close migrator", "error", err)
		}
	}()

	switch os.Args[1] {
	case "up":
		err = mg.Up(ctx)
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil || steps < 1 {
				fmt.Printf("invalid step count: %s\n", os.Args[2])
				os.Exit(1)
			}
		}
		err = mg.Down(ctx, steps)
	case "version":
		var (
			v     uint
			dirty bool
		)
		v, dirty, err = mg.Version()
		if err == nil {
			fmt.Printf("version %d (dirty: %t)\n", v, dirty)
		}
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Errorw("migration command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`KitchenLedger schema migrations

Usage:
  migrate <command> [options]

Commands:
  up              Apply all pending migrations
  down [steps]    Roll back the given number of migrations (default 1)
  version         Print the applied schema version
  help            Show this help

Environment:
  DATABASE_URL    PostgreSQL connection string (required)`)
}
