package main

import (
	"context"
	"os"

	"finance-tracker/internal/config"
	"finance-tracker/internal/logger"
	"finance-tracker/internal/storage/postgres"
)

// usage: migrate [up|down|status|redo|reset|version] [args...]
func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.LogLevel)

	command := "up"
	var args []string
	if len(os.Args) > 1 {
		command, args = os.Args[1], os.Args[2:]
	}

	if err := postgres.RunMigrations(context.Background(), cfg.DBConn, command, args...); err != nil {
		log.Error("Migrations failed", "command", command, "error", err)
		os.Exit(1)
	}
	log.Info("Migrations done", "command", command)
}
