package main

import (
	"context"
	"flag"
	"os"

	"finance-tracker/internal/config"
	"finance-tracker/internal/logger"
	"finance-tracker/internal/seed"
	"finance-tracker/internal/storage/postgres"
)

func main() {
	opts := seed.Options{}
	flag.StringVar(&opts.Name, "name", "Usuário Demo", "demo user name")
	flag.StringVar(&opts.Email, "email", "demo@exemplo.com", "demo user e-mail")
	flag.StringVar(&opts.Password, "password", "12345678", "demo user password")
	flag.IntVar(&opts.Months, "months", 3, "months of data, current one included")
	flag.IntVar(&opts.Categories, "categories", 5, "categories to create")
	flag.IntVar(&opts.ExpensesPerEntry, "expenses", 8, "expenses per monthly entry")
	flag.Int64Var(&opts.Seed, "seed", 0, "random seed, 0 for a random one")
	flag.Parse()

	cfg := config.MustLoad()
	log := logger.Setup(cfg.LogLevel)
	ctx := context.Background()

	if err := postgres.Migrate(ctx, cfg.DBConn); err != nil {
		log.Error("Migrations failed", "error", err)
		os.Exit(1)
	}
	pool, err := postgres.Connect(ctx, cfg.DBConn)
	if err != nil {
		log.Error("Failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	res, err := seed.Run(ctx, postgres.NewStorage(pool), opts)
	if err != nil {
		log.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
	log.Info("Seeded",
		"user_id", res.User.ID,
		"email", res.User.Email,
		"payments", res.Payments,
		"categories", res.Categories,
		"entries", res.Entries,
		"expenses", res.Expenses,
	)
}
