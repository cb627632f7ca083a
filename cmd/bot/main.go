package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"finance-tracker/internal/bot"
	"finance-tracker/internal/config"
	"finance-tracker/internal/logger"
	"finance-tracker/internal/storage/postgres"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.LogLevel)

	if cfg.TelegramBotToken == "" {
		log.Error("TELEGRAM_BOT_TOKEN not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.DBConn)
	if err != nil {
		log.Error("Failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Error("Failed to init Telegram bot", "error", err)
		os.Exit(1)
	}

	bot.New(postgres.NewStorage(pool), nil).Poll(ctx, api)
	log.Info("Bot stopped")
}
