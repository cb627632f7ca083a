package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/bot"
	"finance-tracker/internal/config"
	"finance-tracker/internal/handler"
	"finance-tracker/internal/logger"
	"finance-tracker/internal/storage"
	"finance-tracker/internal/storage/memory"
	"finance-tracker/internal/storage/postgres"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("Failed to open storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	gin.SetMode(gin.ReleaseMode)
	deps := handler.Deps{
		Store:    store,
		Tokens:   auth.NewTokenService(cfg),
		ListMode: cfg.ListMode,
	}

	// Telegram webhook
	if cfg.TelegramBotToken != "" && cfg.TelegramWebhookURL != "" {
		api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			log.Error("Failed to init Telegram bot", "error", err)
			os.Exit(1)
		}
		webhookURL := cfg.TelegramWebhookURL + "/telegram"
		if err := bot.SetWebhook(api, webhookURL); err != nil {
			log.Error("Failed to set webhook", "error", err)
			os.Exit(1)
		}
		log.Info("Telegram webhook set", "url", webhookURL)
		deps.Webhook = bot.New(store, nil).Webhook(api)
	}

	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           handler.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server started", "addr", srv.Addr, "backend", cfg.StorageBackend, "list_mode", cfg.ListMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.Storage, func(), error) {
	if cfg.StorageBackend == config.BackendMemory {
		return memory.New(), func() {}, nil
	}
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.DBConn); err != nil {
			return nil, nil, err
		}
	}
	pool, err := postgres.Connect(ctx, cfg.DBConn)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewStorage(pool), pool.Close, nil
}
