package bot

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI the bot replies through.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Reply answers a single update; updates without a text message are ignored.
func (b *Bot) Reply(ctx context.Context, api Sender, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	chatID := update.Message.Chat.ID
	slog.Debug("Bot message received", "chat_id", chatID)

	msg := tgbotapi.NewMessage(chatID, b.Handle(ctx, chatID, update.Message.Text))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := api.Send(msg); err != nil {
		slog.Error("Bot reply failed", "chat_id", chatID, "error", err)
	}
}

// Poll long-polls Telegram until ctx is done.
func (b *Bot) Poll(ctx context.Context, api *tgbotapi.BotAPI) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)
	defer api.StopReceivingUpdates()

	slog.Info("Bot started", "username", api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.Reply(ctx, api, update)
		}
	}
}

// Webhook handles updates Telegram pushes to POST /telegram.
func (b *Bot) Webhook(api Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		var update tgbotapi.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			slog.Error("Invalid Telegram update", "error", err)
			c.Status(http.StatusBadRequest)
			return
		}
		b.Reply(c.Request.Context(), api, update)
		c.Status(http.StatusOK)
	}
}

// SetWebhook points Telegram at url.
func SetWebhook(api *tgbotapi.BotAPI, url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return err
	}
	_, err = api.Request(wh)
	return err
}
