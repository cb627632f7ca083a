package bot

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"
	"finance-tracker/internal/storage/memory"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const chatID int64 = 4242

func fixedNow() time.Time {
	return time.Date(2025, time.September, 28, 12, 0, 0, 0, time.UTC)
}

// seeded returns a bot whose store holds one user with one entry.
func seeded(t *testing.T) (*Bot, *memory.Store, *domain.AvailableMoney) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	hash, err := auth.HashPassword("12345678")
	require.NoError(t, err)
	user := &domain.User{Name: "Camila", Email: "camila@exemplo.com", Password: hash}
	require.NoError(t, store.CreateUser(ctx, user))

	entry := &domain.AvailableMoney{UserID: user.ID, Name: "Salário", ToSpend: 2500, Date: domain.NewDate(2025, time.September, 1)}
	require.NoError(t, store.CreateAvailableMoney(ctx, entry))

	return New(store, fixedNow), store, entry
}

type fakeSender struct {
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func TestCommandsRequireLogin(t *testing.T) {
	b, _, _ := seeded(t)
	ctx := context.Background()

	for _, cmd := range []string{"/saldo", "/despesas", "/entradas", "/gasto 1 10 Pão"} {
		assert.Contains(t, b.Handle(ctx, chatID, cmd), "Faça login", cmd)
	}
	assert.Contains(t, b.Handle(ctx, chatID, "/help"), "/login email senha")
	assert.Contains(t, b.Handle(ctx, chatID, "/qualquer"), "Comando desconhecido")
}

func TestLogin(t *testing.T) {
	b, _, _ := seeded(t)
	ctx := context.Background()

	assert.Contains(t, b.Handle(ctx, chatID, "/login camila@exemplo.com"), "Use:")
	assert.Contains(t, b.Handle(ctx, chatID, "/login camila@exemplo.com errada"), "inválidos")
	assert.Contains(t, b.Handle(ctx, chatID, "/login ninguem@exemplo.com 12345678"), "inválidos")
	assert.Equal(t, "✅ Olá, Camila!", b.Handle(ctx, chatID, "/login CAMILA@exemplo.com 12345678"))

	// sessions are per chat
	assert.Contains(t, b.Handle(ctx, chatID+1, "/saldo"), "Faça login")

	b.Handle(ctx, chatID, "/logout")
	assert.Contains(t, b.Handle(ctx, chatID, "/saldo"), "Faça login")
}

func TestSpendAndBalance(t *testing.T) {
	b, store, entry := seeded(t)
	ctx := context.Background()
	b.Handle(ctx, chatID, "/login camila@exemplo.com 12345678")

	reply := b.Handle(ctx, chatID, "/gasto 1 150,75 Compra no mercado")
	assert.Equal(t, "✅ Despesa adicionada: Compra no mercado R$ 150,75 (Salário)", reply)

	items, total, err := store.ListSpentMoney(ctx, entry.UserID, storage.Query{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "2025-09-28", items[0].Date.String())
	assert.Equal(t, 150.75, items[0].Value)

	reply = b.Handle(ctx, chatID, "/saldo")
	assert.Contains(t, reply, "Saldo de 2025-09")
	assert.Contains(t, reply, "Saldo: *R$ 2.349,25*")

	assert.Contains(t, b.Handle(ctx, chatID, "/despesas"), "28/09/2025 Compra no mercado: R$ 150,75")
	assert.Contains(t, b.Handle(ctx, chatID, "/entradas"), "#1 01/09/2025 Salário: R$ 2.500,00")
}

func TestSpendRejectsBadInput(t *testing.T) {
	b, store, entry := seeded(t)
	ctx := context.Background()
	b.Handle(ctx, chatID, "/login camila@exemplo.com 12345678")

	cases := map[string]string{
		"missing name":  "/gasto 1 10",
		"bad entry id":  "/gasto abc 10 Pão",
		"unknown entry": "/gasto 99 10 Pão",
		"bad amount":    "/gasto 1 dez Pão",
	}
	for name, cmd := range cases {
		assert.Contains(t, b.Handle(ctx, chatID, cmd), "❌", name)
	}

	_, total, err := store.ListSpentMoney(ctx, entry.UserID, storage.Query{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestEmptyListings(t *testing.T) {
	b, store, entry := seeded(t)
	ctx := context.Background()
	b.Handle(ctx, chatID, "/login camila@exemplo.com 12345678")

	assert.Contains(t, b.Handle(ctx, chatID, "/despesas"), "Nenhuma despesa em 2025-09")
	require.NoError(t, store.DeleteAvailableMoney(ctx, entry.UserID, entry.ID))
	assert.Contains(t, b.Handle(ctx, chatID, "/entradas"), "Nenhuma entrada")
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 0,00", formatBRL(0))
	assert.Equal(t, "R$ 12,50", formatBRL(12.5))
	assert.Equal(t, "R$ 1.234,56", formatBRL(1234.56))
	assert.Equal(t, "R$ 1.000.000,00", formatBRL(1e6))
	assert.Equal(t, "-R$ 80,10", formatBRL(-80.1))
}

func TestFixEncoding(t *testing.T) {
	assert.Equal(t, "/saldo", fixEncoding("/saldo"))

	raw, err := charmap.Windows1251.NewEncoder().String("привет")
	require.NoError(t, err)
	assert.Equal(t, "привет", fixEncoding(raw))
}

func TestWebhookReplies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	b, _, _ := seeded(t)
	sender := &fakeSender{}
	router := gin.New()
	router.POST("/telegram", b.Webhook(sender))

	body := []byte(`{"update_id":1,"message":{"message_id":7,"date":0,"chat":{"id":4242,"type":"private"},"text":"/help"}}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/telegram", bytes.NewReader(body)))
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, chatID, sender.sent[0].ChatID)
	assert.Contains(t, sender.sent[0].Text, "/gasto")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/telegram", bytes.NewReader([]byte(`{`))))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, sender.sent, 1)
}
