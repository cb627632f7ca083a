// Package bot answers chat commands against the finance store.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/domain"
	"finance-tracker/internal/finance"
	"finance-tracker/internal/storage"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

const listLimit = 5

const helpText = "💰 *Controle financeiro*\n\n" +
	"Comandos:\n" +
	"`/login email senha` — entrar na sua conta\n" +
	"`/logout` — sair\n" +
	"`/saldo` — saldo do mês atual\n" +
	"`/despesas` — últimas despesas do mês\n" +
	"`/entradas` — últimas entradas\n" +
	"`/gasto 3 45,90 Mercado` — registrar despesa na entrada 3"

type Store interface {
	storage.UserStorage
	storage.AvailableMoneyStorage
	storage.SpentMoneyStorage
}

// Bot keeps one logged-in user per chat. Sessions live only in memory.
type Bot struct {
	store Store
	now   func() time.Time

	mu       sync.RWMutex
	sessions map[int64]int64
}

func New(store Store, now func() time.Time) *Bot {
	if now == nil {
		now = time.Now
	}
	return &Bot{store: store, now: now, sessions: make(map[int64]int64)}
}

// Handle runs one command and returns the reply text.
func (b *Bot) Handle(ctx context.Context, chatID int64, text string) string {
	text = domain.CleanText(fixEncoding(text))
	cmd, args, _ := strings.Cut(text, " ")
	// "/saldo@my_bot" in group chats
	cmd, _, _ = strings.Cut(cmd, "@")

	var (
		reply string
		err   error
	)
	switch cmd {
	case "/start", "/help":
		reply = helpText
	case "/login":
		reply, err = b.login(ctx, chatID, args)
	case "/logout":
		b.mu.Lock()
		delete(b.sessions, chatID)
		b.mu.Unlock()
		reply = "👋 Até logo!"
	case "/saldo", "/despesas", "/entradas", "/gasto":
		userID, ok := b.session(chatID)
		if !ok {
			return "🔒 Faça login primeiro: /login email senha"
		}
		switch cmd {
		case "/saldo":
			reply, err = b.balance(ctx, userID)
		case "/despesas":
			reply, err = b.expenses(ctx, userID)
		case "/entradas":
			reply, err = b.entries(ctx, userID)
		case "/gasto":
			reply, err = b.spend(ctx, userID, args)
		}
	default:
		reply = "Comando desconhecido. Envie /help"
	}

	if err != nil {
		slog.Error("Bot command failed", "chat_id", chatID, "command", cmd, "error", err)
		return "❌ Erro: não foi possível concluir o comando"
	}
	return reply
}

func (b *Bot) session(chatID int64) (int64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	userID, ok := b.sessions[chatID]
	return userID, ok
}

func (b *Bot) login(ctx context.Context, chatID int64, args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "❌ Use: /login email senha", nil
	}
	user, err := b.store.FindUserByEmail(ctx, strings.ToLower(fields[0]))
	if errors.Is(err, storage.ErrNotFound) {
		return "❌ E-mail ou senha inválidos!", nil
	}
	if err != nil {
		return "", err
	}
	if !auth.CheckPassword(fields[1], user.Password) {
		return "❌ E-mail ou senha inválidos!", nil
	}

	b.mu.Lock()
	b.sessions[chatID] = user.ID
	b.mu.Unlock()
	slog.Info("Bot login", "chat_id", chatID, "user_id", user.ID)
	return fmt.Sprintf("✅ Olá, %s!", user.Name), nil
}

func (b *Bot) balance(ctx context.Context, userID int64) (string, error) {
	month := domain.MonthOf(b.now())
	st, err := finance.Compute(ctx, b.store, userID, storage.Query{Month: &month})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("📊 *Saldo de %s*\n\nEntradas: %s\nDespesas: %s\nSaldo: *%s*",
		month, formatBRL(st.TotalAvailable), formatBRL(st.TotalSpent), formatBRL(st.Diff)), nil
}

func (b *Bot) expenses(ctx context.Context, userID int64) (string, error) {
	month := domain.MonthOf(b.now())
	items, total, err := b.store.ListSpentMoney(ctx, userID, storage.Query{Month: &month, Page: 1, PerPage: listLimit})
	if err != nil {
		return "", err
	}
	if total == 0 {
		return "📭 Nenhuma despesa em " + month.String(), nil
	}

	lines := []string{fmt.Sprintf("🧾 *Despesas de %s* (%d)", month, total)}
	for _, s := range items {
		line := fmt.Sprintf("- %s %s: %s", s.Date.Formatted(), s.Name, formatBRL(s.Value))
		if s.Category != nil {
			line += " · " + s.Category.Name
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func (b *Bot) entries(ctx context.Context, userID int64) (string, error) {
	items, total, err := b.store.ListAvailableMoney(ctx, userID, storage.Query{Page: 1, PerPage: listLimit})
	if err != nil {
		return "", err
	}
	if total == 0 {
		return "📭 Nenhuma entrada cadastrada", nil
	}

	lines := []string{"💵 *Entradas*"}
	for _, e := range items {
		lines = append(lines, fmt.Sprintf("- #%d %s %s: %s", e.ID, e.Date.Formatted(), e.Name, formatBRL(e.ToSpend)))
	}
	return strings.Join(lines, "\n"), nil
}

// spend parses "<entrada_id> <valor> <nome...>" and records it for today.
func (b *Bot) spend(ctx context.Context, userID int64, args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) < 3 {
		return "❌ Use: /gasto <entrada> <valor> <nome>", nil
	}
	entryID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || entryID < 1 {
		return "❌ A entrada selecionada é inválida.", nil
	}
	amount, err := domain.NormalizeAmount(fields[1])
	if err != nil {
		return "❌ Valor inválido: " + fields[1], nil
	}

	entry, err := b.store.GetAvailableMoney(ctx, userID, entryID)
	if errors.Is(err, storage.ErrNotFound) {
		return "❌ A entrada selecionada é inválida.", nil
	}
	if err != nil {
		return "", err
	}

	expense := &domain.SpentMoney{
		UserID:           userID,
		AvailableMoneyID: entry.ID,
		Name:             strings.Join(fields[2:], " "),
		Value:            amount.InexactFloat64(),
		Date:             domain.DateOf(b.now()),
	}
	if err := b.store.CreateSpentMoney(ctx, expense); err != nil {
		return "", err
	}
	slog.Info("Bot expense created", "user_id", userID, "id", expense.ID, "available_money_id", entry.ID)
	return fmt.Sprintf("✅ Despesa adicionada: %s %s (%s)", expense.Name, formatBRL(expense.Value), entry.Name), nil
}

// formatBRL renders 1234.5 as "R$ 1.234,50".
func formatBRL(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole, cents, _ := strings.Cut(d.StringFixed(2), ".")

	var grouped strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}
	return fmt.Sprintf("%sR$ %s,%s", sign, grouped.String(), cents)
}

// fixEncoding repairs messages some clients send as windows-1251.
func fixEncoding(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	fixed, err := charmap.Windows1251.NewDecoder().String(s)
	if err == nil && utf8.ValidString(fixed) {
		return fixed
	}
	return strings.ToValidUTF8(s, "")
}
