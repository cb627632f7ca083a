package seed

import (
	"context"
	"testing"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"
	"finance-tracker/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoOptions(email string) Options {
	return Options{
		Name:             "Demo",
		Email:            email,
		Password:         "12345678",
		Months:           3,
		Categories:       4,
		ExpensesPerEntry: 6,
		Now:              time.Date(2025, time.September, 28, 12, 0, 0, 0, time.UTC),
		Seed:             7,
	}
}

func TestRunFillsStore(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	res, err := Run(ctx, store, demoOptions("demo@example.com"))
	require.NoError(t, err)
	assert.Equal(t, len(paymentNames), res.Payments)
	assert.Equal(t, 4, res.Categories)
	assert.Equal(t, 3, res.Entries)
	assert.Equal(t, 18, res.Expenses)

	user, err := store.FindUserByEmail(ctx, "demo@example.com")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("12345678", user.Password))

	entries, total, err := store.ListAvailableMoney(ctx, user.ID, storage.Query{})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	assert.Equal(t, "2025-09", domain.MonthOf(entries[0].Date.Time).String())
	assert.Equal(t, "2025-07", domain.MonthOf(entries[2].Date.Time).String())

	// every expense falls in its entry's month
	expenses, _, err := store.ListSpentMoney(ctx, user.ID, storage.Query{})
	require.NoError(t, err)
	months := make(map[int64]domain.Month, len(entries))
	for _, e := range entries {
		months[e.ID] = domain.MonthOf(e.Date.Time)
	}
	for _, s := range expenses {
		assert.True(t, months[s.AvailableMoneyID].Contains(s.Date), s.Date.String())
		assert.Greater(t, s.Value, 0.0)
	}
}

func TestRunReusesSharedPayments(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	_, err := Run(ctx, store, demoOptions("first@example.com"))
	require.NoError(t, err)
	res, err := Run(ctx, store, demoOptions("second@example.com"))
	require.NoError(t, err)
	assert.Equal(t, len(paymentNames), res.Payments)

	payments, err := store.ListPayments(ctx)
	require.NoError(t, err)
	assert.Len(t, payments, len(paymentNames))

	_, err = Run(ctx, store, demoOptions("first@example.com"))
	assert.ErrorIs(t, err, storage.ErrDuplicate)
}

func TestRunNormalizesEmail(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	res, err := Run(ctx, store, demoOptions("  Demo@Example.COM "))
	require.NoError(t, err)
	assert.Equal(t, "demo@example.com", res.User.Email)

	user, err := store.FindUserByEmail(ctx, "demo@example.com")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)
}
