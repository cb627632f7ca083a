package finance

import (
	"context"
	"testing"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"
	"finance-tracker/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBalance(t *testing.T) {
	entries := []domain.AvailableMoney{{ToSpend: 2500}, {ToSpend: 0.1}, {ToSpend: 0.2}}
	b := NewBalance(entries, 150.75)

	assert.Equal(t, 2500.3, b.TotalAvailable)
	assert.Equal(t, 150.75, b.TotalSpent)
	assert.Equal(t, 2349.55, b.Diff)
}

func TestNewBalanceEmpty(t *testing.T) {
	b := NewBalance(nil, 0)
	assert.Zero(t, b.TotalAvailable)
	assert.Zero(t, b.Diff)
}

func TestComputeIgnoresPagination(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	for i, amount := range []float64{1000, 500, 250} {
		require.NoError(t, store.CreateAvailableMoney(ctx, &domain.AvailableMoney{
			UserID: 1, Name: "Entrada", ToSpend: amount, Date: domain.NewDate(2025, 8, i+1),
		}))
	}
	for day := 1; day <= 8; day++ {
		require.NoError(t, store.CreateSpentMoney(ctx, &domain.SpentMoney{
			UserID: 1, AvailableMoneyID: 1, Name: "Gasto", Value: 10, Date: domain.NewDate(2025, 9, day),
		}))
	}
	// outside the month
	require.NoError(t, store.CreateSpentMoney(ctx, &domain.SpentMoney{
		UserID: 1, AvailableMoneyID: 1, Name: "Antigo", Value: 99, Date: domain.NewDate(2025, 8, 30),
	}))

	sept := domain.Month{Year: 2025, Month: time.September}
	st, err := Compute(ctx, store, 1, storage.Query{Month: &sept, Page: 2, PerPage: 6})
	require.NoError(t, err)
	assert.Len(t, st.Entries, 3)
	assert.Equal(t, 1750.0, st.TotalAvailable)
	assert.Equal(t, 80.0, st.TotalSpent)
	assert.Equal(t, 1670.0, st.Diff)
}
