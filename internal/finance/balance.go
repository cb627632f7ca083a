// Package finance computes how much a user still has to spend.
package finance

import (
	"context"
	"fmt"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/shopspring/decimal"
)

// Balance is available money minus spent money, rounded to cents.
type Balance struct {
	TotalAvailable float64 `json:"total_available"`
	TotalSpent     float64 `json:"total_spent"`
	Diff           float64 `json:"diff"`
}

func NewBalance(entries []domain.AvailableMoney, spent float64) Balance {
	available := decimal.Zero
	for _, e := range entries {
		available = available.Add(decimal.NewFromFloat(e.ToSpend))
	}
	available = available.Round(2)
	total := decimal.NewFromFloat(spent).Round(2)

	return Balance{
		TotalAvailable: available.InexactFloat64(),
		TotalSpent:     total.InexactFloat64(),
		Diff:           available.Sub(total).InexactFloat64(),
	}
}

type Source interface {
	ListAvailableMoney(ctx context.Context, userID int64, q storage.Query) ([]domain.AvailableMoney, int, error)
	SumSpentMoney(ctx context.Context, userID int64, q storage.Query) (float64, error)
}

// Statement is the balance together with the entries it was computed from.
type Statement struct {
	Entries []domain.AvailableMoney
	Balance
}

// Compute always counts every live entry of the user; only the expenses are
// narrowed by scope, and never by its pagination.
func Compute(ctx context.Context, src Source, userID int64, scope storage.Query) (Statement, error) {
	entries, _, err := src.ListAvailableMoney(ctx, userID, storage.Query{})
	if err != nil {
		return Statement{}, fmt.Errorf("list available money: %w", err)
	}
	spent, err := src.SumSpentMoney(ctx, userID, scope.All())
	if err != nil {
		return Statement{}, fmt.Errorf("sum spent money: %w", err)
	}
	return Statement{Entries: entries, Balance: NewBalance(entries, spent)}, nil
}
