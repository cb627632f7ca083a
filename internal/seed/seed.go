// Package seed fills a store with a demo user and believable finances.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/brianvoe/gofakeit/v6"
)

var paymentNames = []string{"Pix", "Cartão de crédito", "Cartão de débito", "Dinheiro", "Boleto"}

type Options struct {
	Name     string
	Email    string
	Password string
	// Months counts back from Now, current month included.
	Months           int
	Categories       int
	ExpensesPerEntry int
	Now              time.Time
	// Seed makes the generated data reproducible.
	Seed int64
}

type Result struct {
	User       *domain.User
	Payments   int
	Categories int
	Entries    int
	Expenses   int
}

// Run creates the demo user and its data. Payment methods are shared, so
// names that already exist are reused.
func Run(ctx context.Context, store storage.Storage, opts Options) (Result, error) {
	if opts.Months < 1 {
		opts.Months = 1
	}
	opts.Email = strings.ToLower(strings.TrimSpace(opts.Email))
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	faker := gofakeit.New(opts.Seed)

	hash, err := auth.HashPassword(opts.Password)
	if err != nil {
		return Result{}, err
	}
	user := &domain.User{Name: opts.Name, Email: opts.Email, Password: hash}
	if err := store.CreateUser(ctx, user); err != nil {
		return Result{}, fmt.Errorf("create user %s: %w", opts.Email, err)
	}
	res := Result{User: user}

	payments, err := ensurePayments(ctx, store)
	if err != nil {
		return res, err
	}
	res.Payments = len(payments)

	var categories []int64
	for i := 0; i < opts.Categories; i++ {
		color := faker.HexColor()
		c := &domain.Category{UserID: user.ID, Name: fmt.Sprintf("%s %d", faker.Noun(), i+1), Color: &color}
		if err := store.CreateCategory(ctx, c); err != nil {
			return res, fmt.Errorf("create category: %w", err)
		}
		categories = append(categories, c.ID)
	}
	res.Categories = len(categories)

	current := domain.MonthOf(opts.Now)
	for back := opts.Months - 1; back >= 0; back-- {
		first := current.Start().AddDate(0, -back, 0)
		month := domain.MonthOf(first)

		entry := &domain.AvailableMoney{
			UserID:  user.ID,
			Name:    "Salário " + month.String(),
			ToSpend: faker.Price(2000, 8000),
			Date:    domain.DateOf(first.AddDate(0, 0, faker.Number(0, 4))),
		}
		if err := store.CreateAvailableMoney(ctx, entry); err != nil {
			return res, fmt.Errorf("create entry: %w", err)
		}
		res.Entries++

		days := month.End().AddDate(0, 0, -1).Day()
		for i := 0; i < opts.ExpensesPerEntry; i++ {
			description := faker.Sentence(5)
			expense := &domain.SpentMoney{
				UserID:           user.ID,
				AvailableMoneyID: entry.ID,
				Name:             faker.ProductName(),
				Description:      &description,
				Value:            faker.Price(5, 300),
				Payable:          faker.Bool(),
				Date:             domain.DateOf(first.AddDate(0, 0, faker.Number(0, days-1))),
			}
			if len(categories) > 0 && faker.Number(0, 3) > 0 {
				id := categories[faker.Number(0, len(categories)-1)]
				expense.CategoryID = &id
			}
			if len(payments) > 0 && faker.Bool() {
				id := payments[faker.Number(0, len(payments)-1)]
				expense.PaymentID = &id
			}
			if err := store.CreateSpentMoney(ctx, expense); err != nil {
				return res, fmt.Errorf("create expense: %w", err)
			}
			res.Expenses++
		}
	}
	return res, nil
}

func ensurePayments(ctx context.Context, store storage.PaymentStorage) ([]int64, error) {
	existing, err := store.ListPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	byName := make(map[string]int64, len(existing))
	for _, p := range existing {
		byName[p.Name] = p.ID
	}

	ids := make([]int64, 0, len(paymentNames))
	for _, name := range paymentNames {
		if id, ok := byName[name]; ok {
			ids = append(ids, id)
			continue
		}
		p := &domain.Payment{Name: name}
		if err := store.CreatePayment(ctx, p); err != nil && !errors.Is(err, storage.ErrDuplicate) {
			return nil, fmt.Errorf("create payment %s: %w", name, err)
		}
		if p.ID != 0 {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}
