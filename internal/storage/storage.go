// internal/storage/storage.go
package storage

import (
	"context"
	"errors"
	"time"

	"finance-tracker/internal/domain"

	"github.com/google/uuid"
)

var (
	// ErrNotFound covers both missing rows and rows owned by someone else.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is a unique constraint violation.
	ErrDuplicate = errors.New("duplicate record")
)

// Query narrows an owner-scoped listing. PerPage == 0 means no pagination.
type Query struct {
	Search  string
	Month   *domain.Month
	Page    int
	PerPage int
}

func (q Query) Paginated() bool {
	return q.PerPage > 0
}

func (q Query) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PerPage
}

// All drops pagination, keeping the filters.
func (q Query) All() Query {
	q.Page, q.PerPage = 0, 0
	return q
}

type UserStorage interface {
	CreateUser(ctx context.Context, u *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id int64) (*domain.User, error)
}

type TokenStorage interface {
	CreateToken(ctx context.Context, t *domain.AccessToken) error
	FindToken(ctx context.Context, id uuid.UUID) (*domain.AccessToken, error)
	TouchToken(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteToken(ctx context.Context, id uuid.UUID) error
}

type AvailableMoneyStorage interface {
	ListAvailableMoney(ctx context.Context, userID int64, q Query) ([]domain.AvailableMoney, int, error)
	GetAvailableMoney(ctx context.Context, userID, id int64) (*domain.AvailableMoney, error)
	CreateAvailableMoney(ctx context.Context, m *domain.AvailableMoney) error
	UpdateAvailableMoney(ctx context.Context, m *domain.AvailableMoney) error
	DeleteAvailableMoney(ctx context.Context, userID, id int64) error
}

type CategoryStorage interface {
	ListCategories(ctx context.Context, userID int64, q Query) ([]domain.Category, int, error)
	GetCategory(ctx context.Context, userID, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, userID, id int64) error
}

// PaymentStorage is global: payments belong to no user.
type PaymentStorage interface {
	ListPayments(ctx context.Context) ([]domain.Payment, error)
	GetPayment(ctx context.Context, id int64) (*domain.Payment, error)
	CreatePayment(ctx context.Context, p *domain.Payment) error
	UpdatePayment(ctx context.Context, p *domain.Payment) error
	DeletePayment(ctx context.Context, id int64) error
}

type SpentMoneyStorage interface {
	// ListSpentMoney resolves category and payment of every row.
	ListSpentMoney(ctx context.Context, userID int64, q Query) ([]domain.SpentMoney, int, error)
	// SumSpentMoney totals value over every row matching q, ignoring pagination.
	SumSpentMoney(ctx context.Context, userID int64, q Query) (float64, error)
	// GetSpentMoney resolves category, payment and available money.
	GetSpentMoney(ctx context.Context, userID, id int64) (*domain.SpentMoney, error)
	CreateSpentMoney(ctx context.Context, s *domain.SpentMoney) error
	UpdateSpentMoney(ctx context.Context, s *domain.SpentMoney) error
	DeleteSpentMoney(ctx context.Context, userID, id int64) error
}

type Storage interface {
	UserStorage
	TokenStorage
	AvailableMoneyStorage
	CategoryStorage
	PaymentStorage
	SpentMoneyStorage
}
