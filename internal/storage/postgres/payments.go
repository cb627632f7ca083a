package postgres

import (
	"context"
	"fmt"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/jackc/pgx/v5"
)

// === PaymentStorage ===

const paymentColumns = `
	p.id, p.name, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM spent_money s WHERE s.payments_id = p.id AND s.deleted_at IS NULL)`

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt, &p.SpentMoneyCount)
	return p, err
}

func (s *Storage) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	rows, err := s.db.Query(ctx, "SELECT "+paymentColumns+" FROM payments p ORDER BY p.name, p.id")
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (s *Storage) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	p, err := scanPayment(s.db.QueryRow(ctx, "SELECT "+paymentColumns+" FROM payments p WHERE p.id = $1", id))
	if err != nil {
		return nil, mapError("get payment", err)
	}
	return &p, nil
}

func (s *Storage) CreatePayment(ctx context.Context, p *domain.Payment) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO payments (name) VALUES ($1)
		RETURNING id, created_at, updated_at
	`, p.Name).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapError("create payment", err)
	}
	p.SpentMoneyCount = 0
	return nil
}

func (s *Storage) UpdatePayment(ctx context.Context, p *domain.Payment) error {
	err := s.db.QueryRow(ctx, `
		UPDATE payments SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING created_at, updated_at
	`, p.Name, p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapError("update payment", err)
	}
	return nil
}

// DeletePayment removes the row for good; expenses keep existing with payments_id NULL.
func (s *Storage) DeletePayment(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM payments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete payment: %w", storage.ErrNotFound)
	}
	return nil
}
