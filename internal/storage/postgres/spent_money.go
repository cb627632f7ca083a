package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// === SpentMoneyStorage ===

func newSpentMoneyTable(db *pgxpool.Pool) ownedTable[domain.SpentMoney] {
	return ownedTable[domain.SpentMoney]{
		db:    db,
		table: "spent_money",
		from: `spent_money t
			LEFT JOIN categories c ON c.id = t.categories_id AND c.deleted_at IS NULL
			LEFT JOIN payments p ON p.id = t.payments_id`,
		columns: `t.id, t.user_id, t.available_money_id, t.categories_id, t.payments_id,
			t.name, t.description, t.value, t.payable, t.date, t.created_at, t.updated_at,
			c.id, c.user_id, c.name, c.color, c.created_at, c.updated_at,
			p.id, p.name, p.created_at, p.updated_at`,
		orderBy: "t.date DESC, t.id DESC",
		scan:    scanSpentMoney,
	}
}

func scanSpentMoney(row pgx.Row) (domain.SpentMoney, error) {
	var (
		sm                 domain.SpentMoney
		date               time.Time
		catID, catUser     *int64
		catName, catColor  *string
		catCreated, catUpd *time.Time
		payID              *int64
		payName            *string
		payCreated, payUpd *time.Time
	)
	err := row.Scan(
		&sm.ID, &sm.UserID, &sm.AvailableMoneyID, &sm.CategoryID, &sm.PaymentID,
		&sm.Name, &sm.Description, &sm.Value, &sm.Payable, &date, &sm.CreatedAt, &sm.UpdatedAt,
		&catID, &catUser, &catName, &catColor, &catCreated, &catUpd,
		&payID, &payName, &payCreated, &payUpd,
	)
	if err != nil {
		return sm, err
	}
	sm.Date = domain.DateOf(date)

	if catID != nil {
		sm.Category = &domain.Category{
			ID:        *catID,
			UserID:    *catUser,
			Name:      *catName,
			Color:     catColor,
			CreatedAt: *catCreated,
			UpdatedAt: *catUpd,
		}
	}
	if payID != nil {
		sm.Payment = &domain.Payment{
			ID:        *payID,
			Name:      *payName,
			CreatedAt: *payCreated,
			UpdatedAt: *payUpd,
		}
	}
	return sm, nil
}

func (s *Storage) spentFilter(userID int64, q storage.Query) *where {
	w := s.spentMoney.scope(userID)
	if q.Month != nil {
		w.add("t.date >= ? AND t.date < ?", q.Month.Start().Time, q.Month.End().Time)
	}
	if q.Search != "" {
		p := likePattern(q.Search)
		w.add("(t.name ILIKE ? OR CAST(t.value AS TEXT) ILIKE ? OR c.name ILIKE ?)", p, p, p)
	}
	return w
}

func (s *Storage) ListSpentMoney(ctx context.Context, userID int64, q storage.Query) ([]domain.SpentMoney, int, error) {
	return s.spentMoney.list(ctx, s.spentFilter(userID, q), q)
}

func (s *Storage) SumSpentMoney(ctx context.Context, userID int64, q storage.Query) (float64, error) {
	w := s.spentFilter(userID, q)
	var total float64
	err := s.db.QueryRow(ctx, "SELECT COALESCE(SUM(t.value), 0) FROM "+s.spentMoney.from+" "+w.String(), w.args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum spent money: %w", err)
	}
	return total, nil
}

func (s *Storage) GetSpentMoney(ctx context.Context, userID, id int64) (*domain.SpentMoney, error) {
	sm, err := s.spentMoney.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	am, err := s.availableMoney.get(ctx, userID, sm.AvailableMoneyID)
	switch {
	case err == nil:
		sm.AvailableMoney = &am
	case !errors.Is(err, storage.ErrNotFound):
		return nil, err
	}
	return &sm, nil
}

func (s *Storage) CreateSpentMoney(ctx context.Context, sm *domain.SpentMoney) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO spent_money
			(user_id, available_money_id, categories_id, payments_id, name, description, value, payable, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, sm.UserID, sm.AvailableMoneyID, sm.CategoryID, sm.PaymentID, sm.Name, sm.Description,
		sm.Value, sm.Payable, sm.Date.Time).Scan(&sm.ID, &sm.CreatedAt, &sm.UpdatedAt)
	if err != nil {
		return mapError("create spent money", err)
	}
	return nil
}

func (s *Storage) UpdateSpentMoney(ctx context.Context, sm *domain.SpentMoney) error {
	err := s.db.QueryRow(ctx, `
		UPDATE spent_money
		SET available_money_id = $1, categories_id = $2, payments_id = $3, name = $4,
			description = $5, value = $6, payable = $7, date = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10 AND deleted_at IS NULL
		RETURNING created_at, updated_at
	`, sm.AvailableMoneyID, sm.CategoryID, sm.PaymentID, sm.Name, sm.Description,
		sm.Value, sm.Payable, sm.Date.Time, sm.ID, sm.UserID).Scan(&sm.CreatedAt, &sm.UpdatedAt)
	if err != nil {
		return mapError("update spent money", err)
	}
	return nil
}

func (s *Storage) DeleteSpentMoney(ctx context.Context, userID, id int64) error {
	return s.spentMoney.softDelete(ctx, userID, id)
}
