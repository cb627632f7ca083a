package postgres

import (
	"context"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// === AvailableMoneyStorage ===

func newAvailableMoneyTable(db *pgxpool.Pool) ownedTable[domain.AvailableMoney] {
	return ownedTable[domain.AvailableMoney]{
		db:      db,
		table:   "available_money",
		from:    "available_money t",
		columns: "t.id, t.user_id, t.name, t.to_spend, t.date, t.created_at, t.updated_at",
		orderBy: "t.date DESC, t.id DESC",
		scan:    scanAvailableMoney,
	}
}

func scanAvailableMoney(row pgx.Row) (domain.AvailableMoney, error) {
	var m domain.AvailableMoney
	var date time.Time
	err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.ToSpend, &date, &m.CreatedAt, &m.UpdatedAt)
	m.Date = domain.DateOf(date)
	return m, err
}

func (s *Storage) ListAvailableMoney(ctx context.Context, userID int64, q storage.Query) ([]domain.AvailableMoney, int, error) {
	w := s.availableMoney.scope(userID)
	if q.Month != nil {
		w.add("t.date >= ? AND t.date < ?", q.Month.Start().Time, q.Month.End().Time)
	}
	if q.Search != "" {
		p := likePattern(q.Search)
		w.add("(t.name ILIKE ? OR CAST(t.to_spend AS TEXT) ILIKE ?)", p, p)
	}
	return s.availableMoney.list(ctx, w, q)
}

func (s *Storage) GetAvailableMoney(ctx context.Context, userID, id int64) (*domain.AvailableMoney, error) {
	m, err := s.availableMoney.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Storage) CreateAvailableMoney(ctx context.Context, m *domain.AvailableMoney) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO available_money (user_id, name, to_spend, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, m.UserID, m.Name, m.ToSpend, m.Date.Time).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return mapError("create available money", err)
	}
	return nil
}

func (s *Storage) UpdateAvailableMoney(ctx context.Context, m *domain.AvailableMoney) error {
	err := s.db.QueryRow(ctx, `
		UPDATE available_money
		SET name = $1, to_spend = $2, date = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5 AND deleted_at IS NULL
		RETURNING created_at, updated_at
	`, m.Name, m.ToSpend, m.Date.Time, m.ID, m.UserID).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return mapError("update available money", err)
	}
	return nil
}

func (s *Storage) DeleteAvailableMoney(ctx context.Context, userID, id int64) error {
	return s.availableMoney.softDelete(ctx, userID, id)
}
