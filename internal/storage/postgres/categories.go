package postgres

import (
	"context"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// === CategoryStorage ===

func newCategoryTable(db *pgxpool.Pool) ownedTable[domain.Category] {
	return ownedTable[domain.Category]{
		db:      db,
		table:   "categories",
		from:    "categories t",
		columns: "t.id, t.user_id, t.name, t.color, t.created_at, t.updated_at",
		orderBy: "t.name, t.id",
		scan:    scanCategory,
	}
}

func scanCategory(row pgx.Row) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *Storage) ListCategories(ctx context.Context, userID int64, q storage.Query) ([]domain.Category, int, error) {
	w := s.categories.scope(userID)
	if q.Search != "" {
		w.add("t.name ILIKE ?", likePattern(q.Search))
	}
	return s.categories.list(ctx, w, q)
}

func (s *Storage) GetCategory(ctx context.Context, userID, id int64) (*domain.Category, error) {
	c, err := s.categories.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Storage) CreateCategory(ctx context.Context, c *domain.Category) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO categories (user_id, name, color)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, c.UserID, c.Name, c.Color).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapError("create category", err)
	}
	return nil
}

func (s *Storage) UpdateCategory(ctx context.Context, c *domain.Category) error {
	err := s.db.QueryRow(ctx, `
		UPDATE categories
		SET name = $1, color = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4 AND deleted_at IS NULL
		RETURNING created_at, updated_at
	`, c.Name, c.Color, c.ID, c.UserID).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapError("update category", err)
	}
	return nil
}

func (s *Storage) DeleteCategory(ctx context.Context, userID, id int64) error {
	return s.categories.softDelete(ctx, userID, id)
}
