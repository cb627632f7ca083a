package postgres

import (
	"context"
	"fmt"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/google/uuid"
)

// === UserStorage ===

func (s *Storage) CreateUser(ctx context.Context, u *domain.User) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Password).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return mapError("create user", err)
	}
	return nil
}

func (s *Storage) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, `
		SELECT id, name, email, password, created_at, updated_at
		FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapError("find user by email", err)
	}
	return &u, nil
}

func (s *Storage) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, `
		SELECT id, name, email, password, created_at, updated_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapError("find user by id", err)
	}
	return &u, nil
}

// === TokenStorage ===

func (s *Storage) CreateToken(ctx context.Context, t *domain.AccessToken) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO personal_access_tokens (id, user_id, name, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, t.ID, t.UserID, t.Name, t.ExpiresAt).Scan(&t.CreatedAt)
	if err != nil {
		return mapError("create token", err)
	}
	return nil
}

func (s *Storage) FindToken(ctx context.Context, id uuid.UUID) (*domain.AccessToken, error) {
	var t domain.AccessToken
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, name, expires_at, last_used_at, created_at
		FROM personal_access_tokens WHERE id = $1
	`, id).Scan(&t.ID, &t.UserID, &t.Name, &t.ExpiresAt, &t.LastUsedAt, &t.CreatedAt)
	if err != nil {
		return nil, mapError("find token", err)
	}
	return &t, nil
}

func (s *Storage) TouchToken(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := s.db.Exec(ctx, "UPDATE personal_access_tokens SET last_used_at = $1 WHERE id = $2", at, id)
	if err != nil {
		return fmt.Errorf("touch token: %w", err)
	}
	return nil
}

func (s *Storage) DeleteToken(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM personal_access_tokens WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete token: %w", storage.ErrNotFound)
	}
	return nil
}
