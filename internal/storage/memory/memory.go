// Package memory is a map-backed storage.Storage for running without Postgres and for tests.
package memory

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/google/uuid"
)

type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users      map[int64]domain.User
	lastUserID int64
	tokens     map[uuid.UUID]domain.AccessToken

	payments      map[int64]domain.Payment
	lastPaymentID int64

	availableMoney ownedSet[domain.AvailableMoney]
	categories     ownedSet[domain.Category]
	spentMoney     ownedSet[domain.SpentMoney]
}

var _ storage.Storage = (*Store)(nil)

func New() *Store {
	return &Store{
		now:            func() time.Time { return time.Now().UTC() },
		users:          make(map[int64]domain.User),
		tokens:         make(map[uuid.UUID]domain.AccessToken),
		payments:       make(map[int64]domain.Payment),
		availableMoney: newOwnedSet[domain.AvailableMoney](),
		categories:     newOwnedSet[domain.Category](),
		spentMoney:     newOwnedSet[domain.SpentMoney](),
	}
}

// owned wraps a row with its owner and tombstone.
type owned[T any] struct {
	value     T
	userID    int64
	deletedAt *time.Time
}

// ownedSet is the map counterpart of the SQL owner-scoped tables: every
// read filters by owner and skips soft-deleted rows.
type ownedSet[T any] struct {
	lastID int64
	rows   map[int64]*owned[T]
}

func newOwnedSet[T any]() ownedSet[T] {
	return ownedSet[T]{rows: make(map[int64]*owned[T])}
}

func (s *ownedSet[T]) nextID() int64 {
	s.lastID++
	return s.lastID
}

func (s *ownedSet[T]) put(userID, id int64, v T) {
	s.rows[id] = &owned[T]{value: v, userID: userID}
}

func (s *ownedSet[T]) get(userID, id int64) (T, bool) {
	row, ok := s.rows[id]
	if !ok || row.userID != userID || row.deletedAt != nil {
		var zero T
		return zero, false
	}
	return row.value, true
}

func (s *ownedSet[T]) replace(userID, id int64, v T) bool {
	if _, ok := s.get(userID, id); !ok {
		return false
	}
	s.rows[id].value = v
	return true
}

func (s *ownedSet[T]) softDelete(userID, id int64, at time.Time) bool {
	if _, ok := s.get(userID, id); !ok {
		return false
	}
	s.rows[id].deletedAt = &at
	return true
}

// live returns the owner's non-deleted rows that pass keep, in no particular order.
func (s *ownedSet[T]) live(userID int64, keep func(T) bool) []T {
	var out []T
	for _, row := range s.rows {
		if row.userID != userID || row.deletedAt != nil {
			continue
		}
		if keep == nil || keep(row.value) {
			out = append(out, row.value)
		}
	}
	return out
}

// each visits every row, deleted or not, across owners.
func (s *ownedSet[T]) each(fn func(v *T, deleted bool)) {
	for _, row := range s.rows {
		fn(&row.value, row.deletedAt != nil)
	}
}

func paginate[T any](items []T, q storage.Query) ([]T, int) {
	total := len(items)
	if !q.Paginated() {
		if items == nil {
			items = []T{}
		}
		return items, total
	}
	start := q.Offset()
	if start > total {
		start = total
	}
	end := start + q.PerPage
	if end > total {
		end = total
	}
	page := make([]T, end-start)
	copy(page, items[start:end])
	return page, total
}

func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func amountText(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func byDateDesc(d1, d2 domain.Date, id1, id2 int64) bool {
	if !d1.Equal(d2.Time) {
		return d1.After(d2.Time)
	}
	return id1 > id2
}

// === UserStorage ===

func (s *Store) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return storage.ErrDuplicate
		}
	}
	s.lastUserID++
	u.ID = s.lastUserID
	u.CreatedAt = s.now()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = *u
	return nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) FindUserByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

// === TokenStorage ===

func (s *Store) CreateToken(_ context.Context, t *domain.AccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokens[t.ID]; ok {
		return storage.ErrDuplicate
	}
	t.CreatedAt = s.now()
	s.tokens[t.ID] = *t
	return nil
}

func (s *Store) FindToken(_ context.Context, id uuid.UUID) (*domain.AccessToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tokens[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &t, nil
}

func (s *Store) TouchToken(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[id]
	if !ok {
		return nil
	}
	t.LastUsedAt = &at
	s.tokens[id] = t
	return nil
}

func (s *Store) DeleteToken(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokens[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.tokens, id)
	return nil
}
