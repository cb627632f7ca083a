package memory

import (
	"context"
	"sort"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"
)

// === AvailableMoneyStorage ===

func (s *Store) ListAvailableMoney(_ context.Context, userID int64, q storage.Query) ([]domain.AvailableMoney, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.availableMoney.live(userID, func(m domain.AvailableMoney) bool {
		if q.Month != nil && !q.Month.Contains(m.Date) {
			return false
		}
		return q.Search == "" || contains(m.Name, q.Search) || contains(amountText(m.ToSpend), q.Search)
	})
	sort.Slice(items, func(i, j int) bool {
		return byDateDesc(items[i].Date, items[j].Date, items[i].ID, items[j].ID)
	})
	page, total := paginate(items, q)
	return page, total, nil
}

func (s *Store) GetAvailableMoney(_ context.Context, userID, id int64) (*domain.AvailableMoney, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.availableMoney.get(userID, id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &m, nil
}

func (s *Store) CreateAvailableMoney(_ context.Context, m *domain.AvailableMoney) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.availableMoney.nextID()
	m.CreatedAt = s.now()
	m.UpdatedAt = m.CreatedAt
	s.availableMoney.put(m.UserID, m.ID, *m)
	return nil
}

func (s *Store) UpdateAvailableMoney(_ context.Context, m *domain.AvailableMoney) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.availableMoney.get(m.UserID, m.ID)
	if !ok {
		return storage.ErrNotFound
	}
	m.CreatedAt = old.CreatedAt
	m.UpdatedAt = s.now()
	s.availableMoney.replace(m.UserID, m.ID, *m)
	return nil
}

func (s *Store) DeleteAvailableMoney(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.availableMoney.softDelete(userID, id, s.now()) {
		return storage.ErrNotFound
	}
	return nil
}

// === CategoryStorage ===

func (s *Store) ListCategories(_ context.Context, userID int64, q storage.Query) ([]domain.Category, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.categories.live(userID, func(c domain.Category) bool {
		return q.Search == "" || contains(c.Name, q.Search)
	})
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	page, total := paginate(items, q)
	return page, total, nil
}

func (s *Store) GetCategory(_ context.Context, userID, id int64) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories.get(userID, id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (s *Store) CreateCategory(_ context.Context, c *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.categories.nextID()
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	s.categories.put(c.UserID, c.ID, *c)
	return nil
}

func (s *Store) UpdateCategory(_ context.Context, c *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.categories.get(c.UserID, c.ID)
	if !ok {
		return storage.ErrNotFound
	}
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = s.now()
	s.categories.replace(c.UserID, c.ID, *c)
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.categories.softDelete(userID, id, s.now()) {
		return storage.ErrNotFound
	}
	return nil
}

// === PaymentStorage ===

// withCount fills SpentMoneyCount; callers hold the lock.
func (s *Store) withCount(p domain.Payment) domain.Payment {
	p.SpentMoneyCount = 0
	s.spentMoney.each(func(sm *domain.SpentMoney, deleted bool) {
		if !deleted && sm.PaymentID != nil && *sm.PaymentID == p.ID {
			p.SpentMoneyCount++
		}
	})
	return p
}

func (s *Store) paymentNameTaken(name string, exceptID int64) bool {
	for _, p := range s.payments {
		if p.Name == name && p.ID != exceptID {
			return true
		}
	}
	return false
}

func (s *Store) ListPayments(_ context.Context) ([]domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		items = append(items, s.withCount(p))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *Store) GetPayment(_ context.Context, id int64) (*domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	p = s.withCount(p)
	return &p, nil
}

func (s *Store) CreatePayment(_ context.Context, p *domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paymentNameTaken(p.Name, 0) {
		return storage.ErrDuplicate
	}
	s.lastPaymentID++
	p.ID = s.lastPaymentID
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	p.SpentMoneyCount = 0
	s.payments[p.ID] = *p
	return nil
}

func (s *Store) UpdatePayment(_ context.Context, p *domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.payments[p.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if s.paymentNameTaken(p.Name, p.ID) {
		return storage.ErrDuplicate
	}
	p.CreatedAt = old.CreatedAt
	p.UpdatedAt = s.now()
	s.payments[p.ID] = *p
	return nil
}

func (s *Store) DeletePayment(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payments[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.payments, id)
	s.spentMoney.each(func(sm *domain.SpentMoney, _ bool) {
		if sm.PaymentID != nil && *sm.PaymentID == id {
			sm.PaymentID = nil
		}
	})
	return nil
}

// === SpentMoneyStorage ===

// resolve attaches category and payment the way the SQL joins do; callers hold the lock.
func (s *Store) resolve(sm domain.SpentMoney) domain.SpentMoney {
	sm.Category, sm.Payment, sm.AvailableMoney = nil, nil, nil
	if sm.CategoryID != nil {
		if c, ok := s.categories.get(sm.UserID, *sm.CategoryID); ok {
			sm.Category = &c
		}
	}
	if sm.PaymentID != nil {
		if p, ok := s.payments[*sm.PaymentID]; ok {
			p.SpentMoneyCount = 0
			sm.Payment = &p
		}
	}
	return sm
}

func (s *Store) filterSpent(userID int64, q storage.Query) []domain.SpentMoney {
	var items []domain.SpentMoney
	for _, sm := range s.spentMoney.live(userID, nil) {
		sm = s.resolve(sm)
		if q.Month != nil && !q.Month.Contains(sm.Date) {
			continue
		}
		if q.Search != "" {
			matched := contains(sm.Name, q.Search) || contains(amountText(sm.Value), q.Search) ||
				(sm.Category != nil && contains(sm.Category.Name, q.Search))
			if !matched {
				continue
			}
		}
		items = append(items, sm)
	}
	sort.Slice(items, func(i, j int) bool {
		return byDateDesc(items[i].Date, items[j].Date, items[i].ID, items[j].ID)
	})
	return items
}

func (s *Store) ListSpentMoney(_ context.Context, userID int64, q storage.Query) ([]domain.SpentMoney, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page, total := paginate(s.filterSpent(userID, q), q)
	return page, total, nil
}

func (s *Store) SumSpentMoney(_ context.Context, userID int64, q storage.Query) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, sm := range s.filterSpent(userID, q) {
		total += sm.Value
	}
	return total, nil
}

func (s *Store) GetSpentMoney(_ context.Context, userID, id int64) (*domain.SpentMoney, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sm, ok := s.spentMoney.get(userID, id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	sm = s.resolve(sm)
	if m, ok := s.availableMoney.get(userID, sm.AvailableMoneyID); ok {
		sm.AvailableMoney = &m
	}
	return &sm, nil
}

func (s *Store) CreateSpentMoney(_ context.Context, sm *domain.SpentMoney) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sm.ID = s.spentMoney.nextID()
	sm.CreatedAt = s.now()
	sm.UpdatedAt = sm.CreatedAt
	s.spentMoney.put(sm.UserID, sm.ID, bare(*sm))
	return nil
}

func (s *Store) UpdateSpentMoney(_ context.Context, sm *domain.SpentMoney) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.spentMoney.get(sm.UserID, sm.ID)
	if !ok {
		return storage.ErrNotFound
	}
	sm.CreatedAt = old.CreatedAt
	sm.UpdatedAt = s.now()
	s.spentMoney.replace(sm.UserID, sm.ID, bare(*sm))
	return nil
}

func (s *Store) DeleteSpentMoney(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.spentMoney.softDelete(userID, id, s.now()) {
		return storage.ErrNotFound
	}
	return nil
}

// bare drops resolved relations so stored rows only hold foreign keys.
func bare(sm domain.SpentMoney) domain.SpentMoney {
	sm.Category, sm.Payment, sm.AvailableMoney = nil, nil, nil
	return sm
}
