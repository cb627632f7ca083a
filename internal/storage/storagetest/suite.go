// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"testing"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// StorageSuite runs against a fresh, empty store for every test.
type StorageSuite struct {
	suite.Suite
	NewStore func(t *testing.T) storage.Storage

	store storage.Storage
	ctx   context.Context
}

func (s *StorageSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.NewStore(s.T())
}

func (s *StorageSuite) user(email string) *domain.User {
	u := &domain.User{Name: "Test", Email: email, Password: "hash"}
	require.NoError(s.T(), s.store.CreateUser(s.ctx, u))
	return u
}

func (s *StorageSuite) entry(userID int64, name string, amount float64, date domain.Date) *domain.AvailableMoney {
	m := &domain.AvailableMoney{UserID: userID, Name: name, ToSpend: amount, Date: date}
	require.NoError(s.T(), s.store.CreateAvailableMoney(s.ctx, m))
	return m
}

func (s *StorageSuite) expense(sm domain.SpentMoney) *domain.SpentMoney {
	require.NoError(s.T(), s.store.CreateSpentMoney(s.ctx, &sm))
	return &sm
}

func (s *StorageSuite) TestUserEmailIsUnique() {
	u := s.user("ana@example.com")
	s.NotZero(u.ID)

	err := s.store.CreateUser(s.ctx, &domain.User{Name: "Other", Email: "ana@example.com", Password: "x"})
	s.ErrorIs(err, storage.ErrDuplicate)

	found, err := s.store.FindUserByEmail(s.ctx, "ana@example.com")
	s.Require().NoError(err)
	s.Equal(u.ID, found.ID)
	s.Equal("hash", found.Password)

	_, err = s.store.FindUserByID(s.ctx, u.ID+1000)
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *StorageSuite) TestTokenLifecycle() {
	u := s.user("tok@example.com")
	tok := &domain.AccessToken{ID: uuid.New(), UserID: u.ID, Name: "api", ExpiresAt: time.Now().Add(time.Hour).UTC()}
	s.Require().NoError(s.store.CreateToken(s.ctx, tok))

	found, err := s.store.FindToken(s.ctx, tok.ID)
	s.Require().NoError(err)
	s.Equal(u.ID, found.UserID)
	s.Nil(found.LastUsedAt)

	s.Require().NoError(s.store.TouchToken(s.ctx, tok.ID, time.Now()))
	found, err = s.store.FindToken(s.ctx, tok.ID)
	s.Require().NoError(err)
	s.NotNil(found.LastUsedAt)

	s.Require().NoError(s.store.DeleteToken(s.ctx, tok.ID))
	_, err = s.store.FindToken(s.ctx, tok.ID)
	s.ErrorIs(err, storage.ErrNotFound)
	s.ErrorIs(s.store.DeleteToken(s.ctx, tok.ID), storage.ErrNotFound)
}

func (s *StorageSuite) TestAvailableMoneyIsOwnerScoped() {
	alice := s.user("alice@example.com")
	bob := s.user("bob@example.com")
	m := s.entry(alice.ID, "Salário", 3000, domain.NewDate(2025, 9, 5))

	_, err := s.store.GetAvailableMoney(s.ctx, bob.ID, m.ID)
	s.ErrorIs(err, storage.ErrNotFound)

	stolen := *m
	stolen.UserID = bob.ID
	stolen.Name = "hacked"
	s.ErrorIs(s.store.UpdateAvailableMoney(s.ctx, &stolen), storage.ErrNotFound)
	s.ErrorIs(s.store.DeleteAvailableMoney(s.ctx, bob.ID, m.ID), storage.ErrNotFound)

	got, err := s.store.GetAvailableMoney(s.ctx, alice.ID, m.ID)
	s.Require().NoError(err)
	s.Equal("Salário", got.Name)
	s.Equal(3000.0, got.ToSpend)
	s.Equal("2025-09-05", got.Date.String())

	items, total, err := s.store.ListAvailableMoney(s.ctx, bob.ID, storage.Query{})
	s.Require().NoError(err)
	s.Empty(items)
	s.Zero(total)
}

func (s *StorageSuite) TestAvailableMoneyOrderingAndPages() {
	u := s.user("pages@example.com")
	for day := 1; day <= 7; day++ {
		s.entry(u.ID, "Entrada", float64(day*100), domain.NewDate(2025, 9, day))
	}
	// same day as the newest: the higher id comes first
	last := s.entry(u.ID, "Extra", 50, domain.NewDate(2025, 9, 7))

	page1, total, err := s.store.ListAvailableMoney(s.ctx, u.ID, storage.Query{Page: 1, PerPage: 6})
	s.Require().NoError(err)
	s.Equal(8, total)
	s.Require().Len(page1, 6)
	s.Equal(last.ID, page1[0].ID)
	s.Equal("2025-09-07", page1[1].Date.String())

	page2, _, err := s.store.ListAvailableMoney(s.ctx, u.ID, storage.Query{Page: 2, PerPage: 6})
	s.Require().NoError(err)
	s.Require().Len(page2, 2)
	s.Equal("2025-09-01", page2[1].Date.String())
}

func (s *StorageSuite) TestAvailableMoneyMonthAndSearch() {
	u := s.user("filter@example.com")
	s.entry(u.ID, "Salário Agosto", 1500, domain.NewDate(2025, 8, 31))
	s.entry(u.ID, "Salário Setembro", 1500, domain.NewDate(2025, 9, 1))
	s.entry(u.ID, "Freela", 320.5, domain.NewDate(2025, 9, 30))

	sept := domain.Month{Year: 2025, Month: time.September}
	items, total, err := s.store.ListAvailableMoney(s.ctx, u.ID, storage.Query{Month: &sept})
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Len(items, 2)

	items, _, err = s.store.ListAvailableMoney(s.ctx, u.ID, storage.Query{Search: "salário"})
	s.Require().NoError(err)
	s.Len(items, 2)

	items, _, err = s.store.ListAvailableMoney(s.ctx, u.ID, storage.Query{Search: "320.5"})
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("Freela", items[0].Name)

	items, _, err = s.store.ListAvailableMoney(s.ctx, u.ID, storage.Query{Search: "100%"})
	s.Require().NoError(err)
	s.Empty(items)
}

func (s *StorageSuite) TestSoftDeleteHidesRows() {
	u := s.user("soft@example.com")
	m := s.entry(u.ID, "Temporária", 10, domain.NewDate(2025, 9, 1))

	s.Require().NoError(s.store.DeleteAvailableMoney(s.ctx, u.ID, m.ID))
	_, err := s.store.GetAvailableMoney(s.ctx, u.ID, m.ID)
	s.ErrorIs(err, storage.ErrNotFound)
	s.ErrorIs(s.store.DeleteAvailableMoney(s.ctx, u.ID, m.ID), storage.ErrNotFound)

	items, _, err := s.store.ListAvailableMoney(s.ctx, u.ID, storage.Query{})
	s.Require().NoError(err)
	s.Empty(items)
}

func (s *StorageSuite) TestCategoriesOrderedByName() {
	u := s.user("cat@example.com")
	color := "#ff0000"
	for _, name := range []string{"Mercado", "Aluguel", "Lazer"} {
		c := &domain.Category{UserID: u.ID, Name: name}
		if name == "Lazer" {
			c.Color = &color
		}
		s.Require().NoError(s.store.CreateCategory(s.ctx, c))
	}

	items, total, err := s.store.ListCategories(s.ctx, u.ID, storage.Query{Page: 1, PerPage: 6})
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Require().Len(items, 3)
	s.Equal("Aluguel", items[0].Name)
	s.Equal("Lazer", items[1].Name)
	s.Require().NotNil(items[1].Color)
	s.Equal(color, *items[1].Color)

	items, _, err = s.store.ListCategories(s.ctx, u.ID, storage.Query{Search: "MERC"})
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("Mercado", items[0].Name)

	c := items[0]
	c.Name = "Supermercado"
	s.Require().NoError(s.store.UpdateCategory(s.ctx, &c))
	got, err := s.store.GetCategory(s.ctx, u.ID, c.ID)
	s.Require().NoError(err)
	s.Equal("Supermercado", got.Name)
}

func (s *StorageSuite) TestPaymentsAreGlobal() {
	pix := &domain.Payment{Name: "Pix"}
	s.Require().NoError(s.store.CreatePayment(s.ctx, pix))
	s.ErrorIs(s.store.CreatePayment(s.ctx, &domain.Payment{Name: "Pix"}), storage.ErrDuplicate)
	s.Require().NoError(s.store.CreatePayment(s.ctx, &domain.Payment{Name: "pix"}))

	card := &domain.Payment{Name: "Cartão"}
	s.Require().NoError(s.store.CreatePayment(s.ctx, card))

	// renaming to its own name is fine, taking another one's is not
	s.Require().NoError(s.store.UpdatePayment(s.ctx, &domain.Payment{ID: pix.ID, Name: "Pix"}))
	s.ErrorIs(s.store.UpdatePayment(s.ctx, &domain.Payment{ID: card.ID, Name: "Pix"}), storage.ErrDuplicate)
	s.ErrorIs(s.store.UpdatePayment(s.ctx, &domain.Payment{ID: card.ID + 1000, Name: "Boleto"}), storage.ErrNotFound)

	items, err := s.store.ListPayments(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 3)
	s.Equal("Cartão", items[0].Name)
}

func (s *StorageSuite) TestPaymentCountAndPermanentDelete() {
	u := s.user("pay@example.com")
	m := s.entry(u.ID, "Salário", 1000, domain.NewDate(2025, 9, 1))
	pix := &domain.Payment{Name: "Pix"}
	s.Require().NoError(s.store.CreatePayment(s.ctx, pix))

	kept := s.expense(domain.SpentMoney{UserID: u.ID, AvailableMoneyID: m.ID, PaymentID: &pix.ID, Name: "Luz", Value: 120, Date: domain.NewDate(2025, 9, 2)})
	gone := s.expense(domain.SpentMoney{UserID: u.ID, AvailableMoneyID: m.ID, PaymentID: &pix.ID, Name: "Água", Value: 80, Date: domain.NewDate(2025, 9, 3)})
	s.Require().NoError(s.store.DeleteSpentMoney(s.ctx, u.ID, gone.ID))

	got, err := s.store.GetPayment(s.ctx, pix.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), got.SpentMoneyCount)

	s.Require().NoError(s.store.DeletePayment(s.ctx, pix.ID))
	_, err = s.store.GetPayment(s.ctx, pix.ID)
	s.ErrorIs(err, storage.ErrNotFound)
	s.ErrorIs(s.store.DeletePayment(s.ctx, pix.ID), storage.ErrNotFound)

	sm, err := s.store.GetSpentMoney(s.ctx, u.ID, kept.ID)
	s.Require().NoError(err)
	s.Nil(sm.PaymentID)
	s.Nil(sm.Payment)
}

func (s *StorageSuite) TestSpentMoneyResolvesRelations() {
	u := s.user("rel@example.com")
	other := s.user("other@example.com")
	m := s.entry(u.ID, "Salário", 1000, domain.NewDate(2025, 9, 1))
	cat := &domain.Category{UserID: u.ID, Name: "Casa"}
	s.Require().NoError(s.store.CreateCategory(s.ctx, cat))
	card := &domain.Payment{Name: "Cartão"}
	s.Require().NoError(s.store.CreatePayment(s.ctx, card))
	desc := "conta de setembro"

	sm := s.expense(domain.SpentMoney{
		UserID: u.ID, AvailableMoneyID: m.ID, CategoryID: &cat.ID, PaymentID: &card.ID,
		Name: "Internet", Description: &desc, Value: 99.9, Payable: true, Date: domain.NewDate(2025, 9, 10),
	})

	got, err := s.store.GetSpentMoney(s.ctx, u.ID, sm.ID)
	s.Require().NoError(err)
	s.True(got.Payable)
	s.Require().NotNil(got.Description)
	s.Equal(desc, *got.Description)
	s.Require().NotNil(got.Category)
	s.Equal("Casa", got.Category.Name)
	s.Require().NotNil(got.Payment)
	s.Equal("Cartão", got.Payment.Name)
	s.Require().NotNil(got.AvailableMoney)
	s.Equal(m.ID, got.AvailableMoney.ID)

	_, err = s.store.GetSpentMoney(s.ctx, other.ID, sm.ID)
	s.ErrorIs(err, storage.ErrNotFound)

	// a deleted category resolves to nothing
	s.Require().NoError(s.store.DeleteCategory(s.ctx, u.ID, cat.ID))
	items, _, err := s.store.ListSpentMoney(s.ctx, u.ID, storage.Query{})
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Nil(items[0].Category)
	s.Require().NotNil(items[0].CategoryID)

	got.Name = "Fibra"
	got.Payable = false
	s.Require().NoError(s.store.UpdateSpentMoney(s.ctx, got))
	again, err := s.store.GetSpentMoney(s.ctx, u.ID, sm.ID)
	s.Require().NoError(err)
	s.Equal("Fibra", again.Name)
	s.False(again.Payable)
}

func (s *StorageSuite) TestSpentMoneySearchAndSum() {
	u := s.user("sum@example.com")
	m := s.entry(u.ID, "Salário", 5000, domain.NewDate(2025, 9, 1))
	food := &domain.Category{UserID: u.ID, Name: "Alimentação"}
	s.Require().NoError(s.store.CreateCategory(s.ctx, food))

	s.expense(domain.SpentMoney{UserID: u.ID, AvailableMoneyID: m.ID, CategoryID: &food.ID, Name: "Feira", Value: 10.5, Date: domain.NewDate(2025, 9, 2)})
	s.expense(domain.SpentMoney{UserID: u.ID, AvailableMoneyID: m.ID, CategoryID: &food.ID, Name: "Padaria", Value: 20.25, Date: domain.NewDate(2025, 9, 3)})
	s.expense(domain.SpentMoney{UserID: u.ID, AvailableMoneyID: m.ID, Name: "Cinema", Value: 40, Date: domain.NewDate(2025, 8, 20)})

	q := storage.Query{Search: "alimentação", Page: 1, PerPage: 1}
	items, total, err := s.store.ListSpentMoney(s.ctx, u.ID, q)
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Len(items, 1)

	sum, err := s.store.SumSpentMoney(s.ctx, u.ID, q)
	s.Require().NoError(err)
	s.InDelta(30.75, sum, 1e-9)

	sept := domain.Month{Year: 2025, Month: time.September}
	sum, err = s.store.SumSpentMoney(s.ctx, u.ID, storage.Query{Month: &sept})
	s.Require().NoError(err)
	s.InDelta(30.75, sum, 1e-9)

	items, _, err = s.store.ListSpentMoney(s.ctx, u.ID, storage.Query{Search: "40"})
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("Cinema", items[0].Name)

	sum, err = s.store.SumSpentMoney(s.ctx, u.ID, storage.Query{Search: "nada disso"})
	s.Require().NoError(err)
	s.Zero(sum)
}
