package memory

import (
	"context"
	"sync"
	"testing"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"
	"finance-tracker/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestMemoryStorage(t *testing.T) {
	suite.Run(t, &storagetest.StorageSuite{
		NewStore: func(t *testing.T) storage.Storage { return New() },
	})
}

func TestStoredRowsDoNotKeepRelations(t *testing.T) {
	ctx := context.Background()
	s := New()
	sm := &domain.SpentMoney{
		UserID: 1, AvailableMoneyID: 1, Name: "Luz", Value: 10,
		Category: &domain.Category{Name: "stale"},
	}
	require.NoError(t, s.CreateSpentMoney(ctx, sm))

	got, err := s.GetSpentMoney(ctx, 1, sm.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Category)
}

func TestConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.CreateCategory(ctx, &domain.Category{UserID: 1, Name: "Cat"})
		}()
	}
	wg.Wait()

	items, total, err := s.ListCategories(ctx, 1, storage.Query{})
	require.NoError(t, err)
	assert.Equal(t, 50, total)
	assert.Len(t, items, 50)
}
