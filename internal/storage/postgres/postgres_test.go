package postgres

import (
	"context"
	"os"
	"testing"

	"finance-tracker/internal/storage"
	"finance-tracker/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestPostgresStorage(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("integration tests are disabled; set TEST_DATABASE_URL to enable")
	}
	ctx := context.Background()
	require.NoError(t, Migrate(ctx, dsn))

	pool, err := Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	suite.Run(t, &storagetest.StorageSuite{
		NewStore: func(t *testing.T) storage.Storage {
			_, err := pool.Exec(ctx, "TRUNCATE users, payments RESTART IDENTITY CASCADE")
			require.NoError(t, err)
			return NewStorage(pool)
		},
	})
}

func TestWhereNumbersPlaceholders(t *testing.T) {
	w := &where{}
	w.add("t.user_id = ?", int64(7))
	w.add("t.deleted_at IS NULL")
	w.add("(t.name ILIKE ? OR c.name ILIKE ?)", "%a%", "%a%")

	assert.Equal(t, "WHERE t.user_id = $1 AND t.deleted_at IS NULL AND (t.name ILIKE $2 OR c.name ILIKE $3)", w.String())
	assert.Equal(t, []any{int64(7), "%a%", "%a%"}, w.args)
	assert.Empty(t, (&where{}).String())
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%100\%%`, likePattern("100%"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
	assert.Equal(t, `%c:\\dir%`, likePattern(`c:\dir`))
}
