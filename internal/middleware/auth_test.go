package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/config"
	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage/memory"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*gin.Engine, *auth.TokenService, *memory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := auth.NewTokenService(config.Config{JWTSecret: "middleware-test-secret", JWTExpiresIn: time.Hour})
	store := memory.New()
	mw := NewAuthMiddleware(ts, store, nil)

	r := gin.New()
	r.GET("/me", mw.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64(UserIDKey), "token_id": c.MustGet(TokenIDKey).(uuid.UUID).String()})
	})
	return r, ts, store
}

func issue(t *testing.T, ts *auth.TokenService, store *memory.Store, userID int64) auth.Issued {
	t.Helper()
	issued, err := ts.GenerateToken(userID)
	require.NoError(t, err)
	require.NoError(t, store.CreateToken(context.Background(), &domain.AccessToken{
		ID: issued.ID, UserID: userID, Name: "test", ExpiresAt: issued.ExpiresAt,
	}))
	return issued
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r, ts, store := setup(t)
	issued := issue(t, ts, store, 7)

	w := get(r, "Bearer "+issued.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
	assert.Contains(t, w.Body.String(), issued.ID.String())

	stored, err := store.FindToken(context.Background(), issued.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastUsedAt)
}

func TestRequireAuthRejects(t *testing.T) {
	r, ts, store := setup(t)

	unregistered, err := ts.GenerateToken(7)
	require.NoError(t, err)

	revoked := issue(t, ts, store, 7)
	require.NoError(t, store.DeleteToken(context.Background(), revoked.ID))

	cases := map[string]string{
		"no header":      "",
		"wrong scheme":   "Basic abc",
		"empty bearer":   "Bearer ",
		"garbage":        "Bearer not-a-jwt",
		"not registered": "Bearer " + unregistered.Token,
		"revoked":        "Bearer " + revoked.Token,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := get(r, header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"message":"Unauthenticated."}`, w.Body.String())
		})
	}
}

func TestRequireAuthRejectsForeignRow(t *testing.T) {
	r, ts, store := setup(t)
	issued, err := ts.GenerateToken(7)
	require.NoError(t, err)
	// the registry row belongs to someone else
	require.NoError(t, store.CreateToken(context.Background(), &domain.AccessToken{
		ID: issued.ID, UserID: 8, Name: "test", ExpiresAt: issued.ExpiresAt,
	}))

	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+issued.Token).Code)
}

func TestRequireAuthRejectsExpiredRow(t *testing.T) {
	r, ts, store := setup(t)
	issued, err := ts.GenerateToken(7)
	require.NoError(t, err)
	require.NoError(t, store.CreateToken(context.Background(), &domain.AccessToken{
		ID: issued.ID, UserID: 7, Name: "test", ExpiresAt: time.Now().Add(-time.Minute),
	}))

	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+issued.Token).Code)
}
