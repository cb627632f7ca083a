package auth

import (
	"testing"
	"time"

	"finance-tracker/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *TokenService {
	t.Helper()
	return NewTokenService(config.Config{JWTSecret: "test-secret-with-enough-length", JWTExpiresIn: time.Hour})
}

func TestGenerateAndParse(t *testing.T) {
	s := newService(t)

	issued, err := s.GenerateToken(42)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.Equal(t, int64(42), issued.UserID)

	claims, err := s.ParseToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, issued.ID, claims.TokenID())
}

func TestEachTokenHasItsOwnID(t *testing.T) {
	s := newService(t)
	a, err := s.GenerateToken(1)
	require.NoError(t, err)
	b, err := s.GenerateToken(1)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestExpiredToken(t *testing.T) {
	s := newService(t)
	issued, err := s.GenerateToken(1)
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = s.ParseToken(issued.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRejectsForeignSignature(t *testing.T) {
	other := NewTokenService(config.Config{JWTSecret: "another-secret-of-enough-length", JWTExpiresIn: time.Hour})
	issued, err := other.GenerateToken(1)
	require.NoError(t, err)

	_, err = newService(t).ParseToken(issued.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRejectsTokenWithoutJTI(t *testing.T) {
	s := newService(t)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString(s.secretKey)
	require.NoError(t, err)

	_, err = s.ParseToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("12345678")
	require.NoError(t, err)
	assert.NotEqual(t, "12345678", hash)
	assert.True(t, CheckPassword("12345678", hash))
	assert.False(t, CheckPassword("wrong-pass", hash))
}
