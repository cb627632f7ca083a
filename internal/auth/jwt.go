// internal/auth/jwt.go
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finance-tracker/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims binds a token to its user; RegisteredClaims.ID (jti) names the
// stored access token row so a single token can be revoked.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Issued is a freshly signed token plus the data to persist for it.
type Issued struct {
	Token     string
	ID        uuid.UUID
	UserID    int64
	ExpiresAt time.Time
}

type TokenService struct {
	secretKey []byte
	expiresIn time.Duration
	now       func() time.Time
}

func NewTokenService(cfg config.Config) *TokenService {
	return &TokenService{
		secretKey: []byte(cfg.JWTSecret),
		expiresIn: cfg.JWTExpiresIn,
		now:       time.Now,
	}
}

// GenerateToken signs a token for userID with a fresh jti.
func (s *TokenService) GenerateToken(userID int64) (Issued, error) {
	now := s.now()
	expTime := now.Add(s.expiresIn)
	id := uuid.New()

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expTime),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(s.secretKey)
	if err != nil {
		return Issued{}, fmt.Errorf("sign token: %w", err)
	}

	slog.Info("JWT generated", "user_id", userID, "jti", id, "expires_at", expTime.Format("2006-01-02 15:04:05"))
	return Issued{Token: tokenStr, ID: id, UserID: userID, ExpiresAt: expTime}, nil
}

// ParseToken verifies the signature and expiry and returns the claims.
func (s *TokenService) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return nil, fmt.Errorf("%w: bad jti", ErrInvalidToken)
	}

	slog.Debug("JWT parsed successfully", "user_id", claims.UserID)
	return claims, nil
}

// TokenID returns the parsed jti.
func (c *Claims) TokenID() uuid.UUID {
	id, _ := uuid.Parse(c.ID)
	return id
}
