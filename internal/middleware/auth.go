// internal/middleware/auth.go
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

const (
	UserIDKey  = "user_id"
	TokenIDKey = "token_id"
)

type AuthMiddleware struct {
	tokenService *auth.TokenService
	tokens       storage.TokenStorage
	now          func() time.Time
}

func NewAuthMiddleware(ts *auth.TokenService, tokens storage.TokenStorage, now func() time.Time) *AuthMiddleware {
	if now == nil {
		now = time.Now
	}
	return &AuthMiddleware{tokenService: ts, tokens: tokens, now: now}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
}

// RequireAuth accepts a signed token only while its registry row exists.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenStr) == "" {
			slog.Debug("Missing bearer token", "path", c.FullPath())
			unauthorized(c)
			return
		}

		claims, err := m.tokenService.ParseToken(strings.TrimSpace(tokenStr))
		if err != nil {
			slog.Debug("Rejected token", "error", err)
			unauthorized(c)
			return
		}

		tokenID := claims.TokenID()
		stored, err := m.tokens.FindToken(c.Request.Context(), tokenID)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				slog.Error("Token lookup failed", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Erro interno do servidor"})
				return
			}
			unauthorized(c)
			return
		}
		now := m.now()
		if stored.UserID != claims.UserID || !now.Before(stored.ExpiresAt) {
			unauthorized(c)
			return
		}
		if err := m.tokens.TouchToken(c.Request.Context(), tokenID, now); err != nil {
			slog.Warn("Could not touch token", "token_id", tokenID, "error", err)
		}

		c.Set(UserIDKey, claims.UserID) // int64
		c.Set(TokenIDKey, tokenID)
		c.Next()
	}
}
