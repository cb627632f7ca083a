package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

const tokenName = "api"

type AuthStorage interface {
	storage.UserStorage
	storage.TokenStorage
}

type AuthHandler struct {
	store        AuthStorage
	tokenService *auth.TokenService
}

func NewAuthHandler(store AuthStorage, ts *auth.TokenService) *AuthHandler {
	return &AuthHandler{store: store, tokenService: ts}
}

var registerMessages = messages{
	"name.required":     "O campo nome é obrigatório",
	"email.required":    "O campo e-mail é obrigatório",
	"password.required": "O campo senha é obrigatório",
	"password.min":      "A senha deve ter pelo menos 8 caracteres",
	"password.maxbytes": "A senha deve ter no máximo 72 caracteres",
}

const emailTaken = "Esse e-mail já está cadastrado no sistema"

// Register godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Account data"
// @Success 201 {object} map[string]any
// @Failure 422 {object} map[string]any
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	bound, ok := bindJSON(c, &req)
	if !ok {
		return
	}
	req.Name = domain.CleanText(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	verr := validateStruct(req, registerMessages, bound)
	if _, ok := verr.Fields["email"]; !ok {
		_, err := h.store.FindUserByEmail(c.Request.Context(), req.Email)
		switch {
		case err == nil:
			verr.Add("email", emailTaken)
		case !errors.Is(err, storage.ErrNotFound):
			respondError(c, err)
			return
		}
	}
	if !verr.Empty() {
		respondError(c, verr)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	user := &domain.User{Name: req.Name, Email: req.Email, Password: hash}
	if err := h.store.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			respondError(c, &domain.ConflictError{Field: "email", Message: emailTaken})
			return
		}
		respondError(c, err)
		return
	}

	slog.Info("User registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "Registro realizado com sucesso!", "user": user})
}

// Login godoc
// @Summary Exchange credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]any
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	bound, ok := bindJSON(c, &req)
	if !ok {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if verr := validateStruct(req, nil, bound); !verr.Empty() {
		respondError(c, verr)
		return
	}

	user, err := h.store.FindUserByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		respondError(c, err)
		return
	}
	if user == nil || !auth.CheckPassword(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "E-mail ou senha inválidos!"})
		return
	}

	token, err := h.issueToken(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.Info("User logged in", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Login realizado com sucesso!", "user": user, "token": token})
}

// Logout godoc
// @Summary Revoke the token used for this request
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenID, ok := currentTokenID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
		return
	}
	if err := h.store.DeleteToken(c.Request.Context(), tokenID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout realizado com sucesso!"})
}

// issueToken signs a token and records it in the registry.
func (h *AuthHandler) issueToken(ctx context.Context, userID int64) (string, error) {
	issued, err := h.tokenService.GenerateToken(userID)
	if err != nil {
		return "", err
	}
	err = h.store.CreateToken(ctx, &domain.AccessToken{
		ID:        issued.ID,
		UserID:    userID,
		Name:      tokenName,
		ExpiresAt: issued.ExpiresAt,
	})
	if err != nil {
		return "", err
	}
	return issued.Token, nil
}

// DTOs

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
