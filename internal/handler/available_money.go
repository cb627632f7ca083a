package handler

import (
	"log/slog"
	"net/http"

	"finance-tracker/internal/config"
	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

const (
	listPageSize   = 6
	searchPageSize = 5
)

type AvailableMoneyHandler struct {
	store    storage.AvailableMoneyStorage
	listMode config.ListMode
}

func NewAvailableMoneyHandler(store storage.AvailableMoneyStorage, mode config.ListMode) *AvailableMoneyHandler {
	return &AvailableMoneyHandler{store: store, listMode: mode}
}

var availableMoneyMessages = messages{
	"name.required":     "O campo NOME é obrigatório!",
	"to_spend.required": "O campo VALOR é obrigatório!",
	"date.required":     "O campo DATA é obrigatório!",
}

// List godoc
// @Summary List the user's entries, newest first
// @Tags entrada
// @Produce json
// @Param page query int false "Page"
// @Param month query string false "YYYY-MM"
// @Success 200 {object} map[string]any
// @Router /entrada [get]
func (h *AvailableMoneyHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	month, ok := monthParam(c)
	if !ok {
		return
	}

	q := storage.Query{Month: month}
	if h.listMode == config.ListPaginated {
		q.Page, q.PerPage = pageParam(c), listPageSize
	}
	items, total, err := h.store.ListAvailableMoney(c.Request.Context(), userID, q)
	if err != nil {
		respondError(c, err)
		return
	}
	if !q.Paginated() {
		c.JSON(http.StatusOK, items)
		return
	}
	c.JSON(http.StatusOK, domain.NewPage(items, q.Page, q.PerPage, total))
}

// Search godoc
// @Summary Search entries by name or amount
// @Tags entrada
// @Accept json
// @Produce json
// @Param request body SearchRequest true "Term"
// @Success 200 {object} map[string]any
// @Router /entrada/search [post]
func (h *AvailableMoneyHandler) Search(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	term, ok := searchTerm(c)
	if !ok {
		return
	}

	q := storage.Query{Search: term, Page: pageParam(c), PerPage: searchPageSize}
	items, total, err := h.store.ListAvailableMoney(c.Request.Context(), userID, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.NewPage(items, q.Page, q.PerPage, total))
}

// Create godoc
// @Summary Record available money
// @Tags entrada
// @Accept json
// @Produce json
// @Param request body AvailableMoneyRequest true "Entry"
// @Success 201 {object} map[string]any
// @Failure 422 {object} map[string]any
// @Router /entrada [post]
func (h *AvailableMoneyHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req AvailableMoneyRequest
	bound, ok := bindJSON(c, &req)
	if !ok {
		return
	}
	entry, err := req.toDomain(bound)
	if err != nil {
		respondError(c, err)
		return
	}
	entry.UserID = userID

	if err := h.store.CreateAvailableMoney(c.Request.Context(), entry); err != nil {
		respondError(c, err)
		return
	}
	slog.Info("Available money created", "user_id", userID, "id", entry.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "Entrada adicionada com sucesso!", "entry": entry})
}

// Show godoc
// @Summary Show one entry
// @Tags entrada
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} domain.AvailableMoney
// @Failure 404 {object} map[string]string
// @Router /entrada/{id} [get]
func (h *AvailableMoneyHandler) Show(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	entry, err := h.store.GetAvailableMoney(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Update godoc
// @Summary Replace an entry
// @Tags entrada
// @Accept json
// @Produce json
// @Param id path int true "Entry ID"
// @Param request body AvailableMoneyRequest true "Entry"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]any
// @Router /entrada/{id} [put]
func (h *AvailableMoneyHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.store.GetAvailableMoney(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	var req AvailableMoneyRequest
	bound, ok := bindJSON(c, &req)
	if !ok {
		return
	}
	entry, err := req.toDomain(bound)
	if err != nil {
		respondError(c, err)
		return
	}
	entry.ID, entry.UserID = id, userID

	if err := h.store.UpdateAvailableMoney(c.Request.Context(), entry); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entrada atualizada com sucesso!", "entry": entry})
}

// Destroy godoc
// @Summary Soft-delete an entry
// @Tags entrada
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /entrada/{id} [delete]
func (h *AvailableMoneyHandler) Destroy(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteAvailableMoney(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entrada deletada com sucesso!"})
}

// DTOs

type AvailableMoneyRequest struct {
	Name    string             `json:"name" validate:"required,notblank,max=255"`
	ToSpend domain.AmountInput `json:"to_spend" validate:"required,money"`
	Date    string             `json:"date" validate:"required,isodate"`
}

func (r AvailableMoneyRequest) toDomain(bound *domain.ValidationError) (*domain.AvailableMoney, error) {
	r.Name = domain.CleanText(r.Name)
	if verr := validateStruct(r, availableMoneyMessages, bound); !verr.Empty() {
		return nil, verr
	}
	amount, err := r.ToSpend.Float()
	if err != nil {
		return nil, err
	}
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	return &domain.AvailableMoney{Name: r.Name, ToSpend: amount, Date: date}, nil
}
