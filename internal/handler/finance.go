package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/finance"
	"finance-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

type FinanceStorage interface {
	storage.AvailableMoneyStorage
	storage.CategoryStorage
	storage.PaymentStorage
	storage.SpentMoneyStorage
}

// FinanceHandler serves expenses together with the balance they leave.
type FinanceHandler struct {
	store FinanceStorage
	now   func() time.Time
}

func NewFinanceHandler(store FinanceStorage, now func() time.Time) *FinanceHandler {
	if now == nil {
		now = time.Now
	}
	return &FinanceHandler{store: store, now: now}
}

var financeMessages = messages{
	"name.required":               "O campo NOME é obrigatório!",
	"value.required":              "O campo VALOR é obrigatório!",
	"date.required":               "O campo DATA é obrigatório!",
	"available_money_id.required": "O SALDO não pode ser R$ 0,00",
}

// List godoc
// @Summary List the month's expenses with the current balance
// @Tags despesa
// @Produce json
// @Param page query int false "Page"
// @Param month query string false "YYYY-MM, defaults to the current month"
// @Success 200 {object} map[string]any
// @Router /despesa [get]
func (h *FinanceHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	month, ok := monthParam(c)
	if !ok {
		return
	}
	if month == nil {
		current := domain.MonthOf(h.now())
		month = &current
	}
	h.respondStatement(c, userID, storage.Query{Month: month, Page: pageParam(c), PerPage: listPageSize})
}

// Search godoc
// @Summary Search expenses by name, amount or category
// @Tags despesa
// @Accept json
// @Produce json
// @Param request body SearchRequest true "Term"
// @Success 200 {object} map[string]any
// @Router /despesa/search [post]
func (h *FinanceHandler) Search(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	term, ok := searchTerm(c)
	if !ok {
		return
	}
	h.respondStatement(c, userID, storage.Query{Search: term, Page: pageParam(c), PerPage: searchPageSize})
}

// respondStatement writes one page of q alongside a balance over all of q.
func (h *FinanceHandler) respondStatement(c *gin.Context, userID int64, q storage.Query) {
	ctx := c.Request.Context()
	items, total, err := h.store.ListSpentMoney(ctx, userID, q)
	if err != nil {
		respondError(c, err)
		return
	}
	st, err := finance.Compute(ctx, h.store, userID, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"finances":        domain.NewPage(items, q.Page, q.PerPage, total),
		"available_money": st.Entries,
		"diff":            st.Diff,
		"total_available": st.TotalAvailable,
		"total_spent":     st.TotalSpent,
	})
}

// Create godoc
// @Summary Record an expense
// @Tags despesa
// @Accept json
// @Produce json
// @Param request body SpentMoneyRequest true "Expense"
// @Success 201 {object} map[string]any
// @Failure 422 {object} map[string]any
// @Router /despesa [post]
func (h *FinanceHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req SpentMoneyRequest
	bound, ok := bindJSON(c, &req)
	if !ok {
		return
	}
	expense, err := h.build(c.Request.Context(), userID, req, bound)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.store.CreateSpentMoney(c.Request.Context(), expense); err != nil {
		respondError(c, err)
		return
	}
	created, err := h.store.GetSpentMoney(c.Request.Context(), userID, expense.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	slog.Info("Expense created", "user_id", userID, "id", created.ID, "available_money_id", created.AvailableMoneyID)
	c.JSON(http.StatusCreated, gin.H{"message": "Despesa adicionada com sucesso!", "finance": created})
}

// Show godoc
// @Summary Show one expense with its relations
// @Tags despesa
// @Produce json
// @Param id path int true "Expense ID"
// @Success 200 {object} domain.SpentMoney
// @Failure 404 {object} map[string]string
// @Router /despesa/{id} [get]
func (h *FinanceHandler) Show(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	expense, err := h.store.GetSpentMoney(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Update godoc
// @Summary Replace an expense
// @Tags despesa
// @Accept json
// @Produce json
// @Param id path int true "Expense ID"
// @Param request body SpentMoneyRequest true "Expense"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]any
// @Router /despesa/{id} [put]
func (h *FinanceHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.store.GetSpentMoney(ctx, userID, id); err != nil {
		respondError(c, err)
		return
	}

	var req SpentMoneyRequest
	bound, ok := bindJSON(c, &req)
	if !ok {
		return
	}
	expense, err := h.build(ctx, userID, req, bound)
	if err != nil {
		respondError(c, err)
		return
	}
	expense.ID = id
	if err := h.store.UpdateSpentMoney(ctx, expense); err != nil {
		respondError(c, err)
		return
	}
	updated, err := h.store.GetSpentMoney(ctx, userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Despesa atualizada com sucesso!", "finance": updated})
}

// Destroy godoc
// @Summary Soft-delete an expense
// @Tags despesa
// @Produce json
// @Param id path int true "Expense ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /despesa/{id} [delete]
func (h *FinanceHandler) Destroy(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteSpentMoney(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Despesa deletada com sucesso!"})
}

// build validates the request, then checks every reference it makes.
func (h *FinanceHandler) build(ctx context.Context, userID int64, req SpentMoneyRequest, bound *domain.ValidationError) (*domain.SpentMoney, error) {
	req.Name = domain.CleanText(req.Name)
	verr := validateStruct(req, financeMessages, bound)
	if !verr.Empty() {
		return nil, verr
	}

	expense := &domain.SpentMoney{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Payable:     req.Payable != nil,
	}
	var err error
	if expense.Value, err = req.Value.Float(); err != nil {
		return nil, err
	}
	if expense.Date, err = domain.ParseDate(req.Date); err != nil {
		return nil, err
	}

	amID, err := req.AvailableMoneyID.Ptr()
	if err == nil {
		_, err = h.store.GetAvailableMoney(ctx, userID, *amID)
		expense.AvailableMoneyID = *amID
	}
	if err := invalidRef(verr, "available_money_id", "A entrada selecionada é inválida.", err); err != nil {
		return nil, err
	}

	catID, err := req.CategoryID.Ptr()
	if err == nil && catID != nil {
		_, err = h.store.GetCategory(ctx, userID, *catID)
	}
	expense.CategoryID = catID
	if err := invalidRef(verr, "categories_id", "A categoria selecionada é inválida.", err); err != nil {
		return nil, err
	}

	payID, err := req.PaymentID.Ptr()
	if err == nil && payID != nil {
		_, err = h.store.GetPayment(ctx, *payID)
	}
	expense.PaymentID = payID
	if err := invalidRef(verr, "payments_id", "O método de pagamento selecionado é inválido.", err); err != nil {
		return nil, err
	}

	if !verr.Empty() {
		return nil, verr
	}
	return expense, nil
}

// invalidRef turns a missing or unparsable reference into a field message.
// Any other error is returned as is.
func invalidRef(verr *domain.ValidationError, field, msg string, err error) error {
	var numErr *strconv.NumError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound), errors.As(err, &numErr):
		verr.Add(field, msg)
		return nil
	default:
		return err
	}
}

// DTOs

type SpentMoneyRequest struct {
	Name             string             `json:"name" validate:"required,notblank,max=255"`
	Value            domain.AmountInput `json:"value" validate:"required,money"`
	Date             string             `json:"date" validate:"required,isodate"`
	AvailableMoneyID domain.IDInput     `json:"available_money_id" validate:"required,numeric"`
	CategoryID       domain.IDInput     `json:"categories_id" validate:"omitempty,numeric"`
	PaymentID        domain.IDInput     `json:"payments_id" validate:"omitempty,numeric"`
	Description      *string            `json:"description"`
	// any non-null value marks the expense as payable
	Payable *json.RawMessage `json:"payable"`
}
