package handler

import (
	"errors"
	"net/http"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

const paymentNameTaken = "Esse método de pagamento já está cadastrado."

// PaymentHandler serves the payment methods every user shares.
type PaymentHandler struct {
	store storage.PaymentStorage
}

func NewPaymentHandler(store storage.PaymentStorage) *PaymentHandler {
	return &PaymentHandler{store: store}
}

// List godoc
// @Summary List payment methods with their expense count
// @Tags pagamento
// @Produce json
// @Success 200 {array} domain.Payment
// @Router /pagamento [get]
func (h *PaymentHandler) List(c *gin.Context) {
	payments, err := h.store.ListPayments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// Create godoc
// @Summary Create a payment method
// @Tags pagamento
// @Accept json
// @Produce json
// @Param request body PaymentRequest true "Payment"
// @Success 201 {object} domain.Payment
// @Failure 422 {object} map[string]any
// @Router /pagamento [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req PaymentRequest
	bound, ok := bindJSON(c, &req)
	if !ok {
		return
	}
	payment, err := req.toDomain(bound)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.store.CreatePayment(c.Request.Context(), payment); err != nil {
		respondError(c, nameConflict(err))
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// Show godoc
// @Summary Show one payment method
// @Tags pagamento
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} domain.Payment
// @Failure 404 {object} map[string]string
// @Router /pagamento/{id} [get]
func (h *PaymentHandler) Show(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	payment, err := h.store.GetPayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Update godoc
// @Summary Rename a payment method
// @Tags pagamento
// @Accept json
// @Produce json
// @Param id path int true "Payment ID"
// @Param request body PaymentRequest true "Payment"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]any
// @Router /pagamento/{id} [put]
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.store.GetPayment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	var req PaymentRequest
	bound, ok := bindJSON(c, &req)
	if !ok {
		return
	}
	payment, err := req.toDomain(bound)
	if err != nil {
		respondError(c, err)
		return
	}
	payment.ID = id
	if err := h.store.UpdatePayment(c.Request.Context(), payment); err != nil {
		respondError(c, nameConflict(err))
		return
	}

	fresh, err := h.store.GetPayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Método de pagamento atualizado com sucesso!", "payment": fresh})
}

// Destroy godoc
// @Summary Delete a payment method for good
// @Tags pagamento
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /pagamento/{id} [delete]
func (h *PaymentHandler) Destroy(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeletePayment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Método de pagamento deletado com sucesso!"})
}

func nameConflict(err error) error {
	if errors.Is(err, storage.ErrDuplicate) {
		return &domain.ConflictError{Field: "name", Message: paymentNameTaken}
	}
	return err
}

// DTOs

type PaymentRequest struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

// toDomain keeps the name as typed: uniqueness is exact.
func (r PaymentRequest) toDomain(bound *domain.ValidationError) (*domain.Payment, error) {
	if verr := validateStruct(r, messages{"name.required": "O campo NOME é obrigatório!"}, bound); !verr.Empty() {
		return nil, verr
	}
	return &domain.Payment{Name: r.Name}, nil
}
