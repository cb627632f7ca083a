package handler

import (
	"net/http"
	"strings"

	"finance-tracker/internal/config"
	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	store    storage.CategoryStorage
	listMode config.ListMode
}

func NewCategoryHandler(store storage.CategoryStorage, mode config.ListMode) *CategoryHandler {
	return &CategoryHandler{store: store, listMode: mode}
}

// List godoc
// @Summary List the user's categories by name
// @Tags categoria
// @Produce json
// @Param page query int false "Page"
// @Success 200 {object} map[string]any
// @Router /categoria [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var q storage.Query
	if h.listMode == config.ListPaginated {
		q.Page, q.PerPage = pageParam(c), listPageSize
	}
	items, total, err := h.store.ListCategories(c.Request.Context(), userID, q)
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
// @Summary Search categories by name
// @Tags categoria
// @Accept json
// @Produce json
// @Param request body SearchRequest true "Term"
// @Success 200 {object} map[string]any
// @Router /categoria/search [post]
func (h *CategoryHandler) Search(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	term, ok := searchTerm(c)
	if !ok {
		return
	}
	q := storage.Query{Search: term, Page: pageParam(c), PerPage: searchPageSize}
	items, total, err := h.store.ListCategories(c.Request.Context(), userID, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.NewPage(items, q.Page, q.PerPage, total))
}

// Create godoc
// @Summary Create a category
// @Tags categoria
// @Accept json
// @Produce json
// @Param request body CategoryRequest true "Category"
// @Success 201 {object} map[string]any
// @Failure 422 {object} map[string]any
// @Router /categoria [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req CategoryRequest
	bound, ok := bindJSON(c, &req)
	if !ok {
		return
	}
	category, err := req.toDomain(bound)
	if err != nil {
		respondError(c, err)
		return
	}
	category.UserID = userID

	if err := h.store.CreateCategory(c.Request.Context(), category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Categoria adicionada com sucesso!", "category": category})
}

// Show godoc
// @Summary Show one category
// @Tags categoria
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} domain.Category
// @Failure 404 {object} map[string]string
// @Router /categoria/{id} [get]
func (h *CategoryHandler) Show(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	category, err := h.store.GetCategory(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Update godoc
// @Summary Replace a category
// @Tags categoria
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body CategoryRequest true "Category"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]any
// @Router /categoria/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.store.GetCategory(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	var req CategoryRequest
	bound, ok := bindJSON(c, &req)
	if !ok {
		return
	}
	category, err := req.toDomain(bound)
	if err != nil {
		respondError(c, err)
		return
	}
	category.ID, category.UserID = id, userID

	if err := h.store.UpdateCategory(c.Request.Context(), category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Categoria atualizada com sucesso!", "category": category})
}

// Destroy godoc
// @Summary Soft-delete a category
// @Tags categoria
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /categoria/{id} [delete]
func (h *CategoryHandler) Destroy(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteCategory(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Categoria deletada com sucesso!"})
}

// DTOs

type CategoryRequest struct {
	Name  string  `json:"name" validate:"required,notblank,max=255"`
	Color *string `json:"color" validate:"omitempty,max=50"`
}

func (r CategoryRequest) toDomain(bound *domain.ValidationError) (*domain.Category, error) {
	r.Name = domain.CleanText(r.Name)
	if verr := validateStruct(r, messages{"name.required": "O campo NOME é obrigatório!"}, bound); !verr.Empty() {
		return nil, verr
	}
	category := &domain.Category{Name: r.Name}
	if r.Color != nil && strings.TrimSpace(*r.Color) != "" {
		color := strings.TrimSpace(*r.Color)
		category.Color = &color
	}
	return category, nil
}
