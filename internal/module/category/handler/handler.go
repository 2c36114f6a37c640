package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/server/httpx"
)

// Handler exposes the read-only category registry.
type Handler struct {
	service service.Service
}

// New creates the category handler.
func New(service service.Service) *Handler {
	return &Handler{service: service}
}

// List godoc
// @Summary      List predefined categories
// @Description  Optionally filtered by type via ?type=INCOME|EXPENSE.
// @Tags         categories
// @Produce      json
// @Param        type query string false "Category type filter"
// @Success      200 {array} domain.Category
// @Failure      400 {object} httpx.ErrorBody
// @Router       /categories [get]
func (h *Handler) List(c *gin.Context) {
	if rawType := c.Query("type"); rawType != "" {
		categories, err := h.service.ListByType(c.Request.Context(), rawType)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		httpx.OK(c, categories)
		return
	}

	categories, err := h.service.ListPredefined(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, categories)
}

// ListByType godoc
// @Summary      List categories of one type
// @Tags         categories
// @Produce      json
// @Param        type path string true "INCOME or EXPENSE"
// @Success      200 {array} domain.Category
// @Failure      400 {object} httpx.ErrorBody
// @Router       /categories/type/{type} [get]
func (h *Handler) ListByType(c *gin.Context) {
	categories, err := h.service.ListByType(c.Request.Context(), c.Param("type"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, categories)
}

// Get godoc
// @Summary      Get one category
// @Tags         categories
// @Produce      json
// @Param        id path int true "Category id"
// @Success      200 {object} domain.Category
// @Failure      404 {object} httpx.ErrorBody
// @Router       /categories/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	category, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, category)
}

func pathID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validationf("invalid %s %q", name, raw)
	}
	return uint(id), nil
}
