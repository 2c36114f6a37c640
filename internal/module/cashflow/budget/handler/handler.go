package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/budget/dto"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/cashflow/budget/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/server/httpx"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/server/middleware"
)

// Handler exposes the budget engine endpoints. Budgets are addressed by
// their public uuid on the wire.
type Handler struct {
	service service.Service
}

// New creates the budget handler.
func New(service service.Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Create a budget
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBudgetRequest true "Budget payload"
// @Success      201 {object} domain.Budget
// @Failure      409 {object} httpx.ErrorBody
// @Router       /budgets [post]
func (h *Handler) Create(c *gin.Context) {
	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation(err.Error()))
		return
	}
	budget, err := h.service.Create(c.Request.Context(), middleware.PrincipalID(c), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, budget)
}

// List godoc
// @Summary      List budgets
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} domain.Budget
// @Router       /budgets [get]
func (h *Handler) List(c *gin.Context) {
	budgets, err := h.service.List(c.Request.Context(), middleware.PrincipalID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, budgets)
}

// ListCurrent godoc
// @Summary      List budgets whose window covers today
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} domain.Budget
// @Router       /budgets/active [get]
// @Router       /budgets/current [get]
func (h *Handler) ListCurrent(c *gin.Context) {
	budgets, err := h.service.ListCurrent(c.Request.Context(), middleware.PrincipalID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, budgets)
}

// ListNearLimit godoc
// @Summary      List budgets near their cap
// @Description  Threshold is a 0..1 fraction, default 0.8.
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        threshold query number false "Consumed/cap fraction"
// @Success      200 {array} domain.Budget
// @Router       /budgets/near-limit [get]
func (h *Handler) ListNearLimit(c *gin.Context) {
	threshold := service.DefaultNearLimitThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httpx.Error(c, apperr.Validationf("invalid threshold %q", raw))
			return
		}
		threshold = parsed
	}
	budgets, err := h.service.ListNearLimit(c.Request.Context(), middleware.PrincipalID(c), threshold)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, budgets)
}

// SyncConsumption godoc
// @Summary      Recompute consumed amounts from the ledger
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} domain.Budget
// @Router       /budgets/sync-consumption [post]
func (h *Handler) SyncConsumption(c *gin.Context) {
	budgets, err := h.service.SyncConsumption(c.Request.Context(), middleware.PrincipalID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, budgets)
}

// Get godoc
// @Summary      Get one budget
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        publicId path string true "Budget public uuid"
// @Success      200 {object} domain.Budget
// @Failure      404 {object} httpx.ErrorBody
// @Router       /budgets/{publicId} [get]
func (h *Handler) Get(c *gin.Context) {
	publicID, err := pathUUID(c, "publicId")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	budget, err := h.service.Get(c.Request.Context(), middleware.PrincipalID(c), publicID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, budget)
}

// Update godoc
// @Summary      Update a budget
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        publicId path string true "Budget public uuid"
// @Param        request body dto.UpdateBudgetRequest true "Budget payload"
// @Success      200 {object} domain.Budget
// @Failure      409 {object} httpx.ErrorBody
// @Router       /budgets/{publicId} [put]
func (h *Handler) Update(c *gin.Context) {
	publicID, err := pathUUID(c, "publicId")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	var req dto.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation(err.Error()))
		return
	}
	budget, err := h.service.Update(c.Request.Context(), middleware.PrincipalID(c), publicID, req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, budget)
}

// Delete godoc
// @Summary      Delete a budget
// @Tags         budgets
// @Security     BearerAuth
// @Param        publicId path string true "Budget public uuid"
// @Success      204
// @Failure      404 {object} httpx.ErrorBody
// @Router       /budgets/{publicId} [delete]
func (h *Handler) Delete(c *gin.Context) {
	publicID, err := pathUUID(c, "publicId")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.PrincipalID(c), publicID); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.NoContent(c)
}

// Deactivate godoc
// @Summary      Deactivate a budget
// @Description  Moves the budget to its terminal INACTIVE state.
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        publicId path string true "Budget public uuid"
// @Success      200 {object} domain.Budget
// @Failure      404 {object} httpx.ErrorBody
// @Router       /budgets/{publicId}/deactivate [put]
func (h *Handler) Deactivate(c *gin.Context) {
	publicID, err := pathUUID(c, "publicId")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	budget, err := h.service.Deactivate(c.Request.Context(), middleware.PrincipalID(c), publicID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, budget)
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validationf("invalid %s %q", name, raw)
	}
	return id, nil
}
