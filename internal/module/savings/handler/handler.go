package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/savings/dto"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/savings/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/server/httpx"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/server/middleware"
)

// Handler exposes the savings endpoints: goals, installment plans and
// contributions.
type Handler struct {
	service service.Service
}

// New creates the savings handler.
func New(service service.Service) *Handler {
	return &Handler{service: service}
}

// CreateGoal godoc
// @Summary      Create a savings goal
// @Description  Frequency plus deadline also generates the installment plan.
// @Tags         savings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateGoalRequest true "Goal payload"
// @Success      201 {object} domain.SavingsGoal
// @Failure      400 {object} httpx.ErrorBody
// @Router       /savings/goals [post]
func (h *Handler) CreateGoal(c *gin.Context) {
	var req dto.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation(err.Error()))
		return
	}
	goal, err := h.service.CreateGoal(c.Request.Context(), middleware.PrincipalID(c), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, goal)
}

// ListGoals godoc
// @Summary      List savings goals
// @Tags         savings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} domain.SavingsGoal
// @Router       /savings/goals [get]
func (h *Handler) ListGoals(c *gin.Context) {
	goals, err := h.service.ListGoals(c.Request.Context(), middleware.PrincipalID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, goals)
}

// GetGoal godoc
// @Summary      Get one savings goal
// @Tags         savings
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Goal id"
// @Success      200 {object} domain.SavingsGoal
// @Failure      404 {object} httpx.ErrorBody
// @Router       /savings/goals/{id} [get]
func (h *Handler) GetGoal(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	goal, err := h.service.GetGoal(c.Request.Context(), middleware.PrincipalID(c), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, goal)
}

// UpdateGoal godoc
// @Summary      Update a savings goal
// @Tags         savings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Goal id"
// @Param        request body dto.UpdateGoalRequest true "Goal payload"
// @Success      200 {object} domain.SavingsGoal
// @Failure      403 {object} httpx.ErrorBody
// @Router       /savings/goals/{id} [put]
func (h *Handler) UpdateGoal(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	var req dto.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation(err.Error()))
		return
	}
	goal, err := h.service.UpdateGoal(c.Request.Context(), middleware.PrincipalID(c), id, req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, goal)
}

// DeleteGoal godoc
// @Summary      Delete a savings goal and its plan
// @Tags         savings
// @Security     BearerAuth
// @Param        id path int true "Goal id"
// @Success      204
// @Failure      404 {object} httpx.ErrorBody
// @Router       /savings/goals/{id} [delete]
func (h *Handler) DeleteGoal(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	if err := h.service.DeleteGoal(c.Request.Context(), middleware.PrincipalID(c), id); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.NoContent(c)
}

// ListInstallments godoc
// @Summary      List a goal's installment plan
// @Tags         savings
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Goal id"
// @Success      200 {array} domain.Installment
// @Router       /savings/goals/{id}/installments [get]
func (h *Handler) ListInstallments(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	installments, err := h.service.ListInstallments(c.Request.Context(), middleware.PrincipalID(c), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, installments)
}

// ListContributions godoc
// @Summary      List a goal's contributions
// @Tags         savings
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Goal id"
// @Success      200 {array} domain.Contribution
// @Router       /savings/goals/{id}/contributions [get]
func (h *Handler) ListContributions(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	contributions, err := h.service.ListContributions(c.Request.Context(), middleware.PrincipalID(c), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, contributions)
}

// Contribute godoc
// @Summary      Add a contribution to a goal
// @Tags         savings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ContributeRequest true "Contribution payload"
// @Success      201 {object} domain.Contribution
// @Failure      409 {object} httpx.ErrorBody
// @Router       /savings/contributions [post]
func (h *Handler) Contribute(c *gin.Context) {
	var req dto.ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation(err.Error()))
		return
	}
	contribution, err := h.service.Contribute(c.Request.Context(), middleware.PrincipalID(c), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, contribution)
}

// UpdateContribution godoc
// @Summary      Update a contribution
// @Tags         savings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Contribution id"
// @Param        request body dto.UpdateContributionRequest true "Contribution payload"
// @Success      200 {object} domain.Contribution
// @Failure      403 {object} httpx.ErrorBody
// @Router       /savings/contributions/{id} [put]
func (h *Handler) UpdateContribution(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	var req dto.UpdateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation(err.Error()))
		return
	}
	contribution, err := h.service.UpdateContribution(c.Request.Context(), middleware.PrincipalID(c), id, req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, contribution)
}

// DeleteContribution godoc
// @Summary      Delete a contribution
// @Tags         savings
// @Security     BearerAuth
// @Param        id path int true "Contribution id"
// @Success      204
// @Failure      404 {object} httpx.ErrorBody
// @Router       /savings/contributions/{id} [delete]
func (h *Handler) DeleteContribution(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	if err := h.service.DeleteContribution(c.Request.Context(), middleware.PrincipalID(c), id); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.NoContent(c)
}

func pathID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validationf("invalid %s %q", name, raw)
	}
	return uint(id), nil
}
