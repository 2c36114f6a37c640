package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/projection/dto"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/projection/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/server/httpx"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/server/middleware"
)

// Handler exposes the recurring template endpoints.
type Handler struct {
	service service.Service
}

// New creates the projection handler.
func New(service service.Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Create a recurring template
// @Tags         projections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateProjectionRequest true "Template payload"
// @Success      201 {object} domain.Projection
// @Failure      400 {object} httpx.ErrorBody
// @Router       /projections [post]
func (h *Handler) Create(c *gin.Context) {
	var req dto.CreateProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation(err.Error()))
		return
	}
	projection, err := h.service.Create(c.Request.Context(), middleware.PrincipalID(c), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, projection)
}

// List godoc
// @Summary      List recurring templates
// @Tags         projections
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} domain.Projection
// @Router       /projections [get]
func (h *Handler) List(c *gin.Context) {
	projections, err := h.service.List(c.Request.Context(), middleware.PrincipalID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, projections)
}

// Get godoc
// @Summary      Get one template
// @Tags         projections
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Projection id"
// @Success      200 {object} domain.Projection
// @Failure      404 {object} httpx.ErrorBody
// @Router       /projections/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	projection, err := h.service.Get(c.Request.Context(), middleware.PrincipalID(c), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, projection)
}

// Update godoc
// @Summary      Update a template
// @Tags         projections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Projection id"
// @Param        request body dto.UpdateProjectionRequest true "Template payload"
// @Success      200 {object} domain.Projection
// @Failure      403 {object} httpx.ErrorBody
// @Router       /projections/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	var req dto.UpdateProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation(err.Error()))
		return
	}
	projection, err := h.service.Update(c.Request.Context(), middleware.PrincipalID(c), id, req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, projection)
}

// Delete godoc
// @Summary      Delete a template
// @Tags         projections
// @Security     BearerAuth
// @Param        id path int true "Projection id"
// @Success      204
// @Failure      404 {object} httpx.ErrorBody
// @Router       /projections/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.PrincipalID(c), id); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.NoContent(c)
}

// Execute godoc
// @Summary      Materialize one ledger entry from a template
// @Tags         projections
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Projection id"
// @Success      201 {object} dto.TransactionResponse
// @Failure      409 {object} httpx.ErrorBody
// @Router       /projections/{id}/execute [post]
func (h *Handler) Execute(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	entry, err := h.service.Execute(c.Request.Context(), middleware.PrincipalID(c), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, entry)
}

func pathID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validationf("invalid %s %q", name, raw)
	}
	return uint(id), nil
}
