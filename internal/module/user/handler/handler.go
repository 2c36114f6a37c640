package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/dto"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/server/httpx"
)

// Handler exposes the admin user endpoints.
type Handler struct {
	service service.Service
}

// New creates the user admin handler.
func New(service service.Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Create a user (admin)
// @Description  Child accounts must reference an existing guardian with role USER.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateUserRequest true "User payload"
// @Success      201 {object} domain.User
// @Failure      400 {object} httpx.ErrorBody
// @Router       /admin/users [post]
func (h *Handler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation(err.Error()))
		return
	}
	user, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, user)
}

// List godoc
// @Summary      List users (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} domain.User
// @Failure      403 {object} httpx.ErrorBody
// @Router       /admin/users [get]
func (h *Handler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, users)
}

// Deactivate godoc
// @Summary      Deactivate a user (admin)
// @Description  Users are never hard deleted, only deactivated.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        publicId path string true "User public uuid"
// @Success      200 {object} domain.User
// @Failure      404 {object} httpx.ErrorBody
// @Router       /admin/users/{publicId}/deactivate [put]
func (h *Handler) Deactivate(c *gin.Context) {
	raw := c.Param("publicId")
	publicID, err := uuid.Parse(raw)
	if err != nil {
		httpx.Error(c, apperr.Validationf("invalid publicId %q", raw))
		return
	}
	user, err := h.service.Deactivate(c.Request.Context(), publicID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, user)
}
