package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/dto"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/server/httpx"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/server/middleware"
)

// Handler exposes the auth endpoints.
type Handler struct {
	service service.Service
}

// New creates the auth handler.
func New(service service.Service) *Handler {
	return &Handler{service: service}
}

// Register godoc
// @Summary      Register with email and password (deprecated)
// @Description  Creates a user with a password hash. Disabled unless legacy auth is configured.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "Registration payload"
// @Success      201 {object} dto.MeResponse
// @Failure      400 {object} httpx.ErrorBody
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation(err.Error()))
		return
	}
	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, dto.MeResponse{
		PublicID: user.PublicID.String(),
		Email:    user.Email,
		FullName: user.FullName,
		Role:     string(user.Role),
	})
}

// Login godoc
// @Summary      Login with email and password (deprecated)
// @Description  Issues a legacy HS256 token. Disabled unless legacy auth is configured.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "Credentials"
// @Success      200 {object} dto.TokenResponse
// @Failure      401 {object} httpx.ErrorBody
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, apperr.Validation(err.Error()))
		return
	}
	token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, token)
}

// Me godoc
// @Summary      Echo the authenticated principal
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.MeResponse
// @Failure      401 {object} httpx.ErrorBody
// @Router       /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	me, err := h.service.Me(c.Request.Context(), middleware.PrincipalID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, me)
}
