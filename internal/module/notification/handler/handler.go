package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/notification/service"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/server/httpx"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/server/middleware"
)

// Handler exposes notification listing and the websocket push channel.
type Handler struct {
	service  service.Service
	hub      *notification.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// New creates the notification handler.
func New(service service.Service, hub *notification.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Token auth already gates this route; browser origin checks
			// add nothing for a native/mobile client mix.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// List godoc
// @Summary      List recent notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} domain.Notification
// @Router       /notifications [get]
func (h *Handler) List(c *gin.Context) {
	notifications, err := h.service.List(c.Request.Context(), middleware.PrincipalID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, notifications)
}

// MarkRead godoc
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Notification id"
// @Success      200 {object} domain.Notification
// @Failure      404 {object} httpx.ErrorBody
// @Router       /notifications/{id}/read [put]
func (h *Handler) MarkRead(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		httpx.Error(c, apperr.Validationf("invalid id %q", raw))
		return
	}
	n, err := h.service.MarkRead(c.Request.Context(), middleware.PrincipalID(c), uint(id))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, n)
}

// Subscribe godoc
// @Summary      Subscribe to live notifications over websocket
// @Tags         notifications
// @Security     BearerAuth
// @Success      101
// @Router       /ws/notifications [get]
func (h *Handler) Subscribe(c *gin.Context) {
	userID := middleware.PrincipalID(c)
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Uint("user_id", userID), zap.Error(err))
		return
	}

	h.hub.Register(userID, conn)
	defer func() {
		h.hub.Unregister(userID, conn)
		conn.Close()
	}()

	// The channel is push-only; reads just detect the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
