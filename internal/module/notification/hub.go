// Package notification delivers engine events (budget over cap, goal
// completed) to their owner: persisted for the list endpoint and pushed to
// any connected websocket clients.
package notification

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub tracks connected websocket clients per user and fans events out to
// them. Delivery is best-effort: a failed write closes that client.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*websocket.Conn]struct{}
	logger  *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[uint]map[*websocket.Conn]struct{}),
		logger:  logger,
	}
}

// Register adds a client connection for a user.
func (h *Hub) Register(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*websocket.Conn]struct{})
	}
	h.clients[userID][conn] = struct{}{}
}

// Unregister removes a client connection.
func (h *Hub) Unregister(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
}

// Send pushes a JSON message to every connection of the user. Dead
// connections are dropped.
func (h *Hub) Send(userID uint, message interface{}) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients[userID]))
	for conn := range h.clients[userID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(message); err != nil {
			h.logger.Debug("dropping dead websocket client", zap.Uint("user_id", userID), zap.Error(err))
			conn.Close()
			h.Unregister(userID, conn)
		}
	}
}

// ClientCount reports how many connections a user currently has.
func (h *Hub) ClientCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
