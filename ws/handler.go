package ws

import (
	"net/http"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/middleware"
	"jobportal_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the dashboard origins once they are finalized.
		return true
	},
}

type Handler struct {
	hub      *Hub
	notifier services.NotificationService
}

func NewHandler(hub *Hub, notifier services.NotificationService) *Handler {
	return &Handler{hub: hub, notifier: notifier}
}

// ServeWS upgrades an authenticated request to a websocket connection. The
// user identity comes from the auth middleware, never from the client.
func (h *Handler) ServeWS(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "user_id", userID, "error", err.Error())
		return
	}

	client := &Client{
		UserID:   userID,
		conn:     conn,
		send:     make(chan []byte, 256),
		hub:      h.hub,
		notifier: h.notifier,
	}

	h.hub.register <- client

	go client.readPump()
	go client.writePump()
}
