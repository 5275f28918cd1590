package ws

import (
	"encoding/json"
	"time"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/services"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

type incomingMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type Client struct {
	UserID string
	conn   *websocket.Conn
	send   chan []byte

	hub      *Hub
	notifier services.NotificationService
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msgBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket read error", "user_id", c.UserID, "error", err.Error())
			}
			break
		}

		var msg incomingMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			logger.Debug("malformed websocket message", "user_id", c.UserID)
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes client-initiated actions. Read receipts arrive over
// the socket so the badge count updates without a REST round-trip.
func (c *Client) handleMessage(msg incomingMessage) {
	switch msg.Action {
	case "mark_read":
		var payload struct {
			NotificationID string `json:"notification_id"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			logger.Debug("invalid mark_read payload", "user_id", c.UserID)
			return
		}
		if err := c.notifier.MarkAsRead(c.UserID, payload.NotificationID); err != nil {
			logger.Debug("mark_read failed", "user_id", c.UserID, "error", err.Error())
		}

	case "mark_all_read":
		if _, err := c.notifier.MarkAllAsRead(c.UserID); err != nil {
			logger.Debug("mark_all_read failed", "user_id", c.UserID, "error", err.Error())
		}

	default:
		logger.Debug("unhandled websocket action", "action", msg.Action)
	}
}
