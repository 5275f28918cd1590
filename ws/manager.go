package ws

import (
	"sync"

	"jobportal_backend/internal/logger"
)

// Hub tracks live websocket connections keyed by user ID. A user may hold
// several connections (multiple tabs); every one of them gets the push.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]struct{})
			}
			h.clients[client.UserID][client] = struct{}{}
			h.mu.Unlock()
			logger.Debug("websocket client registered", "user_id", client.UserID)

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.UserID]; ok {
				if _, ok := conns[client]; ok {
					close(client.send)
					delete(conns, client)
					if len(conns) == 0 {
						delete(h.clients, client.UserID)
					}
				}
			}
			h.mu.Unlock()
			logger.Debug("websocket client unregistered", "user_id", client.UserID)
		}
	}
}

// SendToUser delivers a payload to every open connection of one user.
// Connections with a full send buffer are dropped rather than blocked on.
func (h *Hub) SendToUser(userID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

// Broadcast delivers a payload to every connected user.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for userID, conns := range h.clients {
		for client := range conns {
			select {
			case client.send <- payload:
			default:
				logger.Debug("dropping slow websocket client", "user_id", userID)
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, conns := range h.clients {
		count += len(conns)
	}
	return count
}

func (h *Hub) IsConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}
