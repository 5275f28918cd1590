package ws

import (
	"context"
	"strings"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/realtime"

	"github.com/redis/go-redis/v9"
)

// Subscriber bridges Redis pub/sub into the local hub so that pushes reach
// clients connected to any instance, not just the one that published.
type Subscriber struct {
	client *redis.Client
	hub    *Hub
}

func NewSubscriber(client *redis.Client, hub *Hub) *Subscriber {
	return &Subscriber{client: client, hub: hub}
}

func (s *Subscriber) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Subscriber) run(ctx context.Context) {
	pubsub := s.client.PSubscribe(ctx, "user-*", realtime.GlobalChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			logger.Info("websocket subscriber stopped")
			return
		case msg, ok := <-ch:
			if !ok {
				logger.Warn("redis subscription channel closed")
				return
			}
			s.dispatch(msg.Channel, []byte(msg.Payload))
		}
	}
}

func (s *Subscriber) dispatch(channel string, payload []byte) {
	if channel == realtime.GlobalChannel {
		s.hub.Broadcast(payload)
		return
	}
	userID := strings.TrimPrefix(channel, "user-")
	if userID == channel {
		logger.Debug("ignoring message on unknown channel", "channel", channel)
		return
	}
	s.hub.SendToUser(userID, payload)
}
