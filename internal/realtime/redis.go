package realtime

import (
	"context"

	"jobportal_backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis. An unreachable broker is logged but not
// fatal: pushes degrade to outbox-only delivery until it comes back.
func NewRedisClient(addr, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", "addr", addr, "error", err)
	} else {
		logger.Info("connected to redis", "addr", addr)
	}

	return client
}

// RedisPublisher publishes events over Redis pub/sub channels.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.client.Publish(ctx, channel, payload).Err()
}
