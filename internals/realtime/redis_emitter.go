package realtime

import (
	"context"
	"log"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisEmitter publish event ke Redis pub/sub; socket gateway yang
// subscribe channel-nya akan meneruskan ke koneksi websocket user.
type RedisEmitter struct {
	rdb *redis.Client
}

func NewRedisEmitter(redisURL string) (*RedisEmitter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisEmitter{rdb: redis.NewClient(opt)}, nil
}

type envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

func (e *RedisEmitter) publish(ctx context.Context, channel, event string, payload any) error {
	body, err := sonic.Marshal(envelope{Event: event, Payload: payload})
	if err != nil {
		return err
	}
	if err := e.rdb.Publish(ctx, channel, body).Err(); err != nil {
		log.Printf("[ERROR] Gagal publish event %s ke %s: %v", event, channel, err)
		return err
	}
	return nil
}

func (e *RedisEmitter) EmitToUser(ctx context.Context, userID uuid.UUID, event string, payload any) error {
	return e.publish(ctx, "user:"+userID.String(), event, payload)
}

func (e *RedisEmitter) EmitToRoom(ctx context.Context, roomID string, event string, payload any) error {
	return e.publish(ctx, "room:"+roomID, event, payload)
}

func (e *RedisEmitter) Close() error {
	return e.rdb.Close()
}
