package realtime

import (
	"context"

	"github.com/google/uuid"
)

// NoopEmitter dipakai saat REDIS_URL tidak diset (mis. lokal tanpa redis).
type NoopEmitter struct{}

func (NoopEmitter) EmitToUser(ctx context.Context, userID uuid.UUID, event string, payload any) error {
	return nil
}

func (NoopEmitter) EmitToRoom(ctx context.Context, roomID string, event string, payload any) error {
	return nil
}
