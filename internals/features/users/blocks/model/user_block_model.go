package model

import (
	"time"

	"github.com/google/uuid"
)

// UserBlockModel: blocker memblokir blocked. Satu arah per baris;
// sisi blockedBy cukup di-query dari kolom kedua.
type UserBlockModel struct {
	BlockUserID        uuid.UUID `gorm:"type:uuid;not null;primaryKey" json:"block_user_id"`
	BlockBlockedUserID uuid.UUID `gorm:"type:uuid;not null;primaryKey" json:"block_blocked_user_id"`
	BlockCreatedAt     time.Time `gorm:"autoCreateTime" json:"block_created_at"`
}

func (UserBlockModel) TableName() string {
	return "user_blocks"
}
