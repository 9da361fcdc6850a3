package model

import (
	"time"

	"github.com/google/uuid"
)

// Jenis akses yang bisa di-grant antar user
const (
	GrantKindPhoto = "photo"
	GrantKindWali  = "wali"
)

// UserAccessGrantModel: ledger grant per pasangan user.
// Owner = user yang memberi akses, grantee = user yang menerima.
// Append-only; pencabutan hanya lewat revoke eksplisit oleh owner.
type UserAccessGrantModel struct {
	GrantOwnerID   uuid.UUID `gorm:"type:uuid;not null;primaryKey" json:"grant_owner_id"`
	GrantGranteeID uuid.UUID `gorm:"type:uuid;not null;primaryKey" json:"grant_grantee_id"`
	GrantKind      string    `gorm:"type:varchar(10);not null;primaryKey" json:"grant_kind"` // photo|wali
	GrantCreatedAt time.Time `gorm:"autoCreateTime" json:"grant_created_at"`
}

func (UserAccessGrantModel) TableName() string {
	return "user_access_grants"
}
