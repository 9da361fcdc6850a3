package model

import (
	"time"

	"github.com/google/uuid"
)

// UserMosqueAttachmentModel: keanggotaan user di sebuah masjid.
// attachment_is_verified = true hanya bila request verifikasi untuk
// pasangan ini sudah di-approve imam.
type UserMosqueAttachmentModel struct {
	AttachmentUserID     uuid.UUID `gorm:"type:uuid;not null;primaryKey" json:"attachment_user_id"`
	AttachmentMosqueID   uuid.UUID `gorm:"type:uuid;not null;primaryKey" json:"attachment_mosque_id"`
	AttachmentIsVerified bool      `gorm:"default:false" json:"attachment_is_verified"`
	AttachmentCreatedAt  time.Time `gorm:"autoCreateTime" json:"attachment_created_at"`
}

func (UserMosqueAttachmentModel) TableName() string {
	return "user_mosque_attachments"
}
