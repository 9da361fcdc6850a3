package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationTypeAttachmentApproved = "verification_approved"
	NotificationTypeAttachmentDenied   = "verification_denied"
	NotificationTypeImamApproved       = "imam_approved"
	NotificationTypeImamDenied         = "imam_denied"
	NotificationTypeImamRequestUpdate  = "imam_request_update"
	NotificationTypePhotoAccess        = "photo_access"
	NotificationTypeWaliAccess         = "wali_access"
	NotificationTypeNewMessage         = "new_message"
)

type NotificationModel struct {
	NotificationID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"notification_id"`
	NotificationUserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"notification_user_id"`
	NotificationType       string     `gorm:"type:varchar(30);not null" json:"notification_type"`
	NotificationFromUserID *uuid.UUID `gorm:"type:uuid" json:"notification_from_user_id,omitempty"`
	NotificationContent    string     `gorm:"type:text;not null" json:"notification_content"`
	NotificationIsRead     bool       `gorm:"default:false" json:"notification_is_read"`
	NotificationCreatedAt  time.Time  `gorm:"autoCreateTime" json:"notification_created_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func (m *NotificationModel) BeforeCreate(tx *gorm.DB) error {
	if m.NotificationID == uuid.Nil {
		m.NotificationID = uuid.New()
	}
	return nil
}
