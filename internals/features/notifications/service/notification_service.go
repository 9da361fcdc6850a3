package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"nikahku_backend/internals/features/notifications/model"
)

// Create menyimpan notifikasi baru. Pemanggil memperlakukan error
// sebagai non-fatal (cukup di-log), notifikasi tidak boleh menggagalkan
// operasi utamanya.
func Create(ctx context.Context, db *gorm.DB, userID uuid.UUID, ntype string, fromUserID *uuid.UUID, content string) (*model.NotificationModel, error) {
	notif := model.NotificationModel{
		NotificationUserID:     userID,
		NotificationType:       ntype,
		NotificationFromUserID: fromUserID,
		NotificationContent:    content,
	}
	if err := db.WithContext(ctx).Create(&notif).Error; err != nil {
		return nil, err
	}
	return &notif, nil
}
