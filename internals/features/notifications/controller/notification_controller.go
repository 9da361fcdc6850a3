package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"nikahku_backend/internals/features/notifications/model"
	helper "nikahku_backend/internals/helpers"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GET /api/notifications
func (ctrl *NotificationController) GetNotifications(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.WithContext(c.Context()).
		Model(&model.NotificationModel{}).
		Where("notification_user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromFiberError(c, err)
	}

	var rows []model.NotificationModel
	if err := q.
		Order("notification_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.JsonList(c, "Daftar notifikasi",
		rows, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GET /api/notifications/unread-count
func (ctrl *NotificationController) GetUnreadCount(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var count int64
	if err := ctrl.DB.WithContext(c.Context()).
		Model(&model.NotificationModel{}).
		Where("notification_user_id = ? AND notification_is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Jumlah notifikasi belum dibaca", fiber.Map{"unread": count})
}

// PATCH /api/notifications/:id/read
func (ctrl *NotificationController) MarkRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	notifID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res := ctrl.DB.WithContext(c.Context()).
		Model(&model.NotificationModel{}).
		Where("notification_id = ? AND notification_user_id = ?", notifID, userID).
		Update("notification_is_read", true)
	if res.Error != nil {
		return helper.FromFiberError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Notifikasi tidak ditemukan")
	}
	return helper.JsonUpdated(c, "Notifikasi ditandai terbaca", nil)
}

// PATCH /api/notifications/read-all
func (ctrl *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res := ctrl.DB.WithContext(c.Context()).
		Model(&model.NotificationModel{}).
		Where("notification_user_id = ? AND notification_is_read = ?", userID, false).
		Update("notification_is_read", true)
	if res.Error != nil {
		return helper.FromFiberError(c, res.Error)
	}
	return helper.JsonUpdated(c, "Semua notifikasi ditandai terbaca", fiber.Map{"updated": res.RowsAffected})
}

// DELETE /api/notifications/:id — hanya milik sendiri
func (ctrl *NotificationController) DeleteNotification(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	notifID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res := ctrl.DB.WithContext(c.Context()).
		Where("notification_id = ? AND notification_user_id = ?", notifID, userID).
		Delete(&model.NotificationModel{})
	if res.Error != nil {
		return helper.FromFiberError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Notifikasi tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Notifikasi dihapus", nil)
}
