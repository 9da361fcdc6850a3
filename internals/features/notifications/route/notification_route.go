package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"nikahku_backend/internals/features/notifications/controller"
)

func NotificationRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewNotificationController(db)

	notifs := api.Group("/notifications")
	notifs.Get("/", ctrl.GetNotifications)
	notifs.Get("/unread-count", ctrl.GetUnreadCount)
	notifs.Patch("/read-all", ctrl.MarkAllRead)
	notifs.Patch("/:id/read", ctrl.MarkRead)
	notifs.Delete("/:id", ctrl.DeleteNotification)
}
