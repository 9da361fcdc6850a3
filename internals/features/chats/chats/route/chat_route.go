package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"nikahku_backend/internals/features/chats/chats/controller"
	"nikahku_backend/internals/realtime"
)

func ChatRoutes(api fiber.Router, db *gorm.DB, rt realtime.Emitter) {
	ctrl := controller.NewChatController(db, rt)

	chats := api.Group("/chats")
	chats.Post("/messages", ctrl.SendMessage)
	chats.Post("/access-requests", ctrl.RequestAccess)
	chats.Post("/access-responses", ctrl.RespondToAccess)
	chats.Get("/unread-count", ctrl.GetUnreadCount)
	chats.Get("/:id/messages", ctrl.GetHistory)
	chats.Patch("/:id/read", ctrl.MarkRead)
}
