package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	superadminRoute "nikahku_backend/internals/features/admin/superadmin/route"
	chatRoute "nikahku_backend/internals/features/chats/chats/route"
	attachmentRoute "nikahku_backend/internals/features/mosques/attachments/route"
	imamRequestRoute "nikahku_backend/internals/features/mosques/imam_requests/route"
	mosqueRoute "nikahku_backend/internals/features/mosques/mosques/route"
	notificationRoute "nikahku_backend/internals/features/notifications/route"
	blockRoute "nikahku_backend/internals/features/users/blocks/route"
	userRoute "nikahku_backend/internals/features/users/user/route"
	"nikahku_backend/internals/middlewares/auth"
	"nikahku_backend/internals/realtime"
)

// SetupRoutes memasang seluruh route aplikasi. Semua endpoint /api
// butuh JWT; pembatasan role per fitur ada di route file masing-masing.
func SetupRoutes(app *fiber.App, db *gorm.DB, rt realtime.Emitter) {
	api := app.Group("/api", auth.AuthMiddleware(db))

	userRoute.UserRoutes(api, db)
	blockRoute.BlockRoutes(api, db)
	mosqueRoute.MosqueRoutes(api, db)
	attachmentRoute.MosqueAttachmentRoutes(api, db, rt)
	imamRequestRoute.ImamMosqueRequestRoutes(api, db, rt)
	superadminRoute.SuperadminRoutes(api, db, rt)
	chatRoute.ChatRoutes(api, db, rt)
	notificationRoute.NotificationRoutes(api, db)
}
