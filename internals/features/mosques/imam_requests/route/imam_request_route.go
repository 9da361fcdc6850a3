package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"nikahku_backend/internals/constants"
	"nikahku_backend/internals/features/mosques/imam_requests/controller"
	"nikahku_backend/internals/middlewares/auth"
	"nikahku_backend/internals/realtime"
)

// ImamMosqueRequestRoutes: sisi imam (membuat & melihat request) dan
// sisi superadmin (memutuskan).
func ImamMosqueRequestRoutes(api fiber.Router, db *gorm.DB, rt realtime.Emitter) {
	ctrl := controller.NewImamMosqueRequestController(db, rt)

	imam := api.Group("/imam/mosque-requests",
		auth.OnlyRoles(constants.RoleErrorImam("penugasan masjid"), constants.RoleImam),
	)
	imam.Post("/", ctrl.CreateRequests)
	imam.Get("/me", ctrl.GetMyRequests)

	admin := api.Group("/superadmin/mosque-requests",
		auth.OnlyRoles(constants.RoleErrorSuperadmin("penugasan masjid"), constants.RoleSuperadmin),
	)
	admin.Get("/", ctrl.GetRequests)
	admin.Patch("/:id/approve", ctrl.Approve)
	admin.Patch("/:id/deny", ctrl.Deny)
	admin.Patch("/:id", ctrl.UpdateStatus)
}
