package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"nikahku_backend/internals/constants"
	"nikahku_backend/internals/features/admin/superadmin/controller"
	"nikahku_backend/internals/middlewares/auth"
	"nikahku_backend/internals/realtime"
)

func SuperadminRoutes(api fiber.Router, db *gorm.DB, rt realtime.Emitter) {
	ctrl := controller.NewSuperadminController(db, rt)

	admin := api.Group("/superadmin/imams",
		auth.OnlyRoles(constants.RoleErrorSuperadmin("manajemen imam"), constants.RoleSuperadmin),
	)
	admin.Get("/", ctrl.GetImams)
	admin.Patch("/:id/approve", ctrl.ApproveImam)
	admin.Patch("/:id/deny", ctrl.DenyImam)
	admin.Patch("/:id/status", ctrl.UpdateImamStatus)
	admin.Delete("/:id/mosques/:mosque_id", ctrl.RemoveImamFromMosque)
}
