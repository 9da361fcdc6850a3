package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"nikahku_backend/internals/constants"
	"nikahku_backend/internals/features/mosques/mosques/controller"
	"nikahku_backend/internals/middlewares/auth"
)

func MosqueRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewMosqueController(db)

	mosques := api.Group("/mosques")
	mosques.Get("/", ctrl.GetMosques)
	mosques.Get("/:ref", ctrl.GetMosque)
	mosques.Get("/:ref/imams", ctrl.GetMosqueImams)

	admin := api.Group("/superadmin/mosques",
		auth.OnlyRoles(constants.RoleErrorSuperadmin("manajemen masjid"), constants.RoleSuperadmin),
	)
	admin.Post("/", ctrl.CreateMosque)
	admin.Delete("/:id", ctrl.DeleteMosque)
}
