package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"nikahku_backend/internals/constants"
	"nikahku_backend/internals/features/users/user/controller"
	"nikahku_backend/internals/middlewares/auth"
)

func UserRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewUserController(db)

	users := api.Group("/users")
	users.Get("/me", ctrl.GetMe)
	users.Patch("/me", ctrl.UpdateMe)
	users.Patch("/me/location", ctrl.UpdateLocation)
	users.Post("/by-ids", ctrl.GetUsersByIDs)
	users.Post("/unblur-requests/:target_id/approve",
		auth.OnlyRoles(constants.RoleErrorImam("persetujuan unblur foto"), constants.RoleImam),
		ctrl.ApproveUnblur)
	users.Delete("/photo-access/:grantee_id", ctrl.RemovePhotoAccess)
	users.Delete("/wali-access/:grantee_id", ctrl.RemoveWaliAccess)
	users.Get("/:id", ctrl.GetUserByID)
}
