package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"nikahku_backend/internals/features/users/blocks/controller"
)

func BlockRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewBlockController(db)

	blocks := api.Group("/blocks")
	blocks.Get("/", ctrl.GetBlocks)
	blocks.Post("/:id", ctrl.BlockUser)
	blocks.Delete("/:id", ctrl.UnblockUser)
}
