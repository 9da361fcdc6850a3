package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"nikahku_backend/internals/features/users/blocks/model"
	userService "nikahku_backend/internals/features/users/user/service"
	helper "nikahku_backend/internals/helpers"
)

type BlockController struct {
	DB *gorm.DB
}

func NewBlockController(db *gorm.DB) *BlockController {
	return &BlockController{DB: db}
}

// POST /api/blocks/:id — blokir user
func (ctrl *BlockController) BlockUser(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	targetID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if userID == targetID {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak bisa memblokir diri sendiri")
	}

	if _, err := userService.FindUserByID(c.Context(), ctrl.DB, targetID); err != nil {
		return helper.FromFiberError(c, err)
	}

	block := model.UserBlockModel{
		BlockUserID:        userID,
		BlockBlockedUserID: targetID,
	}
	if err := ctrl.DB.WithContext(c.Context()).Create(&block).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return helper.JsonError(c, fiber.StatusConflict, "User ini sudah Anda blokir")
		}
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "User diblokir", block)
}

// DELETE /api/blocks/:id — buka blokir
func (ctrl *BlockController) UnblockUser(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	targetID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res := ctrl.DB.WithContext(c.Context()).
		Where("block_user_id = ? AND block_blocked_user_id = ?", userID, targetID).
		Delete(&model.UserBlockModel{})
	if res.Error != nil {
		return helper.FromFiberError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "User ini tidak Anda blokir")
	}
	return helper.JsonDeleted(c, "Blokir dibuka", nil)
}

// GET /api/blocks — dua arah: yang saya blokir + yang memblokir saya
func (ctrl *BlockController) GetBlocks(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var blocked []model.UserBlockModel
	if err := ctrl.DB.WithContext(c.Context()).
		Where("block_user_id = ?", userID).
		Find(&blocked).Error; err != nil {
		return helper.FromFiberError(c, err)
	}

	var blockedBy []model.UserBlockModel
	if err := ctrl.DB.WithContext(c.Context()).
		Where("block_blocked_user_id = ?", userID).
		Find(&blockedBy).Error; err != nil {
		return helper.FromFiberError(c, err)
	}

	blockedIDs := make([]string, 0, len(blocked))
	for _, b := range blocked {
		blockedIDs = append(blockedIDs, b.BlockBlockedUserID.String())
	}
	blockedByIDs := make([]string, 0, len(blockedBy))
	for _, b := range blockedBy {
		blockedByIDs = append(blockedByIDs, b.BlockUserID.String())
	}

	return helper.JsonOK(c, "Daftar blokir", fiber.Map{
		"blocked":    blockedIDs,
		"blocked_by": blockedByIDs,
	})
}
