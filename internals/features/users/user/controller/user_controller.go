package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"nikahku_backend/internals/features/users/user/dto"
	"nikahku_backend/internals/features/users/user/model"
	"nikahku_backend/internals/features/users/user/service"
	helper "nikahku_backend/internals/helpers"
)

var validate = validator.New()

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// GET /api/users/me
func (ctrl *UserController) GetMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	user, err := service.FindUserByID(c.Context(), ctrl.DB, userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Profil Anda", dto.ToUserResponse(user, dto.ViewerAccess{IsSelf: true}))
}

// PATCH /api/users/me
func (ctrl *UserController) UpdateMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.UpdateMeRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request body tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	user, err := service.UpdateProfile(c.Context(), ctrl.DB, userID, &body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Profil diperbarui", dto.ToUserResponse(user, dto.ViewerAccess{IsSelf: true}))
}

// PATCH /api/users/me/location
func (ctrl *UserController) UpdateLocation(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.UpdateLocationRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request body tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	if err := service.UpdateLocation(c.Context(), ctrl.DB, userID, body.Latitude, body.Longitude); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Lokasi diperbarui", nil)
}

// GET /api/users/:id — profil sesuai akses viewer
func (ctrl *UserController) GetUserByID(c *fiber.Ctx) error {
	viewerID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	targetID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	user, err := service.FindUserByID(c.Context(), ctrl.DB, targetID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	access, err := service.ViewerAccessFor(c.Context(), ctrl.DB, viewerID, targetID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Profil user", dto.ToUserResponse(user, access))
}

// POST /api/users/by-ids — batch profil (layar daftar chat dsb)
func (ctrl *UserController) GetUsersByIDs(c *fiber.Ctx) error {
	viewerID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.UsersByIDsRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request body tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	var users []model.UserModel
	if err := ctrl.DB.WithContext(c.Context()).
		Where("user_id IN ?", body.UserIDs).
		Find(&users).Error; err != nil {
		return helper.FromFiberError(c, err)
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		access, err := service.ViewerAccessFor(c.Context(), ctrl.DB, viewerID, users[i].UserID)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		out = append(out, dto.ToUserResponse(&users[i], access))
	}
	return helper.JsonOK(c, "Daftar user", out)
}

// POST /api/users/unblur-requests/:target_id/approve — jalur lama di
// luar chat, hanya imam
func (ctrl *UserController) ApproveUnblur(c *fiber.Ctx) error {
	approverID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	targetID, err := helper.ParseUUIDParam(c, "target_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := service.ApproveUnblur(c.Context(), ctrl.DB, approverID, targetID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Foto profil di-unblur", nil)
}

// DELETE /api/users/photo-access/:grantee_id
func (ctrl *UserController) RemovePhotoAccess(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	granteeID, err := helper.ParseUUIDParam(c, "grantee_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := service.RemoveGrant(c.Context(), ctrl.DB, ownerID, granteeID, model.GrantKindPhoto); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "Akses foto dicabut", nil)
}

// DELETE /api/users/wali-access/:grantee_id
func (ctrl *UserController) RemoveWaliAccess(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	granteeID, err := helper.ParseUUIDParam(c, "grantee_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := service.RemoveGrant(c.Context(), ctrl.DB, ownerID, granteeID, model.GrantKindWali); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "Akses wali dicabut", nil)
}
