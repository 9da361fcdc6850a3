package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"nikahku_backend/internals/features/admin/superadmin/dto"
	"nikahku_backend/internals/features/admin/superadmin/service"
	helper "nikahku_backend/internals/helpers"
	"nikahku_backend/internals/realtime"
)

var validate = validator.New()

type SuperadminController struct {
	Service *service.ImamApprovalService
}

func NewSuperadminController(db *gorm.DB, rt realtime.Emitter) *SuperadminController {
	return &SuperadminController{Service: service.NewImamApprovalService(db, rt)}
}

// GET /api/superadmin/imams?status=pending
func (ctrl *SuperadminController) GetImams(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)
	out, total, err := ctrl.Service.ListImams(c.Context(), c.Query("status"), paging)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "Daftar akun imam",
		out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// PATCH /api/superadmin/imams/:id/approve
func (ctrl *SuperadminController) ApproveImam(c *fiber.Ctx) error {
	reviewerID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	imamID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	result, err := ctrl.Service.ApproveImam(c.Context(), imamID, reviewerID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Akun imam disetujui", result)
}

// PATCH /api/superadmin/imams/:id/deny
func (ctrl *SuperadminController) DenyImam(c *fiber.Ctx) error {
	reviewerID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	imamID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.DenyImamDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request body tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := ctrl.Service.DenyImam(c.Context(), imamID, reviewerID, body.DeniedReason)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Akun imam ditolak", result)
}

// PATCH /api/superadmin/imams/:id/status
func (ctrl *SuperadminController) UpdateImamStatus(c *fiber.Ctx) error {
	reviewerID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	imamID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.UpdateImamStatusDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request body tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := ctrl.Service.UpdateImamStatus(c.Context(), imamID, reviewerID, &body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Status akun imam diperbarui", result)
}

// DELETE /api/superadmin/imams/:id/mosques/:mosque_id
func (ctrl *SuperadminController) RemoveImamFromMosque(c *fiber.Ctx) error {
	imamID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	mosqueID, err := helper.ParseUUIDParam(c, "mosque_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := ctrl.Service.RemoveImamFromMosque(c.Context(), imamID, mosqueID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "Imam dicabut dari masjid", nil)
}
