package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"nikahku_backend/internals/features/mosques/imam_requests/dto"
	"nikahku_backend/internals/features/mosques/imam_requests/service"
	helper "nikahku_backend/internals/helpers"
	"nikahku_backend/internals/realtime"
)

var validate = validator.New()

type ImamMosqueRequestController struct {
	Service *service.ImamMosqueRequestService
}

func NewImamMosqueRequestController(db *gorm.DB, rt realtime.Emitter) *ImamMosqueRequestController {
	return &ImamMosqueRequestController{Service: service.NewImamMosqueRequestService(db, rt)}
}

// POST /api/imam/mosque-requests (batch, partial success)
func (ctrl *ImamMosqueRequestController) CreateRequests(c *fiber.Ctx) error {
	imamID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.CreateImamMosqueRequestsDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request body tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	created, errs, err := ctrl.Service.CreateRequests(c.Context(), imamID, &body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if len(created) == 0 && len(errs) > 0 {
		return helper.JsonErrorWithDetails(c, fiber.StatusBadRequest,
			"Semua request gagal dibuat", errs)
	}

	return helper.JsonCreated(c, "Request penugasan dibuat", fiber.Map{
		"created": created,
		"errors":  errs,
	})
}

// GET /api/imam/mosque-requests/me
func (ctrl *ImamMosqueRequestController) GetMyRequests(c *fiber.Ctx) error {
	imamID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	out, err := ctrl.Service.ListMyRequests(c.Context(), imamID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Daftar request penugasan Anda", out)
}

// GET /api/superadmin/mosque-requests?status=pending
func (ctrl *ImamMosqueRequestController) GetRequests(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)
	out, total, err := ctrl.Service.ListByStatus(c.Context(), c.Query("status"), paging)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "Daftar request penugasan",
		out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// PATCH /api/superadmin/mosque-requests/:id/approve
func (ctrl *ImamMosqueRequestController) Approve(c *fiber.Ctx) error {
	reviewerID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	requestID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	// Body opsional: catatan persetujuan superadmin
	var body dto.ApproveImamMosqueRequestDTO
	_ = c.BodyParser(&body)
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	req, err := ctrl.Service.Approve(c.Context(), requestID, reviewerID, body.SuperadminResponse)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Request penugasan disetujui", dto.ToImamMosqueRequestResponse(req))
}

// PATCH /api/superadmin/mosque-requests/:id/deny
func (ctrl *ImamMosqueRequestController) Deny(c *fiber.Ctx) error {
	reviewerID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	requestID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	// Body opsional: alasan penolakan
	var body dto.DenyImamMosqueRequestDTO
	_ = c.BodyParser(&body)
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	req, err := ctrl.Service.Deny(c.Context(), requestID, reviewerID, body.DenialReason)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Request penugasan ditolak", dto.ToImamMosqueRequestResponse(req))
}

// PATCH /api/superadmin/mosque-requests/:id (koreksi status bebas)
func (ctrl *ImamMosqueRequestController) UpdateStatus(c *fiber.Ctx) error {
	reviewerID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	requestID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.UpdateImamMosqueRequestDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request body tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	req, err := ctrl.Service.UpdateStatus(c.Context(), requestID, reviewerID, body.Status)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Status request penugasan diperbarui", dto.ToImamMosqueRequestResponse(req))
}
