package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"nikahku_backend/internals/features/mosques/attachments/dto"
	"nikahku_backend/internals/features/mosques/attachments/service"
	helper "nikahku_backend/internals/helpers"
	"nikahku_backend/internals/realtime"
)

var validate = validator.New()

type MosqueAttachmentController struct {
	Service *service.MosqueAttachmentService
}

func NewMosqueAttachmentController(db *gorm.DB, rt realtime.Emitter) *MosqueAttachmentController {
	return &MosqueAttachmentController{Service: service.NewMosqueAttachmentService(db, rt)}
}

// POST /api/mosque-attachments/toggle
func (ctrl *MosqueAttachmentController) ToggleAttachment(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.AttachmentToggleRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request body tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := ctrl.Service.ToggleAttachment(c.Context(), userID, &body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if result.Action == dto.ToggleActionAttached {
		return helper.JsonCreated(c, "Berhasil terhubung dengan masjid", result)
	}
	return helper.JsonOK(c, "Berhasil memutuskan hubungan dengan masjid", result)
}

// GET /api/mosque-attachments/me
func (ctrl *MosqueAttachmentController) GetMyAttachments(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	out, err := ctrl.Service.ListMyAttachments(c.Context(), userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Daftar masjid Anda", out)
}

// GET /api/mosque-attachments/requests/me
func (ctrl *MosqueAttachmentController) GetMyRequests(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	out, err := ctrl.Service.ListMyRequests(c.Context(), userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Daftar request verifikasi Anda", out)
}

// GET /api/imam/attachment-requests?status=pending
func (ctrl *MosqueAttachmentController) GetRequestsForImam(c *fiber.Ctx) error {
	imamID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)
	out, total, err := ctrl.Service.ListRequestsForImam(c.Context(), imamID, c.Query("status"), paging)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "Daftar request verifikasi",
		out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// PATCH /api/imam/attachment-requests/:id/approve
func (ctrl *MosqueAttachmentController) ApproveRequest(c *fiber.Ctx) error {
	imamID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	requestID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.ApproveRequestDTO
	if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request body tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	req, err := ctrl.Service.ApproveRequest(c.Context(), requestID, imamID, body.ImamResponse)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Request verifikasi disetujui", dto.ToAttachmentRequestResponse(req))
}

// PATCH /api/imam/attachment-requests/:id/deny
func (ctrl *MosqueAttachmentController) DenyRequest(c *fiber.Ctx) error {
	imamID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	requestID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.DenyRequestDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request body tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	req, err := ctrl.Service.DenyRequest(c.Context(), requestID, imamID, body.DenialReason)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Request verifikasi ditolak", dto.ToAttachmentRequestResponse(req))
}

// PATCH /api/imam/attachment-requests/:id/response
func (ctrl *MosqueAttachmentController) UpdateResponse(c *fiber.Ctx) error {
	imamID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	requestID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.UpdateResponseDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request body tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	req, err := ctrl.Service.UpdateResponse(c.Context(), requestID, imamID, body.ImamResponse)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Catatan approval diperbarui", dto.ToAttachmentRequestResponse(req))
}

// PATCH /api/imam/attachment-requests/:id/denial-reason
func (ctrl *MosqueAttachmentController) UpdateDenialReason(c *fiber.Ctx) error {
	imamID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	requestID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.UpdateDenialReasonDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request body tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	req, err := ctrl.Service.UpdateDenialReason(c.Context(), requestID, imamID, body.DenialReason)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Alasan penolakan diperbarui", dto.ToAttachmentRequestResponse(req))
}

// PATCH /api/imam/attachment-requests/:id/reset
func (ctrl *MosqueAttachmentController) ResetToPending(c *fiber.Ctx) error {
	imamID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	requestID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	req, err := ctrl.Service.ResetToPending(c.Context(), requestID, imamID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Request dikembalikan ke pending", dto.ToAttachmentRequestResponse(req))
}
