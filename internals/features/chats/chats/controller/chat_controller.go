package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"nikahku_backend/internals/features/chats/chats/dto"
	"nikahku_backend/internals/features/chats/chats/service"
	helper "nikahku_backend/internals/helpers"
	"nikahku_backend/internals/realtime"
)

var validate = validator.New()

type ChatController struct {
	Service *service.ChatService
}

func NewChatController(db *gorm.DB, rt realtime.Emitter) *ChatController {
	return &ChatController{Service: service.NewChatService(db, rt)}
}

// POST /api/chats/messages
func (ctrl *ChatController) SendMessage(c *fiber.Ctx) error {
	senderID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.SendMessageRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request body tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	msg, err := ctrl.Service.SendMessage(c.Context(), senderID, &body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Pesan terkirim", dto.ToChatMessageResponse(msg))
}

// POST /api/chats/access-requests
func (ctrl *ChatController) RequestAccess(c *fiber.Ctx) error {
	requesterID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.AccessRequestDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request body tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	msg, err := ctrl.Service.RequestAccess(c.Context(), requesterID, &body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Permintaan akses dikirim", dto.ToChatMessageResponse(msg))
}

// POST /api/chats/access-responses
func (ctrl *ChatController) RespondToAccess(c *fiber.Ctx) error {
	responderID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.AccessResponseDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request body tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	msg, err := ctrl.Service.RespondToAccess(c.Context(), responderID, &body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Jawaban terkirim", dto.ToChatMessageResponse(msg))
}

// GET /api/chats/:id/messages — riwayat dengan lawan chat :id
func (ctrl *ChatController) GetHistory(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	otherID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	paging := helper.ResolvePaging(c, 50, 200)
	out, total, err := ctrl.Service.GetHistory(c.Context(), userID, otherID, paging)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "Riwayat chat",
		out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// PATCH /api/chats/:id/read — tandai pesan dari :id sebagai terbaca
func (ctrl *ChatController) MarkRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	otherID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	updated, err := ctrl.Service.MarkRead(c.Context(), userID, otherID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Pesan ditandai terbaca", fiber.Map{"updated": updated})
}

// GET /api/chats/unread-count
func (ctrl *ChatController) GetUnreadCount(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	count, err := ctrl.Service.UnreadCount(c.Context(), userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Jumlah pesan belum dibaca", fiber.Map{"unread": count})
}
