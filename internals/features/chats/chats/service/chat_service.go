package service

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"nikahku_backend/internals/features/chats/chats/dto"
	"nikahku_backend/internals/features/chats/chats/model"
	notifModel "nikahku_backend/internals/features/notifications/model"
	notifService "nikahku_backend/internals/features/notifications/service"
	blockModel "nikahku_backend/internals/features/users/blocks/model"
	userModel "nikahku_backend/internals/features/users/user/model"
	userService "nikahku_backend/internals/features/users/user/service"
	helper "nikahku_backend/internals/helpers"
	"nikahku_backend/internals/realtime"
)

type ChatService struct {
	DB *gorm.DB
	RT realtime.Emitter
}

func NewChatService(db *gorm.DB, rt realtime.Emitter) *ChatService {
	return &ChatService{DB: db, RT: rt}
}

// ensureCanChat: kedua arah block diperiksa, siapapun yang memblokir
// memutus jalur chat dan seluruh protokol akses di atasnya.
func (s *ChatService) ensureCanChat(ctx context.Context, a, b uuid.UUID) error {
	if a == b {
		return fiber.NewError(fiber.StatusBadRequest, "Tidak bisa chat dengan diri sendiri")
	}
	var count int64
	err := s.DB.WithContext(ctx).
		Model(&blockModel.UserBlockModel{}).
		Where("(block_user_id = ? AND block_blocked_user_id = ?) OR (block_user_id = ? AND block_blocked_user_id = ?)",
			a, b, b, a).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusForbidden, "Chat tidak tersedia untuk user ini")
	}
	return nil
}

// SendMessage: pesan teks biasa.
func (s *ChatService) SendMessage(ctx context.Context, senderID uuid.UUID, in *dto.SendMessageRequest) (*model.ChatMessageModel, error) {
	if err := s.ensureCanChat(ctx, senderID, in.ReceiverID); err != nil {
		return nil, err
	}
	if _, err := userService.FindUserByID(ctx, s.DB, in.ReceiverID); err != nil {
		return nil, err
	}

	msg := model.ChatMessageModel{
		ChatMessageSenderID:   senderID,
		ChatMessageReceiverID: in.ReceiverID,
		ChatMessageText:       in.Text,
		ChatMessageType:       model.MessageTypeText,
	}
	if err := s.DB.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}

	s.emitMessage(ctx, &msg)
	return &msg, nil
}

// RequestAccess mengirim permintaan akses foto/wali sebagai pesan chat.
// Kalau grant-nya sudah ada, tidak ada yang perlu diminta -> 409.
func (s *ChatService) RequestAccess(ctx context.Context, requesterID uuid.UUID, in *dto.AccessRequestDTO) (*model.ChatMessageModel, error) {
	if in.Kind != userModel.GrantKindPhoto && in.Kind != userModel.GrantKindWali {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Jenis akses tidak valid")
	}
	if err := s.ensureCanChat(ctx, requesterID, in.OwnerID); err != nil {
		return nil, err
	}

	owner, err := userService.FindUserByID(ctx, s.DB, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if in.Kind == userModel.GrantKindWali && owner.UserWaliName == nil && owner.UserWaliContact == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "User ini belum mengisi data wali")
	}

	has, err := userService.HasGrant(ctx, s.DB, in.OwnerID, requesterID, in.Kind)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, fiber.NewError(fiber.StatusConflict, "Anda sudah punya akses ini")
	}

	text := in.Message
	if text == "" {
		if in.Kind == userModel.GrantKindWali {
			text = "Meminta akses kontak wali"
		} else {
			text = "Meminta akses foto profil"
		}
	}

	msg := model.ChatMessageModel{
		ChatMessageSenderID:   requesterID,
		ChatMessageReceiverID: in.OwnerID,
		ChatMessageText:       text,
		ChatMessageType:       model.RequestMessageType(in.Kind),
		ChatMessageMetadata: datatypes.JSONMap{
			"kind": in.Kind,
		},
	}
	if err := s.DB.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}

	s.emitMessage(ctx, &msg)
	s.notify(ctx, in.OwnerID, requesterID, accessNotifType(in.Kind),
		"🔔 Ada permintaan akses baru di chat Anda")
	return &msg, nil
}

// RespondToAccess menjawab pesan permintaan akses: accept|deny|later.
// Hanya penerima request (pemilik data) yang boleh menjawab.
// accept mencatat grant secara idempotent; deny dan later tidak
// menyentuh ledger sama sekali.
func (s *ChatService) RespondToAccess(ctx context.Context, responderID uuid.UUID, in *dto.AccessResponseDTO) (*model.ChatMessageModel, error) {
	var reqMsg model.ChatMessageModel
	if err := s.DB.WithContext(ctx).
		First(&reqMsg, "chat_message_id = ?", in.RequestMessageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Pesan permintaan tidak ditemukan")
		}
		return nil, err
	}

	var kind string
	switch reqMsg.ChatMessageType {
	case model.MessageTypePhotoRequest:
		kind = userModel.GrantKindPhoto
	case model.MessageTypeWaliRequest:
		kind = userModel.GrantKindWali
	default:
		return nil, fiber.NewError(fiber.StatusBadRequest, "Pesan ini bukan permintaan akses")
	}

	if reqMsg.ChatMessageReceiverID != responderID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Hanya penerima permintaan yang boleh menjawab")
	}

	requesterID := reqMsg.ChatMessageSenderID

	text := in.Message
	if text == "" {
		switch in.Response {
		case model.AccessResponseAccept:
			text = "Permintaan akses diterima"
		case model.AccessResponseDeny:
			text = "Permintaan akses ditolak"
		default:
			text = "Permintaan akses akan dipertimbangkan nanti"
		}
	}

	respMsg := model.ChatMessageModel{
		ChatMessageSenderID:   responderID,
		ChatMessageReceiverID: requesterID,
		ChatMessageText:       text,
		ChatMessageType:       model.ResponseMessageType(kind),
		ChatMessageMetadata: datatypes.JSONMap{
			"kind":               kind,
			"response":           in.Response,
			"request_message_id": reqMsg.ChatMessageID.String(),
		},
	}
	if err := s.DB.WithContext(ctx).Create(&respMsg).Error; err != nil {
		return nil, err
	}

	if in.Response == model.AccessResponseAccept {
		if err := userService.AddGrant(ctx, s.DB, responderID, requesterID, kind); err != nil {
			return nil, err
		}
		event := realtime.EventPhotoAccessApproved
		if kind == userModel.GrantKindWali {
			event = realtime.EventWaliAccessApproved
		}
		if err := s.RT.EmitToUser(ctx, requesterID, event, fiber.Map{
			"owner_id": responderID,
			"kind":     kind,
		}); err != nil {
			log.Printf("[WARN] gagal emit event %s: %v", event, err)
		}
		s.notify(ctx, requesterID, responderID, accessNotifType(kind),
			"✅ Permintaan akses Anda diterima")
	}

	s.emitMessage(ctx, &respMsg)
	return &respMsg, nil
}

// GetHistory: riwayat dua arah antara user pemanggil dan lawan chatnya,
// terlama duluan supaya langsung bisa dirender.
func (s *ChatService) GetHistory(ctx context.Context, userID, otherID uuid.UUID, p helper.Paging) ([]dto.ChatMessageResponse, int64, error) {
	q := s.DB.WithContext(ctx).
		Model(&model.ChatMessageModel{}).
		Where("(chat_message_sender_id = ? AND chat_message_receiver_id = ?) OR (chat_message_sender_id = ? AND chat_message_receiver_id = ?)",
			userID, otherID, otherID, userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.ChatMessageModel
	if err := q.
		Order("chat_message_created_at ASC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]dto.ChatMessageResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToChatMessageResponse(&rows[i]))
	}
	return out, total, nil
}

// MarkRead menandai semua pesan dari otherID ke userID sebagai terbaca.
func (s *ChatService) MarkRead(ctx context.Context, userID, otherID uuid.UUID) (int64, error) {
	res := s.DB.WithContext(ctx).
		Model(&model.ChatMessageModel{}).
		Where("chat_message_receiver_id = ? AND chat_message_sender_id = ? AND chat_message_is_read = ?",
			userID, otherID, false).
		Update("chat_message_is_read", true)
	return res.RowsAffected, res.Error
}

// UnreadCount: total pesan belum dibaca milik user.
func (s *ChatService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).
		Model(&model.ChatMessageModel{}).
		Where("chat_message_receiver_id = ? AND chat_message_is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// =========================
// Internal
// =========================

func (s *ChatService) emitMessage(ctx context.Context, msg *model.ChatMessageModel) {
	payload := dto.ToChatMessageResponse(msg)
	room := realtime.RoomID(msg.ChatMessageSenderID, msg.ChatMessageReceiverID)
	if err := s.RT.EmitToRoom(ctx, room, realtime.EventNewMessage, payload); err != nil {
		log.Printf("[WARN] gagal emit pesan ke room %s: %v", room, err)
	}
	// Kedua channel personal ikut menerima, untuk sinkronisasi multi-device
	for _, uid := range []uuid.UUID{msg.ChatMessageReceiverID, msg.ChatMessageSenderID} {
		if err := s.RT.EmitToUser(ctx, uid, realtime.EventNewMessage, payload); err != nil {
			log.Printf("[WARN] gagal emit pesan ke user: %v", err)
		}
	}
}

func (s *ChatService) notify(ctx context.Context, userID, fromID uuid.UUID, ntype, content string) {
	if _, err := notifService.Create(ctx, s.DB, userID, ntype, &fromID, content); err != nil {
		log.Printf("[WARN] gagal membuat notifikasi %s: %v", ntype, err)
	}
	if err := s.RT.EmitToUser(ctx, userID, realtime.EventNewNotification, fiber.Map{
		"type":    ntype,
		"content": content,
	}); err != nil {
		log.Printf("[WARN] gagal emit notifikasi realtime: %v", err)
	}
}

func accessNotifType(kind string) string {
	if kind == userModel.GrantKindWali {
		return notifModel.NotificationTypeWaliAccess
	}
	return notifModel.NotificationTypePhotoAccess
}
