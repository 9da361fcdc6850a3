package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"nikahku_backend/internals/features/chats/chats/model"
)

type SendMessageRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id" validate:"required"`
	Text       string    `json:"text" validate:"required,max=1000"`
}

type AccessRequestDTO struct {
	// Pemilik data yang dimintai akses
	OwnerID uuid.UUID `json:"owner_id" validate:"required"`
	Kind    string    `json:"kind" validate:"required,oneof=photo wali"`
	Message string    `json:"message" validate:"max=500"`
}

type AccessResponseDTO struct {
	RequestMessageID uuid.UUID `json:"request_message_id" validate:"required"`
	Response         string    `json:"response" validate:"required,oneof=accept deny later"`
	Message          string    `json:"message" validate:"max=500"`
}

type ChatMessageResponse struct {
	MessageID  uuid.UUID         `json:"message_id"`
	SenderID   uuid.UUID         `json:"sender_id"`
	ReceiverID uuid.UUID         `json:"receiver_id"`
	Text       string            `json:"text"`
	Type       string            `json:"type"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
	IsRead     bool              `json:"is_read"`
	CreatedAt  time.Time         `json:"created_at"`
}

func ToChatMessageResponse(m *model.ChatMessageModel) ChatMessageResponse {
	return ChatMessageResponse{
		MessageID:  m.ChatMessageID,
		SenderID:   m.ChatMessageSenderID,
		ReceiverID: m.ChatMessageReceiverID,
		Text:       m.ChatMessageText,
		Type:       m.ChatMessageType,
		Metadata:   m.ChatMessageMetadata,
		IsRead:     m.ChatMessageIsRead,
		CreatedAt:  m.ChatMessageCreatedAt,
	}
}
