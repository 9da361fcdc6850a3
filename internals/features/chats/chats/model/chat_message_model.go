package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tipe pesan chat. Pesan protokol akses tetap berupa pesan biasa
// di riwayat, dengan metadata tambahan.
const (
	MessageTypeText          = "text"
	MessageTypePhotoRequest  = "photo_request"
	MessageTypePhotoResponse = "photo_response"
	MessageTypeWaliRequest   = "wali_request"
	MessageTypeWaliResponse  = "wali_response"
)

// Jawaban yang valid untuk pesan request akses
const (
	AccessResponseAccept = "accept"
	AccessResponseDeny   = "deny"
	AccessResponseLater  = "later"
)

// RequestMessageType memetakan jenis akses ke tipe pesan request-nya.
func RequestMessageType(kind string) string {
	if kind == "wali" {
		return MessageTypeWaliRequest
	}
	return MessageTypePhotoRequest
}

// ResponseMessageType memetakan jenis akses ke tipe pesan response-nya.
func ResponseMessageType(kind string) string {
	if kind == "wali" {
		return MessageTypeWaliResponse
	}
	return MessageTypePhotoResponse
}

type ChatMessageModel struct {
	ChatMessageID uuid.UUID `gorm:"type:uuid;primaryKey" json:"chat_message_id"`

	ChatMessageSenderID   uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_message_pair" json:"chat_message_sender_id"`
	ChatMessageReceiverID uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_message_pair" json:"chat_message_receiver_id"`

	ChatMessageText string `gorm:"type:varchar(1000);not null" json:"chat_message_text"`
	ChatMessageType string `gorm:"type:varchar(30);not null;default:'text'" json:"chat_message_type"`

	// Untuk pesan protokol: kind, response, request_message_id, dst.
	ChatMessageMetadata datatypes.JSONMap `gorm:"type:jsonb" json:"chat_message_metadata,omitempty"`

	ChatMessageIsRead    bool      `gorm:"default:false" json:"chat_message_is_read"`
	ChatMessageCreatedAt time.Time `gorm:"autoCreateTime" json:"chat_message_created_at"`
}

func (ChatMessageModel) TableName() string {
	return "chat_messages"
}

func (m *ChatMessageModel) BeforeCreate(tx *gorm.DB) error {
	if m.ChatMessageID == uuid.Nil {
		m.ChatMessageID = uuid.New()
	}
	return nil
}
