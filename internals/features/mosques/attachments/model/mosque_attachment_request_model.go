package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusDenied   = "denied"
)

// MosqueAttachmentRequestModel: permintaan verifikasi user ke imam masjid.
// Unik per (user, mosque); imam penanggung jawab dikunci saat request dibuat.
type MosqueAttachmentRequestModel struct {
	MosqueAttachmentRequestID uuid.UUID `gorm:"type:uuid;primaryKey" json:"mosque_attachment_request_id"`

	MosqueAttachmentRequestUserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attachment_request_pair" json:"mosque_attachment_request_user_id"`
	MosqueAttachmentRequestMosqueID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attachment_request_pair" json:"mosque_attachment_request_mosque_id"`

	MosqueAttachmentRequestStatus         string    `gorm:"type:varchar(10);not null;default:'pending'" json:"mosque_attachment_request_status"`
	MosqueAttachmentRequestAssignedImamID uuid.UUID `gorm:"type:uuid;not null;index" json:"mosque_attachment_request_assigned_imam_id"`
	MosqueAttachmentRequestMessage        string    `gorm:"type:varchar(500);not null" json:"mosque_attachment_request_message"`

	// Tepat satu dari dua field ini terisi setelah diputuskan
	MosqueAttachmentRequestImamResponse *string `gorm:"type:varchar(500)" json:"mosque_attachment_request_imam_response,omitempty"`
	MosqueAttachmentRequestDenialReason *string `gorm:"type:varchar(500)" json:"mosque_attachment_request_denial_reason,omitempty"`

	MosqueAttachmentRequestReviewedAt *time.Time `json:"mosque_attachment_request_reviewed_at,omitempty"`
	MosqueAttachmentRequestCreatedAt  time.Time  `gorm:"autoCreateTime" json:"mosque_attachment_request_created_at"`
	MosqueAttachmentRequestUpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"mosque_attachment_request_updated_at"`
}

func (MosqueAttachmentRequestModel) TableName() string {
	return "mosque_attachment_requests"
}

func (m *MosqueAttachmentRequestModel) BeforeCreate(tx *gorm.DB) error {
	if m.MosqueAttachmentRequestID == uuid.Nil {
		m.MosqueAttachmentRequestID = uuid.New()
	}
	return nil
}

// DecisionColumns menghasilkan set kolom LENGKAP untuk transisi status,
// supaya field sisa dari status sebelumnya selalu ikut dibersihkan.
// approved membawa imam_response, denied membawa denial_reason,
// pending mengosongkan semuanya.
func DecisionColumns(status string, note string, now time.Time) (map[string]any, error) {
	switch status {
	case RequestStatusApproved:
		return map[string]any{
			"mosque_attachment_request_status":        RequestStatusApproved,
			"mosque_attachment_request_imam_response": note,
			"mosque_attachment_request_denial_reason": nil,
			"mosque_attachment_request_reviewed_at":   now,
		}, nil
	case RequestStatusDenied:
		return map[string]any{
			"mosque_attachment_request_status":        RequestStatusDenied,
			"mosque_attachment_request_imam_response": nil,
			"mosque_attachment_request_denial_reason": note,
			"mosque_attachment_request_reviewed_at":   now,
		}, nil
	case RequestStatusPending:
		return map[string]any{
			"mosque_attachment_request_status":        RequestStatusPending,
			"mosque_attachment_request_imam_response": nil,
			"mosque_attachment_request_denial_reason": nil,
			"mosque_attachment_request_reviewed_at":   nil,
		}, nil
	default:
		return nil, fmt.Errorf("status tidak dikenal: %s", status)
	}
}
