package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusDenied   = "denied"
)

// ImamMosqueRequestModel: permintaan imam untuk ditugaskan ke sebuah masjid.
// Diputuskan superadmin. Unik per (imam, mosque).
type ImamMosqueRequestModel struct {
	ImamMosqueRequestID uuid.UUID `gorm:"type:uuid;primaryKey" json:"imam_mosque_request_id"`

	ImamMosqueRequestImamID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_imam_mosque_request_pair" json:"imam_mosque_request_imam_id"`
	ImamMosqueRequestMosqueID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_imam_mosque_request_pair" json:"imam_mosque_request_mosque_id"`

	ImamMosqueRequestStatus  string  `gorm:"type:varchar(10);not null;default:'pending'" json:"imam_mosque_request_status"`
	ImamMosqueRequestMessage *string `gorm:"type:varchar(500)" json:"imam_mosque_request_message,omitempty"`

	// Catatan keputusan superadmin; salah satu saja yang terisi
	ImamMosqueRequestSuperadminResponse *string `gorm:"type:varchar(500)" json:"imam_mosque_request_superadmin_response,omitempty"`
	ImamMosqueRequestDenialReason       *string `gorm:"type:varchar(500)" json:"imam_mosque_request_denial_reason,omitempty"`

	ImamMosqueRequestReviewedBy *uuid.UUID `gorm:"type:uuid" json:"imam_mosque_request_reviewed_by,omitempty"`
	ImamMosqueRequestReviewedAt *time.Time `json:"imam_mosque_request_reviewed_at,omitempty"`

	ImamMosqueRequestCreatedAt time.Time `gorm:"autoCreateTime" json:"imam_mosque_request_created_at"`
	ImamMosqueRequestUpdatedAt time.Time `gorm:"autoUpdateTime" json:"imam_mosque_request_updated_at"`
}

func (ImamMosqueRequestModel) TableName() string {
	return "imam_mosque_requests"
}

func (m *ImamMosqueRequestModel) BeforeCreate(tx *gorm.DB) error {
	if m.ImamMosqueRequestID == uuid.Nil {
		m.ImamMosqueRequestID = uuid.New()
	}
	return nil
}
