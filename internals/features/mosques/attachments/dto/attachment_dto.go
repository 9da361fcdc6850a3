package dto

import (
	"time"

	"github.com/google/uuid"

	attachModel "nikahku_backend/internals/features/mosques/attachments/model"
	mosqueDTO "nikahku_backend/internals/features/mosques/mosques/dto"
)

type AttachmentToggleRequest struct {
	// UUID internal atau external id katalog
	MosqueRef  string                          `json:"mosque_id" validate:"required"`
	Message    string                          `json:"message" validate:"max=500"`
	MosqueData *mosqueDTO.MosqueCatalogRequest `json:"mosque_data,omitempty"`
}

type ApproveRequestDTO struct {
	ImamResponse string `json:"imam_response" validate:"max=500"`
}

type DenyRequestDTO struct {
	DenialReason string `json:"denial_reason" validate:"required,max=500"`
}

type UpdateResponseDTO struct {
	ImamResponse string `json:"imam_response" validate:"required,max=500"`
}

type UpdateDenialReasonDTO struct {
	DenialReason string `json:"denial_reason" validate:"required,max=500"`
}

type RequesterSummary struct {
	UserID     uuid.UUID `json:"user_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	PhotoURL   *string   `json:"photo_url,omitempty"`
	IsVerified bool      `json:"is_verified"`
}

type AttachmentRequestResponse struct {
	RequestID      uuid.UUID  `json:"request_id"`
	UserID         uuid.UUID  `json:"user_id"`
	MosqueID       uuid.UUID  `json:"mosque_id"`
	Status         string     `json:"status"`
	AssignedImamID uuid.UUID  `json:"assigned_imam_id"`
	Message        string     `json:"message"`
	ImamResponse   *string    `json:"imam_response,omitempty"`
	DenialReason   *string    `json:"denial_reason,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`

	Requester *RequesterSummary         `json:"requester,omitempty"`
	Mosque    *mosqueDTO.MosqueResponse `json:"mosque,omitempty"`
}

func ToAttachmentRequestResponse(m *attachModel.MosqueAttachmentRequestModel) AttachmentRequestResponse {
	return AttachmentRequestResponse{
		RequestID:      m.MosqueAttachmentRequestID,
		UserID:         m.MosqueAttachmentRequestUserID,
		MosqueID:       m.MosqueAttachmentRequestMosqueID,
		Status:         m.MosqueAttachmentRequestStatus,
		AssignedImamID: m.MosqueAttachmentRequestAssignedImamID,
		Message:        m.MosqueAttachmentRequestMessage,
		ImamResponse:   m.MosqueAttachmentRequestImamResponse,
		DenialReason:   m.MosqueAttachmentRequestDenialReason,
		ReviewedAt:     m.MosqueAttachmentRequestReviewedAt,
		CreatedAt:      m.MosqueAttachmentRequestCreatedAt,
	}
}

const (
	ToggleActionAttached = "attached"
	ToggleActionDetached = "detached"
)

type AttachmentToggleResponse struct {
	Action  string                     `json:"action"` // attached|detached
	Mosque  mosqueDTO.MosqueResponse   `json:"mosque"`
	Request *AttachmentRequestResponse `json:"request,omitempty"`

	// true bila attach berhasil tapi masjid belum punya imam,
	// sehingga belum ada request verifikasi yang dibuat
	NoImamAvailable bool `json:"no_imam_available,omitempty"`
}

type MyAttachmentResponse struct {
	Mosque     mosqueDTO.MosqueResponse `json:"mosque"`
	IsVerified bool                     `json:"is_verified"`
	AttachedAt time.Time                `json:"attached_at"`
}
