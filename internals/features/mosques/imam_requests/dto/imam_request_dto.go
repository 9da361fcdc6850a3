package dto

import (
	"time"

	"github.com/google/uuid"

	"nikahku_backend/internals/features/mosques/imam_requests/model"
	mosqueDTO "nikahku_backend/internals/features/mosques/mosques/dto"
)

type ImamMosqueRequestItem struct {
	// UUID internal atau external id katalog
	MosqueRef  string                          `json:"mosque_id" validate:"required"`
	Message    string                          `json:"message" validate:"max=500"`
	MosqueData *mosqueDTO.MosqueCatalogRequest `json:"mosque_data,omitempty"`
}

type CreateImamMosqueRequestsDTO struct {
	Requests []ImamMosqueRequestItem `json:"requests" validate:"required,min=1,max=20,dive"`
}

type UpdateImamMosqueRequestDTO struct {
	Status string `json:"status" validate:"required,oneof=pending approved denied"`
}

type ApproveImamMosqueRequestDTO struct {
	SuperadminResponse string `json:"superadmin_response" validate:"max=500"`
}

type DenyImamMosqueRequestDTO struct {
	DenialReason string `json:"denial_reason" validate:"max=500"`
}

// BatchItemError: kegagalan per item pada pembuatan batch.
// Item lain tetap jadi (partial success).
type BatchItemError struct {
	MosqueRef string `json:"mosque_id"`
	Error     string `json:"error"`
}

type ImamMosqueRequestResponse struct {
	RequestID          uuid.UUID  `json:"request_id"`
	ImamID             uuid.UUID  `json:"imam_id"`
	MosqueID           uuid.UUID  `json:"mosque_id"`
	Status             string     `json:"status"`
	Message            *string    `json:"message,omitempty"`
	SuperadminResponse *string    `json:"superadmin_response,omitempty"`
	DenialReason       *string    `json:"denial_reason,omitempty"`
	ReviewedBy         *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt         *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`

	Mosque *mosqueDTO.MosqueResponse `json:"mosque,omitempty"`
}

func ToImamMosqueRequestResponse(m *model.ImamMosqueRequestModel) ImamMosqueRequestResponse {
	return ImamMosqueRequestResponse{
		RequestID:          m.ImamMosqueRequestID,
		ImamID:             m.ImamMosqueRequestImamID,
		MosqueID:           m.ImamMosqueRequestMosqueID,
		Status:             m.ImamMosqueRequestStatus,
		Message:            m.ImamMosqueRequestMessage,
		SuperadminResponse: m.ImamMosqueRequestSuperadminResponse,
		DenialReason:       m.ImamMosqueRequestDenialReason,
		ReviewedBy:         m.ImamMosqueRequestReviewedBy,
		ReviewedAt:         m.ImamMosqueRequestReviewedAt,
		CreatedAt:          m.ImamMosqueRequestCreatedAt,
	}
}
