package dto

import (
	"github.com/google/uuid"

	"nikahku_backend/internals/features/mosques/mosques/model"
)

// MosqueCatalogRequest: payload masjid dari katalog eksternal,
// dikirim klien saat masjidnya belum ada di tabel kita.
type MosqueCatalogRequest struct {
	ExternalID  string   `json:"external_id" validate:"required,max=100"`
	Name        string   `json:"name" validate:"required,max=150"`
	Address     string   `json:"address" validate:"max=500"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
}

type MosqueResponse struct {
	MosqueID    uuid.UUID `json:"mosque_id"`
	ExternalID  *string   `json:"external_id,omitempty"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	ReviewCount *int      `json:"review_count,omitempty"`

	// Diisi hanya pada listing direktori
	ImamCount *int64 `json:"imam_count,omitempty"`
}

func ToMosqueResponse(m *model.MosqueModel) MosqueResponse {
	return MosqueResponse{
		MosqueID:    m.MosqueID,
		ExternalID:  m.MosqueExternalID,
		Name:        m.MosqueName,
		Address:     m.MosqueAddress,
		Latitude:    m.MosqueLatitude,
		Longitude:   m.MosqueLongitude,
		Rating:      m.MosqueRating,
		ReviewCount: m.MosqueReviewCount,
	}
}

func (r *MosqueCatalogRequest) ToModel() *model.MosqueModel {
	ext := r.ExternalID
	return &model.MosqueModel{
		MosqueExternalID:  &ext,
		MosqueName:        r.Name,
		MosqueAddress:     r.Address,
		MosqueLatitude:    r.Latitude,
		MosqueLongitude:   r.Longitude,
		MosqueRating:      r.Rating,
		MosqueReviewCount: r.ReviewCount,
	}
}
