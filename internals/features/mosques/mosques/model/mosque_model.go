package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MosqueModel struct {
	MosqueID uuid.UUID `gorm:"type:uuid;primaryKey" json:"mosque_id"`

	// ID dari katalog eksternal (mis. place id). Nullable karena masjid
	// juga bisa dibuat manual oleh superadmin.
	MosqueExternalID *string `gorm:"type:varchar(100);uniqueIndex" json:"mosque_external_id,omitempty"`

	MosqueName    string `gorm:"type:varchar(150);not null" json:"mosque_name"`
	MosqueAddress string `gorm:"type:text" json:"mosque_address"`

	MosqueLatitude  *float64 `gorm:"type:decimal(9,6)" json:"mosque_latitude,omitempty"`
	MosqueLongitude *float64 `gorm:"type:decimal(9,6)" json:"mosque_longitude,omitempty"`

	MosqueRating      *float64 `gorm:"type:decimal(3,2)" json:"mosque_rating,omitempty"`
	MosqueReviewCount *int     `json:"mosque_review_count,omitempty"`

	MosqueCreatedAt time.Time `gorm:"autoCreateTime" json:"mosque_created_at"`
	MosqueUpdatedAt time.Time `gorm:"autoUpdateTime" json:"mosque_updated_at"`
}

func (MosqueModel) TableName() string {
	return "mosques"
}

func (m *MosqueModel) BeforeCreate(tx *gorm.DB) error {
	if m.MosqueID == uuid.Nil {
		m.MosqueID = uuid.New()
	}
	return nil
}
