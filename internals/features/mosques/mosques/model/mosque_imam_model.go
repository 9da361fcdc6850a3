package model

import (
	"time"

	"github.com/google/uuid"
)

// MosqueImamModel: imam yang aktif melayani di sebuah masjid.
// Baris masuk saat akun imam di-approve (atau imam-mosque request di-approve)
// dan ditarik kembali bila status approval imam dicabut.
type MosqueImamModel struct {
	MosqueImamMosqueID  uuid.UUID `gorm:"type:uuid;not null;primaryKey" json:"mosque_imam_mosque_id"`
	MosqueImamUserID    uuid.UUID `gorm:"type:uuid;not null;primaryKey" json:"mosque_imam_user_id"`
	MosqueImamCreatedAt time.Time `gorm:"autoCreateTime" json:"mosque_imam_created_at"`
}

func (MosqueImamModel) TableName() string {
	return "mosque_imams"
}
