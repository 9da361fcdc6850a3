package model

import (
	"time"

	"github.com/google/uuid"
)

// ImamManagedMosqueModel: ringkasan masjid yang dikelola seorang imam.
// Diisi oleh approval akun imam dan approval imam-mosque request;
// keluar dari sini bila status approval dicabut.
type ImamManagedMosqueModel struct {
	ImamManagedImamID        uuid.UUID `gorm:"type:uuid;not null;primaryKey" json:"imam_managed_imam_id"`
	ImamManagedMosqueID      uuid.UUID `gorm:"type:uuid;not null;primaryKey" json:"imam_managed_mosque_id"`
	ImamManagedMosqueName    string    `gorm:"type:varchar(150);not null" json:"imam_managed_mosque_name"`
	ImamManagedMosqueAddress string    `gorm:"type:text" json:"imam_managed_mosque_address"`
	ImamManagedIsDefault     bool      `gorm:"default:false" json:"imam_managed_is_default"`
	ImamManagedCreatedAt     time.Time `gorm:"autoCreateTime" json:"imam_managed_created_at"`
}

func (ImamManagedMosqueModel) TableName() string {
	return "imam_managed_mosques"
}
