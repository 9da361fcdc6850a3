package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status approval akun imam (hanya berarti untuk role imam)
const (
	ImamStatusPending  = "pending"
	ImamStatusApproved = "approved"
	ImamStatusDenied   = "denied"
)

type UserModel struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	UserEmail     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"user_email"`
	UserRole      string    `gorm:"type:varchar(20);not null" json:"user_role"` // male|female|imam|superadmin
	UserFirstName string    `gorm:"type:varchar(100)" json:"user_first_name"`
	UserLastName  string    `gorm:"type:varchar(100)" json:"user_last_name"`
	UserPhone     *string   `gorm:"type:varchar(30)" json:"user_phone,omitempty"`

	UserLatitude  *float64 `gorm:"type:decimal(9,6)" json:"user_latitude,omitempty"`
	UserLongitude *float64 `gorm:"type:decimal(9,6)" json:"user_longitude,omitempty"`

	// Foto profil: versi blur ditampilkan ke user lain selama belum ada grant
	UserPhotoURL        *string `gorm:"type:text" json:"user_photo_url,omitempty"`
	UserBlurredPhotoURL *string `gorm:"type:text" json:"user_blurred_photo_url,omitempty"`
	UserUnblurRequest   bool    `gorm:"default:false" json:"user_unblur_request"`

	// Wali (khusus role female); detailnya di-gate lewat grant ledger
	UserWaliName         *string `gorm:"type:varchar(100)" json:"user_wali_name,omitempty"`
	UserWaliRelationship *string `gorm:"type:varchar(50)" json:"user_wali_relationship,omitempty"`
	UserWaliContact      *string `gorm:"type:varchar(100)" json:"user_wali_contact,omitempty"`

	// Derived: true bila ada >=1 attachment request yang approved
	UserIsVerified bool `gorm:"default:false" json:"user_is_verified"`

	// Khusus role imam
	UserImamApprovalStatus string  `gorm:"type:varchar(10);default:'pending'" json:"user_imam_approval_status"`
	UserDeniedReason       *string `gorm:"type:varchar(500)" json:"user_denied_reason,omitempty"`
	UserMessageToCommunity *string `gorm:"type:varchar(500)" json:"user_message_to_community,omitempty"`

	UserCreatedAt time.Time      `gorm:"autoCreateTime" json:"user_created_at"`
	UserUpdatedAt time.Time      `gorm:"autoUpdateTime" json:"user_updated_at"`
	UserDeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at" json:"user_deleted_at,omitempty"`
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.UserID == uuid.Nil {
		m.UserID = uuid.New()
	}
	return nil
}

func (m *UserModel) FullName() string {
	if m.UserLastName == "" {
		return m.UserFirstName
	}
	return m.UserFirstName + " " + m.UserLastName
}
