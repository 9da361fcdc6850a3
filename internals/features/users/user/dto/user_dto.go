package dto

import (
	"github.com/google/uuid"

	"nikahku_backend/internals/features/users/user/model"
)

// WaliInfo hanya diisi bila viewer punya grant wali dari user ybs.
type WaliInfo struct {
	Name         *string `json:"name,omitempty"`
	Relationship *string `json:"relationship,omitempty"`
	Contact      *string `json:"contact,omitempty"`
}

// UserResponse: profil user sebagaimana terlihat oleh viewer tertentu.
// Field sensitif (foto asli, wali) di-gate oleh grant ledger.
type UserResponse struct {
	UserID     uuid.UUID `json:"user_id"`
	Email      string    `json:"email,omitempty"`
	Role       string    `json:"role"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	IsVerified bool      `json:"is_verified"`

	PhotoURL *string   `json:"photo_url,omitempty"`
	Wali     *WaliInfo `json:"wali,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	ImamApprovalStatus string  `json:"imam_approval_status,omitempty"`
	DeniedReason       *string `json:"denied_reason,omitempty"`
}

// ViewerAccess: hasil cek grant viewer terhadap user yang dilihat.
type ViewerAccess struct {
	IsSelf   bool
	HasPhoto bool
	HasWali  bool
}

// ToUserResponse memproyeksikan profil sesuai akses viewer:
//   - foto: tanpa grant photo hanya versi blur yang keluar
//   - wali: tanpa grant wali seluruh blok wali disembunyikan
//   - email hanya untuk diri sendiri
func ToUserResponse(u *model.UserModel, access ViewerAccess) UserResponse {
	resp := UserResponse{
		UserID:     u.UserID,
		Role:       u.UserRole,
		FirstName:  u.UserFirstName,
		LastName:   u.UserLastName,
		IsVerified: u.UserIsVerified,
		Latitude:   u.UserLatitude,
		Longitude:  u.UserLongitude,
	}

	if access.IsSelf {
		resp.Email = u.UserEmail
	}

	if access.IsSelf || access.HasPhoto {
		resp.PhotoURL = u.UserPhotoURL
	} else {
		resp.PhotoURL = u.UserBlurredPhotoURL
	}

	if access.IsSelf || access.HasWali {
		if u.UserWaliName != nil || u.UserWaliContact != nil {
			resp.Wali = &WaliInfo{
				Name:         u.UserWaliName,
				Relationship: u.UserWaliRelationship,
				Contact:      u.UserWaliContact,
			}
		}
	}

	if u.UserRole == "imam" {
		resp.ImamApprovalStatus = u.UserImamApprovalStatus
		if access.IsSelf {
			resp.DeniedReason = u.UserDeniedReason
		}
	}

	return resp
}

type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type UsersByIDsRequest struct {
	UserIDs []uuid.UUID `json:"user_ids" validate:"required,min=1,max=100"`
}

// UpdateMeRequest: semua field opsional, hanya yang dikirim yang diubah.
type UpdateMeRequest struct {
	FirstName          *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName           *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Phone              *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	PhotoURL           *string `json:"photo_url,omitempty"`
	BlurredPhotoURL    *string `json:"blurred_photo_url,omitempty"`
	WaliName           *string `json:"wali_name,omitempty" validate:"omitempty,max=100"`
	WaliRelationship   *string `json:"wali_relationship,omitempty" validate:"omitempty,max=50"`
	WaliContact        *string `json:"wali_contact,omitempty" validate:"omitempty,max=100"`
	MessageToCommunity *string `json:"message_to_community,omitempty" validate:"omitempty,max=500"`
}
