package dto

import (
	"time"

	"github.com/google/uuid"

	userModel "nikahku_backend/internals/features/users/user/model"
)

type DenyImamDTO struct {
	DeniedReason string `json:"denied_reason" validate:"required,max=500"`
}

type UpdateImamStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=pending approved denied"`

	// Pada approved: daftar masjid kelolaan yang otoritatif dari
	// superadmin. Kosong berarti penugasan yang ada dibiarkan.
	ManagedMosques []uuid.UUID `json:"managed_mosques,omitempty" validate:"max=50"`

	// Pada denied: alasan penolakan.
	DeniedReason string `json:"denied_reason,omitempty" validate:"max=500"`
}

// MosqueAssignmentError: kegagalan penugasan per masjid saat approval imam.
// Approval tetap jalan untuk masjid lain.
type MosqueAssignmentError struct {
	MosqueID uuid.UUID `json:"mosque_id"`
	Error    string    `json:"error"`
}

type ManagedMosqueResponse struct {
	MosqueID  uuid.UUID `json:"mosque_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	IsDefault bool      `json:"is_default"`
}

type ImamSummaryResponse struct {
	UserID             uuid.UUID `json:"user_id"`
	Email              string    `json:"email"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	ImamApprovalStatus string    `json:"imam_approval_status"`
	DeniedReason       *string   `json:"denied_reason,omitempty"`
	MessageToCommunity *string   `json:"message_to_community,omitempty"`
	CreatedAt          time.Time `json:"created_at"`

	ManagedMosques []ManagedMosqueResponse `json:"managed_mosques"`
}

type ImamApprovalResponse struct {
	Imam   ImamSummaryResponse     `json:"imam"`
	Errors []MosqueAssignmentError `json:"errors,omitempty"`
}

func ToImamSummary(u *userModel.UserModel, managed []userModel.ImamManagedMosqueModel) ImamSummaryResponse {
	mosques := make([]ManagedMosqueResponse, 0, len(managed))
	for _, m := range managed {
		mosques = append(mosques, ManagedMosqueResponse{
			MosqueID:  m.ImamManagedMosqueID,
			Name:      m.ImamManagedMosqueName,
			Address:   m.ImamManagedMosqueAddress,
			IsDefault: m.ImamManagedIsDefault,
		})
	}
	return ImamSummaryResponse{
		UserID:             u.UserID,
		Email:              u.UserEmail,
		FirstName:          u.UserFirstName,
		LastName:           u.UserLastName,
		ImamApprovalStatus: u.UserImamApprovalStatus,
		DeniedReason:       u.UserDeniedReason,
		MessageToCommunity: u.UserMessageToCommunity,
		CreatedAt:          u.UserCreatedAt,
		ManagedMosques:     mosques,
	}
}
