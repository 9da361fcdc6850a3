package service

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nikahku_backend/internals/constants"
	"nikahku_backend/internals/features/admin/superadmin/dto"
	attachModel "nikahku_backend/internals/features/mosques/attachments/model"
	mosqueModel "nikahku_backend/internals/features/mosques/mosques/model"
	notifModel "nikahku_backend/internals/features/notifications/model"
	notifService "nikahku_backend/internals/features/notifications/service"
	userModel "nikahku_backend/internals/features/users/user/model"
	helper "nikahku_backend/internals/helpers"
	"nikahku_backend/internals/realtime"
)

type ImamApprovalService struct {
	DB *gorm.DB
	RT realtime.Emitter
}

func NewImamApprovalService(db *gorm.DB, rt realtime.Emitter) *ImamApprovalService {
	return &ImamApprovalService{DB: db, RT: rt}
}

// ApproveImam menyetujui akun imam. Masjid yang sudah di-attach si imam
// menjadi masjid kelolaannya: imam masuk set imam tiap masjid + ringkasan
// imam_managed_mosques dibangun ulang. Tanpa attachment sama sekali -> 400,
// approval tanpa masjid tidak ada artinya.
// Kegagalan per masjid dikumpulkan, tidak membatalkan approval.
func (s *ImamApprovalService) ApproveImam(ctx context.Context, imamID, reviewerID uuid.UUID) (*dto.ImamApprovalResponse, error) {
	imam, err := s.loadImam(ctx, imamID)
	if err != nil {
		return nil, err
	}

	var atts []attachModel.UserMosqueAttachmentModel
	if err := s.DB.WithContext(ctx).
		Where("attachment_user_id = ?", imamID).
		Order("attachment_created_at ASC").
		Find(&atts).Error; err != nil {
		return nil, err
	}
	if len(atts) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Imam belum terhubung dengan masjid manapun")
	}

	var assignErrs []dto.MosqueAssignmentError
	for i, att := range atts {
		if err := s.assignMosque(ctx, imamID, att.AttachmentMosqueID, i == 0); err != nil {
			assignErrs = append(assignErrs, dto.MosqueAssignmentError{
				MosqueID: att.AttachmentMosqueID,
				Error:    err.Error(),
			})
		}
	}

	if err := s.DB.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Where("user_id = ?", imamID).
		Updates(map[string]any{
			"user_imam_approval_status": userModel.ImamStatusApproved,
			"user_denied_reason":        nil,
		}).Error; err != nil {
		return nil, err
	}

	s.notifyImam(ctx, imamID, reviewerID,
		notifModel.NotificationTypeImamApproved,
		realtime.EventImamApproved,
		"✅ Akun imam Anda telah disetujui")

	summary, err := s.imamSummary(ctx, imam.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.ImamApprovalResponse{Imam: *summary, Errors: assignErrs}, nil
}

// DenyImam menolak akun imam dengan alasan. Status terverifikasi ikut
// dicabut. Penugasan yang sudah ada tidak dicabut di sini; pencabutan
// eksplisit lewat UpdateImamStatus.
func (s *ImamApprovalService) DenyImam(ctx context.Context, imamID, reviewerID uuid.UUID, reason string) (*dto.ImamSummaryResponse, error) {
	if _, err := s.loadImam(ctx, imamID); err != nil {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Where("user_id = ?", imamID).
		Updates(map[string]any{
			"user_imam_approval_status": userModel.ImamStatusDenied,
			"user_denied_reason":        reason,
			"user_is_verified":          false,
		}).Error; err != nil {
		return nil, err
	}

	s.notifyImam(ctx, imamID, reviewerID,
		notifModel.NotificationTypeImamDenied,
		realtime.EventImamDenied,
		"❌ Akun imam Anda ditolak: "+reason)

	return s.imamSummary(ctx, imamID)
}

// UpdateImamStatus: setter langsung oleh superadmin, tanpa syarat
// attachment. Pada approved daftar managed_mosques (bila dikirim)
// menjadi penugasan otoritatif menggantikan yang lama. Meninggalkan
// status approved berarti imam ditarik dari SEMUA masjid, dan denied
// ikut mencabut status terverifikasi.
func (s *ImamApprovalService) UpdateImamStatus(ctx context.Context, imamID, reviewerID uuid.UUID, in *dto.UpdateImamStatusDTO) (*dto.ImamSummaryResponse, error) {
	imam, err := s.loadImam(ctx, imamID)
	if err != nil {
		return nil, err
	}

	if in.Status == userModel.ImamStatusApproved {
		if len(in.ManagedMosques) > 0 {
			if err := s.replaceAssignments(ctx, imamID, in.ManagedMosques); err != nil {
				return nil, err
			}
		}
		if err := s.DB.WithContext(ctx).
			Model(&userModel.UserModel{}).
			Where("user_id = ?", imamID).
			Updates(map[string]any{
				"user_imam_approval_status": userModel.ImamStatusApproved,
				"user_denied_reason":        nil,
			}).Error; err != nil {
			return nil, err
		}
		return s.imamSummary(ctx, imamID)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if imam.UserImamApprovalStatus == userModel.ImamStatusApproved {
			if err := tx.
				Where("mosque_imam_user_id = ?", imamID).
				Delete(&mosqueModel.MosqueImamModel{}).Error; err != nil {
				return err
			}
			if err := tx.
				Where("imam_managed_imam_id = ?", imamID).
				Delete(&userModel.ImamManagedMosqueModel{}).Error; err != nil {
				return err
			}
		}

		cols := map[string]any{"user_imam_approval_status": in.Status}
		if in.Status == userModel.ImamStatusPending {
			cols["user_denied_reason"] = nil
		} else {
			cols["user_denied_reason"] = nil
			if in.DeniedReason != "" {
				cols["user_denied_reason"] = in.DeniedReason
			}
			cols["user_is_verified"] = false
		}
		return tx.
			Model(&userModel.UserModel{}).
			Where("user_id = ?", imamID).
			Updates(cols).Error
	})
	if err != nil {
		return nil, err
	}

	return s.imamSummary(ctx, imamID)
}

// replaceAssignments mengganti seluruh penugasan imam dengan daftar
// masjid dari superadmin. Masjid pertama jadi default.
func (s *ImamApprovalService) replaceAssignments(ctx context.Context, imamID uuid.UUID, mosqueIDs []uuid.UUID) error {
	for _, mosqueID := range mosqueIDs {
		var count int64
		if err := s.DB.WithContext(ctx).
			Model(&mosqueModel.MosqueModel{}).
			Where("mosque_id = ?", mosqueID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Masjid tidak ditemukan: "+mosqueID.String())
		}
	}

	if err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("mosque_imam_user_id = ?", imamID).
			Delete(&mosqueModel.MosqueImamModel{}).Error; err != nil {
			return err
		}
		return tx.
			Where("imam_managed_imam_id = ?", imamID).
			Delete(&userModel.ImamManagedMosqueModel{}).Error
	}); err != nil {
		return err
	}

	for i, mosqueID := range mosqueIDs {
		if err := s.assignMosque(ctx, imamID, mosqueID, i == 0); err != nil {
			return err
		}
	}
	return nil
}

// RemoveImamFromMosque mencabut satu penugasan saja.
func (s *ImamApprovalService) RemoveImamFromMosque(ctx context.Context, imamID, mosqueID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.
			Where("mosque_imam_mosque_id = ? AND mosque_imam_user_id = ?", mosqueID, imamID).
			Delete(&mosqueModel.MosqueImamModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Imam tidak terdaftar di masjid ini")
		}
		return tx.
			Where("imam_managed_imam_id = ? AND imam_managed_mosque_id = ?", imamID, mosqueID).
			Delete(&userModel.ImamManagedMosqueModel{}).Error
	})
}

// ListImams: daftar akun imam untuk dashboard, opsional filter status.
func (s *ImamApprovalService) ListImams(ctx context.Context, status string, p helper.Paging) ([]dto.ImamSummaryResponse, int64, error) {
	q := s.DB.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Where("user_role = ?", constants.RoleImam)
	if status != "" {
		q = q.Where("user_imam_approval_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []userModel.UserModel
	if err := q.
		Order("user_created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	out := make([]dto.ImamSummaryResponse, 0, len(users))
	for i := range users {
		managed, err := s.managedMosques(ctx, users[i].UserID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, dto.ToImamSummary(&users[i], managed))
	}
	return out, total, nil
}

// =========================
// Internal
// =========================

func (s *ImamApprovalService) loadImam(ctx context.Context, imamID uuid.UUID) (*userModel.UserModel, error) {
	var imam userModel.UserModel
	if err := s.DB.WithContext(ctx).
		First(&imam, "user_id = ?", imamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Imam tidak ditemukan")
		}
		return nil, err
	}
	if imam.UserRole != constants.RoleImam {
		return nil, fiber.NewError(fiber.StatusBadRequest, "User ini bukan imam")
	}
	return &imam, nil
}

func (s *ImamApprovalService) assignMosque(ctx context.Context, imamID, mosqueID uuid.UUID, isDefault bool) error {
	var mosque mosqueModel.MosqueModel
	if err := s.DB.WithContext(ctx).First(&mosque, "mosque_id = ?", mosqueID).Error; err != nil {
		return err
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&mosqueModel.MosqueImamModel{
				MosqueImamMosqueID: mosqueID,
				MosqueImamUserID:   imamID,
			}).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&userModel.ImamManagedMosqueModel{
				ImamManagedImamID:        imamID,
				ImamManagedMosqueID:      mosqueID,
				ImamManagedMosqueName:    mosque.MosqueName,
				ImamManagedMosqueAddress: mosque.MosqueAddress,
				ImamManagedIsDefault:     isDefault,
			}).Error
	})
}

func (s *ImamApprovalService) managedMosques(ctx context.Context, imamID uuid.UUID) ([]userModel.ImamManagedMosqueModel, error) {
	var managed []userModel.ImamManagedMosqueModel
	err := s.DB.WithContext(ctx).
		Where("imam_managed_imam_id = ?", imamID).
		Order("imam_managed_created_at ASC").
		Find(&managed).Error
	return managed, err
}

func (s *ImamApprovalService) imamSummary(ctx context.Context, imamID uuid.UUID) (*dto.ImamSummaryResponse, error) {
	imam, err := s.loadImam(ctx, imamID)
	if err != nil {
		return nil, err
	}
	managed, err := s.managedMosques(ctx, imamID)
	if err != nil {
		return nil, err
	}
	summary := dto.ToImamSummary(imam, managed)
	return &summary, nil
}

func (s *ImamApprovalService) notifyImam(ctx context.Context, imamID, fromID uuid.UUID, ntype, event, content string) {
	if _, err := notifService.Create(ctx, s.DB, imamID, ntype, &fromID, content); err != nil {
		log.Printf("[WARN] gagal membuat notifikasi %s: %v", ntype, err)
	}
	payload := fiber.Map{"type": ntype, "content": content}
	if err := s.RT.EmitToUser(ctx, imamID, event, payload); err != nil {
		log.Printf("[WARN] gagal emit event %s: %v", event, err)
	}
	if err := s.RT.EmitToUser(ctx, imamID, realtime.EventNewNotification, payload); err != nil {
		log.Printf("[WARN] gagal emit notifikasi realtime: %v", err)
	}
}
