package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nikahku_backend/internals/features/mosques/imam_requests/dto"
	"nikahku_backend/internals/features/mosques/imam_requests/model"
	mosqueDTO "nikahku_backend/internals/features/mosques/mosques/dto"
	mosqueModel "nikahku_backend/internals/features/mosques/mosques/model"
	mosqueService "nikahku_backend/internals/features/mosques/mosques/service"
	notifModel "nikahku_backend/internals/features/notifications/model"
	notifService "nikahku_backend/internals/features/notifications/service"
	userModel "nikahku_backend/internals/features/users/user/model"
	helper "nikahku_backend/internals/helpers"
	"nikahku_backend/internals/realtime"
)

type ImamMosqueRequestService struct {
	DB *gorm.DB
	RT realtime.Emitter
}

func NewImamMosqueRequestService(db *gorm.DB, rt realtime.Emitter) *ImamMosqueRequestService {
	return &ImamMosqueRequestService{DB: db, RT: rt}
}

// CreateRequests membuat request penugasan untuk beberapa masjid sekaligus.
// Hanya imam yang akunnya sudah disetujui yang boleh mengajukan.
// Partial success: item yang gagal (duplikat, masjid tidak ketemu) masuk
// daftar errors, sisanya tetap dibuat.
func (s *ImamMosqueRequestService) CreateRequests(ctx context.Context, imamID uuid.UUID, in *dto.CreateImamMosqueRequestsDTO) ([]dto.ImamMosqueRequestResponse, []dto.BatchItemError, error) {
	var imam userModel.UserModel
	if err := s.DB.WithContext(ctx).First(&imam, "user_id = ?", imamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fiber.NewError(fiber.StatusNotFound, "User tidak ditemukan")
		}
		return nil, nil, err
	}
	if imam.UserImamApprovalStatus != userModel.ImamStatusApproved {
		return nil, nil, fiber.NewError(fiber.StatusForbidden, "Akun imam Anda belum disetujui superadmin")
	}

	created := make([]dto.ImamMosqueRequestResponse, 0, len(in.Requests))
	var errs []dto.BatchItemError

	for _, item := range in.Requests {
		mosque, err := mosqueService.ResolveOrCreateMosque(ctx, s.DB, item.MosqueRef, item.MosqueData)
		if err != nil {
			errs = append(errs, dto.BatchItemError{MosqueRef: item.MosqueRef, Error: errMessage(err)})
			continue
		}

		// Sudah jadi imam di sini (mis. lewat approval akun): tidak perlu request
		var assigned int64
		if err := s.DB.WithContext(ctx).
			Model(&mosqueModel.MosqueImamModel{}).
			Where("mosque_imam_mosque_id = ? AND mosque_imam_user_id = ?", mosque.MosqueID, imamID).
			Count(&assigned).Error; err != nil {
			errs = append(errs, dto.BatchItemError{MosqueRef: item.MosqueRef, Error: errMessage(err)})
			continue
		}
		if assigned > 0 {
			errs = append(errs, dto.BatchItemError{MosqueRef: item.MosqueRef, Error: "Anda sudah menjadi imam di masjid ini"})
			continue
		}

		req := model.ImamMosqueRequestModel{
			ImamMosqueRequestImamID:   imamID,
			ImamMosqueRequestMosqueID: mosque.MosqueID,
		}
		if item.Message != "" {
			msg := item.Message
			req.ImamMosqueRequestMessage = &msg
		}

		if err := s.DB.WithContext(ctx).Create(&req).Error; err != nil {
			if helper.IsDuplicateKey(err) {
				errs = append(errs, dto.BatchItemError{MosqueRef: item.MosqueRef, Error: "Request untuk masjid ini sudah ada"})
			} else {
				errs = append(errs, dto.BatchItemError{MosqueRef: item.MosqueRef, Error: errMessage(err)})
			}
			continue
		}

		resp := dto.ToImamMosqueRequestResponse(&req)
		m := mosqueDTO.ToMosqueResponse(mosque)
		resp.Mosque = &m
		created = append(created, resp)
	}

	return created, errs, nil
}

// ListMyRequests: request penugasan milik imam pemanggil.
func (s *ImamMosqueRequestService) ListMyRequests(ctx context.Context, imamID uuid.UUID) ([]dto.ImamMosqueRequestResponse, error) {
	var rows []model.ImamMosqueRequestModel
	if err := s.DB.WithContext(ctx).
		Where("imam_mosque_request_imam_id = ?", imamID).
		Order("imam_mosque_request_created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.withMosques(ctx, rows), nil
}

// ListByStatus: untuk dashboard superadmin.
func (s *ImamMosqueRequestService) ListByStatus(ctx context.Context, status string, p helper.Paging) ([]dto.ImamMosqueRequestResponse, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.ImamMosqueRequestModel{})
	if status != "" {
		q = q.Where("imam_mosque_request_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.ImamMosqueRequestModel
	if err := q.
		Order("imam_mosque_request_created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return s.withMosques(ctx, rows), total, nil
}

// Approve menyetujui request pending: imam masuk ke set imam masjid
// dan ringkasan masjid kelolaannya. Dua approval bersamaan: yang kalah 409.
func (s *ImamMosqueRequestService) Approve(ctx context.Context, requestID, reviewerID uuid.UUID, response string) (*model.ImamMosqueRequestModel, error) {
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cols := map[string]any{
		"imam_mosque_request_status":              model.RequestStatusApproved,
		"imam_mosque_request_superadmin_response": nil,
		"imam_mosque_request_denial_reason":       nil,
		"imam_mosque_request_reviewed_by":         reviewerID,
		"imam_mosque_request_reviewed_at":         now,
	}
	if response != "" {
		cols["imam_mosque_request_superadmin_response"] = response
	}
	res := s.DB.WithContext(ctx).
		Model(&model.ImamMosqueRequestModel{}).
		Where("imam_mosque_request_id = ? AND imam_mosque_request_status = ?", requestID, model.RequestStatusPending).
		Updates(cols)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fiber.NewError(fiber.StatusConflict, "Request sudah diproses")
	}

	if err := s.grantAssignment(ctx, req.ImamMosqueRequestImamID, req.ImamMosqueRequestMosqueID); err != nil {
		return nil, err
	}

	s.notifyImam(ctx, req.ImamMosqueRequestImamID, reviewerID,
		"✅ Permintaan penugasan masjid Anda disetujui")

	return s.load(ctx, requestID)
}

// Deny menolak request pending.
func (s *ImamMosqueRequestService) Deny(ctx context.Context, requestID, reviewerID uuid.UUID, reason string) (*model.ImamMosqueRequestModel, error) {
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cols := map[string]any{
		"imam_mosque_request_status":              model.RequestStatusDenied,
		"imam_mosque_request_superadmin_response": nil,
		"imam_mosque_request_denial_reason":       nil,
		"imam_mosque_request_reviewed_by":         reviewerID,
		"imam_mosque_request_reviewed_at":         now,
	}
	if reason != "" {
		cols["imam_mosque_request_denial_reason"] = reason
	}
	res := s.DB.WithContext(ctx).
		Model(&model.ImamMosqueRequestModel{}).
		Where("imam_mosque_request_id = ? AND imam_mosque_request_status = ?", requestID, model.RequestStatusPending).
		Updates(cols)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fiber.NewError(fiber.StatusConflict, "Request sudah diproses")
	}

	s.notifyImam(ctx, req.ImamMosqueRequestImamID, reviewerID,
		"❌ Permintaan penugasan masjid Anda ditolak")

	return s.load(ctx, requestID)
}

// UpdateStatus: koreksi superadmin tanpa guard pending. Keanggotaan imam
// di masjid selalu disinkronkan dengan status barunya.
func (s *ImamMosqueRequestService) UpdateStatus(ctx context.Context, requestID, reviewerID uuid.UUID, status string) (*model.ImamMosqueRequestModel, error) {
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}

	cols := map[string]any{"imam_mosque_request_status": status}
	if status == model.RequestStatusPending {
		cols["imam_mosque_request_superadmin_response"] = nil
		cols["imam_mosque_request_denial_reason"] = nil
		cols["imam_mosque_request_reviewed_by"] = nil
		cols["imam_mosque_request_reviewed_at"] = nil
	} else {
		cols["imam_mosque_request_reviewed_by"] = reviewerID
		cols["imam_mosque_request_reviewed_at"] = time.Now()
	}

	if err := s.DB.WithContext(ctx).
		Model(&model.ImamMosqueRequestModel{}).
		Where("imam_mosque_request_id = ?", requestID).
		Updates(cols).Error; err != nil {
		return nil, err
	}

	if status == model.RequestStatusApproved {
		if err := s.grantAssignment(ctx, req.ImamMosqueRequestImamID, req.ImamMosqueRequestMosqueID); err != nil {
			return nil, err
		}
	} else {
		if err := s.revokeAssignment(ctx, req.ImamMosqueRequestImamID, req.ImamMosqueRequestMosqueID); err != nil {
			return nil, err
		}
	}

	s.notifyImam(ctx, req.ImamMosqueRequestImamID, reviewerID,
		"ℹ️ Status permintaan penugasan masjid Anda diubah menjadi "+status)

	return s.load(ctx, requestID)
}

// =========================
// Internal
// =========================

func (s *ImamMosqueRequestService) load(ctx context.Context, requestID uuid.UUID) (*model.ImamMosqueRequestModel, error) {
	var req model.ImamMosqueRequestModel
	if err := s.DB.WithContext(ctx).
		First(&req, "imam_mosque_request_id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Request penugasan tidak ditemukan")
		}
		return nil, err
	}
	return &req, nil
}

// grantAssignment: idempotent, ON CONFLICT DO NOTHING di kedua tabel.
func (s *ImamMosqueRequestService) grantAssignment(ctx context.Context, imamID, mosqueID uuid.UUID) error {
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
			}).Error
	})
}

func (s *ImamMosqueRequestService) revokeAssignment(ctx context.Context, imamID, mosqueID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("mosque_imam_mosque_id = ? AND mosque_imam_user_id = ?", mosqueID, imamID).
			Delete(&mosqueModel.MosqueImamModel{}).Error; err != nil {
			return err
		}
		return tx.
			Where("imam_managed_imam_id = ? AND imam_managed_mosque_id = ?", imamID, mosqueID).
			Delete(&userModel.ImamManagedMosqueModel{}).Error
	})
}

func (s *ImamMosqueRequestService) withMosques(ctx context.Context, rows []model.ImamMosqueRequestModel) []dto.ImamMosqueRequestResponse {
	out := make([]dto.ImamMosqueRequestResponse, 0, len(rows))
	for i := range rows {
		r := dto.ToImamMosqueRequestResponse(&rows[i])
		var mosque mosqueModel.MosqueModel
		if err := s.DB.WithContext(ctx).
			First(&mosque, "mosque_id = ?", rows[i].ImamMosqueRequestMosqueID).Error; err == nil {
			m := mosqueDTO.ToMosqueResponse(&mosque)
			r.Mosque = &m
		}
		out = append(out, r)
	}
	return out
}

func (s *ImamMosqueRequestService) notifyImam(ctx context.Context, imamID, fromID uuid.UUID, content string) {
	if _, err := notifService.Create(ctx, s.DB, imamID, notifModel.NotificationTypeImamRequestUpdate, &fromID, content); err != nil {
		log.Printf("[WARN] gagal membuat notifikasi penugasan: %v", err)
	}
	if err := s.RT.EmitToUser(ctx, imamID, realtime.EventNewNotification, fiber.Map{
		"type":    notifModel.NotificationTypeImamRequestUpdate,
		"content": content,
	}); err != nil {
		log.Printf("[WARN] gagal emit notifikasi realtime: %v", err)
	}
}

func errMessage(err error) string {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return err.Error()
}
