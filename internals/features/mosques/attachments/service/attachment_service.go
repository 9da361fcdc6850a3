package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"nikahku_backend/internals/features/mosques/attachments/dto"
	"nikahku_backend/internals/features/mosques/attachments/model"
	mosqueDTO "nikahku_backend/internals/features/mosques/mosques/dto"
	mosqueModel "nikahku_backend/internals/features/mosques/mosques/model"
	mosqueService "nikahku_backend/internals/features/mosques/mosques/service"
	notifModel "nikahku_backend/internals/features/notifications/model"
	notifService "nikahku_backend/internals/features/notifications/service"
	userModel "nikahku_backend/internals/features/users/user/model"
	helper "nikahku_backend/internals/helpers"
	"nikahku_backend/internals/realtime"
)

type MosqueAttachmentService struct {
	DB *gorm.DB
	RT realtime.Emitter
}

func NewMosqueAttachmentService(db *gorm.DB, rt realtime.Emitter) *MosqueAttachmentService {
	return &MosqueAttachmentService{DB: db, RT: rt}
}

// =========================
// Attach / Detach (toggle)
// =========================

// ToggleAttachment: sekali panggil attach, panggil lagi detach.
// Attach membuat baris keanggotaan + request verifikasi ke imam pertama
// masjid tsb (kalau ada). Detach menghapus keanggotaan dan request yang
// masih pending; request yang sudah diputuskan dibiarkan sebagai riwayat.
func (s *MosqueAttachmentService) ToggleAttachment(ctx context.Context, userID uuid.UUID, in *dto.AttachmentToggleRequest) (*dto.AttachmentToggleResponse, error) {
	mosque, err := mosqueService.ResolveOrCreateMosque(ctx, s.DB, in.MosqueRef, in.MosqueData)
	if err != nil {
		return nil, err
	}

	var existing model.UserMosqueAttachmentModel
	err = s.DB.WithContext(ctx).
		First(&existing, "attachment_user_id = ? AND attachment_mosque_id = ?", userID, mosque.MosqueID).Error

	switch {
	case err == nil:
		if err := s.detach(ctx, userID, mosque.MosqueID); err != nil {
			return nil, err
		}
		return &dto.AttachmentToggleResponse{
			Action: dto.ToggleActionDetached,
			Mosque: mosqueDTO.ToMosqueResponse(mosque),
		}, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.attach(ctx, userID, mosque, in.Message)

	default:
		return nil, err
	}
}

func (s *MosqueAttachmentService) attach(ctx context.Context, userID uuid.UUID, mosque *mosqueModel.MosqueModel, message string) (*dto.AttachmentToggleResponse, error) {
	imamID, err := mosqueService.FirstImamID(ctx, s.DB, mosque.MosqueID)
	if err != nil {
		return nil, err
	}

	var request *model.MosqueAttachmentRequestModel

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		att := model.UserMosqueAttachmentModel{
			AttachmentUserID:   userID,
			AttachmentMosqueID: mosque.MosqueID,
		}
		if err := tx.Create(&att).Error; err != nil {
			if helper.IsDuplicateKey(err) {
				return fiber.NewError(fiber.StatusConflict, "Anda sudah terhubung dengan masjid ini")
			}
			return err
		}

		if imamID == nil {
			return nil
		}

		req := model.MosqueAttachmentRequestModel{
			MosqueAttachmentRequestUserID:         userID,
			MosqueAttachmentRequestMosqueID:       mosque.MosqueID,
			MosqueAttachmentRequestAssignedImamID: *imamID,
			MosqueAttachmentRequestMessage:        message,
		}
		if err := tx.Create(&req).Error; err != nil {
			if helper.IsDuplicateKey(err) {
				return fiber.NewError(fiber.StatusConflict, "Request verifikasi untuk masjid ini sudah ada")
			}
			return err
		}
		request = &req
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.AttachmentToggleResponse{
		Action:          dto.ToggleActionAttached,
		Mosque:          mosqueDTO.ToMosqueResponse(mosque),
		NoImamAvailable: imamID == nil,
	}
	if request != nil {
		r := dto.ToAttachmentRequestResponse(request)
		resp.Request = &r
	}
	return resp, nil
}

func (s *MosqueAttachmentService) detach(ctx context.Context, userID, mosqueID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("attachment_user_id = ? AND attachment_mosque_id = ?", userID, mosqueID).
			Delete(&model.UserMosqueAttachmentModel{}).Error; err != nil {
			return err
		}
		// Hanya request pending yang ikut terhapus; keputusan lama tetap jadi riwayat
		if err := tx.
			Where("mosque_attachment_request_user_id = ? AND mosque_attachment_request_mosque_id = ? AND mosque_attachment_request_status = ?",
				userID, mosqueID, model.RequestStatusPending).
			Delete(&model.MosqueAttachmentRequestModel{}).Error; err != nil {
			return err
		}
		return RecomputeUserVerification(ctx, tx, userID)
	})
}

// =========================
// Keputusan imam
// =========================

// loadOwnedRequest: ambil request + pastikan pemanggil adalah imam
// penanggung jawabnya. Imam lain dari masjid yang sama pun ditolak.
func (s *MosqueAttachmentService) loadOwnedRequest(ctx context.Context, requestID, imamID uuid.UUID) (*model.MosqueAttachmentRequestModel, error) {
	var req model.MosqueAttachmentRequestModel
	if err := s.DB.WithContext(ctx).
		First(&req, "mosque_attachment_request_id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Request verifikasi tidak ditemukan")
		}
		return nil, err
	}
	if req.MosqueAttachmentRequestAssignedImamID != imamID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Anda bukan imam penanggung jawab request ini")
	}
	return &req, nil
}

// ApproveRequest menyetujui request yang masih pending.
// Guard status ada di WHERE supaya dua keputusan bersamaan tidak
// saling menimpa: yang kalah dapat 409.
func (s *MosqueAttachmentService) ApproveRequest(ctx context.Context, requestID, imamID uuid.UUID, response string) (*model.MosqueAttachmentRequestModel, error) {
	req, err := s.loadOwnedRequest(ctx, requestID, imamID)
	if err != nil {
		return nil, err
	}

	cols, err := model.DecisionColumns(model.RequestStatusApproved, response, time.Now())
	if err != nil {
		return nil, err
	}

	res := s.DB.WithContext(ctx).
		Model(&model.MosqueAttachmentRequestModel{}).
		Where("mosque_attachment_request_id = ? AND mosque_attachment_request_status = ?", requestID, model.RequestStatusPending).
		Updates(cols)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fiber.NewError(fiber.StatusConflict, "Request sudah diproses")
	}

	if err := RecomputeUserVerification(ctx, s.DB, req.MosqueAttachmentRequestUserID); err != nil {
		return nil, err
	}

	s.notifyDecision(ctx, req, imamID,
		notifModel.NotificationTypeAttachmentApproved,
		realtime.EventVerificationApproved,
		"✅ Request verifikasi Anda disetujui imam")

	return s.reload(ctx, requestID)
}

// DenyRequest menolak request yang masih pending.
func (s *MosqueAttachmentService) DenyRequest(ctx context.Context, requestID, imamID uuid.UUID, reason string) (*model.MosqueAttachmentRequestModel, error) {
	req, err := s.loadOwnedRequest(ctx, requestID, imamID)
	if err != nil {
		return nil, err
	}

	cols, err := model.DecisionColumns(model.RequestStatusDenied, reason, time.Now())
	if err != nil {
		return nil, err
	}

	res := s.DB.WithContext(ctx).
		Model(&model.MosqueAttachmentRequestModel{}).
		Where("mosque_attachment_request_id = ? AND mosque_attachment_request_status = ?", requestID, model.RequestStatusPending).
		Updates(cols)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fiber.NewError(fiber.StatusConflict, "Request sudah diproses")
	}

	if err := RecomputeUserVerification(ctx, s.DB, req.MosqueAttachmentRequestUserID); err != nil {
		return nil, err
	}

	s.notifyDecision(ctx, req, imamID,
		notifModel.NotificationTypeAttachmentDenied,
		realtime.EventVerificationDenied,
		"❌ Request verifikasi Anda ditolak imam")

	return s.reload(ctx, requestID)
}

// UpdateResponse mengubah catatan approval. Request dipaksa berstatus
// approved dan sisa alasan penolakan dibersihkan, apapun status sebelumnya.
func (s *MosqueAttachmentService) UpdateResponse(ctx context.Context, requestID, imamID uuid.UUID, response string) (*model.MosqueAttachmentRequestModel, error) {
	req, err := s.loadOwnedRequest(ctx, requestID, imamID)
	if err != nil {
		return nil, err
	}

	cols, err := model.DecisionColumns(model.RequestStatusApproved, response, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).
		Model(&model.MosqueAttachmentRequestModel{}).
		Where("mosque_attachment_request_id = ?", requestID).
		Updates(cols).Error; err != nil {
		return nil, err
	}
	if err := RecomputeUserVerification(ctx, s.DB, req.MosqueAttachmentRequestUserID); err != nil {
		return nil, err
	}
	return s.reload(ctx, requestID)
}

// UpdateDenialReason mengubah alasan penolakan. Request dipaksa denied
// dan catatan approval dibersihkan.
func (s *MosqueAttachmentService) UpdateDenialReason(ctx context.Context, requestID, imamID uuid.UUID, reason string) (*model.MosqueAttachmentRequestModel, error) {
	req, err := s.loadOwnedRequest(ctx, requestID, imamID)
	if err != nil {
		return nil, err
	}

	cols, err := model.DecisionColumns(model.RequestStatusDenied, reason, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).
		Model(&model.MosqueAttachmentRequestModel{}).
		Where("mosque_attachment_request_id = ?", requestID).
		Updates(cols).Error; err != nil {
		return nil, err
	}
	if err := RecomputeUserVerification(ctx, s.DB, req.MosqueAttachmentRequestUserID); err != nil {
		return nil, err
	}
	return s.reload(ctx, requestID)
}

// ResetToPending mengembalikan request ke pending: status, kedua field
// catatan, dan stempel review semuanya dikosongkan.
func (s *MosqueAttachmentService) ResetToPending(ctx context.Context, requestID, imamID uuid.UUID) (*model.MosqueAttachmentRequestModel, error) {
	req, err := s.loadOwnedRequest(ctx, requestID, imamID)
	if err != nil {
		return nil, err
	}

	cols, err := model.DecisionColumns(model.RequestStatusPending, "", time.Time{})
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).
		Model(&model.MosqueAttachmentRequestModel{}).
		Where("mosque_attachment_request_id = ?", requestID).
		Updates(cols).Error; err != nil {
		return nil, err
	}
	if err := RecomputeUserVerification(ctx, s.DB, req.MosqueAttachmentRequestUserID); err != nil {
		return nil, err
	}
	return s.reload(ctx, requestID)
}

// =========================
// Listing
// =========================

// ListRequestsForImam: request yang ditujukan ke imam ini, opsional
// difilter status, terbaru duluan.
func (s *MosqueAttachmentService) ListRequestsForImam(ctx context.Context, imamID uuid.UUID, status string, p helper.Paging) ([]dto.AttachmentRequestResponse, int64, error) {
	q := s.DB.WithContext(ctx).
		Model(&model.MosqueAttachmentRequestModel{}).
		Where("mosque_attachment_request_assigned_imam_id = ?", imamID)
	if status != "" {
		q = q.Where("mosque_attachment_request_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.MosqueAttachmentRequestModel
	if err := q.
		Order("mosque_attachment_request_created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]dto.AttachmentRequestResponse, 0, len(rows))
	for i := range rows {
		r := dto.ToAttachmentRequestResponse(&rows[i])
		if u, err := s.requesterSummary(ctx, rows[i].MosqueAttachmentRequestUserID); err == nil {
			r.Requester = u
		}
		out = append(out, r)
	}
	return out, total, nil
}

// ListMyRequests: semua request milik user, untuk layar status verifikasi.
func (s *MosqueAttachmentService) ListMyRequests(ctx context.Context, userID uuid.UUID) ([]dto.AttachmentRequestResponse, error) {
	var rows []model.MosqueAttachmentRequestModel
	if err := s.DB.WithContext(ctx).
		Where("mosque_attachment_request_user_id = ?", userID).
		Order("mosque_attachment_request_created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]dto.AttachmentRequestResponse, 0, len(rows))
	for i := range rows {
		r := dto.ToAttachmentRequestResponse(&rows[i])
		var mosque mosqueModel.MosqueModel
		if err := s.DB.WithContext(ctx).
			First(&mosque, "mosque_id = ?", rows[i].MosqueAttachmentRequestMosqueID).Error; err == nil {
			m := mosqueDTO.ToMosqueResponse(&mosque)
			r.Mosque = &m
		}
		out = append(out, r)
	}
	return out, nil
}

// ListMyAttachments: masjid yang diikuti user beserta status verified per masjid.
func (s *MosqueAttachmentService) ListMyAttachments(ctx context.Context, userID uuid.UUID) ([]dto.MyAttachmentResponse, error) {
	var atts []model.UserMosqueAttachmentModel
	if err := s.DB.WithContext(ctx).
		Where("attachment_user_id = ?", userID).
		Order("attachment_created_at DESC").
		Find(&atts).Error; err != nil {
		return nil, err
	}

	out := make([]dto.MyAttachmentResponse, 0, len(atts))
	for _, att := range atts {
		var mosque mosqueModel.MosqueModel
		if err := s.DB.WithContext(ctx).
			First(&mosque, "mosque_id = ?", att.AttachmentMosqueID).Error; err != nil {
			continue
		}
		out = append(out, dto.MyAttachmentResponse{
			Mosque:     mosqueDTO.ToMosqueResponse(&mosque),
			IsVerified: att.AttachmentIsVerified,
			AttachedAt: att.AttachmentCreatedAt,
		})
	}
	return out, nil
}

// =========================
// Agregator verifikasi
// =========================

// RecomputeUserVerification menurunkan ulang status verified user dari
// nol: user verified bila punya >=1 request approved. Flag per-attachment
// ikut disegarkan. Monoton terhadap urutan pemanggilan, aman dipanggil kapan pun.
func RecomputeUserVerification(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	var approved []model.MosqueAttachmentRequestModel
	if err := db.WithContext(ctx).
		Where("mosque_attachment_request_user_id = ? AND mosque_attachment_request_status = ?",
			userID, model.RequestStatusApproved).
		Find(&approved).Error; err != nil {
		return err
	}

	approvedMosques := make(map[uuid.UUID]bool, len(approved))
	for _, r := range approved {
		approvedMosques[r.MosqueAttachmentRequestMosqueID] = true
	}

	if err := db.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Where("user_id = ?", userID).
		Update("user_is_verified", len(approved) > 0).Error; err != nil {
		return err
	}

	var atts []model.UserMosqueAttachmentModel
	if err := db.WithContext(ctx).
		Where("attachment_user_id = ?", userID).
		Find(&atts).Error; err != nil {
		return err
	}
	for _, att := range atts {
		want := approvedMosques[att.AttachmentMosqueID]
		if att.AttachmentIsVerified == want {
			continue
		}
		if err := db.WithContext(ctx).
			Model(&model.UserMosqueAttachmentModel{}).
			Where("attachment_user_id = ? AND attachment_mosque_id = ?", userID, att.AttachmentMosqueID).
			Update("attachment_is_verified", want).Error; err != nil {
			return err
		}
	}
	return nil
}

// =========================
// Internal
// =========================

func (s *MosqueAttachmentService) reload(ctx context.Context, requestID uuid.UUID) (*model.MosqueAttachmentRequestModel, error) {
	var req model.MosqueAttachmentRequestModel
	if err := s.DB.WithContext(ctx).
		First(&req, "mosque_attachment_request_id = ?", requestID).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *MosqueAttachmentService) requesterSummary(ctx context.Context, userID uuid.UUID) (*dto.RequesterSummary, error) {
	var u userModel.UserModel
	if err := s.DB.WithContext(ctx).First(&u, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &dto.RequesterSummary{
		UserID:     u.UserID,
		FirstName:  u.UserFirstName,
		LastName:   u.UserLastName,
		PhotoURL:   u.UserPhotoURL,
		IsVerified: u.UserIsVerified,
	}, nil
}

// notifyDecision: notifikasi + event realtime ke pemilik request.
// Gagal di sini tidak menggagalkan keputusan, cukup di-log.
func (s *MosqueAttachmentService) notifyDecision(ctx context.Context, req *model.MosqueAttachmentRequestModel, imamID uuid.UUID, ntype, event, content string) {
	if _, err := notifService.Create(ctx, s.DB, req.MosqueAttachmentRequestUserID, ntype, &imamID, content); err != nil {
		log.Printf("[WARN] gagal membuat notifikasi %s: %v", ntype, err)
	}
	payload := fiber.Map{
		"request_id": req.MosqueAttachmentRequestID,
		"mosque_id":  req.MosqueAttachmentRequestMosqueID,
		"type":       ntype,
		"content":    content,
	}
	if err := s.RT.EmitToUser(ctx, req.MosqueAttachmentRequestUserID, event, payload); err != nil {
		log.Printf("[WARN] gagal emit event %s: %v", event, err)
	}
	if err := s.RT.EmitToUser(ctx, req.MosqueAttachmentRequestUserID, realtime.EventNewNotification, payload); err != nil {
		log.Printf("[WARN] gagal emit notifikasi realtime: %v", err)
	}
}
