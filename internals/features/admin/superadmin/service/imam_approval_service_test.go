package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"nikahku_backend/internals/features/admin/superadmin/dto"
	attachModel "nikahku_backend/internals/features/mosques/attachments/model"
	mosqueModel "nikahku_backend/internals/features/mosques/mosques/model"
	notifModel "nikahku_backend/internals/features/notifications/model"
	userModel "nikahku_backend/internals/features/users/user/model"
)

type recorderEmitter struct {
	mu     sync.Mutex
	events []string
}

func (r *recorderEmitter) EmitToUser(ctx context.Context, userID uuid.UUID, event string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorderEmitter) EmitToRoom(ctx context.Context, roomID string, event string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&userModel.UserModel{},
		&userModel.ImamManagedMosqueModel{},
		&mosqueModel.MosqueModel{},
		&mosqueModel.MosqueImamModel{},
		&attachModel.UserMosqueAttachmentModel{},
		&attachModel.MosqueAttachmentRequestModel{},
		&notifModel.NotificationModel{},
	))
	return db
}

func newService(t *testing.T) *ImamApprovalService {
	t.Helper()
	return NewImamApprovalService(setupTestDB(t), &recorderEmitter{})
}

func createImam(t *testing.T, db *gorm.DB) *userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		UserEmail: uuid.NewString() + "@example.com",
		UserRole:  "imam",
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func createSuperadmin(t *testing.T, db *gorm.DB) *userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		UserEmail: uuid.NewString() + "@example.com",
		UserRole:  "superadmin",
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func createMosque(t *testing.T, db *gorm.DB, name string) *mosqueModel.MosqueModel {
	t.Helper()
	ext := uuid.NewString()
	m := mosqueModel.MosqueModel{
		MosqueExternalID: &ext,
		MosqueName:       name,
		MosqueAddress:    "Jl. Contoh",
	}
	require.NoError(t, db.Create(&m).Error)
	return &m
}

func attachToMosque(t *testing.T, db *gorm.DB, userID, mosqueID uuid.UUID) {
	t.Helper()
	require.NoError(t, db.Create(&attachModel.UserMosqueAttachmentModel{
		AttachmentUserID:   userID,
		AttachmentMosqueID: mosqueID,
	}).Error)
}

func fiberCode(t *testing.T, err error) int {
	t.Helper()
	fe, ok := err.(*fiber.Error)
	require.True(t, ok, "expected *fiber.Error, got %v", err)
	return fe.Code
}

func TestApproveImam_RequiresAtLeastOneMosque(t *testing.T) {
	svc := newService(t)
	imam := createImam(t, svc.DB)
	admin := createSuperadmin(t, svc.DB)

	_, err := svc.ApproveImam(context.Background(), imam.UserID, admin.UserID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))
}

func TestApproveImam_AssignsAllAttachedMosques(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	imam := createImam(t, svc.DB)
	admin := createSuperadmin(t, svc.DB)
	mosqueA := createMosque(t, svc.DB, "Masjid A")
	mosqueB := createMosque(t, svc.DB, "Masjid B")
	attachToMosque(t, svc.DB, imam.UserID, mosqueA.MosqueID)
	attachToMosque(t, svc.DB, imam.UserID, mosqueB.MosqueID)

	result, err := svc.ApproveImam(ctx, imam.UserID, admin.UserID)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Equal(t, userModel.ImamStatusApproved, result.Imam.ImamApprovalStatus)
	assert.Len(t, result.Imam.ManagedMosques, 2)

	var imamCount int64
	svc.DB.Model(&mosqueModel.MosqueImamModel{}).
		Where("mosque_imam_user_id = ?", imam.UserID).Count(&imamCount)
	assert.EqualValues(t, 2, imamCount)

	// Masjid pertama jadi default
	var defaults int64
	svc.DB.Model(&userModel.ImamManagedMosqueModel{}).
		Where("imam_managed_imam_id = ? AND imam_managed_is_default = ?", imam.UserID, true).
		Count(&defaults)
	assert.EqualValues(t, 1, defaults)
}

func TestApproveImam_IsIdempotentOnAssignments(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	imam := createImam(t, svc.DB)
	admin := createSuperadmin(t, svc.DB)
	mosque := createMosque(t, svc.DB, "Masjid A")
	attachToMosque(t, svc.DB, imam.UserID, mosque.MosqueID)

	_, err := svc.ApproveImam(ctx, imam.UserID, admin.UserID)
	require.NoError(t, err)
	result, err := svc.ApproveImam(ctx, imam.UserID, admin.UserID)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)

	var count int64
	svc.DB.Model(&mosqueModel.MosqueImamModel{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDenyImam_KeepsExistingAssignments(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	imam := createImam(t, svc.DB)
	admin := createSuperadmin(t, svc.DB)
	mosque := createMosque(t, svc.DB, "Masjid A")
	attachToMosque(t, svc.DB, imam.UserID, mosque.MosqueID)

	_, err := svc.ApproveImam(ctx, imam.UserID, admin.UserID)
	require.NoError(t, err)

	result, err := svc.DenyImam(ctx, imam.UserID, admin.UserID, "Dokumen tidak lengkap")
	require.NoError(t, err)
	assert.Equal(t, userModel.ImamStatusDenied, result.ImamApprovalStatus)
	require.NotNil(t, result.DeniedReason)
	assert.Equal(t, "Dokumen tidak lengkap", *result.DeniedReason)

	// Deny tidak mencabut penugasan; pencabutan lewat UpdateImamStatus
	var count int64
	svc.DB.Model(&mosqueModel.MosqueImamModel{}).
		Where("mosque_imam_user_id = ?", imam.UserID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDenyImam_ClearsVerifiedFlag(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	imam := createImam(t, svc.DB)
	admin := createSuperadmin(t, svc.DB)
	require.NoError(t, svc.DB.Model(&userModel.UserModel{}).
		Where("user_id = ?", imam.UserID).
		Update("user_is_verified", true).Error)

	_, err := svc.DenyImam(ctx, imam.UserID, admin.UserID, "Identitas meragukan")
	require.NoError(t, err)

	var got userModel.UserModel
	require.NoError(t, svc.DB.First(&got, "user_id = ?", imam.UserID).Error)
	assert.False(t, got.UserIsVerified)
	assert.Equal(t, userModel.ImamStatusDenied, got.UserImamApprovalStatus)
}

func TestUpdateImamStatus_LeavingApprovedPullsFromAllMosques(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	imam := createImam(t, svc.DB)
	admin := createSuperadmin(t, svc.DB)
	mosqueA := createMosque(t, svc.DB, "Masjid A")
	mosqueB := createMosque(t, svc.DB, "Masjid B")
	attachToMosque(t, svc.DB, imam.UserID, mosqueA.MosqueID)
	attachToMosque(t, svc.DB, imam.UserID, mosqueB.MosqueID)

	_, err := svc.ApproveImam(ctx, imam.UserID, admin.UserID)
	require.NoError(t, err)

	result, err := svc.UpdateImamStatus(ctx, imam.UserID, admin.UserID,
		&dto.UpdateImamStatusDTO{Status: userModel.ImamStatusPending})
	require.NoError(t, err)
	assert.Equal(t, userModel.ImamStatusPending, result.ImamApprovalStatus)
	assert.Nil(t, result.DeniedReason)
	assert.Empty(t, result.ManagedMosques)

	var count int64
	svc.DB.Model(&mosqueModel.MosqueImamModel{}).
		Where("mosque_imam_user_id = ?", imam.UserID).Count(&count)
	assert.Zero(t, count)
}

func TestUpdateImamStatus_ApprovedWithExplicitMosques(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	imam := createImam(t, svc.DB)
	admin := createSuperadmin(t, svc.DB)
	mosqueA := createMosque(t, svc.DB, "Masjid A")
	mosqueB := createMosque(t, svc.DB, "Masjid B")

	// Jalur langsung: tanpa attachment sama sekali, daftar masjid
	// datang dari superadmin
	result, err := svc.UpdateImamStatus(ctx, imam.UserID, admin.UserID, &dto.UpdateImamStatusDTO{
		Status:         userModel.ImamStatusApproved,
		ManagedMosques: []uuid.UUID{mosqueA.MosqueID, mosqueB.MosqueID},
	})
	require.NoError(t, err)
	assert.Equal(t, userModel.ImamStatusApproved, result.ImamApprovalStatus)
	require.Len(t, result.ManagedMosques, 2)
	assert.Equal(t, mosqueA.MosqueID, result.ManagedMosques[0].MosqueID)
	assert.True(t, result.ManagedMosques[0].IsDefault)

	// Daftar berikutnya otoritatif: masjid lama yang tidak disebut hilang
	result, err = svc.UpdateImamStatus(ctx, imam.UserID, admin.UserID, &dto.UpdateImamStatusDTO{
		Status:         userModel.ImamStatusApproved,
		ManagedMosques: []uuid.UUID{mosqueB.MosqueID},
	})
	require.NoError(t, err)
	require.Len(t, result.ManagedMosques, 1)
	assert.Equal(t, mosqueB.MosqueID, result.ManagedMosques[0].MosqueID)
}

func TestUpdateImamStatus_ApprovedWithoutListKeepsAssignments(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	imam := createImam(t, svc.DB)
	admin := createSuperadmin(t, svc.DB)

	result, err := svc.UpdateImamStatus(ctx, imam.UserID, admin.UserID,
		&dto.UpdateImamStatusDTO{Status: userModel.ImamStatusApproved})
	require.NoError(t, err)
	assert.Equal(t, userModel.ImamStatusApproved, result.ImamApprovalStatus)
	assert.Empty(t, result.ManagedMosques)
}

func TestUpdateImamStatus_DeniedStoresReasonAndClearsVerified(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	imam := createImam(t, svc.DB)
	admin := createSuperadmin(t, svc.DB)
	require.NoError(t, svc.DB.Model(&userModel.UserModel{}).
		Where("user_id = ?", imam.UserID).
		Update("user_is_verified", true).Error)

	result, err := svc.UpdateImamStatus(ctx, imam.UserID, admin.UserID, &dto.UpdateImamStatusDTO{
		Status:       userModel.ImamStatusDenied,
		DeniedReason: "Nomor kontak tidak bisa dihubungi",
	})
	require.NoError(t, err)
	assert.Equal(t, userModel.ImamStatusDenied, result.ImamApprovalStatus)
	require.NotNil(t, result.DeniedReason)
	assert.Equal(t, "Nomor kontak tidak bisa dihubungi", *result.DeniedReason)

	var got userModel.UserModel
	require.NoError(t, svc.DB.First(&got, "user_id = ?", imam.UserID).Error)
	assert.False(t, got.UserIsVerified)
}

func TestApproveImam_RejectsNonImam(t *testing.T) {
	svc := newService(t)
	member := userModel.UserModel{
		UserEmail: uuid.NewString() + "@example.com",
		UserRole:  "male",
	}
	require.NoError(t, svc.DB.Create(&member).Error)
	admin := createSuperadmin(t, svc.DB)

	_, err := svc.ApproveImam(context.Background(), member.UserID, admin.UserID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))
}

func TestRemoveImamFromMosque(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	imam := createImam(t, svc.DB)
	admin := createSuperadmin(t, svc.DB)
	mosque := createMosque(t, svc.DB, "Masjid A")
	attachToMosque(t, svc.DB, imam.UserID, mosque.MosqueID)

	_, err := svc.ApproveImam(ctx, imam.UserID, admin.UserID)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveImamFromMosque(ctx, imam.UserID, mosque.MosqueID))

	err = svc.RemoveImamFromMosque(ctx, imam.UserID, mosque.MosqueID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, fiberCode(t, err))
}
