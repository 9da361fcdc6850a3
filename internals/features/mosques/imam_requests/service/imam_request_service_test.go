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

	"nikahku_backend/internals/features/mosques/imam_requests/dto"
	"nikahku_backend/internals/features/mosques/imam_requests/model"
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
		&model.ImamMosqueRequestModel{},
		&notifModel.NotificationModel{},
	))
	return db
}

func newService(t *testing.T) *ImamMosqueRequestService {
	t.Helper()
	return NewImamMosqueRequestService(setupTestDB(t), &recorderEmitter{})
}

func createImam(t *testing.T, db *gorm.DB) *userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		UserEmail:              uuid.NewString() + "@example.com",
		UserRole:               "imam",
		UserImamApprovalStatus: userModel.ImamStatusApproved,
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

func fiberCode(t *testing.T, err error) int {
	t.Helper()
	fe, ok := err.(*fiber.Error)
	require.True(t, ok, "expected *fiber.Error, got %v", err)
	return fe.Code
}

func TestCreateRequests_PartialSuccess(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	imam := createImam(t, svc.DB)
	mosqueA := createMosque(t, svc.DB, "Masjid A")
	mosqueB := createMosque(t, svc.DB, "Masjid B")

	// Request pertama ke mosqueA sudah ada
	first, errs, err := svc.CreateRequests(ctx, imam.UserID, &dto.CreateImamMosqueRequestsDTO{
		Requests: []dto.ImamMosqueRequestItem{{MosqueRef: mosqueA.MosqueID.String()}},
	})
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Len(t, first, 1)

	created, errs, err := svc.CreateRequests(ctx, imam.UserID, &dto.CreateImamMosqueRequestsDTO{
		Requests: []dto.ImamMosqueRequestItem{
			{MosqueRef: mosqueA.MosqueID.String(), Message: "duplikat"},
			{MosqueRef: mosqueB.MosqueID.String(), Message: "baru"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, created, 1)
	assert.Equal(t, mosqueB.MosqueID, created[0].MosqueID)
	require.Len(t, errs, 1)
	assert.Equal(t, mosqueA.MosqueID.String(), errs[0].MosqueRef)
}

func TestCreateRequests_UnknownMosqueCollected(t *testing.T) {
	svc := newService(t)
	imam := createImam(t, svc.DB)

	created, errs, err := svc.CreateRequests(context.Background(), imam.UserID, &dto.CreateImamMosqueRequestsDTO{
		Requests: []dto.ImamMosqueRequestItem{{MosqueRef: "tidak-ada"}},
	})
	require.NoError(t, err)
	assert.Empty(t, created)
	require.Len(t, errs, 1)
	assert.Equal(t, "tidak-ada", errs[0].MosqueRef)
}

func TestApprove_AddsAssignment(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	imam := createImam(t, svc.DB)
	admin := createImam(t, svc.DB) // role tidak dicek di service, cukup id reviewer
	mosque := createMosque(t, svc.DB, "Masjid A")

	created, errs, err := svc.CreateRequests(ctx, imam.UserID, &dto.CreateImamMosqueRequestsDTO{
		Requests: []dto.ImamMosqueRequestItem{{MosqueRef: mosque.MosqueID.String()}},
	})
	require.NoError(t, err)
	require.Empty(t, errs)

	req, err := svc.Approve(ctx, created[0].RequestID, admin.UserID, "Silakan bertugas")
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusApproved, req.ImamMosqueRequestStatus)
	require.NotNil(t, req.ImamMosqueRequestReviewedBy)
	assert.Equal(t, admin.UserID, *req.ImamMosqueRequestReviewedBy)
	assert.NotNil(t, req.ImamMosqueRequestReviewedAt)
	require.NotNil(t, req.ImamMosqueRequestSuperadminResponse)
	assert.Equal(t, "Silakan bertugas", *req.ImamMosqueRequestSuperadminResponse)
	assert.Nil(t, req.ImamMosqueRequestDenialReason)

	var count int64
	svc.DB.Model(&mosqueModel.MosqueImamModel{}).
		Where("mosque_imam_mosque_id = ? AND mosque_imam_user_id = ?", mosque.MosqueID, imam.UserID).
		Count(&count)
	assert.EqualValues(t, 1, count)

	var managed int64
	svc.DB.Model(&userModel.ImamManagedMosqueModel{}).
		Where("imam_managed_imam_id = ?", imam.UserID).Count(&managed)
	assert.EqualValues(t, 1, managed)
}

func TestApprove_AlreadyDecidedConflicts(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	imam := createImam(t, svc.DB)
	admin := createImam(t, svc.DB)
	mosque := createMosque(t, svc.DB, "Masjid A")

	created, errs, err := svc.CreateRequests(ctx, imam.UserID, &dto.CreateImamMosqueRequestsDTO{
		Requests: []dto.ImamMosqueRequestItem{{MosqueRef: mosque.MosqueID.String()}},
	})
	require.NoError(t, err)
	require.Empty(t, errs)

	_, err = svc.Approve(ctx, created[0].RequestID, admin.UserID, "")
	require.NoError(t, err)

	_, err = svc.Deny(ctx, created[0].RequestID, admin.UserID, "terlambat")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, fiberCode(t, err))
}

func TestCreateRequests_AlreadyAssignedSkipped(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	imam := createImam(t, svc.DB)
	mosque := createMosque(t, svc.DB, "Masjid A")

	// Imam sudah terdaftar di masjid (mis. lewat approval akun),
	// tanpa baris request sama sekali
	require.NoError(t, svc.DB.Create(&mosqueModel.MosqueImamModel{
		MosqueImamMosqueID: mosque.MosqueID,
		MosqueImamUserID:   imam.UserID,
	}).Error)

	created, errs, err := svc.CreateRequests(ctx, imam.UserID, &dto.CreateImamMosqueRequestsDTO{
		Requests: []dto.ImamMosqueRequestItem{{MosqueRef: mosque.MosqueID.String()}},
	})
	require.NoError(t, err)
	assert.Empty(t, created)
	require.Len(t, errs, 1)
	assert.Equal(t, mosque.MosqueID.String(), errs[0].MosqueRef)

	var count int64
	svc.DB.Model(&model.ImamMosqueRequestModel{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateRequests_UnapprovedImamForbidden(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	pending := userModel.UserModel{
		UserEmail: uuid.NewString() + "@example.com",
		UserRole:  "imam",
	}
	require.NoError(t, svc.DB.Create(&pending).Error)
	mosque := createMosque(t, svc.DB, "Masjid A")

	_, _, err := svc.CreateRequests(ctx, pending.UserID, &dto.CreateImamMosqueRequestsDTO{
		Requests: []dto.ImamMosqueRequestItem{{MosqueRef: mosque.MosqueID.String()}},
	})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusForbidden, fiberCode(t, err))
}

func TestDeny_RecordsReason(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	imam := createImam(t, svc.DB)
	admin := createImam(t, svc.DB)
	mosque := createMosque(t, svc.DB, "Masjid A")

	created, errs, err := svc.CreateRequests(ctx, imam.UserID, &dto.CreateImamMosqueRequestsDTO{
		Requests: []dto.ImamMosqueRequestItem{{MosqueRef: mosque.MosqueID.String()}},
	})
	require.NoError(t, err)
	require.Empty(t, errs)

	req, err := svc.Deny(ctx, created[0].RequestID, admin.UserID, "Masjid sudah punya imam tetap")
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusDenied, req.ImamMosqueRequestStatus)
	require.NotNil(t, req.ImamMosqueRequestDenialReason)
	assert.Equal(t, "Masjid sudah punya imam tetap", *req.ImamMosqueRequestDenialReason)
	assert.Nil(t, req.ImamMosqueRequestSuperadminResponse)
}

func TestUpdateStatus_DeniedRemovesAssignment(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	imam := createImam(t, svc.DB)
	admin := createImam(t, svc.DB)
	mosque := createMosque(t, svc.DB, "Masjid A")

	created, errs, err := svc.CreateRequests(ctx, imam.UserID, &dto.CreateImamMosqueRequestsDTO{
		Requests: []dto.ImamMosqueRequestItem{{MosqueRef: mosque.MosqueID.String()}},
	})
	require.NoError(t, err)
	require.Empty(t, errs)

	_, err = svc.Approve(ctx, created[0].RequestID, admin.UserID, "")
	require.NoError(t, err)

	req, err := svc.UpdateStatus(ctx, created[0].RequestID, admin.UserID, model.RequestStatusDenied)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusDenied, req.ImamMosqueRequestStatus)

	var count int64
	svc.DB.Model(&mosqueModel.MosqueImamModel{}).
		Where("mosque_imam_user_id = ?", imam.UserID).Count(&count)
	assert.Zero(t, count)
}

func TestUpdateStatus_BackToPendingClearsReviewStamps(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	imam := createImam(t, svc.DB)
	admin := createImam(t, svc.DB)
	mosque := createMosque(t, svc.DB, "Masjid A")

	created, errs, err := svc.CreateRequests(ctx, imam.UserID, &dto.CreateImamMosqueRequestsDTO{
		Requests: []dto.ImamMosqueRequestItem{{MosqueRef: mosque.MosqueID.String()}},
	})
	require.NoError(t, err)
	require.Empty(t, errs)

	_, err = svc.Approve(ctx, created[0].RequestID, admin.UserID, "")
	require.NoError(t, err)

	req, err := svc.UpdateStatus(ctx, created[0].RequestID, admin.UserID, model.RequestStatusPending)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, req.ImamMosqueRequestStatus)
	assert.Nil(t, req.ImamMosqueRequestReviewedBy)
	assert.Nil(t, req.ImamMosqueRequestReviewedAt)
}
