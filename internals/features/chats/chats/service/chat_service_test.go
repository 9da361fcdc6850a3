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

	"nikahku_backend/internals/features/chats/chats/dto"
	"nikahku_backend/internals/features/chats/chats/model"
	notifModel "nikahku_backend/internals/features/notifications/model"
	blockModel "nikahku_backend/internals/features/users/blocks/model"
	userModel "nikahku_backend/internals/features/users/user/model"
	userService "nikahku_backend/internals/features/users/user/service"
	helper "nikahku_backend/internals/helpers"
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

func (r *recorderEmitter) has(event string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&userModel.UserModel{},
		&userModel.UserAccessGrantModel{},
		&blockModel.UserBlockModel{},
		&model.ChatMessageModel{},
		&notifModel.NotificationModel{},
	))
	return db
}

func newService(t *testing.T) (*ChatService, *recorderEmitter) {
	t.Helper()
	rt := &recorderEmitter{}
	return NewChatService(setupTestDB(t), rt), rt
}

func createUser(t *testing.T, db *gorm.DB, role string) *userModel.UserModel {
	t.Helper()
	wali := "Bapak Ahmad"
	contact := "+628123456789"
	u := userModel.UserModel{
		UserEmail:       uuid.NewString() + "@example.com",
		UserRole:        role,
		UserWaliName:    &wali,
		UserWaliContact: &contact,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func fiberCode(t *testing.T, err error) int {
	t.Helper()
	fe, ok := err.(*fiber.Error)
	require.True(t, ok, "expected *fiber.Error, got %v", err)
	return fe.Code
}

func TestSendMessage_BlockedPairForbidden(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	a := createUser(t, svc.DB, "male")
	b := createUser(t, svc.DB, "female")
	require.NoError(t, svc.DB.Create(&blockModel.UserBlockModel{
		BlockUserID:        b.UserID,
		BlockBlockedUserID: a.UserID,
	}).Error)

	// Pihak yang diblokir pun tidak bisa mengirim
	_, err := svc.SendMessage(ctx, a.UserID, &dto.SendMessageRequest{
		ReceiverID: b.UserID,
		Text:       "assalamualaikum",
	})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusForbidden, fiberCode(t, err))
}

func TestSendMessage_SelfChatRejected(t *testing.T) {
	svc, _ := newService(t)
	a := createUser(t, svc.DB, "male")

	_, err := svc.SendMessage(context.Background(), a.UserID, &dto.SendMessageRequest{
		ReceiverID: a.UserID,
		Text:       "halo",
	})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))
}

func TestRequestAccess_CreatesProtocolMessage(t *testing.T) {
	svc, rt := newService(t)
	ctx := context.Background()

	requester := createUser(t, svc.DB, "male")
	owner := createUser(t, svc.DB, "female")

	msg, err := svc.RequestAccess(ctx, requester.UserID, &dto.AccessRequestDTO{
		OwnerID: owner.UserID,
		Kind:    "photo",
	})
	require.NoError(t, err)
	assert.Equal(t, model.MessageTypePhotoRequest, msg.ChatMessageType)
	assert.Equal(t, "photo", msg.ChatMessageMetadata["kind"])
	assert.True(t, rt.has("newMessage"))
}

func TestRequestAccess_ExistingGrantConflicts(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	requester := createUser(t, svc.DB, "male")
	owner := createUser(t, svc.DB, "female")
	require.NoError(t, userService.AddGrant(ctx, svc.DB, owner.UserID, requester.UserID, userModel.GrantKindPhoto))

	_, err := svc.RequestAccess(ctx, requester.UserID, &dto.AccessRequestDTO{
		OwnerID: owner.UserID,
		Kind:    "photo",
	})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, fiberCode(t, err))
}

func TestRespondToAccess_AcceptRecordsGrant(t *testing.T) {
	svc, rt := newService(t)
	ctx := context.Background()

	requester := createUser(t, svc.DB, "male")
	owner := createUser(t, svc.DB, "female")

	reqMsg, err := svc.RequestAccess(ctx, requester.UserID, &dto.AccessRequestDTO{
		OwnerID: owner.UserID,
		Kind:    "wali",
	})
	require.NoError(t, err)

	respMsg, err := svc.RespondToAccess(ctx, owner.UserID, &dto.AccessResponseDTO{
		RequestMessageID: reqMsg.ChatMessageID,
		Response:         model.AccessResponseAccept,
	})
	require.NoError(t, err)
	assert.Equal(t, model.MessageTypeWaliResponse, respMsg.ChatMessageType)
	assert.Equal(t, "accept", respMsg.ChatMessageMetadata["response"])
	assert.Equal(t, reqMsg.ChatMessageID.String(), respMsg.ChatMessageMetadata["request_message_id"])

	has, err := userService.HasGrant(ctx, svc.DB, owner.UserID, requester.UserID, userModel.GrantKindWali)
	require.NoError(t, err)
	assert.True(t, has)
	assert.True(t, rt.has("waliAccessApproved"))
}

func TestRespondToAccess_AcceptTwiceStaysSingleGrant(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	requester := createUser(t, svc.DB, "male")
	owner := createUser(t, svc.DB, "female")

	reqMsg, err := svc.RequestAccess(ctx, requester.UserID, &dto.AccessRequestDTO{
		OwnerID: owner.UserID,
		Kind:    "photo",
	})
	require.NoError(t, err)

	in := &dto.AccessResponseDTO{
		RequestMessageID: reqMsg.ChatMessageID,
		Response:         model.AccessResponseAccept,
	}
	_, err = svc.RespondToAccess(ctx, owner.UserID, in)
	require.NoError(t, err)
	_, err = svc.RespondToAccess(ctx, owner.UserID, in)
	require.NoError(t, err)

	var count int64
	svc.DB.Model(&userModel.UserAccessGrantModel{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRespondToAccess_LaterGrantsNothing(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	requester := createUser(t, svc.DB, "male")
	owner := createUser(t, svc.DB, "female")

	reqMsg, err := svc.RequestAccess(ctx, requester.UserID, &dto.AccessRequestDTO{
		OwnerID: owner.UserID,
		Kind:    "photo",
	})
	require.NoError(t, err)

	_, err = svc.RespondToAccess(ctx, owner.UserID, &dto.AccessResponseDTO{
		RequestMessageID: reqMsg.ChatMessageID,
		Response:         model.AccessResponseLater,
	})
	require.NoError(t, err)

	has, err := userService.HasGrant(ctx, svc.DB, owner.UserID, requester.UserID, userModel.GrantKindPhoto)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRespondToAccess_OnlyReceiverMayAnswer(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	requester := createUser(t, svc.DB, "male")
	owner := createUser(t, svc.DB, "female")
	outsider := createUser(t, svc.DB, "female")

	reqMsg, err := svc.RequestAccess(ctx, requester.UserID, &dto.AccessRequestDTO{
		OwnerID: owner.UserID,
		Kind:    "photo",
	})
	require.NoError(t, err)

	_, err = svc.RespondToAccess(ctx, outsider.UserID, &dto.AccessResponseDTO{
		RequestMessageID: reqMsg.ChatMessageID,
		Response:         model.AccessResponseAccept,
	})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusForbidden, fiberCode(t, err))
}

func TestRespondToAccess_PlainMessageRejected(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	a := createUser(t, svc.DB, "male")
	b := createUser(t, svc.DB, "female")

	msg, err := svc.SendMessage(ctx, a.UserID, &dto.SendMessageRequest{
		ReceiverID: b.UserID,
		Text:       "halo",
	})
	require.NoError(t, err)

	_, err = svc.RespondToAccess(ctx, b.UserID, &dto.AccessResponseDTO{
		RequestMessageID: msg.ChatMessageID,
		Response:         model.AccessResponseAccept,
	})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))
}

func TestHistoryMarkReadAndUnreadCount(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	a := createUser(t, svc.DB, "male")
	b := createUser(t, svc.DB, "female")

	for i := 0; i < 3; i++ {
		_, err := svc.SendMessage(ctx, a.UserID, &dto.SendMessageRequest{
			ReceiverID: b.UserID,
			Text:       fmt.Sprintf("pesan %d", i),
		})
		require.NoError(t, err)
	}

	history, total, err := svc.GetHistory(ctx, b.UserID, a.UserID, helper.Paging{Page: 1, PerPage: 10, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, history, 3)

	unread, err := svc.UnreadCount(ctx, b.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, unread)

	updated, err := svc.MarkRead(ctx, b.UserID, a.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, updated)

	unread, err = svc.UnreadCount(ctx, b.UserID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
