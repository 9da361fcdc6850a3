package controller

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"nikahku_backend/internals/features/users/blocks/model"
	userModel "nikahku_backend/internals/features/users/user/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&userModel.UserModel{},
		&model.UserBlockModel{},
	))
	return db
}

// setupApp memasang controller di fiber app dengan auth stub yang
// menaruh user_id di Locals seperti middleware JWT aslinya.
func setupApp(t *testing.T, db *gorm.DB, asUser uuid.UUID) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", asUser.String())
		return c.Next()
	})

	ctrl := NewBlockController(db)
	app.Get("/blocks", ctrl.GetBlocks)
	app.Post("/blocks/:id", ctrl.BlockUser)
	app.Delete("/blocks/:id", ctrl.UnblockUser)
	return app
}

func createUser(t *testing.T, db *gorm.DB) *userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		UserEmail: uuid.NewString() + "@example.com",
		UserRole:  "member",
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func doReq(t *testing.T, app *fiber.App, method, path string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, sonic.Unmarshal(raw, &body))
	return body
}

func TestBlockEndpoints_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	me := createUser(t, db)
	other := createUser(t, db)
	app := setupApp(t, db, me.UserID)

	resp := doReq(t, app, http.MethodPost, "/blocks/"+other.UserID.String())
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Blokir ulang bentrok di primary key pasangan
	resp = doReq(t, app, http.MethodPost, "/blocks/"+other.UserID.String())
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = doReq(t, app, http.MethodGet, "/blocks")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.Equal(t, []any{other.UserID.String()}, data["blocked"].([]any))
	assert.Empty(t, data["blocked_by"])

	resp = doReq(t, app, http.MethodDelete, "/blocks/"+other.UserID.String())
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doReq(t, app, http.MethodDelete, "/blocks/"+other.UserID.String())
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestBlockEndpoints_SelfAndUnknownTarget(t *testing.T) {
	db := setupTestDB(t)
	me := createUser(t, db)
	app := setupApp(t, db, me.UserID)

	resp := doReq(t, app, http.MethodPost, "/blocks/"+me.UserID.String())
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doReq(t, app, http.MethodPost, "/blocks/"+uuid.NewString())
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doReq(t, app, http.MethodPost, "/blocks/bukan-uuid")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestBlockEndpoints_BlockedBySide(t *testing.T) {
	db := setupTestDB(t)
	me := createUser(t, db)
	other := createUser(t, db)

	require.NoError(t, db.Create(&model.UserBlockModel{
		BlockUserID:        other.UserID,
		BlockBlockedUserID: me.UserID,
	}).Error)

	app := setupApp(t, db, me.UserID)
	resp := doReq(t, app, http.MethodGet, "/blocks")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := decodeBody(t, resp)["data"].(map[string]any)
	assert.Empty(t, data["blocked"])
	assert.Equal(t, []any{other.UserID.String()}, data["blocked_by"].([]any))
}
