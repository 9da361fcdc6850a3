package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"nikahku_backend/internals/features/mosques/mosques/dto"
	"nikahku_backend/internals/features/mosques/mosques/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.MosqueModel{},
		&model.MosqueImamModel{},
	))
	return db
}

func TestResolveMosque_ByPrimaryKeyAndExternalID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	ext := "ChIJplacecatalog123"
	m := model.MosqueModel{MosqueExternalID: &ext, MosqueName: "Masjid Agung"}
	require.NoError(t, db.Create(&m).Error)

	byPK, err := ResolveMosque(ctx, db, m.MosqueID.String())
	require.NoError(t, err)
	assert.Equal(t, m.MosqueID, byPK.MosqueID)

	byExt, err := ResolveMosque(ctx, db, ext)
	require.NoError(t, err)
	assert.Equal(t, m.MosqueID, byExt.MosqueID)
}

func TestResolveMosque_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := ResolveMosque(context.Background(), db, "tidak-ada")
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
}

func TestResolveOrCreateMosque_CreatesFromCatalog(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	data := &dto.MosqueCatalogRequest{
		ExternalID: "ChIJnewplace456",
		Name:       "Masjid Baru",
		Address:    "Jl. Baru No. 2",
	}
	created, err := ResolveOrCreateMosque(ctx, db, data.ExternalID, data)
	require.NoError(t, err)
	assert.Equal(t, "Masjid Baru", created.MosqueName)

	// Panggilan kedua menemukan baris yang sama, tidak menduplikasi
	again, err := ResolveOrCreateMosque(ctx, db, data.ExternalID, data)
	require.NoError(t, err)
	assert.Equal(t, created.MosqueID, again.MosqueID)

	var count int64
	db.Model(&model.MosqueModel{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestResolveOrCreateMosque_NotFoundWithoutData(t *testing.T) {
	db := setupTestDB(t)

	_, err := ResolveOrCreateMosque(context.Background(), db, "ChIJmissing", nil)
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
}

func TestCountImamsByMosque(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	withImams := model.MosqueModel{MosqueName: "Masjid Ramai"}
	empty := model.MosqueModel{MosqueName: "Masjid Kosong"}
	require.NoError(t, db.Create(&withImams).Error)
	require.NoError(t, db.Create(&empty).Error)

	for i := 0; i < 2; i++ {
		require.NoError(t, db.Create(&model.MosqueImamModel{
			MosqueImamMosqueID: withImams.MosqueID,
			MosqueImamUserID:   uuid.New(),
		}).Error)
	}

	counts, err := CountImamsByMosque(ctx, db, []uuid.UUID{withImams.MosqueID, empty.MosqueID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[withImams.MosqueID])
	assert.Zero(t, counts[empty.MosqueID])
}

func TestFirstImamID_OrderedByJoin(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	m := model.MosqueModel{MosqueName: "Masjid Urut"}
	require.NoError(t, db.Create(&m).Error)

	none, err := FirstImamID(ctx, db, m.MosqueID)
	require.NoError(t, err)
	assert.Nil(t, none)

	first := uuid.New()
	second := uuid.New()
	require.NoError(t, db.Create(&model.MosqueImamModel{MosqueImamMosqueID: m.MosqueID, MosqueImamUserID: first}).Error)
	require.NoError(t, db.Create(&model.MosqueImamModel{MosqueImamMosqueID: m.MosqueID, MosqueImamUserID: second}).Error)

	got, err := FirstImamID(ctx, db, m.MosqueID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first, *got)
}
