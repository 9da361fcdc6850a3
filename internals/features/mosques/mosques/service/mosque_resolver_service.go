package service

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nikahku_backend/internals/features/mosques/mosques/dto"
	"nikahku_backend/internals/features/mosques/mosques/model"
)

// ResolveMosque mencari masjid dari referensi klien: kalau ref berupa
// UUID dicari by primary key, selain itu dianggap external id katalog.
func ResolveMosque(ctx context.Context, db *gorm.DB, ref string) (*model.MosqueModel, error) {
	var mosque model.MosqueModel

	q := db.WithContext(ctx)
	if id, err := uuid.Parse(ref); err == nil {
		err = q.First(&mosque, "mosque_id = ?", id).Error
		if err == nil {
			return &mosque, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// UUID valid tapi bukan PK kita, coba sebagai external id
	}

	if err := q.First(&mosque, "mosque_external_id = ?", ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Masjid tidak ditemukan")
		}
		return nil, err
	}
	return &mosque, nil
}

// ResolveOrCreateMosque: seperti ResolveMosque, tapi bila tidak ketemu
// dan klien menyertakan data katalog, masjid dibuat on-the-fly.
// Insert pakai ON CONFLICT DO NOTHING supaya dua request bersamaan
// untuk external id yang sama tidak bentrok.
func ResolveOrCreateMosque(ctx context.Context, db *gorm.DB, ref string, data *dto.MosqueCatalogRequest) (*model.MosqueModel, error) {
	mosque, err := ResolveMosque(ctx, db, ref)
	if err == nil {
		return mosque, nil
	}

	var fe *fiber.Error
	if !errors.As(err, &fe) || fe.Code != fiber.StatusNotFound || data == nil {
		return nil, err
	}

	m := data.ToModel()
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "mosque_external_id"}},
			DoNothing: true,
		}).
		Create(m).Error; err != nil {
		return nil, err
	}

	// Re-fetch: baris bisa saja milik request lain yang menang duluan
	var out model.MosqueModel
	if err := db.WithContext(ctx).First(&out, "mosque_external_id = ?", data.ExternalID).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// ListImamIDs mengembalikan imam aktif sebuah masjid, urut masuk.
func ListImamIDs(ctx context.Context, db *gorm.DB, mosqueID uuid.UUID) ([]uuid.UUID, error) {
	var rows []model.MosqueImamModel
	if err := db.WithContext(ctx).
		Where("mosque_imam_mosque_id = ?", mosqueID).
		Order("mosque_imam_created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.MosqueImamUserID)
	}
	return ids, nil
}

// CountImamsByMosque menghitung jumlah imam per masjid untuk satu
// halaman direktori. Masjid tanpa imam tidak muncul di map (count 0).
func CountImamsByMosque(ctx context.Context, db *gorm.DB, mosqueIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(mosqueIDs))
	if len(mosqueIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		MosqueID uuid.UUID
		Total    int64
	}
	if err := db.WithContext(ctx).
		Model(&model.MosqueImamModel{}).
		Select("mosque_imam_mosque_id AS mosque_id, COUNT(*) AS total").
		Where("mosque_imam_mosque_id IN ?", mosqueIDs).
		Group("mosque_imam_mosque_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.MosqueID] = r.Total
	}
	return counts, nil
}

// FirstImamID memilih imam penanggung jawab untuk request baru:
// imam yang paling lama terdaftar di masjid itu. Nil bila belum ada imam.
func FirstImamID(ctx context.Context, db *gorm.DB, mosqueID uuid.UUID) (*uuid.UUID, error) {
	ids, err := ListImamIDs(ctx, db, mosqueID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return &ids[0], nil
}
