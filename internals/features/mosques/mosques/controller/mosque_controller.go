package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"nikahku_backend/internals/features/mosques/mosques/dto"
	"nikahku_backend/internals/features/mosques/mosques/model"
	"nikahku_backend/internals/features/mosques/mosques/service"
	helper "nikahku_backend/internals/helpers"
)

var validate = validator.New()

type MosqueController struct {
	DB *gorm.DB
}

func NewMosqueController(db *gorm.DB) *MosqueController {
	return &MosqueController{DB: db}
}

// GET /api/mosques?search=
func (ctrl *MosqueController) GetMosques(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.WithContext(c.Context()).Model(&model.MosqueModel{})
	if search := c.Query("search"); search != "" {
		q = q.Where("LOWER(mosque_name) LIKE LOWER(?)", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromFiberError(c, err)
	}

	var rows []model.MosqueModel
	if err := q.
		Order("mosque_name ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.FromFiberError(c, err)
	}

	counts, err := service.CountImamsByMosque(c.Context(), ctrl.DB, mosqueIDs(rows))
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	out := make([]dto.MosqueResponse, 0, len(rows))
	for i := range rows {
		resp := dto.ToMosqueResponse(&rows[i])
		n := counts[rows[i].MosqueID]
		resp.ImamCount = &n
		out = append(out, resp)
	}
	return helper.JsonList(c, "Daftar masjid",
		out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

func mosqueIDs(rows []model.MosqueModel) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].MosqueID)
	}
	return ids
}

// GET /api/mosques/:ref — UUID internal atau external id katalog
func (ctrl *MosqueController) GetMosque(c *fiber.Ctx) error {
	mosque, err := service.ResolveMosque(c.Context(), ctrl.DB, c.Params("ref"))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Detail masjid", dto.ToMosqueResponse(mosque))
}

// GET /api/mosques/:ref/imams
func (ctrl *MosqueController) GetMosqueImams(c *fiber.Ctx) error {
	mosque, err := service.ResolveMosque(c.Context(), ctrl.DB, c.Params("ref"))
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	ids, err := service.ListImamIDs(c.Context(), ctrl.DB, mosque.MosqueID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Daftar imam masjid", fiber.Map{
		"mosque_id": mosque.MosqueID,
		"imam_ids":  ids,
	})
}

// POST /api/superadmin/mosques — tambah masjid manual
func (ctrl *MosqueController) CreateMosque(c *fiber.Ctx) error {
	var body dto.MosqueCatalogRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request body tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	m := body.ToModel()
	if err := ctrl.DB.WithContext(c.Context()).Create(m).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Masjid dengan external id ini sudah ada")
		}
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Masjid ditambahkan", dto.ToMosqueResponse(m))
}

// DELETE /api/superadmin/mosques/:id
func (ctrl *MosqueController) DeleteMosque(c *fiber.Ctx) error {
	mosqueID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var mosque model.MosqueModel
	if err := ctrl.DB.WithContext(c.Context()).
		First(&mosque, "mosque_id = ?", mosqueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Masjid tidak ditemukan")
		}
		return helper.FromFiberError(c, err)
	}

	if err := ctrl.DB.WithContext(c.Context()).Delete(&mosque).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "Masjid dihapus", nil)
}
