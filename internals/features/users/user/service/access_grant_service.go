package service

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nikahku_backend/internals/features/users/user/model"
)

// AddGrant mencatat grant akses owner -> grantee. Idempotent:
// grant yang sudah ada tidak membuat baris baru dan tidak error.
func AddGrant(ctx context.Context, db *gorm.DB, ownerID, granteeID uuid.UUID, kind string) error {
	if kind != model.GrantKindPhoto && kind != model.GrantKindWali {
		return fiber.NewError(fiber.StatusBadRequest, "Jenis akses tidak valid")
	}
	grant := model.UserAccessGrantModel{
		GrantOwnerID:   ownerID,
		GrantGranteeID: granteeID,
		GrantKind:      kind,
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&grant).Error
}

// RemoveGrant mencabut grant. 404 bila memang tidak ada.
func RemoveGrant(ctx context.Context, db *gorm.DB, ownerID, granteeID uuid.UUID, kind string) error {
	res := db.WithContext(ctx).
		Where("grant_owner_id = ? AND grant_grantee_id = ? AND grant_kind = ?", ownerID, granteeID, kind).
		Delete(&model.UserAccessGrantModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Grant akses tidak ditemukan")
	}
	return nil
}

// HasGrant: apakah grantee punya akses `kind` terhadap data owner.
func HasGrant(ctx context.Context, db *gorm.DB, ownerID, granteeID uuid.UUID, kind string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&model.UserAccessGrantModel{}).
		Where("grant_owner_id = ? AND grant_grantee_id = ? AND grant_kind = ?", ownerID, granteeID, kind).
		Count(&count).Error
	return count > 0, err
}

// FindUserByID: helper bersama antar fitur. 404 bila tidak ada.
func FindUserByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.UserModel, error) {
	var user model.UserModel
	if err := db.WithContext(ctx).First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "User tidak ditemukan")
		}
		return nil, err
	}
	return &user, nil
}
