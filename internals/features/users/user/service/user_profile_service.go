package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"nikahku_backend/internals/features/users/user/dto"
	"nikahku_backend/internals/features/users/user/model"
)

// ViewerAccessFor: kumpulan hasil cek grant viewer terhadap target,
// dipakai dto.ToUserResponse untuk memutuskan field mana yang keluar.
func ViewerAccessFor(ctx context.Context, db *gorm.DB, viewerID, targetID uuid.UUID) (dto.ViewerAccess, error) {
	if viewerID == targetID {
		return dto.ViewerAccess{IsSelf: true}, nil
	}

	hasPhoto, err := HasGrant(ctx, db, targetID, viewerID, model.GrantKindPhoto)
	if err != nil {
		return dto.ViewerAccess{}, err
	}
	hasWali, err := HasGrant(ctx, db, targetID, viewerID, model.GrantKindWali)
	if err != nil {
		return dto.ViewerAccess{}, err
	}
	return dto.ViewerAccess{HasPhoto: hasPhoto, HasWali: hasWali}, nil
}

// UpdateProfile: partial update, hanya field non-nil yang disentuh.
func UpdateProfile(ctx context.Context, db *gorm.DB, userID uuid.UUID, in *dto.UpdateMeRequest) (*model.UserModel, error) {
	cols := map[string]any{}
	if in.FirstName != nil {
		cols["user_first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		cols["user_last_name"] = *in.LastName
	}
	if in.Phone != nil {
		cols["user_phone"] = *in.Phone
	}
	if in.PhotoURL != nil {
		cols["user_photo_url"] = *in.PhotoURL
	}
	if in.BlurredPhotoURL != nil {
		cols["user_blurred_photo_url"] = *in.BlurredPhotoURL
	}
	if in.WaliName != nil {
		cols["user_wali_name"] = *in.WaliName
	}
	if in.WaliRelationship != nil {
		cols["user_wali_relationship"] = *in.WaliRelationship
	}
	if in.WaliContact != nil {
		cols["user_wali_contact"] = *in.WaliContact
	}
	if in.MessageToCommunity != nil {
		cols["user_message_to_community"] = *in.MessageToCommunity
	}

	if len(cols) > 0 {
		if err := db.WithContext(ctx).
			Model(&model.UserModel{}).
			Where("user_id = ?", userID).
			Updates(cols).Error; err != nil {
			return nil, err
		}
	}
	return FindUserByID(ctx, db, userID)
}

// UpdateLocation menyimpan koordinat terakhir user.
func UpdateLocation(ctx context.Context, db *gorm.DB, userID uuid.UUID, lat, lng float64) error {
	return db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"user_latitude":  lat,
			"user_longitude": lng,
		}).Error
}

// ApproveUnblur: jalur lama di luar chat, dimediasi imam. Foto blur
// target dihapus sehingga foto aslinya yang tampil, imam penyetuju
// tercatat di ledger foto target, dan flag permintaan unblur direset.
func ApproveUnblur(ctx context.Context, db *gorm.DB, approverID, targetID uuid.UUID) error {
	if _, err := FindUserByID(ctx, db, targetID); err != nil {
		return err
	}
	if err := AddGrant(ctx, db, targetID, approverID, model.GrantKindPhoto); err != nil {
		return err
	}
	return db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("user_id = ?", targetID).
		Updates(map[string]any{
			"user_blurred_photo_url": nil,
			"user_unblur_request":    false,
		}).Error
}
