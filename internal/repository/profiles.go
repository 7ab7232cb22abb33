package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/linkbio/backend/internal/models"
)

// ProfileRepository is the gorm backed profile store.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) CreateProfile(ctx context.Context, profile *models.Profile) error {
	return translate(r.db.WithContext(ctx).Create(profile).Error)
}

func (r *ProfileRepository) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

// UpdateProfileByUserID writes the non-nil fields of update and returns the
// fresh row.
func (r *ProfileRepository) UpdateProfileByUserID(ctx context.Context, userID uuid.UUID, update models.ProfileUpdate) (*models.Profile, error) {
	profile, err := r.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	cols := update.Columns()
	if len(cols) == 0 {
		return profile, nil
	}
	if err := r.db.WithContext(ctx).Model(profile).Updates(cols).Error; err != nil {
		return nil, translate(err)
	}
	return r.GetProfileByUserID(ctx, userID)
}
