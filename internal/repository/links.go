package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/linkbio/backend/internal/models"
)

// LinkRepository is the gorm backed link store.
type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) CreateLink(ctx context.Context, link *models.Link) error {
	return translate(r.db.WithContext(ctx).Create(link).Error)
}

func (r *LinkRepository) GetLinkByID(ctx context.Context, id uuid.UUID) (*models.Link, error) {
	var link models.Link
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&link).Error; err != nil {
		return nil, translate(err)
	}
	return &link, nil
}

// ListLinksByUserID returns the user's links ordered by position.
func (r *LinkRepository) ListLinksByUserID(ctx context.Context, userID uuid.UUID) ([]models.Link, error) {
	links := []models.Link{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position asc").
		Order("created_at asc").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// UpdateLink persists title, url and position of link.
func (r *LinkRepository) UpdateLink(ctx context.Context, link *models.Link) error {
	result := r.db.WithContext(ctx).Model(&models.Link{}).Where("id = ?", link.ID).Updates(map[string]interface{}{
		"title":    link.Title,
		"url":      link.URL,
		"position": link.Position,
	})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *LinkRepository) DeleteLink(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Link{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// IncrementClicks bumps the counter in a single UPDATE and returns the row.
func (r *LinkRepository) IncrementClicks(ctx context.Context, id uuid.UUID) (*models.Link, error) {
	result := r.db.WithContext(ctx).Model(&models.Link{}).Where("id = ?", id).
		UpdateColumn("clicks", gorm.Expr("clicks + ?", 1))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, models.ErrNotFound
	}
	return r.GetLinkByID(ctx, id)
}
