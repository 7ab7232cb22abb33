package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/linkbio/backend/internal/models"
)

// UserRepository is the gorm backed credential store.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) GetUserByEmailOrUsername(ctx context.Context, identifier string) (*models.User, error) {
	return r.first(ctx, "email = ? OR username = ?", identifier, identifier)
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// UpdateUser writes the non-nil fields of update and returns the fresh row.
func (r *UserRepository) UpdateUser(ctx context.Context, id uuid.UUID, update models.UserUpdate) (*models.User, error) {
	user, err := r.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cols := update.Columns()
	if len(cols) == 0 {
		return user, nil
	}
	if err := r.db.WithContext(ctx).Model(user).Updates(cols).Error; err != nil {
		return nil, translate(err)
	}
	return r.GetUserByID(ctx, id)
}

func (r *UserRepository) UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.updateColumn(ctx, id, "password_hash", passwordHash)
}

func (r *UserRepository) VerifyEmail(ctx context.Context, id uuid.UUID) error {
	return r.updateColumn(ctx, id, "email_verified", true)
}

// DeleteUser removes the user and the rows that reference it in one
// transaction.
func (r *UserRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Link{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) updateColumn(ctx context.Context, id uuid.UUID, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
