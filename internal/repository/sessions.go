package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/linkbio/backend/internal/models"
)

// SessionRepository keeps one row per issued token in the sessions table.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) CreateSession(ctx context.Context, session *models.Session) error {
	return translate(r.db.WithContext(ctx).Create(session).Error)
}

// GetSessionByToken returns the row recorded for token.
func (r *SessionRepository) GetSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&session).Error; err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

// ListUserSessions returns the user's sessions, oldest first.
func (r *SessionRepository) ListUserSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	var sessions []models.Session
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at asc").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepository) DeleteSession(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error
}

func (r *SessionRepository) DeleteUserSessions(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Session{}).Error
}
