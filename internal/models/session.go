package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session records one issued bearer token. Rows are only removed by logout or
// account deletion; expired rows are not swept.
type Session struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Token     string    `gorm:"type:text;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
