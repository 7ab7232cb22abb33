package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Link is an outbound link shown on a user's page.
type Link struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	URL       string    `gorm:"size:2048;not null" json:"url"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	Clicks    int64     `gorm:"not null;default:0" json:"clicks"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *Link) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
