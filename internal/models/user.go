package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned by stores when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned by stores when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)

type User struct {
	ID            uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Username      string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email         string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash  string    `gorm:"not null" json:"-"`
	Bio           string    `gorm:"type:text" json:"bio"`
	EmailVerified bool      `gorm:"not null;default:false" json:"email_verified"`
}

// BeforeCreate assigns a fresh id when the caller did not set one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserUpdate carries the account fields a caller wants changed.
type UserUpdate struct {
	Username *string
	Email    *string
	Bio      *string
}

// Columns returns the column/value pairs to write for this update.
func (u UserUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.Username != nil {
		cols["username"] = *u.Username
	}
	if u.Email != nil {
		cols["email"] = *u.Email
	}
	if u.Bio != nil {
		cols["bio"] = *u.Bio
	}
	return cols
}

// UserSummary is the subset of a user returned by login.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// Summary returns the login view of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
}

// PublicUser is what anonymous visitors see when looking a user up by username.
type PublicUser struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// Public returns the anonymous view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{Username: u.Username, Email: u.Email, EmailVerified: u.EmailVerified}
}
