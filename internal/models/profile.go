package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Default styling applied to every new profile.
const (
	DefaultTheme              = "light"
	DefaultBackgroundColor    = "#ffffff"
	DefaultFontColor          = "#000000"
	DefaultFontFamily         = "Arial"
	DefaultButtonStyle        = "rounded"
	DefaultGradientStartColor = "#ffffff"
	DefaultGradientEndColor   = "#000000"
	DefaultGradientDirection  = "to bottom"
)

// Profile holds the public page styling of a user. Exactly one per user.
type Profile struct {
	ID                 uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID             uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Theme              string    `gorm:"size:50;not null" json:"theme"`
	BackgroundColor    string    `gorm:"size:32" json:"background_color"`
	FontColor          string    `gorm:"size:32" json:"font_color"`
	FontFamily         string    `gorm:"size:100" json:"font_family"`
	ButtonStyle        string    `gorm:"size:50" json:"button_style"`
	BackgroundImage    string    `gorm:"size:1024" json:"background_image"`
	Logo               string    `gorm:"size:1024" json:"logo"`
	GradientEnabled    bool      `gorm:"not null;default:false" json:"gradient_enabled"`
	GradientStartColor string    `gorm:"size:32" json:"gradient_start_color"`
	GradientEndColor   string    `gorm:"size:32" json:"gradient_end_color"`
	GradientDirection  string    `gorm:"size:50" json:"gradient_direction"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// NewDefaultProfile returns the profile created alongside a new account.
func NewDefaultProfile(userID uuid.UUID) *Profile {
	return &Profile{
		UserID:             userID,
		Theme:              DefaultTheme,
		BackgroundColor:    DefaultBackgroundColor,
		FontColor:          DefaultFontColor,
		FontFamily:         DefaultFontFamily,
		ButtonStyle:        DefaultButtonStyle,
		GradientStartColor: DefaultGradientStartColor,
		GradientEndColor:   DefaultGradientEndColor,
		GradientDirection:  DefaultGradientDirection,
	}
}

// ProfileUpdate carries the profile fields a caller wants changed. Nil fields
// are left untouched.
type ProfileUpdate struct {
	Theme              *string `json:"theme,omitempty"`
	BackgroundColor    *string `json:"background_color,omitempty"`
	FontColor          *string `json:"font_color,omitempty"`
	FontFamily         *string `json:"font_family,omitempty"`
	ButtonStyle        *string `json:"button_style,omitempty"`
	BackgroundImage    *string `json:"background_image,omitempty"`
	Logo               *string `json:"logo,omitempty"`
	GradientEnabled    *bool   `json:"gradient_enabled,omitempty"`
	GradientStartColor *string `json:"gradient_start_color,omitempty"`
	GradientEndColor   *string `json:"gradient_end_color,omitempty"`
	GradientDirection  *string `json:"gradient_direction,omitempty"`
}

// Columns returns the column/value pairs to write for this update.
func (u ProfileUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	set := func(col string, v *string) {
		if v != nil {
			cols[col] = *v
		}
	}
	set("theme", u.Theme)
	set("background_color", u.BackgroundColor)
	set("font_color", u.FontColor)
	set("font_family", u.FontFamily)
	set("button_style", u.ButtonStyle)
	set("background_image", u.BackgroundImage)
	set("logo", u.Logo)
	set("gradient_start_color", u.GradientStartColor)
	set("gradient_end_color", u.GradientEndColor)
	set("gradient_direction", u.GradientDirection)
	if u.GradientEnabled != nil {
		cols["gradient_enabled"] = *u.GradientEnabled
	}
	return cols
}

// IsEmpty reports whether the update would change nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return len(u.Columns()) == 0
}
