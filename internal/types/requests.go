package types

import (
	"encoding/json"

	"github.com/pageza/linkbio/backend/internal/models"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents the request body for logging in. The identifier is
// read from email_or_username, or from emailOrUsername for older clients.
type LoginRequest struct {
	EmailOrUsername string `json:"email_or_username" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

func (r *LoginRequest) UnmarshalJSON(data []byte) error {
	type fields LoginRequest
	var aux struct {
		fields
		LegacyEmailOrUsername string `json:"emailOrUsername"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = LoginRequest(aux.fields)
	if r.EmailOrUsername == "" {
		r.EmailOrUsername = aux.LegacyEmailOrUsername
	}
	return nil
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

type RefreshRequest struct {
	Token string `json:"token" binding:"required"`
}

type ResetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type UpdatePasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateMeRequest updates account fields and profile styling in one call.
// Profile fields sit at the top level of the body.
type UpdateMeRequest struct {
	Username *string `json:"username,omitempty" binding:"omitempty,min=1,max=50"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Bio      *string `json:"bio,omitempty"`
	models.ProfileUpdate
}

// UserUpdate returns the account part of the request.
func (r UpdateMeRequest) UserUpdate() models.UserUpdate {
	return models.UserUpdate{Username: r.Username, Email: r.Email, Bio: r.Bio}
}

type CreateLinkRequest struct {
	Title    string `json:"title" binding:"required,max=255"`
	URL      string `json:"url" binding:"required,url"`
	Position *int   `json:"position,omitempty" binding:"omitempty,min=0"`
}

type UpdateLinkRequest struct {
	Title    *string `json:"title,omitempty" binding:"omitempty,min=1,max=255"`
	URL      *string `json:"url,omitempty" binding:"omitempty,url"`
	Position *int    `json:"position,omitempty" binding:"omitempty,min=0"`
}

// MeResponse is the authenticated user's own view.
type MeResponse struct {
	User    *models.User    `json:"user"`
	Profile *models.Profile `json:"profile"`
}

// PublicPageResponse is what anonymous visitors see for a username.
type PublicPageResponse struct {
	User    models.PublicUser `json:"user"`
	Profile *models.Profile   `json:"profile"`
}

type ClickResponse struct {
	URL    string `json:"url"`
	Clicks int64  `json:"clicks"`
}
