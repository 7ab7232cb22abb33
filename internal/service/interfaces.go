package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/pageza/linkbio/backend/internal/models"
)

// UserStore persists accounts. Lookups return models.ErrNotFound when no row
// matches; writes return models.ErrDuplicate on a unique constraint violation.
type UserStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmailOrUsername(ctx context.Context, identifier string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, id uuid.UUID, update models.UserUpdate) (*models.User, error)
	UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	VerifyEmail(ctx context.Context, id uuid.UUID) error
	// DeleteUser removes the user together with its profile, links and
	// session rows.
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type ProfileStore interface {
	CreateProfile(ctx context.Context, profile *models.Profile) error
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfileByUserID(ctx context.Context, userID uuid.UUID, update models.ProfileUpdate) (*models.Profile, error)
}

// SessionStore records issued tokens. DeleteSession and DeleteUserSessions
// succeed when nothing matches.
type SessionStore interface {
	CreateSession(ctx context.Context, session *models.Session) error
	DeleteSession(ctx context.Context, token string) error
	DeleteUserSessions(ctx context.Context, userID uuid.UUID) error
}

type LinkStore interface {
	CreateLink(ctx context.Context, link *models.Link) error
	GetLinkByID(ctx context.Context, id uuid.UUID) (*models.Link, error)
	ListLinksByUserID(ctx context.Context, userID uuid.UUID) ([]models.Link, error)
	UpdateLink(ctx context.Context, link *models.Link) error
	DeleteLink(ctx context.Context, id uuid.UUID) error
	IncrementClicks(ctx context.Context, id uuid.UUID) (*models.Link, error)
}

// Mailer delivers account emails.
type Mailer interface {
	SendResetPasswordEmail(user *models.User, token string) error
	SendVerificationEmail(user *models.User, token string) error
}

// AssetStore uploads files and returns their public URL.
type AssetStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}
