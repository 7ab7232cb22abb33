package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/linkbio/backend/internal/models"
)

// Asset kinds accepted by UploadAsset.
const (
	AssetBackground = "background"
	AssetLogo       = "logo"
)

// ProfileService handles profile styling and profile assets.
type ProfileService struct {
	profiles ProfileStore
	assets   AssetStore
	logger   *slog.Logger
}

// NewProfileService creates a ProfileService. assets may be nil when no
// object storage is configured; uploads then fail with UNAVAILABLE.
func NewProfileService(profiles ProfileStore, assets AssetStore, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{profiles: profiles, assets: assets, logger: logger.With("component", "profiles")}
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.profiles.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, notFound(msgProfileNotFound)
		}
		return nil, serverError(err, "lookup profile")
	}
	return profile, nil
}

// UpdateProfile updates a user's profile
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, update models.ProfileUpdate) (*models.Profile, error) {
	if update.IsEmpty() {
		return s.GetProfile(ctx, userID)
	}
	profile, err := s.profiles.UpdateProfileByUserID(ctx, userID, update)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, notFound(msgProfileNotFound)
		}
		return nil, serverError(err, "update profile")
	}
	return profile, nil
}

// UploadAsset stores an image for the profile and points the matching
// profile field at its URL.
func (s *ProfileService) UploadAsset(ctx context.Context, userID uuid.UUID, kind, filename, contentType string, body io.Reader) (*models.Profile, error) {
	if kind != AssetBackground && kind != AssetLogo {
		return nil, invalidInput(fmt.Sprintf("unknown asset kind %q", kind))
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, invalidInput("asset must be an image")
	}
	if s.assets == nil {
		return nil, unavailable("asset storage is not configured")
	}

	// Make sure the profile exists before paying for the upload.
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("profiles/%s/%s-%s%s", userID, kind, uuid.NewString(), strings.ToLower(path.Ext(filename)))
	url, err := s.assets.Upload(ctx, key, body, contentType)
	if err != nil {
		return nil, serverError(err, "upload asset")
	}

	var update models.ProfileUpdate
	if kind == AssetBackground {
		update.BackgroundImage = &url
	} else {
		update.Logo = &url
	}

	s.logger.Info("profile asset uploaded", "user_id", userID, "kind", kind, "key", key)
	return s.UpdateProfile(ctx, userID, update)
}
