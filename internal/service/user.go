package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/linkbio/backend/internal/models"
)

// UserService serves account reads and updates after authentication.
type UserService struct {
	users    UserStore
	profiles ProfileStore
	logger   *slog.Logger
}

func NewUserService(users UserStore, profiles ProfileStore, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{users: users, profiles: profiles, logger: logger.With("component", "users")}
}

// GetUser returns the user with the given id.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, notFound(msgUserNotFound)
		}
		return nil, serverError(err, "lookup user")
	}
	return user, nil
}

// GetMe returns the user and its profile. A missing profile yields a nil
// profile rather than an error.
func (s *UserService) GetMe(ctx context.Context, id uuid.UUID) (*models.User, *models.Profile, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	profile, err := s.lookupProfile(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

// GetPublicPage looks a user up by username for anonymous visitors.
func (s *UserService) GetPublicPage(ctx context.Context, username string) (*models.User, *models.Profile, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil, notFound(msgUserNotFound)
		}
		return nil, nil, serverError(err, "lookup user by username")
	}
	profile, err := s.lookupProfile(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

// UpdateMe applies account and profile changes. Either part may be empty.
func (s *UserService) UpdateMe(ctx context.Context, id uuid.UUID, userUpdate models.UserUpdate, profileUpdate models.ProfileUpdate) (*models.User, *models.Profile, error) {
	if userUpdate.Username != nil {
		trimmed := strings.TrimSpace(*userUpdate.Username)
		if trimmed == "" {
			return nil, nil, invalidInput("username cannot be empty")
		}
		userUpdate.Username = &trimmed
	}
	if userUpdate.Email != nil {
		trimmed := strings.TrimSpace(*userUpdate.Email)
		if trimmed == "" {
			return nil, nil, invalidInput("email cannot be empty")
		}
		userUpdate.Email = &trimmed
	}

	user, err := s.users.UpdateUser(ctx, id, userUpdate)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return nil, nil, notFound(msgUserNotFound)
		case errors.Is(err, models.ErrDuplicate):
			return nil, nil, conflict("Username or email already in use")
		}
		return nil, nil, serverError(err, "update user")
	}

	var profile *models.Profile
	if profileUpdate.IsEmpty() {
		profile, err = s.lookupProfile(ctx, id)
	} else {
		profile, err = s.profiles.UpdateProfileByUserID(ctx, id, profileUpdate)
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil, notFound(msgProfileNotFound)
		} else if err != nil {
			err = serverError(err, "update profile")
		}
	}
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

func (s *UserService) lookupProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.profiles.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		return nil, serverError(err, "lookup profile")
	}
	return profile, nil
}
