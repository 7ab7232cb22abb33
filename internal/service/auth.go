package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/linkbio/backend/internal/logging"
	"github.com/pageza/linkbio/backend/internal/metrics"
	"github.com/pageza/linkbio/backend/internal/models"
	"github.com/pageza/linkbio/backend/internal/types"
)

// Default token lifetimes.
const (
	DefaultAuthTokenTTL   = 24 * time.Hour
	DefaultResetTokenTTL  = time.Hour
	DefaultVerifyTokenTTL = 24 * time.Hour
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidOrExpired   = "Invalid or expired token"
	msgInvalidToken       = "Invalid token"
	msgUserNotFound       = "User not found"
	msgEmailTaken         = "Email already registered"
	msgUsernameTaken      = "Username already taken"
	msgProfileNotFound    = "Profile not found"
	msgLinkNotFound       = "Link not found"
)

// dummyPassword is hashed once and verified against when a login names an
// unknown user, so both failure paths cost one hash check.
const dummyPassword = "linkbio-dummy-password"

// AuthConfig holds the token lifetimes used by AuthService.
type AuthConfig struct {
	AuthTokenTTL   time.Duration
	ResetTokenTTL  time.Duration
	VerifyTokenTTL time.Duration
}

func (c AuthConfig) withDefaults() AuthConfig {
	if c.AuthTokenTTL <= 0 {
		c.AuthTokenTTL = DefaultAuthTokenTTL
	}
	if c.ResetTokenTTL <= 0 {
		c.ResetTokenTTL = DefaultResetTokenTTL
	}
	if c.VerifyTokenTTL <= 0 {
		c.VerifyTokenTTL = DefaultVerifyTokenTTL
	}
	return c
}

// AuthDeps are the collaborators of AuthService.
type AuthDeps struct {
	Users    UserStore
	Profiles ProfileStore
	Sessions SessionStore
	Hasher   PasswordHasher
	Tokens   TokenIssuer
	Mailer   Mailer
	Logger   *slog.Logger
}

// AuthService owns the account and session lifecycle.
type AuthService struct {
	users    UserStore
	profiles ProfileStore
	sessions SessionStore
	hasher   PasswordHasher
	tokens   TokenIssuer
	mailer   Mailer
	logger   *slog.Logger
	cfg      AuthConfig

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(deps AuthDeps, cfg AuthConfig) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:    deps.Users,
		profiles: deps.Profiles,
		sessions: deps.Sessions,
		hasher:   deps.Hasher,
		tokens:   deps.Tokens,
		mailer:   deps.Mailer,
		logger:   logger.With("component", "auth"),
		cfg:      cfg.withDefaults(),
	}
}

// Register creates an account with a default profile and returns a session token.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (token string, err error) {
	defer func() { metrics.RecordAuthEvent("register", err) }()

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return "", invalidInput("username, email and password are required")
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return "", conflict(msgEmailTaken)
	} else if !errors.Is(err, models.ErrNotFound) {
		return "", serverError(err, "lookup user by email")
	}
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return "", conflict(msgUsernameTaken)
	} else if !errors.Is(err, models.ErrNotFound) {
		return "", serverError(err, "lookup user by username")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", serverError(err, "hash password")
	}

	user := &models.User{Username: username, Email: email, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// Lost a race against a concurrent registration.
		if errors.Is(err, models.ErrDuplicate) {
			return "", conflict(msgEmailTaken)
		}
		return "", serverError(err, "create user")
	}

	if err := s.profiles.CreateProfile(ctx, models.NewDefaultProfile(user.ID)); err != nil {
		s.rollbackUser(ctx, user.ID)
		return "", serverError(err, "create profile")
	}

	token, err = s.issueSession(ctx, user.ID)
	if err != nil {
		s.rollbackUser(ctx, user.ID)
		return "", err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return token, nil
}

// Login authenticates by email or username. Unknown users and wrong passwords
// produce the same error.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (token string, user *models.User, err error) {
	defer func() { metrics.RecordAuthEvent("login", err) }()

	user, err = s.users.GetUserByEmailOrUsername(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return "", nil, serverError(err, "lookup user")
		}
		// Keep the unknown-user path as slow as a real mismatch.
		_, _ = s.hasher.Verify(password, s.dummyPasswordHash())
		return "", nil, authFailed(msgInvalidCredentials)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return "", nil, serverError(err, "verify password")
	}
	if !ok {
		return "", nil, authFailed(msgInvalidCredentials)
	}

	token, err = s.issueSession(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout deletes the session row for token. Empty and unknown tokens are
// no-ops. The token itself stays valid until it expires.
func (s *AuthService) Logout(ctx context.Context, token string) (err error) {
	defer func() { metrics.RecordAuthEvent("logout", err) }()

	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, token); err != nil {
		return serverError(err, "delete session")
	}
	return nil
}

// Refresh exchanges a valid token for a new one. The old session is kept.
func (s *AuthService) Refresh(ctx context.Context, oldToken string) (token string, err error) {
	defer func() { metrics.RecordAuthEvent("refresh", err) }()

	claims, err := s.tokens.Verify(oldToken)
	if err != nil {
		return "", authFailed(msgInvalidOrExpired)
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", authFailed(msgInvalidToken)
		}
		return "", serverError(err, "lookup user")
	}

	return s.issueSession(ctx, user.ID)
}

// RequestPasswordReset mails a short-lived reset token. No session is recorded.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (err error) {
	defer func() { metrics.RecordAuthEvent("password_reset_request", err) }()

	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return notFound(msgUserNotFound)
		}
		return serverError(err, "lookup user by email")
	}

	token, _, err := s.tokens.Sign(user.ID, s.cfg.ResetTokenTTL)
	if err != nil {
		return err
	}
	if err := s.mailer.SendResetPasswordEmail(user, token); err != nil {
		return serverError(err, "send reset email")
	}
	return nil
}

// UpdatePassword consumes a reset token and stores the new password. Existing
// sessions are not revoked.
func (s *AuthService) UpdatePassword(ctx context.Context, token, newPassword string) (err error) {
	defer func() { metrics.RecordAuthEvent("password_update", err) }()

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return authFailed(msgInvalidOrExpired)
	}
	if newPassword == "" {
		return invalidInput("password is required")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return serverError(err, "hash password")
	}
	if err := s.users.UpdateUserPassword(ctx, claims.UserID, hash); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return authFailed(msgInvalidOrExpired)
		}
		return serverError(err, "update password")
	}

	s.logger.Info("password updated", "user_id", claims.UserID)
	return nil
}

// VerifyEmail marks the token's user as verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (err error) {
	defer func() { metrics.RecordAuthEvent("verify_email", err) }()

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return authFailed(msgInvalidOrExpired)
	}
	if err := s.users.VerifyEmail(ctx, claims.UserID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return authFailed(msgInvalidOrExpired)
		}
		return serverError(err, "verify email")
	}
	return nil
}

// RequestEmailVerification mails a verification link to an unverified user.
// Already verified users are left alone.
func (s *AuthService) RequestEmailVerification(ctx context.Context, userID uuid.UUID) (err error) {
	defer func() { metrics.RecordAuthEvent("verify_email_request", err) }()

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return notFound(msgUserNotFound)
		}
		return serverError(err, "lookup user")
	}
	if user.EmailVerified {
		return nil
	}

	token, _, err := s.tokens.Sign(user.ID, s.cfg.VerifyTokenTTL)
	if err != nil {
		return err
	}
	if err := s.mailer.SendVerificationEmail(user, token); err != nil {
		return serverError(err, "send verification email")
	}
	return nil
}

// DeleteAccount removes the user and everything it owns. Tokens already issued
// remain valid until they expire.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID) (err error) {
	defer func() { metrics.RecordAuthEvent("delete_account", err) }()

	if err := s.users.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return notFound(msgUserNotFound)
		}
		return serverError(err, "delete user")
	}
	// The relational store already dropped its rows; this clears any other
	// backend.
	if err := s.sessions.DeleteUserSessions(ctx, userID); err != nil {
		logging.LogError(s.logger, "failed to purge sessions", err)
	}

	s.logger.Info("account deleted", "user_id", userID)
	return nil
}

// ValidateToken checks signature and expiry only. Session rows are not consulted.
func (s *AuthService) ValidateToken(token string) (*types.TokenClaims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, authFailed(msgInvalidOrExpired)
	}
	return claims, nil
}

func (s *AuthService) issueSession(ctx context.Context, userID uuid.UUID) (string, error) {
	token, expiresAt, err := s.tokens.Sign(userID, s.cfg.AuthTokenTTL)
	if err != nil {
		return "", err
	}
	session := &models.Session{UserID: userID, Token: token, ExpiresAt: expiresAt}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return "", serverError(err, "create session")
	}
	return token, nil
}

// rollbackUser removes a partially registered user along with its profile.
func (s *AuthService) rollbackUser(ctx context.Context, userID uuid.UUID) {
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		logging.LogError(s.logger, "failed to roll back registration", err)
	}
}

func (s *AuthService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			logging.LogError(s.logger, "failed to build dummy password hash", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
