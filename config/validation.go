package config

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks the configuration against the rules of its environment
// and reports all failures at once.
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "is required")
	} else if cfg.Env == Production && cfg.JWTSecret == DevelopmentJWTSecret {
		add("JWT_SECRET", "must not use the development default in production")
	}

	if (cfg.Env == Production || cfg.Env == CI) && cfg.DatabaseURL == "" && cfg.DBPassword == "" {
		add("DB_PASSWORD", fmt.Sprintf("is required in %s", cfg.Env))
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}

	switch cfg.SessionBackend {
	case SessionBackendDatabase, SessionBackendRedis:
	default:
		add("SESSION_BACKEND", fmt.Sprintf("must be %q or %q, got %q", SessionBackendDatabase, SessionBackendRedis, cfg.SessionBackend))
	}

	if cfg.AuthTokenTTL <= 0 {
		add("AUTH_TOKEN_TTL", "must be positive")
	}
	if cfg.ResetTokenTTL <= 0 {
		add("RESET_TOKEN_TTL", "must be positive")
	}
	if cfg.VerifyTokenTTL <= 0 {
		add("VERIFY_TOKEN_TTL", "must be positive")
	}

	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		add("BCRYPT_COST", fmt.Sprintf("must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
