package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv points secrets at an empty directory and clears variables that
// would otherwise leak in from the host.
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	for _, key := range []string{
		"CI", "ENV", "JWT_SECRET", "DB_PASSWORD", "DATABASE_URL", "SERVER_PORT",
		"SESSION_BACKEND", "AUTH_TOKEN_TTL", "BCRYPT_COST", "REDIS_URL",
		"TEST_JWT_SECRET", "TEST_DB_PASSWORD", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoadConfigWithDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Env)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "linkbio", cfg.DBName)
	assert.Equal(t, SessionBackendDatabase, cfg.SessionBackend)
	assert.Equal(t, DevelopmentJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.AuthTokenTTL)
	assert.Equal(t, time.Hour, cfg.ResetTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.VerifyTokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Empty(t, cfg.S3BucketName)
}

func TestLoadConfig(t *testing.T) {
	isolateEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("AUTH_TOKEN_TTL", "2h")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.AuthTokenTTL)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, SessionBackendRedis, cfg.SessionBackend)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
}

func TestLoadConfig_SecretsOverrideEnvironment(t *testing.T) {
	dir := isolateEnv(t)
	t.Setenv("JWT_SECRET", "from-env")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("hunter2"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-secret", cfg.JWTSecret)
	assert.Equal(t, "hunter2", cfg.DBPassword)
}

func TestLoadConfig_CIUsesTestSecrets(t *testing.T) {
	isolateEnv(t)
	t.Setenv("CI", "true")
	t.Setenv("TEST_JWT_SECRET", "ci-secret")
	t.Setenv("TEST_DB_PASSWORD", "ci-password")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, CI, cfg.Env)
	assert.Equal(t, "ci-secret", cfg.JWTSecret)
	assert.Equal(t, "ci-password", cfg.DBPassword)
}

func TestValidateConfig_Production(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load(Production)
	require.NoError(t, err)

	err = ValidateConfig(cfg)
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"JWT_SECRET", "DB_PASSWORD"}, fields)
}

func TestValidateConfig_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Env:            Development,
		ServerPort:     "8080",
		SessionBackend: "memcached",
		BcryptCost:     99,
	}

	err := ValidateConfig(cfg)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "JWT_SECRET: is required")
	assert.Contains(t, msg, "SESSION_BACKEND")
	assert.Contains(t, msg, "AUTH_TOKEN_TTL: must be positive")
	assert.Contains(t, msg, "RESET_TOKEN_TTL: must be positive")
	assert.Contains(t, msg, "VERIFY_TOKEN_TTL: must be positive")
	assert.Contains(t, msg, "BCRYPT_COST")
}

func TestConfigHelpers(t *testing.T) {
	cfg := &Config{
		ServerHost:         "127.0.0.1",
		ServerPort:         "8080",
		DBHost:             "db",
		DBPort:             "5432",
		DBUser:             "app",
		DBPassword:         "secret",
		DBName:             "linkbio",
		DBSSLMode:          "disable",
		CORSAllowedOrigins: "http://a.test, http://b.test,,",
	}

	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=linkbio sslmode=disable", cfg.DatabaseDSN())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())

	cfg.DatabaseURL = "sqlite://file.db"
	assert.Equal(t, "sqlite://file.db", cfg.DatabaseDSN())
}

func TestParseEnvironment(t *testing.T) {
	assert.Equal(t, Production, ParseEnvironment("production"))
	assert.Equal(t, Test, ParseEnvironment(" Test "))
	assert.Equal(t, Development, ParseEnvironment(""))
	assert.Equal(t, Development, ParseEnvironment("staging"))
	assert.True(t, Production.IsProduction())
	assert.False(t, CI.IsProduction())
}
