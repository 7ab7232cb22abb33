package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DevelopmentJWTSecret is the signing secret used when none is configured.
// It is rejected in production.
const DevelopmentJWTSecret = "linkbio-development-secret"

// Session backends.
const (
	SessionBackendDatabase = "database"
	SessionBackendRedis    = "redis"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment `mapstructure:"-"`

	// Server configuration
	ServerHost         string `mapstructure:"SERVER_HOST"`
	ServerPort         string `mapstructure:"SERVER_PORT"`
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// Database configuration. DatabaseURL wins over the individual parts.
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DBHost            string `mapstructure:"DB_HOST"`
	DBPort            string `mapstructure:"DB_PORT"`
	DBUser            string `mapstructure:"DB_USER"`
	DBPassword        string `mapstructure:"DB_PASSWORD"`
	DBName            string `mapstructure:"DB_NAME"`
	DBSSLMode         string `mapstructure:"DB_SSL_MODE"`
	MigrationsOnStart bool   `mapstructure:"MIGRATIONS_ON_START"`

	// Redis configuration
	RedisURL       string `mapstructure:"REDIS_URL"`
	RedisHost      string `mapstructure:"REDIS_HOST"`
	RedisPort      string `mapstructure:"REDIS_PORT"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisDB        int    `mapstructure:"REDIS_DB"`
	SessionBackend string `mapstructure:"SESSION_BACKEND"`

	// Auth configuration
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	AuthTokenTTL   time.Duration `mapstructure:"AUTH_TOKEN_TTL"`
	ResetTokenTTL  time.Duration `mapstructure:"RESET_TOKEN_TTL"`
	VerifyTokenTTL time.Duration `mapstructure:"VERIFY_TOKEN_TTL"`
	BcryptCost     int           `mapstructure:"BCRYPT_COST"`

	// Email configuration
	SMTPHost      string `mapstructure:"SMTP_HOST"`
	SMTPPort      string `mapstructure:"SMTP_PORT"`
	SMTPUsername  string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword  string `mapstructure:"SMTP_PASSWORD"`
	EmailFrom     string `mapstructure:"EMAIL_FROM"`
	EmailFromName string `mapstructure:"EMAIL_FROM_NAME"`
	FrontendURL   string `mapstructure:"FRONTEND_URL"`

	// Asset storage. Uploads are disabled when S3BucketName is empty.
	S3BucketName string `mapstructure:"S3_BUCKET_NAME"`
	AWSRegion    string `mapstructure:"AWS_REGION"`
}

// secretKeys maps Docker secret file names to the config keys they override.
var secretKeys = map[string]string{
	"jwt_secret":     "JWT_SECRET",
	"db_password":    "DB_PASSWORD",
	"redis_password": "REDIS_PASSWORD",
	"smtp_password":  "SMTP_PASSWORD",
}

// LoadConfig reads configuration for the current environment and validates it.
func LoadConfig() (*Config, error) {
	cfg, err := Load(GetEnvironment())
	if err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Load reads environment variables and Docker secrets without validating.
func Load(env Environment) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	// Docker secrets take precedence over plain environment variables.
	for name, key := range secretKeys {
		if value := readSecret(name); value != "" {
			v.Set(key, value)
		}
	}

	// CI injects sensitive values under TEST_ prefixed names.
	if env == CI {
		for _, key := range []string{"DB_PASSWORD", "JWT_SECRET", "REDIS_PASSWORD"} {
			if v.GetString(key) == "" || v.GetString(key) == DevelopmentJWTSecret {
				if value := os.Getenv("TEST_" + key); value != "" {
					v.Set(key, value)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}
	cfg.Env = env

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "linkbio")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("MIGRATIONS_ON_START", true)

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_BACKEND", SessionBackendDatabase)

	v.SetDefault("JWT_SECRET", DevelopmentJWTSecret)
	v.SetDefault("AUTH_TOKEN_TTL", "24h")
	v.SetDefault("RESET_TOKEN_TTL", "1h")
	v.SetDefault("VERIFY_TOKEN_TTL", "24h")
	v.SetDefault("BCRYPT_COST", 10)

	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("EMAIL_FROM", "no-reply@linkbio.local")
	v.SetDefault("EMAIL_FROM_NAME", "Linkbio")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")

	v.SetDefault("S3_BUCKET_NAME", "")
	v.SetDefault("AWS_REGION", "us-east-1")
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.ServerHost, c.ServerPort)
}

// DatabaseDSN returns DatabaseURL when set, otherwise a postgres keyword DSN
// built from the individual parts.
func (c *Config) DatabaseDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// AllowedOrigins splits CORSAllowedOrigins on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
