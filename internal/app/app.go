// Package app assembles stores, services and the HTTP router from config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/linkbio/backend/config"
	"github.com/pageza/linkbio/backend/internal/database"
	"github.com/pageza/linkbio/backend/internal/metrics"
	"github.com/pageza/linkbio/backend/internal/repository"
	"github.com/pageza/linkbio/backend/internal/router"
	"github.com/pageza/linkbio/backend/internal/service"
)

// App holds the wired application.
type App struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Profiles *service.ProfileService
	Links    *service.LinkService

	cfg      *config.Config
	db       *gorm.DB
	redis    *redis.Client
	registry *prometheus.Registry
	logger   *slog.Logger
}

// New connects to the configured backends and builds every service.
// Migrations run first when cfg.MigrationsOnStart is set.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	dsn := cfg.DatabaseDSN()
	db, err := database.InitDB(dsn, logger)
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, db: db, logger: logger}

	if cfg.MigrationsOnStart {
		if err := database.RunMigrations(db, dsn, logger); err != nil {
			a.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	users := repository.NewUserRepository(db)
	profiles := repository.NewProfileRepository(db)

	var sessions service.SessionStore = repository.NewSessionRepository(db)
	if cfg.SessionBackend == config.SessionBackendRedis {
		a.redis, err = database.NewRedisClient(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		sessions = repository.NewRedisSessionStore(a.redis)
		logger.Info("using redis session store")
	}

	var assets service.AssetStore
	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	if s3cfg != nil {
		assets = s3cfg
		logger.Info("asset uploads enabled", "bucket", s3cfg.BucketName)
	}

	mailer := service.NewEmailService(service.EmailConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUsername,
		Password:    cfg.SMTPPassword,
		From:        cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		FrontendURL: cfg.FrontendURL,

		ResetTokenTTL: cfg.ResetTokenTTL,
	}, logger)

	a.Auth = service.NewAuthService(service.AuthDeps{
		Users:    users,
		Profiles: profiles,
		Sessions: sessions,
		Hasher:   service.NewBcryptHasher(cfg.BcryptCost),
		Tokens:   service.NewJWTIssuer(cfg.JWTSecret),
		Mailer:   mailer,
		Logger:   logger,
	}, service.AuthConfig{
		AuthTokenTTL:   cfg.AuthTokenTTL,
		ResetTokenTTL:  cfg.ResetTokenTTL,
		VerifyTokenTTL: cfg.VerifyTokenTTL,
	})
	a.Users = service.NewUserService(users, profiles, logger)
	a.Profiles = service.NewProfileService(profiles, assets, logger)
	a.Links = service.NewLinkService(repository.NewLinkRepository(db), logger)

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterMetrics(a.registry)

	return a, nil
}

// Router builds the HTTP handler for the app.
func (a *App) Router() (*gin.Engine, error) {
	sqlDB, err := a.db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if a.cfg.Env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return router.SetupRouter(router.Deps{
		Auth:           a.Auth,
		Users:          a.Users,
		Profiles:       a.Profiles,
		Links:          a.Links,
		DB:             sqlDB,
		Gatherer:       a.registry,
		AllowedOrigins: a.cfg.AllowedOrigins(),
		Logger:         a.logger,
	}), nil
}

// Close releases the database and Redis connections.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if sqlDB, err := a.db.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}
