package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	// Register the lib/pq database/sql driver.
	_ "github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/pageza/linkbio/backend/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator wraps golang-migrate for the embedded SQL migrations.
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator opens its own database/sql connection to dsn. Close releases it.
func NewMigrator(dsn string) (*Migrator, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create migrate driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run up migrations: %w", err)
	}
	return nil
}

// Down rolls back every migration. This drops all tables.
func (m *Migrator) Down() error {
	if err := m.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run down migrations: %w", err)
	}
	return nil
}

// Version returns the current version. Zero means nothing has been applied.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read migration version: %w", err)
	}
	return version, dirty, nil
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}

// RunMigrations brings the schema up to date. SQLite databases use gorm
// auto-migration; everything else runs the embedded SQL migrations against dsn.
func RunMigrations(db *gorm.DB, dsn string, log *slog.Logger) error {
	if db.Dialector.Name() == "sqlite" {
		if log != nil {
			log.Info("using gorm auto-migration for sqlite")
		}
		return AutoMigrate(db)
	}

	migrator, err := NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil {
		return err
	}
	if log != nil {
		version, _, _ := migrator.Version()
		log.Info("database migrations applied", "version", version)
	}
	return nil
}

// AutoMigrate creates the schema from the gorm models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Session{},
		&models.Link{},
	)
}
