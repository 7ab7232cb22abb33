package database

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLitePrefix selects the SQLite driver when it prefixes the DSN.
const SQLitePrefix = "sqlite://"

// IsSQLite reports whether dsn targets SQLite.
func IsSQLite(dsn string) bool {
	return strings.HasPrefix(dsn, SQLitePrefix)
}

// InitDB opens a gorm connection for dsn. DSNs starting with sqlite:// use
// SQLite; anything else is handed to the postgres driver.
func InitDB(dsn string, log *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if IsSQLite(dsn) {
		dialector = sqlite.Open(strings.TrimPrefix(dsn, SQLitePrefix))
	} else {
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if IsSQLite(dsn) {
		// SQLite serialises writers; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if log != nil {
		log.Info("connected to database", "driver", dialector.Name())
	}
	return db, nil
}
