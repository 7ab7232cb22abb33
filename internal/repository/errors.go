// Package repository implements the service stores on gorm and Redis.
package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/linkbio/backend/internal/models"
)

// translate maps driver errors onto the model sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return models.ErrDuplicate
	}
	return err
}

// isUniqueViolation catches drivers that do not translate constraint errors.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
