package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	pkgerrors "github.com/simplezakka/zakka-backend/pkg/errors"
)

// IsUniqueViolation reports whether err came from a unique constraint, on
// either driver. When constraint is set the message must also mention it.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	unique := errors.Is(err, gorm.ErrDuplicatedKey) ||
		pkgerrors.IsUniqueViolation(err) ||
		strings.Contains(err.Error(), "duplicate key value") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
	if !unique {
		return false
	}
	if constraint == "" {
		return true
	}
	return strings.Contains(err.Error(), constraint)
}

// IsNotFound reports gorm's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
