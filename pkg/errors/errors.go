package errors

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by repositories when a lookup matches no row.
var ErrNotFound = gorm.ErrRecordNotFound

// IsDuplicate reports whether err is a unique-constraint violation. The
// store must be opened with gorm.Config.TranslateError.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsNotFound reports whether err means "no such row".
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
