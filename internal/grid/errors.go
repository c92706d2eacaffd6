package grid

import (
	"errors"
	"fmt"

	"github.com/roach88/shiftgrid/internal/record"
)

// ConfigError represents a problem detected while assembling engine objects.
// These are surfaced to whoever configured the table, never silently ignored.
type ConfigError struct {
	// Code identifies the error category.
	Code ConfigErrorCode

	// Field names the offending configuration path (e.g. "columns[2].key").
	Field string

	// Message is a human-readable description.
	Message string
}

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeDuplicateColumn indicates two columns share a key.
	ErrCodeDuplicateColumn ConfigErrorCode = "E201"

	// ErrCodeEmptyColumnKey indicates a column without a key.
	ErrCodeEmptyColumnKey ConfigErrorCode = "E202"

	// ErrCodeUnknownFormat indicates an unrecognized column format name.
	ErrCodeUnknownFormat ConfigErrorCode = "E203"

	// ErrCodeInvalidWindow indicates non-positive row/viewport height or negative overscan.
	ErrCodeInvalidWindow ConfigErrorCode = "E204"
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConfigError reports whether err is a ConfigError with the given code.
// Uses errors.As to handle wrapped errors.
func IsConfigError(err error, code ConfigErrorCode) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// ErrInvalidPageSize is returned when a page size is not positive.
var ErrInvalidPageSize = errors.New("page size must be positive")

// ErrDuplicateID is returned when a snapshot contains two records with one id.
var ErrDuplicateID = record.ErrDuplicateID
