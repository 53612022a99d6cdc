package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrValidationFailed indicates a setting has an unusable value.
	ErrValidationFailed = errors.New("validation failed")

	// ErrDecode indicates the merged settings could not be decoded.
	ErrDecode = errors.New("config decode failed")

	// ErrNoFile is returned by Watch when no config file is configured.
	ErrNoFile = errors.New("no config file configured")

	// ErrManagerClosed is returned when using a closed Manager.
	ErrManagerClosed = errors.New("config manager closed")
)

// ValidationError describes a validation failure for one setting.
type ValidationError struct {
	// Path is the setting path, e.g. "listen.address".
	Path string
	// Value is the rejected value.
	Value any
	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Path, e.Message, e.Value)
}

// Is reports whether target is ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
