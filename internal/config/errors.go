package config

import (
	"errors"
	"fmt"

	"github.com/dshills/pylight/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrSettingNotFound indicates the setting path doesn't exist.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrTypeMismatch indicates the value type doesn't match the expected type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrValidationFailed indicates a value was rejected by a setter.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidPath indicates an invalid setting path format.
	ErrInvalidPath = errors.New("invalid setting path")

	// ErrReadOnly indicates a key that can only be changed through its
	// dedicated method.
	ErrReadOnly = errors.New("setting is read-only")
)

// ParseError describes a configuration file that could not be parsed.
type ParseError = loader.ParseError

// ValidationError describes a value rejected for a setting.
type ValidationError struct {
	// Key is the setting that failed validation.
	Key string
	// Value is the rejected value.
	Value any
	// Message describes the constraint.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Key, e.Message, e.Value)
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
