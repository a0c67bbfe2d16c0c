package project

import (
	"errors"
	"fmt"
)

// Standard errors returned by the project package.
var (
	// ErrExists indicates the file, folder or project directory already exists.
	ErrExists = errors.New("already exists")

	// ErrNotFound indicates a project manifest was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidName indicates a file or folder name failed validation.
	ErrInvalidName = errors.New("invalid name")

	// ErrOutsideDir indicates a name that resolves outside its parent directory.
	ErrOutsideDir = errors.New("path escapes directory")

	// ErrUnknownKind indicates an unrecognized project kind.
	ErrUnknownKind = errors.New("unknown project kind")
)

// PathError represents an error associated with a file path.
type PathError struct {
	Op   string // Operation that failed (create, mkdir, load, etc.)
	Path string // File path
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PathError) Unwrap() error {
	return e.Err
}

// NewPathError creates a new PathError.
func NewPathError(op, path string, err error) *PathError {
	return &PathError{Op: op, Path: path, Err: err}
}

// NameError describes a rejected file or folder name.
type NameError struct {
	Name   string
	Reason string
}

// Error implements the error interface.
func (e *NameError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Name, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidName.
func (e *NameError) Unwrap() error {
	return ErrInvalidName
}

// IsExists returns true if the error indicates the target already exists.
func IsExists(err error) bool {
	return errors.Is(err, ErrExists)
}

// IsInvalidName returns true if the error indicates a rejected name.
func IsInvalidName(err error) bool {
	return errors.Is(err, ErrInvalidName)
}
