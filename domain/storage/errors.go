package storage

import (
	"errors"
	"fmt"
)

// Domain errors for storage operations.
var (
	// ErrDirectoryNotFound indicates no directory with the requested name is visible.
	ErrDirectoryNotFound = errors.New("directory not found")
)

// DirectoryNotFoundError carries the name that could not be resolved.
type DirectoryNotFoundError struct {
	Name string
}

// Error implements error.
func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("directory %q not found", e.Name)
}

// Unwrap allows errors.Is(err, ErrDirectoryNotFound).
func (e *DirectoryNotFoundError) Unwrap() error {
	return ErrDirectoryNotFound
}
