package pack

import "errors"

// Domain errors for pack operations.
var (
	// ErrInvalidPack is returned when a pack is missing required parts.
	ErrInvalidPack = errors.New("invalid pack")

	// ErrDuplicateTool is returned when a pack declares the same tool twice.
	ErrDuplicateTool = errors.New("duplicate tool in pack")
)
