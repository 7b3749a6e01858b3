package engine

import "errors"

var (
	// ErrValidation indicates a validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("not found")

	// ErrExists indicates a profile with the same name already exists.
	ErrExists = errors.New("already exists")

	// ErrReserved indicates an operation on the built-in global profile.
	ErrReserved = errors.New("reserved profile")

	// ErrUnknownWorkspace indicates the open folders could not be mapped to a
	// storage bucket. Nothing is written when it is returned.
	ErrUnknownWorkspace = errors.New("could not determine workspace identity")
)
