package workspace

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates no definition file matched the requested folder set.
	ErrNotFound = errors.New("not found")

	// ErrNoFolders indicates Resolve was called without any folder.
	ErrNoFolders = errors.New("no workspace folders given")

	// ErrUnknownShape indicates a JSON document that is not a workspace definition.
	ErrUnknownShape = errors.New("unrecognized definition shape")
)

// ResolutionError is returned when no storage bucket matches the requested
// folders. It wraps ErrNotFound.
type ResolutionError struct {
	Folders []string
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not determine workspace identity for [%s]: %v", strings.Join(e.Folders, ", "), e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// ParseError reports a definition file that could not be read or decoded.
// The resolver discards such candidates instead of failing.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
