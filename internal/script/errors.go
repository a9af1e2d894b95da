package script

import (
	"errors"
	"fmt"
)

// Errors returned by the script host.
var (
	// ErrClosed is returned when operating on a closed host.
	ErrClosed = errors.New("script host is closed")

	// ErrInvalidName is returned for empty names or names with empty segments.
	ErrInvalidName = errors.New("invalid script name")

	// ErrNameConflict is returned when a dotted name crosses a non-table value.
	ErrNameConflict = errors.New("script name conflicts with existing value")

	// ErrNotFound is returned when a called function does not exist.
	ErrNotFound = errors.New("script function not found")

	// ErrNotFunction is returned when a called name is not a function.
	ErrNotFunction = errors.New("script value is not a function")

	// ErrNoMainScript is returned by Watch before a main script was loaded.
	ErrNoMainScript = errors.New("no main script loaded")
)

// Error reports a failure while running script code.
type Error struct {
	Op     string // "run", "call", "listener", "reload"
	Source string // file path, function name or listener handle
	Err    error
}

func (e *Error) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("script %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("script %s %s: %v", e.Op, e.Source, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
