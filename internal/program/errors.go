package program

import "errors"

// Program errors.
var (
	// ErrInvalidArgument is returned for out-of-range arguments such as a
	// non-positive frame rate.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAlreadyRunning is returned by Run while the loop is running.
	ErrAlreadyRunning = errors.New("program already running")

	// ErrExited is returned by Run after the program has exited.
	ErrExited = errors.New("program has exited")
)
