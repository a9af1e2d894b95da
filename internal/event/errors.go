package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for the dispatcher.
var (
	// ErrNilListener is returned when a nil callback is registered.
	ErrNilListener = errors.New("listener cannot be nil")

	// ErrInvalidOwner is returned when the owner cannot be used as a map key.
	ErrInvalidOwner = errors.New("listener owner must be comparable")

	// ErrDuplicateListener is returned when the exact (id, owner, callback)
	// tuple is already registered.
	ErrDuplicateListener = errors.New("listener already registered")

	// ErrListenerPanic is matched by PanicError.
	ErrListenerPanic = errors.New("listener panicked")
)

// ListenerError wraps an error returned by a listener. The remaining
// listeners of the dispatch that produced it were skipped.
type ListenerError struct {
	// ID is the event being dispatched.
	ID ID

	// Index is the position of the failing listener in the dispatch snapshot.
	Index int

	// Err is the listener's error.
	Err error
}

// Error implements the error interface.
func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener %d for %s failed: %v", e.Index, e.ID, e.Err)
}

// Unwrap returns the underlying error.
func (e *ListenerError) Unwrap() error {
	return e.Err
}

// PanicError records a listener panic recovered by the dispatcher.
type PanicError struct {
	ID    ID
	Index int
	Value any
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("listener %d for %s panicked: %v", e.Index, e.ID, e.Value)
}

// Is allows errors.Is to match PanicError with ErrListenerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrListenerPanic
}
