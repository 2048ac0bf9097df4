package speech

import (
	"errors"
	"fmt"
)

// Common speech errors
var (
	// ErrEmptyText indicates there was nothing to speak
	ErrEmptyText = errors.New("text is empty")

	// ErrNotPlayable indicates a backend answered with something that is not audio
	ErrNotPlayable = errors.New("response is not playable audio")

	// ErrUnavailable indicates a backend binary or service cannot be reached
	ErrUnavailable = errors.New("speech backend unavailable")

	// ErrDecode indicates encoded audio could not be turned into PCM
	ErrDecode = errors.New("audio decode failed")

	// ErrOutputTooLarge indicates a subprocess wrote more than allowed to stdout
	ErrOutputTooLarge = errors.New("subprocess output too large")
)

// Error records which backend failed during which step.
type Error struct {
	Backend string // e.g. "remote", "local"
	Op      string // e.g. "fetch", "decode", "synthesize"
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("speech %s: %s: %v", e.Backend, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError returns an *Error for backend and op wrapping err.
func NewError(backend, op string, err error) *Error {
	return &Error{Backend: backend, Op: op, Err: err}
}
