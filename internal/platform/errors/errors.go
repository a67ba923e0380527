package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrMalformedData    = errors.New("malformed stored data")
	ErrUnhandledAction  = errors.New("unhandled action")
	ErrMissingSender    = errors.New("missing sender tab")
	ErrDaemonNotRunning = errors.New("daemon is not running")
)

// RetrievalError reports state a UI surface needs at startup but could not load.
// It aborts that surface's init path only.
type RetrievalError struct {
	What string
	Err  error
}

func (e *RetrievalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unable to get %s", e.What)
	}
	return fmt.Sprintf("unable to get %s: %v", e.What, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}
