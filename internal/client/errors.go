package client

import (
	"errors"
	"fmt"
)

// ErrAuthRequired means the action was attempted without a valid session.
// Callers must not apply any optimistic change for it; there is nothing to
// roll back.
var ErrAuthRequired = errors.New("authentication required")

// ConflictError is a uniqueness violation (duplicate item name). It is
// surfaced distinctly so the UI can show a specific message, but rollback
// handling is identical to RemoteError.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message == "" {
		return "conflict"
	}
	return e.Message
}

// RemoteError is any failed request: network error, non-2xx status, or an
// explicit ok:false envelope. Always triggers rollback, never retried
// automatically.
type RemoteError struct {
	Status  int // 0 when the request never completed
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote call failed: %v", e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("remote call failed (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("remote call failed (%d)", e.Status)
}

func (e *RemoteError) Unwrap() error { return e.Err }
