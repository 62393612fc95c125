package model

import (
	"errors"
	"fmt"
)

// Error kinds. The original surfaced every failure as a bare string; the
// service distinguishes rejected input, missing records and store failures
// so handlers can map them to proper status codes.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrWriteFailed = errors.New("write failed")
	ErrCommitBusy  = errors.New("another commit is in flight")
)

// ValidationError builds a user-facing validation rejection
func ValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundError builds a missing-record error
func NotFoundError(kind, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
}

// WriteError wraps a store failure. The cause is preserved for logs; the
// commit it belonged to is aborted whole.
func WriteError(err error) error {
	return fmt.Errorf("%w: %v", ErrWriteFailed, err)
}
