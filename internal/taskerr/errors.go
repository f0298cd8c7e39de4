// Package taskerr defines the error taxonomy of the engine: validation
// failures (rejected before anything is persisted), persistence failures
// (backend unreachable or write rejected, never retried) and authorization
// violations (the action no-ops).
package taskerr

import (
	"errors"
	"fmt"
)

// ErrForbidden marks an action attempted against the permission table.
// Task state is never mutated when it is returned.
var ErrForbidden = errors.New("action not permitted")

// ErrNotFound marks a task id that does not exist in the store.
var ErrNotFound = errors.New("task not found")

// ValidationError is a user-correctable input problem, reported inline.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validation builds a ValidationError.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PersistenceError wraps a backend failure. The operation simply failed;
// the caller re-offers the action instead of retrying.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence wraps err as a PersistenceError for the given operation.
func Persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// IsPersistence reports whether err is a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
