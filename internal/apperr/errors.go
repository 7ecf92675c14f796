// Package apperr defines the error kinds surfaced by the access, layout, and
// vendor services. Handlers map them to HTTP responses with errors.Is/As.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied covers every failed vendor credential check. Callers
	// never learn which half of the credential was wrong.
	ErrAccessDenied = errors.New("access denied")

	// ErrPersistence is matched by every *PersistenceError.
	ErrPersistence = errors.New("persistence failure")
)

// ValidationError reports missing or malformed input. It is returned before
// any persistence call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Invalid builds a ValidationError for field.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PersistenceError wraps a failed store call with the operation that failed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrPersistence) true for any PersistenceError.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// Persistence wraps err as a PersistenceError. A nil err stays nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
