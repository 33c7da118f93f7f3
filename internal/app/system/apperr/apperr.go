// internal/app/system/apperr/apperr.go

// Package apperr defines the error taxonomy shared by the stores and
// handlers. Store operations return these as wrapped errors so callers
// can branch with errors.Is and surface a message naming the operation
// and the reason, instead of a blank failure.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a referenced document id is absent.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied means the backend rejected the session or the
	// caller's role does not allow the operation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrStoreUnavailable means the backend or network failed; the
	// operation may be retried.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrValidation means the input was rejected locally before any I/O.
	ErrValidation = errors.New("validation failed")
)

// NotFound wraps ErrNotFound with the entity description.
func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

// Validation wraps ErrValidation with the field-level reason.
func Validation(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrValidation)
}

// Unavailable wraps a transport/backend error as ErrStoreUnavailable,
// keeping the cause in the chain.
func Unavailable(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, cause)
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidation reports whether err is (or wraps) ErrValidation.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsUnavailable reports whether err is (or wraps) ErrStoreUnavailable.
func IsUnavailable(err error) bool { return errors.Is(err, ErrStoreUnavailable) }
