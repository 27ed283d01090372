// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Engine errors.
	ErrStoreUnavailable = errors.New("pattern store unavailable")
	ErrNoSnapshot       = errors.New("no pattern snapshot available")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// StoreError wraps a store read failure with the operation that failed.
// It unwraps to ErrStoreUnavailable so callers can branch on the class of
// failure without inspecting strings.
type StoreError struct {
	Err error
	Op  string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrStoreUnavailable, e.Err)
}

func (e *StoreError) Unwrap() error {
	return ErrStoreUnavailable
}

// NewStoreError wraps err as a store failure during op.
func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// IsStoreUnavailable reports whether err represents a store read failure.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
