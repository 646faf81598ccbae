package core

import (
	"errors"
	"fmt"
)

// Engine error taxonomy - centralized error definitions.
// Every analysis either returns a fully populated result or exactly one of
// these errors; partial results are never produced.
var (
	// Request shape errors
	ErrInvalidConfig     = errors.New("invalid analysis configuration")
	ErrInvalidGroupCount = errors.New("invalid number of groups")
	ErrLengthMismatch    = errors.New("series length mismatch")
	ErrColumnNotFound    = errors.New("column not found")
	ErrTypeMismatch      = errors.New("column type incompatible with analysis")

	// Data adequacy errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrDegenerateInput  = errors.New("degenerate input data")
	ErrSingularDesign   = errors.New("singular design matrix")
	ErrEmptyResult      = errors.New("operation leaves zero usable rows")

	// Cooperative cancellation
	ErrCancelled = errors.New("analysis cancelled")
)

// Error constructors with context

func NewInvalidConfigError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, reason)
}

func NewUnknownConfigKeyError(key string) error {
	return fmt.Errorf("%w: unrecognized key %q", ErrInvalidConfig, key)
}

func NewColumnNotFoundError(name string) error {
	return fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

func NewTypeMismatchError(name string, got string, want string) error {
	return fmt.Errorf("%w: column %q is %s, need %s", ErrTypeMismatch, name, got, want)
}

func NewInsufficientDataError(what string, n int, need int) error {
	return fmt.Errorf("%w: %s has %d usable values, need at least %d", ErrInsufficientData, what, n, need)
}

func NewDegenerateInputError(what string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrDegenerateInput, what, reason)
}

// Error checking helpers

func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrColumnNotFound) ||
		errors.Is(err, ErrTypeMismatch)
}

func IsStructuralError(err error) bool {
	return errors.Is(err, ErrInvalidGroupCount) ||
		errors.Is(err, ErrLengthMismatch)
}

func IsDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrDegenerateInput) ||
		errors.Is(err, ErrSingularDesign) ||
		errors.Is(err, ErrEmptyResult)
}

func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
