// Package apperr defines the sentinel errors shared across layers.
package apperr

import "errors"

var (
	// ErrNotFound signals that a referenced prompt or note id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation signals missing or malformed input. Wrap it with the
	// human-readable description, e.g.
	// fmt.Errorf("%w: title: cannot be blank", ErrValidation).
	ErrValidation = errors.New("validation failed")
)
