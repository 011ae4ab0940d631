package store

import "errors"

// Every failure a store operation reports wraps one of these, or is an
// internal storage error passed through unchanged.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
)
