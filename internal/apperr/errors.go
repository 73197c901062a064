// Package apperr defines sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrGenerationRunning    = errors.New("generation already running")
	ErrConflictingTarget    = errors.New("commands-only and index-only cannot be combined")
	ErrGenerationIncomplete = errors.New("some documents could not be written")
)
