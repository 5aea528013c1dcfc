package pipeline

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when the caller's context ends a run. Nothing is
// persisted for a cancelled run.
var ErrCancelled = errors.New("extraction cancelled")

// LayerError is a fatal failure of one layer. Layers records which layers
// had completed when it happened.
type LayerError struct {
	Layer  string
	Layers Layers
	Cause  error
}

func (e *LayerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s layer failed: %v", e.Layer, e.Cause)
	}
	return e.Layer + " layer failed"
}

func (e *LayerError) Unwrap() error {
	return e.Cause
}

// cancelled wraps the context error so callers can match either
// ErrCancelled or context.Canceled / context.DeadlineExceeded.
func cancelled(layer string, cause error) error {
	return fmt.Errorf("%w during %s: %w", ErrCancelled, layer, cause)
}
