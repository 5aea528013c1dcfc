package structuring

import (
	"fmt"
)

// FailureKind classifies why structuring gave up.
type FailureKind string

const (
	// FailureOverloaded means the provider reported it was at capacity and
	// the single allowed retry also failed.
	FailureOverloaded FailureKind = "overloaded"
	// FailureCapability covers every other provider or transport error.
	FailureCapability FailureKind = "capability"
	// FailureParse means the provider answered but never with a usable record.
	FailureParse FailureKind = "parse"
	// FailureCancelled means the caller's context ended the run.
	FailureCancelled FailureKind = "cancelled"
)

// Failure is the tagged error returned when structuring does not produce a
// record.
type Failure struct {
	Kind     FailureKind
	Attempts int
	Cause    error
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("structuring failed (%s) after %d attempt(s): %v", f.Kind, f.Attempts, f.Cause)
	}
	return fmt.Sprintf("structuring failed (%s) after %d attempt(s)", f.Kind, f.Attempts)
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// DecodeError represents a model response that could not be turned into a
// record.
type DecodeError struct {
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("decode error: %s", e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
