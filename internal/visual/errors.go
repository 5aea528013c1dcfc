package visual

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned when no vision-capable client is configured.
var ErrUnavailable = errors.New("visual extraction not configured")

// ExtractionError is returned when the vision pass fails or its output
// cannot be used.
type ExtractionError struct {
	Message  string
	Attempts int
	Cause    error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("visual extraction: %s: %v", e.Message, e.Cause)
	}
	return "visual extraction: " + e.Message
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// UnsupportedTypeError is returned for document types a vision pass cannot
// read.
type UnsupportedTypeError struct {
	MIMEType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("visual extraction: unsupported document type %q", e.MIMEType)
}
