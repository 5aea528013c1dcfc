package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"google.golang.org/api/googleapi"
)

// APICallError represents a failed call to a model provider.
type APICallError struct {
	Provider Provider
	Message  string
	Cause    error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s API call failed: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s API call failed: %s", e.Provider, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// OverloadedError marks a provider response saying the service is at
// capacity. Callers retry it at most once.
type OverloadedError struct {
	Provider Provider
	Cause    error
}

func (e *OverloadedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s is overloaded: %v", e.Provider, e.Cause)
	}
	return fmt.Sprintf("%s is overloaded", e.Provider)
}

func (e *OverloadedError) Unwrap() error {
	return e.Cause
}

// anthropicOverloadedStatus is the non-standard status Anthropic returns
// when the API is over capacity.
const anthropicOverloadedStatus = 529

// IsOverloaded reports whether err signals provider overload, either as an
// *OverloadedError or as a raw provider error that has not been wrapped yet.
func IsOverloaded(err error) bool {
	if err == nil {
		return false
	}
	var overloaded *OverloadedError
	if errors.As(err, &overloaded) {
		return true
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		if gErr.Code == http.StatusServiceUnavailable || gErr.Code == http.StatusTooManyRequests {
			return true
		}
	}

	var aErr *anthropic.Error
	if errors.As(err, &aErr) {
		if aErr.StatusCode == anthropicOverloadedStatus || aErr.StatusCode == http.StatusServiceUnavailable {
			return true
		}
	}

	msg := err.Error()
	return strings.Contains(strings.ToLower(msg), "overloaded") || strings.Contains(msg, "UNAVAILABLE")
}

// IsCancelled reports whether err came from a cancelled or expired context.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// wrapProviderError classifies a raw SDK error.
func wrapProviderError(provider Provider, message string, err error) error {
	if err == nil {
		return nil
	}
	if IsCancelled(err) {
		return err
	}
	if IsOverloaded(err) {
		return &OverloadedError{Provider: provider, Cause: err}
	}
	return &APICallError{Provider: provider, Message: message, Cause: err}
}
