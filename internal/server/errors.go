package server

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kairoscv/resume-extractor/internal/db"
	"github.com/kairoscv/resume-extractor/internal/pipeline"
	"github.com/kairoscv/resume-extractor/internal/storage"
	"github.com/kairoscv/resume-extractor/internal/visual"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validation *ErrValidation
	var layer *pipeline.LayerError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation), errors.Is(err, storage.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrCancelled):
		return http.StatusServiceUnavailable
	case errors.As(err, &layer):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// newValidator returns a validator that reports json field names and knows
// the mimetype tag.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	//nolint:errcheck // tag name is static
	v.RegisterValidation("mimetype", func(fl validator.FieldLevel) bool {
		return visual.Supported(fl.Field().String())
	})
	return v
}

// validationError turns validator output into an *ErrValidation naming the
// first failing field.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ErrValidation{Message: err.Error()}
	}
	fe := fieldErrs[0]
	field := strings.TrimPrefix(fe.Namespace(), strings.SplitN(fe.Namespace(), ".", 2)[0]+".")
	var msg string
	switch fe.Tag() {
	case "required", "required_with":
		msg = "is required"
	case "required_without":
		msg = fmt.Sprintf("is required when %s is empty", strings.ToLower(fe.Param()))
	case "mimetype":
		msg = fmt.Sprintf("unsupported type %q", fe.Value())
	case "max":
		msg = "must be at most " + fe.Param()
	case "min":
		msg = "must be at least " + fe.Param()
	default:
		msg = "failed " + fe.Tag()
	}
	return &ErrValidation{Field: field, Message: msg}
}

