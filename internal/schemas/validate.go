// Package schemas checks resume records and arbitrary JSON files against
// JSON Schema documents.
package schemas

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	recordschemas "github.com/kairoscv/resume-extractor/schemas"
)

// rootField labels violations on the document itself.
const rootField = "(root)"

// FieldError is one schema violation.
type FieldError struct {
	Field   string // dotted path, e.g. experience.0.title
	Message string
}

// ValidationError lists every violation in a document that parsed but does
// not match its schema.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	parts := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("validation failed: %d schema violation(s): %s", len(ve.Errors), strings.Join(parts, "; "))
}

// Fields returns the failing field paths in report order.
func (ve *ValidationError) Fields() []string {
	fields := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		fields[i] = fe.Field
	}
	return fields
}

// SchemaError reports a schema that could not be read or compiled.
type SchemaError struct {
	Source string
	Cause  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid schema %s: %v", e.Source, e.Cause)
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}

var recordSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(recordschemas.ResumeRecord))
	if err != nil {
		return nil, &SchemaError{Source: "resume_record.schema.json", Cause: err}
	}
	return schema, nil
})

// ValidateRecord checks a resume record or stored snapshot. It returns a
// *ValidationError for schema violations and a plain error when data is
// not JSON.
func ValidateRecord(data []byte) error {
	schema, err := recordSchema()
	if err != nil {
		return err
	}
	return check(schema, data, "record")
}

// ValidateRecordFile runs ValidateRecord over a file.
func ValidateRecordFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ValidateRecord(data)
}

// ValidateJSON checks the JSON file at jsonPath against the schema file at
// schemaPath.
func ValidateJSON(schemaPath, jsonPath string) error {
	raw, err := readFile("schema", schemaPath)
	if err != nil {
		return err
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &SchemaError{Source: schemaPath, Cause: err}
	}

	data, err := readFile("JSON", jsonPath)
	if err != nil {
		return err
	}
	return check(schema, data, jsonPath)
}

func readFile(kind, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s file not found: %s", kind, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file: %w", kind, err)
	}
	return data, nil
}

func check(schema *gojsonschema.Schema, data []byte, label string) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", label, err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = rootField
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}
