package structuring

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/kairoscv/resume-extractor/internal/llm"
	"github.com/kairoscv/resume-extractor/internal/schemas"
	"github.com/kairoscv/resume-extractor/internal/types"
)

// Decoded is a record decoded from model output, with a note of how far it
// strayed from the canonical shape.
type Decoded struct {
	Record *types.ResumeRecord
	// Strict is true when the response passed schema validation unchanged.
	Strict bool
	// SchemaErrors lists the field paths that failed validation.
	SchemaErrors []string
	// UnknownFields lists top-level keys the record does not define.
	UnknownFields []string
}

// Decode turns a raw model response into a record. The response is first
// validated against the record schema; when that fails the lenient decoder
// keeps every field it recognizes. Only output that is not a JSON object is
// rejected.
func Decode(response string) (*Decoded, error) {
	cleaned := strings.TrimSpace(llm.CleanJSONBlock(response))
	if cleaned == "" {
		return nil, &DecodeError{Message: "empty response"}
	}
	data := []byte(cleaned)
	if !json.Valid(data) {
		return nil, &DecodeError{Message: "response is not valid JSON"}
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &DecodeError{Message: "response is not a JSON object", Cause: err}
	}

	out := &Decoded{Strict: true}
	if err := schemas.ValidateRecord(data); err != nil {
		out.Strict = false
		var vErr *schemas.ValidationError
		if errors.As(err, &vErr) {
			out.SchemaErrors = vErr.Fields()
		} else {
			out.SchemaErrors = []string{err.Error()}
		}
	}

	var record types.ResumeRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, &DecodeError{Message: "failed to decode record", Cause: err}
	}
	record.Sanitize()
	record.EnsureLists()

	out.Record = &record
	out.UnknownFields = types.UnknownFields(data)
	return out, nil
}
