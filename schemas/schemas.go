// Package schemas holds the JSON Schema documents for the artifacts the
// extractor reads and writes.
package schemas

import _ "embed"

// ResumeRecord is the JSON Schema for a resume record or stored snapshot.
//
//go:embed resume_record.schema.json
var ResumeRecord string
