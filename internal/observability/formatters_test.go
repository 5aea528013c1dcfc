package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kairoscv/resume-extractor/internal/confidence"
	"github.com/kairoscv/resume-extractor/internal/pipeline"
	"github.com/kairoscv/resume-extractor/internal/types"
	"github.com/kairoscv/resume-extractor/internal/verification"
)

func sampleRecord() *types.ResumeRecord {
	r := types.NewResumeRecord()
	r.Contact.Name = "Jane Roe"
	r.Contact.Email = "jane@example.com"
	r.Experience = []types.ExperienceEntry{
		{Company: "Initech", Title: "Engineer", StartDate: "2019", EndDate: "Present", Bullets: []string{"Built things"}},
	}
	r.Education = []types.EducationEntry{{Institution: "MIT", Degree: "BS"}}
	r.Skills.Languages = []string{"Go", "Python"}
	r.Skills.Databases = []string{"PostgreSQL"}
	return r
}

func TestPrintRecord(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecord(sampleRecord())
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED RECORD")
	assert.Contains(t, output, "Jane Roe")
	assert.Contains(t, output, "Phone:    -")
	assert.Contains(t, output, "Engineer at Initech (2019 - Present), 1 bullets")
	assert.Contains(t, output, "BS, MIT")
	assert.Contains(t, output, "Skills (3): 2 languages, 0 frameworks, 0 tools, 1 databases")
}

func TestPrintRecord_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecord(nil)

	assert.Empty(t, buf.String())
}

func TestPrintRecord_ManyExperiences(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	r := sampleRecord()
	for i := 0; i < 7; i++ {
		r.Experience = append(r.Experience, types.ExperienceEntry{Company: "Co", Title: "Dev"})
	}
	p.PrintRecord(r)

	assert.Contains(t, buf.String(), "... and 3 more")
}

func TestPrintLayers(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintLayers(&pipeline.Result{
		DocumentID:   "doc-1",
		Completeness: 85,
		Layers:       pipeline.Layers{Extraction: true, Structuring: true},
		SnapshotPath: "data/snapshots/doc-1.json",
		Warnings:     []string{"No phone number found"},
	})
	output := buf.String()

	assert.Contains(t, output, "EXTRACTION LAYERS")
	assert.Contains(t, output, "doc-1")
	assert.Contains(t, output, "85%")
	assert.Contains(t, output, "✓ structuring")
	assert.Contains(t, output, "✗ visual")
	assert.Contains(t, output, "data/snapshots/doc-1.json")
	assert.Contains(t, output, "No phone number found")
}

func TestPrintVerification(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintVerification(
		[]verification.Outcome{
			{Field: "contact.name", Status: verification.StatusValid, Value: "Jane Roe"},
			{Field: "contact.email", Status: verification.StatusFound, Value: "jane@example.com", Previous: "Jane Roe"},
		},
		[]verification.Diagnostic{
			{Field: "contact.phone", Status: verification.StatusNotFound, Critical: true, Message: "phone not found after 2 attempts"},
		},
	)
	output := buf.String()

	assert.Contains(t, output, "FIELD VERIFICATION")
	assert.Contains(t, output, "contact.name")
	assert.Contains(t, output, `"Jane Roe" → "jane@example.com"`)
	assert.Contains(t, output, "❌ phone not found after 2 attempts")
}

func TestPrintVerification_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintVerification(nil, nil)

	assert.Empty(t, buf.String())
}

func TestPrintConfidence(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	conf := confidence.Score(sampleRecord())
	p.PrintConfidence(conf)
	output := buf.String()

	assert.Contains(t, output, "CONFIDENCE")
	assert.Contains(t, output, "Overall:")
	assert.Contains(t, output, "Experience")
	if len(conf.Suggestions) > 0 {
		assert.Contains(t, output, "Suggestions:")
	}
}

func TestPrintResult_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResult(nil)
	assert.Empty(t, buf.String())
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	r := sampleRecord()
	r.Contact.Name = "A Very Long Candidate Name That Should Be Truncated To Fit • Inside"
	p.PrintRecord(r)
	output := buf.String()

	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.Contains(t, output, "...")
	assert.NotContains(t, output, "Inside")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ééé...", truncate("éééééééé", 6))
}
