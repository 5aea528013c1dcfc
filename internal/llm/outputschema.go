package llm

import (
	"fmt"
	"strings"
)

// OutputSchema describes the JSON object a prompt asks the model for. It is
// rendered into the prompt as an annotated example, not enforced.
type OutputSchema struct {
	Name     string
	Preamble string // task instructions placed before the shape
	Fields   []OutputField
	// Rules are appended as a bulleted list. Nil uses defaultRules.
	Rules []string
}

// OutputField is one key of the requested object.
type OutputField struct {
	Name     string
	Shape    string // JSON sketch of the value; "string" when empty
	Note     string
	Required bool
}

var defaultRules = []string{
	"Copy text exactly as written; do not invent, reword or summarize.",
	"Use an empty string or an empty array when something is absent.",
	"Return ONLY the JSON object with no markdown fences and no commentary.",
}

// WithPreamble returns a copy of s with different task instructions.
func (s OutputSchema) WithPreamble(preamble string) OutputSchema {
	s.Preamble = preamble
	return s
}

// Prompt renders the instructions, the expected shape and the input text.
func (s OutputSchema) Prompt(input string) string {
	var sb strings.Builder
	sb.WriteString(s.Preamble)
	sb.WriteString("\n\nRespond with JSON of exactly this shape:\n{\n")
	for i, f := range s.Fields {
		shape := f.Shape
		if shape == "" {
			shape = "string"
		}
		fmt.Fprintf(&sb, "  %q: %s", f.Name, shape)
		if f.Required {
			sb.WriteString(" (required)")
		}
		if f.Note != "" {
			sb.WriteString(" // " + f.Note)
		}
		if i < len(s.Fields)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("}\n\nRules:\n")

	rules := s.Rules
	if rules == nil {
		rules = defaultRules
	}
	for _, rule := range rules {
		sb.WriteString("- " + rule + "\n")
	}

	sb.WriteString("\nInput text:\n\"\"\"\n")
	sb.WriteString(input)
	sb.WriteString("\n\"\"\"\n")
	return sb.String()
}

// ResumeRecordSchema asks for a full resume record.
func ResumeRecordSchema() OutputSchema {
	return OutputSchema{
		Name: "ResumeRecord",
		Preamble: `You are an expert resume parser. COPY TEXT VERBATIM - do not paraphrase, summarize, or reword.
Extract every piece of information in the resume into the structure below.
Content that fits no named section goes into customSections with its original heading.`,
		Fields: []OutputField{
			{Name: "contact", Shape: `{"name": "string", "email": "string", "phone": "string", "linkedin": "string", "github": "string", "website": "string", "location": "string"}`, Note: "Contact block, usually at the top", Required: true},
			{Name: "summary", Shape: `"string"`, Note: "Professional summary or objective"},
			{Name: "experience", Shape: `[{"company": "string", "title": "string", "location": "string", "startDate": "string", "endDate": "string", "bullets": ["string"]}]`, Note: `Every role in document order; use "Present" for current roles`, Required: true},
			{Name: "education", Shape: `[{"institution": "string", "degree": "string", "field": "string", "location": "string", "startDate": "string", "endDate": "string", "gpa": "string", "honors": ["string"], "relevantCoursework": ["string"]}]`, Note: "Every degree or program", Required: true},
			{Name: "skills", Shape: `{"languages": ["string"], "frameworks": ["string"], "tools": ["string"], "databases": ["string"]}`, Note: "Skills split into the four buckets", Required: true},
			{Name: "projects", Shape: `[{"name": "string", "description": "string", "technologies": ["string"], "bullets": ["string"], "link": "string", "github": "string"}]`, Note: "Personal or professional projects"},
			{Name: "certifications", Shape: `[{"name": "string", "issuer": "string", "date": "string"}]`},
			{Name: "awards", Shape: `[{"name": "string", "issuer": "string", "date": "string", "description": "string"}]`},
			{Name: "publications", Shape: `[{"title": "string", "authors": ["string"], "venue": "string", "date": "string", "url": "string"}]`},
			{Name: "languageProficiency", Shape: `[{"language": "string", "proficiency": "string"}]`},
			{Name: "volunteer", Shape: `[{"organization": "string", "role": "string", "startDate": "string", "endDate": "string", "bullets": ["string"]}]`},
			{Name: "hobbies", Shape: `[{"name": "string", "description": "string"}]`},
			{Name: "references", Shape: `["string"]`},
			{Name: "customSections", Shape: `[{"heading": "string", "content": ["string"]}]`, Note: "Catch-all for any other headed content"},
		},
	}
}

// CompletenessSchema asks which source content a structured record missed.
func CompletenessSchema() OutputSchema {
	return OutputSchema{
		Name: "Completeness",
		Preamble: `You are auditing a resume extraction. Compare the structured record with the original text
and list every piece of visible content that the record is missing.`,
		Fields: []OutputField{
			{Name: "isComplete", Shape: "boolean", Required: true},
			{Name: "missingContent", Shape: `["string"]`, Note: "Each missing item, quoted from the source", Required: true},
			{Name: "confidence", Shape: "number", Note: "0.0 to 1.0", Required: true},
		},
		Rules: []string{
			"Only report content that is visible in the input text.",
			"Return ONLY the JSON object with no markdown fences and no commentary.",
		},
	}
}
