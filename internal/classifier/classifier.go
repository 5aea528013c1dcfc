// Package classifier asks the model to label resume fragments, check field
// placements, sort skills into buckets and audit a record for missing
// content. Every call degrades to a permissive result when the model is
// unavailable or answers with something unusable, so the pipeline never
// blocks on classification.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kairoscv/resume-extractor/internal/llm"
	"github.com/kairoscv/resume-extractor/internal/logging"
	"github.com/kairoscv/resume-extractor/internal/prompts"
)

// Field is one of the closed set of field kinds a fragment can be labeled
// with.
type Field string

const (
	FieldName                Field = "name"
	FieldEmail               Field = "email"
	FieldPhone               Field = "phone"
	FieldLocation            Field = "location"
	FieldLinkedIn            Field = "linkedin"
	FieldGitHub              Field = "github"
	FieldWebsite             Field = "website"
	FieldJobTitle            Field = "job_title"
	FieldCompany             Field = "company"
	FieldInstitution         Field = "institution"
	FieldDegree              Field = "degree"
	FieldSkill               Field = "skill"
	FieldProjectName         Field = "project_name"
	FieldBulletPoint         Field = "bullet_point"
	FieldDate                Field = "date"
	FieldCertification       Field = "certification"
	FieldAward               Field = "award"
	FieldPublication         Field = "publication"
	FieldLanguageProficiency Field = "language_proficiency"
	FieldVolunteerRole       Field = "volunteer_role"
	FieldHobby               Field = "hobby"
	FieldOther               Field = "other"
)

// fieldDescriptions lists every field kind in prompt order.
var fieldDescriptions = []struct {
	field       Field
	description string
}{
	{FieldName, "person's full name, usually 2-4 words at the top"},
	{FieldEmail, "email address"},
	{FieldPhone, "phone number"},
	{FieldLocation, "city, state or country"},
	{FieldLinkedIn, "LinkedIn profile URL or username"},
	{FieldGitHub, "GitHub profile URL or username"},
	{FieldWebsite, "personal website or portfolio URL"},
	{FieldJobTitle, "job role or position title"},
	{FieldCompany, "company or organization name"},
	{FieldInstitution, "educational institution"},
	{FieldDegree, "academic degree"},
	{FieldSkill, "technical skill: language, framework, tool or database"},
	{FieldProjectName, "name of a personal or professional project"},
	{FieldBulletPoint, "description of a work or project achievement"},
	{FieldDate, "date or date range"},
	{FieldCertification, "professional certification"},
	{FieldAward, "award or honor"},
	{FieldPublication, "research paper or article"},
	{FieldLanguageProficiency, "spoken language skill"},
	{FieldVolunteerRole, "volunteer position"},
	{FieldHobby, "personal interest or hobby"},
	{FieldOther, "anything else"},
}

// ParseField maps a model label onto the closed set. Unknown labels become
// FieldOther.
func ParseField(label string) Field {
	l := Field(strings.ToLower(strings.TrimSpace(label)))
	for _, fd := range fieldDescriptions {
		if fd.field == l {
			return l
		}
	}
	return FieldOther
}

const (
	// unavailableConfidence is reported when no model is configured.
	unavailableConfidence = 0.5
	// failedConfidence is reported when the model call or its decode failed.
	failedConfidence = 0.3
)

// Options configures a Classifier.
type Options struct {
	Tier   llm.ModelTier
	Logger logrus.FieldLogger
}

// Classifier wraps the model calls used to check and sort fields.
type Classifier struct {
	client llm.Client
	tier   llm.ModelTier
	log    logrus.FieldLogger
}

// New returns a Classifier. A nil client is allowed and makes every call
// return its permissive fallback.
func New(client llm.Client, opts Options) *Classifier {
	tier := opts.Tier
	if tier == "" {
		tier = llm.TierLite
	}
	return &Classifier{
		client: client,
		tier:   tier,
		log:    logging.OrDiscard(opts.Logger),
	}
}

// Available reports whether a model is configured.
func (c *Classifier) Available() bool {
	return c != nil && c.client != nil
}

// Context narrows a classification with what is already known about the
// fragment.
type Context struct {
	Section        string
	PreviousFields []string
}

// Classification labels a fragment.
type Classification struct {
	Field      Field   `json:"field"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// ClassifyField labels text with one of the known field kinds. On error the
// returned Classification is FieldOther with low confidence and the error
// says why.
func (c *Classifier) ClassifyField(ctx context.Context, text string, fc Context) (Classification, error) {
	if !c.Available() {
		return Classification{Field: FieldOther, Confidence: unavailableConfidence, Reasoning: "classifier not configured"}, nil
	}

	var b strings.Builder
	for _, fd := range fieldDescriptions {
		fmt.Fprintf(&b, "- %s: %s\n", fd.field, fd.description)
	}
	var contextLines []string
	if fc.Section != "" {
		contextLines = append(contextLines, "SECTION CONTEXT: "+fc.Section)
	}
	if len(fc.PreviousFields) > 0 {
		contextLines = append(contextLines, "PREVIOUSLY EXTRACTED: "+strings.Join(fc.PreviousFields, ", "))
	}

	prompt := prompts.Format(prompts.MustGet("classification.json", "classify-field"), map[string]string{
		"Text":    text,
		"Context": strings.Join(contextLines, "\n"),
		"Fields":  strings.TrimRight(b.String(), "\n"),
	})

	var resp struct {
		Field      string   `json:"field"`
		Confidence *float64 `json:"confidence"`
		Reasoning  string   `json:"reasoning"`
	}
	if err := c.generate(ctx, prompt, &resp); err != nil {
		return Classification{Field: FieldOther, Confidence: failedConfidence, Reasoning: "classification failed"}, err
	}
	return Classification{
		Field:      ParseField(resp.Field),
		Confidence: confidenceOr(resp.Confidence, unavailableConfidence),
		Reasoning:  resp.Reasoning,
	}, nil
}

// Placement is the verdict on a value already stored in a field.
type Placement struct {
	IsCorrect      bool    `json:"isCorrect"`
	SuggestedField string  `json:"suggestedField,omitempty"`
	Confidence     float64 `json:"confidence"`
}

// ValidateFieldPlacement asks whether value belongs in field. The value is
// accepted when the model cannot answer.
func (c *Classifier) ValidateFieldPlacement(ctx context.Context, field, value, expectedType string) (Placement, error) {
	if !c.Available() {
		return Placement{IsCorrect: true, Confidence: unavailableConfidence}, nil
	}

	prompt := prompts.Format(prompts.MustGet("classification.json", "validate-placement"), map[string]string{
		"Field":        field,
		"ExpectedType": expectedType,
		"Value":        value,
	})

	var resp struct {
		IsCorrect      *bool    `json:"isCorrect"`
		SuggestedField string   `json:"suggestedField"`
		Confidence     *float64 `json:"confidence"`
	}
	if err := c.generate(ctx, prompt, &resp); err != nil {
		return Placement{IsCorrect: true, Confidence: failedConfidence}, err
	}

	p := Placement{IsCorrect: true, Confidence: confidenceOr(resp.Confidence, unavailableConfidence)}
	if resp.IsCorrect != nil {
		p.IsCorrect = *resp.IsCorrect
	}
	if !p.IsCorrect {
		p.SuggestedField = strings.TrimSpace(resp.SuggestedField)
	}
	return p, nil
}

// generate runs a JSON prompt and decodes the answer into out.
func (c *Classifier) generate(ctx context.Context, prompt string, out any) error {
	text, err := c.client.GenerateJSON(ctx, prompt, c.tier)
	if err != nil {
		return fmt.Errorf("classifier call failed: %w", err)
	}
	return decodeInto(text, out)
}

// confidenceOr reads a model confidence on the 0-1 scale. Answers in
// (1, 100] are taken as percentages.
func confidenceOr(v *float64, fallback float64) float64 {
	if v == nil || *v <= 0 {
		return fallback
	}
	c := *v
	if c > 1 && c <= 100 {
		c /= 100
	}
	return min(c, 1)
}
