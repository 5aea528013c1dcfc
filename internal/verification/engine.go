// Package verification re-checks the critical contact fields of a record
// against its source text and searches for the ones that are missing or
// wrong.
package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kairoscv/resume-extractor/internal/llm"
	"github.com/kairoscv/resume-extractor/internal/logging"
	"github.com/kairoscv/resume-extractor/internal/prompts"
	"github.com/kairoscv/resume-extractor/internal/types"
)

const (
	// DefaultResearchAttempts bounds the searches for one field.
	DefaultResearchAttempts = 2
	// verifyExcerptRunes is how much source text a verify prompt carries.
	verifyExcerptRunes = 3000
)

// Event is a progress report for one state transition of one field.
// Progress runs from 0 to 100 over the whole VerifyAll call and never
// decreases.
type Event struct {
	Stage    string  `json:"stage"`
	Field    string  `json:"field"`
	Status   Status  `json:"status"`
	Message  string  `json:"message"`
	Progress float64 `json:"progress"`
}

// Outcome is the final state of one field.
type Outcome struct {
	Field      string  `json:"field"`
	Status     Status  `json:"status"`
	Value      string  `json:"value,omitempty"`
	Previous   string  `json:"previous,omitempty"`
	Attempts   int     `json:"attempts"`
	Confidence float64 `json:"confidence"`
}

// Diagnostic reports a field that could not be recovered.
type Diagnostic struct {
	Field    string `json:"field"`
	Status   Status `json:"status"`
	Critical bool   `json:"critical"`
	Attempts int    `json:"attempts"`
	Message  string `json:"message"`
}

// Report is the result of VerifyAll.
type Report struct {
	Record      *types.ResumeRecord `json:"-"`
	Outcomes    []Outcome           `json:"outcomes"`
	Diagnostics []Diagnostic        `json:"diagnostics"`
}

// Corrected returns the keys of fields whose value changed.
func (r *Report) Corrected() []string {
	var keys []string
	for _, o := range r.Outcomes {
		if o.Status == StatusFound {
			keys = append(keys, o.Field)
		}
	}
	return keys
}

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	// Fields defaults to CriticalFields. Custom fields come from NewField.
	Fields           []Field
	ResearchPlan     [][]Strategy
	ResearchAttempts int
	Tier             llm.ModelTier
	Logger           logrus.FieldLogger
	// Progress receives every event in order. It must not block for long.
	Progress func(Event)
}

// Engine verifies and researches critical fields one at a time, so events
// for a field are always observed in state-machine order.
type Engine struct {
	client   llm.Client
	fields   []Field
	plan     [][]Strategy
	attempts int
	tier     llm.ModelTier
	log      logrus.FieldLogger
	progress func(Event)
}

// New returns an Engine. With a nil client existing values are accepted
// and missing required values are searched for with rules only.
func New(client llm.Client, opts Options) *Engine {
	e := &Engine{
		client:   client,
		plan:     opts.ResearchPlan,
		attempts: opts.ResearchAttempts,
		tier:     opts.Tier,
		log:      logging.OrDiscard(opts.Logger),
		progress: opts.Progress,
	}
	for _, f := range opts.Fields {
		if f.usable() {
			e.fields = append(e.fields, f)
		}
	}
	if len(opts.Fields) == 0 {
		e.fields = CriticalFields
	}
	if len(e.plan) == 0 {
		e.plan = DefaultResearchPlan
	}
	if e.attempts <= 0 {
		e.attempts = DefaultResearchAttempts
	}
	if e.tier == "" {
		e.tier = llm.TierLite
	}
	return e
}

// VerifyAll checks every configured field of a copy of record and returns
// the corrected copy with per-field outcomes. Model failures never fail the
// call; the only error is ctx's.
func (e *Engine) VerifyAll(ctx context.Context, record *types.ResumeRecord, rawText string) (*Report, error) {
	out := record.Clone()
	if out == nil {
		out = types.NewResumeRecord()
	}
	report := &Report{Record: out, Outcomes: make([]Outcome, 0, len(e.fields)), Diagnostics: []Diagnostic{}}

	total := float64(len(e.fields))
	for i, field := range e.fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := tracker{engine: e, field: field, start: float64(i) / total * 100, end: float64(i+1) / total * 100}
		outcome, diag, err := e.processField(ctx, &t, &out.Contact, rawText)
		if err != nil {
			return nil, err
		}
		report.Outcomes = append(report.Outcomes, outcome)
		if diag != nil {
			report.Diagnostics = append(report.Diagnostics, *diag)
		}
	}
	return report, nil
}

// tracker emits the events of one field within its slice of the progress
// range.
type tracker struct {
	engine *Engine
	field  Field
	start  float64
	end    float64
}

// emit reports status at fraction of the way through the field's slice.
func (t *tracker) emit(stage string, status Status, fraction float64, message string) {
	if t.engine.progress == nil {
		return
	}
	t.engine.progress(Event{
		Stage:    stage,
		Field:    t.field.Key,
		Status:   status,
		Message:  message,
		Progress: t.start + (t.end-t.start)*fraction,
	})
}

func (e *Engine) processField(ctx context.Context, t *tracker, contact *types.Contact, rawText string) (Outcome, *Diagnostic, error) {
	field := t.field
	current := strings.TrimSpace(field.Get(contact))
	outcome := Outcome{Field: field.Key, Status: StatusUnchecked, Value: current}
	log := e.log.WithField("field", field.Key)

	rejected := ""
	if current != "" {
		t.emit(StageVerification, StatusVerifying, 0.2, fmt.Sprintf("Verifying %s: %q", field.Name, current))
		v, err := e.verify(ctx, field, current, rawText)
		if err != nil {
			if ctx.Err() != nil {
				return outcome, nil, ctx.Err()
			}
			log.WithError(err).Warn("Verification call failed, keeping extracted value")
		}
		outcome.Confidence = v.confidence

		if v.valid {
			outcome.Status = StatusValid
			t.emit(StageVerification, StatusValid, 1, field.Name+" verified")
			return outcome, nil, nil
		}

		log.WithField("reason", v.reasoning).Warn("Extracted value rejected")
		t.emit(StageVerification, StatusInvalid, 0.4, field.Name+" is incorrect, looking for the correct value")
		if v.corrected != "" && v.corrected != current {
			field.Set(contact, v.corrected)
			outcome.Status, outcome.Value, outcome.Previous = StatusFound, v.corrected, current
			t.emit(StageVerification, StatusFound, 1, fmt.Sprintf("Found correct %s: %q", field.Name, v.corrected))
			return outcome, nil, nil
		}
		rejected = current
		outcome.Status = StatusInvalid
	}

	if !field.Required && rejected == "" {
		return outcome, nil, nil
	}

	t.emit(StageResearch, StatusResearching, 0.5, fmt.Sprintf("Searching for %s in resume", field.Name))
	for attempt := 1; attempt <= e.attempts; attempt++ {
		outcome.Attempts = attempt
		value, confidence, err := e.research(ctx, field, attempt, rawText, rejected)
		if err != nil {
			return outcome, nil, err
		}
		if value != "" {
			field.Set(contact, value)
			outcome.Status, outcome.Value, outcome.Previous, outcome.Confidence = StatusFound, value, rejected, confidence
			log.WithField("attempt", attempt).Info("Recovered field value")
			t.emit(StageResearch, StatusFound, 1, fmt.Sprintf("Found %s: %q", field.Name, value))
			return outcome, nil, nil
		}
		log.WithField("attempt", attempt).Debug("Research attempt found nothing")
	}

	outcome.Status = StatusNotFound
	diag := &Diagnostic{Field: field.Key, Status: StatusNotFound, Critical: field.Required, Attempts: outcome.Attempts}
	if field.Required {
		diag.Message = fmt.Sprintf("%s not found after %d attempts", field.Name, outcome.Attempts)
		log.Warn("Required field not found")
	} else {
		diag.Message = field.Name + " not found (optional)"
	}
	t.emit(StageResearch, StatusNotFound, 1, diag.Message)
	return outcome, diag, nil
}

type verdict struct {
	valid      bool
	confidence float64
	corrected  string
	reasoning  string
}

// verify asks the model whether value belongs to field. Without a usable
// answer the value is accepted.
func (e *Engine) verify(ctx context.Context, field Field, value, rawText string) (verdict, error) {
	if e.client == nil {
		return verdict{valid: true, confidence: 0.5, reasoning: "verification not configured"}, nil
	}

	prompt := prompts.Format(prompts.MustGet("verification.json", "verify-field"), map[string]string{
		"Field":        field.Key,
		"Value":        value,
		"ExpectedType": field.ExpectedType,
		"RawText":      excerpt(rawText, verifyExcerptRunes),
	})

	var resp struct {
		IsValid        *bool    `json:"isValid"`
		Confidence     *float64 `json:"confidence"`
		CorrectedValue *string  `json:"correctedValue"`
		Reasoning      string   `json:"reasoning"`
	}
	if err := e.generate(ctx, prompt, &resp); err != nil {
		return verdict{valid: true, confidence: 0.3, reasoning: "verification failed"}, err
	}

	v := verdict{valid: true, confidence: 0.5, reasoning: resp.Reasoning}
	if resp.IsValid != nil {
		v.valid = *resp.IsValid
	}
	if resp.Confidence != nil && *resp.Confidence > 0 {
		v.confidence = *resp.Confidence
	}
	if resp.CorrectedValue != nil && !v.valid {
		v.corrected = cleanValue(*resp.CorrectedValue)
	}
	return v, nil
}

// research makes one search attempt. A value equal to rejected does not
// count as found.
func (e *Engine) research(ctx context.Context, field Field, attempt int, rawText, rejected string) (string, float64, error) {
	strategies := e.plan[min(attempt, len(e.plan))-1]

	accept := func(v string) bool {
		return v != "" && !strings.EqualFold(v, rejected)
	}

	if e.client != nil {
		prompt := prompts.Format(prompts.MustGet("verification.json", "research-field"), map[string]string{
			"Field":        field.Key,
			"ExpectedType": field.ExpectedType,
			"Attempt":      strconv.Itoa(attempt),
			"RawText":      rawText,
			"Strategy":     strategyText(field, strategies),
		})

		var resp struct {
			Found      bool     `json:"found"`
			Value      *string  `json:"value"`
			Confidence *float64 `json:"confidence"`
		}
		err := e.generate(ctx, prompt, &resp)
		switch {
		case err != nil && ctx.Err() != nil:
			return "", 0, ctx.Err()
		case err != nil:
			e.log.WithError(err).WithField("field", field.Key).Warn("Research call failed, falling back to rules")
		case resp.Found && resp.Value != nil:
			if v := cleanValue(*resp.Value); accept(v) {
				confidence := 0.5
				if resp.Confidence != nil && *resp.Confidence > 0 {
					confidence = *resp.Confidence
				}
				return v, confidence, nil
			}
		}
	}

	if v := localSearch(field, strategies, rawText); accept(v) {
		return v, 0.4, nil
	}
	return "", 0, nil
}

func (e *Engine) generate(ctx context.Context, prompt string, out any) error {
	text, err := e.client.GenerateJSON(ctx, prompt, e.tier)
	if err != nil {
		return err
	}
	cleaned := strings.TrimSpace(llm.CleanJSONBlock(text))
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("failed to decode verification response: %w", err)
	}
	return nil
}

// cleanValue drops the placeholder strings models use for "nothing".
func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "null", "none", "n/a", "undefined", "not found":
		return ""
	}
	return v
}
