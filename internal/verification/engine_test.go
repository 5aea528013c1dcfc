package verification

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kairoscv/resume-extractor/internal/llm"
	"github.com/kairoscv/resume-extractor/internal/llm/llmtest"
	"github.com/kairoscv/resume-extractor/internal/types"
)

const sourceText = `Jane Roe
jane@example.com | (555) 123-4567 | Austin, TX
linkedin.com/in/janeroe`

func sampleRecord() *types.ResumeRecord {
	r := types.NewResumeRecord()
	r.Contact = types.Contact{
		Name:     "Jane Roe",
		Email:    "jane@wrong.com",
		Phone:    "555 123-4567",
		Location: "Austin, TX",
		LinkedIn: "linkedin.com/in/janeroe",
	}
	return r
}

// scripted answers verify prompts with verdicts keyed by field and research
// prompts with research, everything else valid.
func scripted(verdicts map[string]string, research func(field string, attempt int) string) *llmtest.MockLLMClient {
	return &llmtest.MockLLMClient{
		GenerateJSONFunc: func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
			if strings.HasPrefix(prompt, "You are verifying extracted resume data") {
				for field, answer := range verdicts {
					if strings.Contains(prompt, "FIELD: "+field+"\n") {
						return answer, nil
					}
				}
				return `{"isValid": true, "confidence": 0.9}`, nil
			}
			for _, f := range CriticalFields {
				if strings.Contains(prompt, "MISSING FIELD: "+f.Key+"\n") {
					attempt := 1
					if strings.Contains(prompt, "SEARCH ATTEMPT: 2") {
						attempt = 2
					}
					return research(f.Key, attempt), nil
				}
			}
			return "{}", nil
		},
	}
}

func notFound(string, int) string { return `{"found": false, "value": null}` }

func eventsFor(events []Event, field string) []Status {
	var out []Status
	for _, e := range events {
		if e.Field == field {
			out = append(out, e.Status)
		}
	}
	return out
}

func TestVerifyAll_WrongValueIsResearched(t *testing.T) {
	client := scripted(
		map[string]string{"contact.email": `{"isValid": false, "confidence": 0.9, "correctedValue": null, "reasoning": "not in text"}`},
		func(field string, attempt int) string {
			if field == "contact.email" {
				return `{"found": true, "value": "jane@example.com", "confidence": 0.95}`
			}
			return `{"found": false}`
		},
	)

	var events []Event
	engine := New(client, Options{Progress: func(e Event) { events = append(events, e) }})
	record := sampleRecord()

	report, err := engine.VerifyAll(context.Background(), record, sourceText)
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", report.Record.Contact.Email)
	assert.Equal(t, "jane@wrong.com", record.Contact.Email, "input record is not mutated")
	assert.Equal(t,
		[]Status{StatusVerifying, StatusInvalid, StatusResearching, StatusFound},
		eventsFor(events, "contact.email"))

	var email Outcome
	for _, o := range report.Outcomes {
		if o.Field == "contact.email" {
			email = o
		}
	}
	assert.Equal(t, StatusFound, email.Status)
	assert.Equal(t, "jane@wrong.com", email.Previous)
	assert.Equal(t, 1, email.Attempts)
	assert.Equal(t, []string{"contact.email"}, report.Corrected())
	assert.Empty(t, report.Diagnostics)
}

func TestVerifyAll_CorrectionSkipsResearch(t *testing.T) {
	var researchCalls atomic.Int32
	client := scripted(
		map[string]string{"contact.name": `{"isValid": false, "correctedValue": "Jane Roe", "reasoning": "job title"}`},
		func(string, int) string {
			researchCalls.Add(1)
			return `{"found": false}`
		},
	)
	record := sampleRecord()
	record.Contact.Name = "Software Engineer"
	record.Contact.Email = "jane@example.com"

	var events []Event
	report, err := New(client, Options{Progress: func(e Event) { events = append(events, e) }}).
		VerifyAll(context.Background(), record, sourceText)
	require.NoError(t, err)

	assert.Equal(t, "Jane Roe", report.Record.Contact.Name)
	assert.Equal(t, []Status{StatusVerifying, StatusInvalid, StatusFound}, eventsFor(events, "contact.name"))
	assert.Zero(t, researchCalls.Load())
}

func TestVerifyAll_SecondAttemptFinds(t *testing.T) {
	client := scripted(nil, func(field string, attempt int) string {
		if field == "contact.location" && attempt == 2 {
			return `{"found": true, "value": "Denver, CO"}`
		}
		return `{"found": false, "value": null}`
	})
	record := sampleRecord()
	record.Contact.Email = "jane@example.com"
	record.Contact.Location = ""

	report, err := New(client, Options{}).VerifyAll(context.Background(), record, "Jane Roe\njane@example.com\nWorks remotely from Denver")
	require.NoError(t, err)

	assert.Equal(t, "Denver, CO", report.Record.Contact.Location)
	for _, o := range report.Outcomes {
		if o.Field == "contact.location" {
			assert.Equal(t, 2, o.Attempts)
			assert.Equal(t, StatusFound, o.Status)
		}
	}
}

func TestVerifyAll_RequiredFieldNotFound(t *testing.T) {
	client := scripted(nil, notFound)
	record := sampleRecord()
	record.Contact.Email = "jane@example.com"
	record.Contact.Phone = ""

	var events []Event
	report, err := New(client, Options{Progress: func(e Event) { events = append(events, e) }}).
		VerifyAll(context.Background(), record, "Jane Roe\njane@example.com")
	require.NoError(t, err)

	require.Len(t, report.Diagnostics, 1)
	d := report.Diagnostics[0]
	assert.Equal(t, "contact.phone", d.Field)
	assert.Equal(t, StatusNotFound, d.Status)
	assert.True(t, d.Critical)
	assert.Equal(t, 2, d.Attempts)
	assert.Equal(t, []Status{StatusResearching, StatusNotFound}, eventsFor(events, "contact.phone"))

	// Missing optional fields are not searched.
	assert.Empty(t, eventsFor(events, "contact.github"))
}

func TestVerifyAll_RejectedOptionalFieldIsNonCritical(t *testing.T) {
	client := scripted(map[string]string{"contact.linkedin": `{"isValid": false}`}, notFound)
	record := sampleRecord()
	record.Contact.Email = "jane@example.com"
	record.Contact.LinkedIn = "linkedin.com/in/someone-else"

	report, err := New(client, Options{}).VerifyAll(context.Background(), record, "Jane Roe\njane@example.com\n(555) 123-4567\nAustin, TX")
	require.NoError(t, err)

	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, "contact.linkedin", report.Diagnostics[0].Field)
	assert.False(t, report.Diagnostics[0].Critical)
	assert.Equal(t, "linkedin.com/in/someone-else", report.Record.Contact.LinkedIn, "best-known value stays in place")
}

func TestVerifyAll_WithoutModelUsesRules(t *testing.T) {
	record := types.NewResumeRecord()
	record.Contact.Name = "Jane Roe"
	record.Contact.Email = "jane@example.com"

	text := "Jane Roe\njane@example.com\nMobile: 555-123-4567"
	report, err := New(nil, Options{}).VerifyAll(context.Background(), record, text)
	require.NoError(t, err)

	assert.Equal(t, "555-123-4567", report.Record.Contact.Phone)
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, "contact.location", report.Diagnostics[0].Field)
	assert.True(t, report.Diagnostics[0].Critical)
}

func TestVerifyAll_ModelErrorsKeepValues(t *testing.T) {
	client := &llmtest.MockLLMClient{
		GenerateJSONFunc: func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
			return "", errors.New("service unavailable")
		},
	}
	record := sampleRecord()

	report, err := New(client, Options{}).VerifyAll(context.Background(), record, sourceText)
	require.NoError(t, err)
	assert.Equal(t, record.Contact, report.Record.Contact)
	assert.Empty(t, report.Diagnostics)
}

func TestVerifyAll_ProgressIsMonotonic(t *testing.T) {
	client := scripted(
		map[string]string{"contact.email": `{"isValid": false}`},
		func(field string, attempt int) string {
			if field == "contact.email" && attempt == 2 {
				return `{"found": true, "value": "jane@example.com"}`
			}
			return `{"found": false}`
		},
	)
	record := sampleRecord()
	record.Contact.Phone = ""

	var events []Event
	_, err := New(client, Options{Progress: func(e Event) { events = append(events, e) }}).
		VerifyAll(context.Background(), record, sourceText)
	require.NoError(t, err)

	require.NotEmpty(t, events)
	last := 0.0
	for _, e := range events {
		assert.GreaterOrEqual(t, e.Progress, last, "%s %s", e.Field, e.Status)
		assert.LessOrEqual(t, e.Progress, 100.0)
		last = e.Progress
	}
}

func TestVerifyAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(scripted(nil, notFound), Options{}).VerifyAll(ctx, sampleRecord(), sourceText)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerifyAll_CustomFields(t *testing.T) {
	location := func(c *types.Contact) *string { return &c.Location }
	fields := []Field{
		NewField("contact.location", "location", "city and state or country", true, location),
		{Key: "contact.nickname", Name: "nickname"},
	}

	var events []Event
	engine := New(scripted(nil, notFound), Options{Fields: fields, Progress: func(e Event) { events = append(events, e) }})

	report, err := engine.VerifyAll(context.Background(), sampleRecord(), sourceText)
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, "contact.location", report.Outcomes[0].Field)
	assert.Equal(t, StatusValid, report.Outcomes[0].Status)
	assert.Empty(t, eventsFor(events, "contact.nickname"))
}

func TestField_WithoutAccessor(t *testing.T) {
	var c types.Contact
	f := Field{Key: "contact.nickname"}

	assert.NotPanics(t, func() { f.Set(&c, "JR") })
	assert.Equal(t, "", f.Get(&c))
	assert.Equal(t, "jane", NewField("contact.email", "email", "email address", true,
		func(c *types.Contact) *string { return &c.Email }).Get(&types.Contact{Email: "jane"}))
}

func TestLocalSearch(t *testing.T) {
	phone := CriticalFields[2]
	location := CriticalFields[3]

	assert.Equal(t, "555-123-4567", localSearch(phone, []Strategy{StrategyLabels}, "Jane\nTel: 555-123-4567"))
	assert.Equal(t, "Austin, TX", localSearch(location, []Strategy{StrategyPatterns}, "Jane Roe\nAustin, TX"))
	assert.Equal(t, "", localSearch(location, []Strategy{StrategyContext}, "Jane Roe\nAustin, TX"))
}
