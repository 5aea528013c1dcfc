// Package structuring turns raw resume text into a ResumeRecord, either by
// asking a model for structured JSON or, as a fallback, with a rule-based
// parser.
package structuring

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kairoscv/resume-extractor/internal/llm"
	"github.com/kairoscv/resume-extractor/internal/logging"
	"github.com/kairoscv/resume-extractor/internal/prompts"
	"github.com/kairoscv/resume-extractor/internal/types"
)

// Options configures a Structurer. Zero values select the defaults.
type Options struct {
	Retry  llm.RetryPolicy
	Tier   llm.ModelTier
	Logger logrus.FieldLogger
}

// Result is a successful structuring call.
type Result struct {
	Record        *types.ResumeRecord
	Attempts      int
	Strict        bool
	SchemaErrors  []string
	UnknownFields []string
	Duration      time.Duration
}

// Structurer asks a model to structure resume text.
type Structurer struct {
	client llm.Client
	retry  llm.RetryPolicy
	tier   llm.ModelTier
	log    logrus.FieldLogger
}

// New returns a Structurer that calls client.
func New(client llm.Client, opts Options) *Structurer {
	retry := opts.Retry
	if retry.MaxAttempts == 0 {
		retry = llm.DefaultRetryPolicy()
	}
	tier := opts.Tier
	if tier == "" {
		tier = llm.TierStandard
	}
	return &Structurer{
		client: client,
		retry:  retry,
		tier:   tier,
		log:    logging.OrDiscard(opts.Logger),
	}
}

// Structure extracts a record from rawText. Every error it returns is a
// *Failure.
func (s *Structurer) Structure(ctx context.Context, rawText string) (*Result, error) {
	description := prompts.MustGet("structuring.json", "structure-resume")
	return s.run(ctx, "first_pass", description, rawText)
}

// StructureSecondPass re-extracts rawText with a prompt that names the
// content a previous pass missed.
func (s *Structurer) StructureSecondPass(ctx context.Context, rawText string, missing []string) (*Result, error) {
	template := prompts.MustGet("structuring.json", "second-pass")
	description := prompts.Format(template, map[string]string{
		"MissingContent": "- " + strings.Join(missing, "\n- "),
	})
	return s.run(ctx, "second_pass", description, rawText)
}

func (s *Structurer) run(ctx context.Context, pass, description, rawText string) (*Result, error) {
	if s.client == nil {
		return nil, &Failure{Kind: FailureCapability, Cause: errors.New("no model client configured")}
	}
	if strings.TrimSpace(rawText) == "" {
		return nil, &Failure{Kind: FailureParse, Cause: errors.New("no text to structure")}
	}

	prompt := llm.ResumeRecordSchema().WithPreamble(description).Prompt(rawText)
	log := s.log.WithFields(logrus.Fields{
		"pass":  pass,
		"model": s.client.GetModel(s.tier),
	})

	start := time.Now()
	var decoded *Decoded
	attempts, err := s.retry.Do(ctx, func(ctx context.Context) error {
		response, err := s.client.GenerateJSON(ctx, prompt, s.tier)
		if err != nil {
			return err
		}
		d, err := Decode(response)
		if err != nil {
			return err
		}
		decoded = d
		return nil
	}, func(a llm.Attempt) {
		log.WithFields(logrus.Fields{
			"attempt": a.Number,
			"delay":   a.Delay.String(),
		}).WithError(a.Err).Warn("structuring attempt failed, retrying")
	})
	if err != nil {
		failure := classify(ctx, attempts, err)
		log.WithFields(logrus.Fields{
			"attempt": attempts,
			"kind":    failure.Kind,
		}).WithError(err).Warn("structuring failed")
		return nil, failure
	}

	if !decoded.Strict {
		log.WithField("fields", decoded.SchemaErrors).Warn("response failed schema validation, using lenient decode")
	}
	if len(decoded.UnknownFields) > 0 {
		log.WithField("fields", decoded.UnknownFields).Debug("response carried unknown fields")
	}

	result := &Result{
		Record:        decoded.Record,
		Attempts:      attempts,
		Strict:        decoded.Strict,
		SchemaErrors:  decoded.SchemaErrors,
		UnknownFields: decoded.UnknownFields,
		Duration:      time.Since(start),
	}
	log.WithFields(logrus.Fields{
		"attempt":  attempts,
		"duration": result.Duration.String(),
	}).Debug("structuring complete")
	return result, nil
}

// classify tags the error that ended the retry loop.
func classify(ctx context.Context, attempts int, err error) *Failure {
	var decodeErr *DecodeError
	switch {
	case ctx.Err() != nil || llm.IsCancelled(err):
		return &Failure{Kind: FailureCancelled, Attempts: attempts, Cause: err}
	case llm.IsOverloaded(err):
		return &Failure{Kind: FailureOverloaded, Attempts: attempts, Cause: err}
	case errors.As(err, &decodeErr):
		return &Failure{Kind: FailureParse, Attempts: attempts, Cause: err}
	default:
		return &Failure{Kind: FailureCapability, Attempts: attempts, Cause: err}
	}
}
