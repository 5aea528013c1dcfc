// Package pipeline runs the multi-layer resume extraction: raw text,
// AI structuring, an optional vision cross-check, field classification,
// contact verification, a completeness audit, normalization and the
// snapshot write.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kairoscv/resume-extractor/internal/classifier"
	"github.com/kairoscv/resume-extractor/internal/cleanup"
	"github.com/kairoscv/resume-extractor/internal/confidence"
	"github.com/kairoscv/resume-extractor/internal/db"
	"github.com/kairoscv/resume-extractor/internal/ingestion"
	"github.com/kairoscv/resume-extractor/internal/llm"
	"github.com/kairoscv/resume-extractor/internal/logging"
	"github.com/kairoscv/resume-extractor/internal/merger"
	"github.com/kairoscv/resume-extractor/internal/storage"
	"github.com/kairoscv/resume-extractor/internal/structuring"
	"github.com/kairoscv/resume-extractor/internal/types"
	"github.com/kairoscv/resume-extractor/internal/verification"
	"github.com/kairoscv/resume-extractor/internal/visual"
)

const (
	// SecondPassConfidence and SecondPassMissingItems gate the second
	// structuring pass: it runs when the completeness audit is less
	// confident than SecondPassConfidence and reports more than
	// SecondPassMissingItems missing items.
	SecondPassConfidence   = 0.7
	SecondPassMissingItems = 3

	// defaultCompletenessConfidence is assumed when no model can audit.
	defaultCompletenessConfidence = 0.8
)

// RunLog records runs and their layer artifacts. *db.DB satisfies it.
type RunLog interface {
	CreateRun(ctx context.Context, documentID string) (uuid.UUID, error)
	SaveLayerArtifact(ctx context.Context, runID uuid.UUID, layer string, content any) error
	CompleteRun(ctx context.Context, runID uuid.UUID, status string, completeness, confidence int) error
}

var _ RunLog = (*db.DB)(nil)

// Options configures an Orchestrator.
type Options struct {
	// Client backs structuring, classification, verification and the
	// completeness audit. With a nil client the heuristic parser
	// structures the text and every model check degrades to its fallback.
	Client llm.Client
	// Visual runs the vision cross-check when an Input carries a document.
	Visual visual.Extractor
	// Store receives the final record. Nil skips the persist layer.
	Store storage.SnapshotStore
	// Runs, when set, logs the run and its layer artifacts.
	Runs  RunLog
	Retry llm.RetryPolicy
	// DisableHeuristicFallback makes a structuring failure fatal instead of
	// falling back to the heuristic parser.
	DisableHeuristicFallback bool
	// Progress receives events in order. It is closed after Extract returns
	// only when CloseProgress is set.
	Progress      chan<- ProgressEvent
	CloseProgress bool
	Logger        logrus.FieldLogger
}

// Orchestrator runs extractions. It holds no per-run state and is safe for
// concurrent use as long as each run has its own progress channel.
type Orchestrator struct {
	opts       Options
	structurer *structuring.Structurer
	classifier *classifier.Classifier
	log        logrus.FieldLogger
}

// New returns an Orchestrator for opts.
func New(opts Options) *Orchestrator {
	log := logging.OrDiscard(opts.Logger)
	return &Orchestrator{
		opts:       opts,
		structurer: structuring.New(opts.Client, structuring.Options{Retry: opts.Retry, Logger: log}),
		classifier: classifier.New(opts.Client, classifier.Options{Logger: log}),
		log:        log,
	}
}

// WithProgress returns a copy of o that reports to ch.
func (o *Orchestrator) WithProgress(ch chan<- ProgressEvent, closeWhenDone bool) *Orchestrator {
	cp := *o
	cp.opts.Progress = ch
	cp.opts.CloseProgress = closeWhenDone
	return &cp
}

// Input is one document to extract. RawText wins over HTML when both are
// set. Document and MIMEType feed the vision pass.
type Input struct {
	DocumentID string
	RawText    string
	HTML       string
	Document   []byte
	MIMEType   string
}

// Result is a finished extraction.
type Result struct {
	DocumentID string              `json:"documentId"`
	Data       *types.ResumeRecord `json:"data"`
	Layers     Layers              `json:"layers"`
	// Verification is the completeness audit.
	Verification  classifier.Completeness     `json:"verification"`
	Diagnostics   []verification.Diagnostic   `json:"diagnostics"`
	FieldOutcomes []verification.Outcome      `json:"fieldOutcomes"`
	Confidence    confidence.ResumeConfidence `json:"confidence"`
	Sources       *merger.Sources             `json:"sources,omitempty"`
	Visual        *merger.VisualMetadata      `json:"visualMetadata,omitempty"`
	// Completeness is 0-100: the merge saturation when the vision pass ran,
	// otherwise the audit confidence.
	Completeness int                      `json:"completeness"`
	Validation   cleanup.ValidationResult `json:"validation"`
	Warnings     []string                 `json:"warnings"`
	SnapshotPath string                   `json:"snapshotPath,omitempty"`
	Quality      *ingestion.Quality       `json:"quality,omitempty"`
	Duration     time.Duration            `json:"duration"`
}

// run is the state of one Extract call.
type run struct {
	o        *Orchestrator
	log      logrus.FieldLogger
	progress *reporter
	runID    uuid.UUID
	result   *Result
}

func (r *run) warn(msg string) {
	r.result.Warnings = append(r.result.Warnings, msg)
}

func (r *run) saveArtifact(ctx context.Context, name string, content any) {
	if r.o.opts.Runs == nil || r.runID == uuid.Nil || ctx.Err() != nil {
		return
	}
	if err := r.o.opts.Runs.SaveLayerArtifact(ctx, r.runID, name, content); err != nil {
		r.log.WithError(err).WithField("artifact", name).Warn("Failed to save run artifact, continuing")
	}
}

func (r *run) fail(layer string, cause error) error {
	return &LayerError{Layer: layer, Layers: r.result.Layers, Cause: cause}
}

// Extract runs every layer over in. Only a missing text or a structuring
// failure with no usable fallback is fatal; every later layer degrades to
// a warning. Cancellation returns an error matching ErrCancelled and
// nothing is persisted.
func (o *Orchestrator) Extract(ctx context.Context, in Input) (*Result, error) {
	if o.opts.CloseProgress && o.opts.Progress != nil {
		defer close(o.opts.Progress)
	}

	id := strings.TrimSpace(in.DocumentID)
	if id == "" {
		id = uuid.NewString()
	} else if err := storage.ValidateID(id); err != nil {
		return nil, err
	}

	r := &run{
		o:        o,
		log:      o.log.WithField("document_id", id),
		progress: &reporter{ch: o.opts.Progress},
		result:   &Result{DocumentID: id, Warnings: []string{}},
	}
	start := time.Now()

	if o.opts.Runs != nil {
		runID, err := o.opts.Runs.CreateRun(ctx, id)
		if err != nil {
			r.log.WithError(err).Warn("Failed to create run record, continuing without run log")
		} else {
			r.runID = runID
		}
	}

	result, err := r.execute(ctx, in)
	r.finishRun(ctx, result, err)
	if err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)
	r.log.WithFields(logrus.Fields{
		"duration":     result.Duration.String(),
		"completeness": result.Completeness,
		"confidence":   result.Confidence.Overall,
	}).Info("Extraction complete")
	return result, nil
}

func (r *run) finishRun(ctx context.Context, result *Result, err error) {
	if r.o.opts.Runs == nil || r.runID == uuid.Nil {
		return
	}
	status := db.StatusCompleted
	switch {
	case errors.Is(err, ErrCancelled):
		status = db.StatusCancelled
	case err != nil:
		status = db.StatusFailed
	}
	completeness, conf := 0, 0
	if result != nil {
		completeness, conf = result.Completeness, result.Confidence.Overall
	}
	bg := context.WithoutCancel(ctx)
	if status != db.StatusCancelled {
		if err := r.o.opts.Runs.SaveLayerArtifact(bg, r.runID, db.ArtifactLayers, r.result.Layers); err != nil {
			r.log.WithError(err).Warn("Failed to save layer map")
		}
	}
	if err := r.o.opts.Runs.CompleteRun(bg, r.runID, status, completeness, conf); err != nil {
		r.log.WithError(err).Warn("Failed to complete run record")
	}
}

func (r *run) execute(ctx context.Context, in Input) (*Result, error) {
	res := r.result

	// Extraction
	r.progress.stage(ctx, LayerExtraction, progressExtraction, "Extracting raw text")
	text, err := r.extractText(in)
	if err != nil {
		return nil, r.fail(LayerExtraction, err)
	}
	res.Layers.Extraction = true
	r.log.WithField("layer", LayerExtraction).Debug("Layer complete")

	// Structuring
	if err := ctx.Err(); err != nil {
		return nil, cancelled(LayerStructuring, err)
	}
	r.progress.stage(ctx, LayerStructuring, progressStructuring, "Structuring resume with AI")
	record, err := r.structure(ctx, text)
	if err != nil {
		return nil, err
	}
	res.Layers.Structuring = true
	r.saveArtifact(ctx, db.ArtifactStructured, record)
	r.log.WithField("layer", LayerStructuring).Debug("Layer complete")

	// Visual
	var merged *merger.Result
	if r.o.opts.Visual != nil && len(in.Document) > 0 {
		r.progress.stage(ctx, LayerVisual, progressVisual, "Running visual extraction")
		merged, err = r.visual(ctx, record, in, text)
		if err != nil {
			return nil, err
		}
		if merged != nil {
			record = merged.Data
			res.Layers.Visual = true
			res.Sources = &merged.Sources
			res.Visual = merged.Visual
			r.saveArtifact(ctx, db.ArtifactVisual, merged)
		}
	}

	// Classification
	r.progress.stage(ctx, LayerClassification, progressClassification, "Validating field placement")
	if err := r.classify(ctx, record); err != nil {
		return nil, cancelled(LayerClassification, err)
	}
	res.Layers.Classification = true

	// Verification
	r.progress.stage(ctx, LayerVerification, progressVerification, "Verifying critical fields")
	engine := verification.New(r.o.opts.Client, verification.Options{
		Logger: r.log,
		Progress: func(ev verification.Event) {
			r.progress.emit(ctx, ProgressEvent{
				Stage:    ev.Stage,
				Field:    ev.Field,
				Status:   string(ev.Status),
				Message:  ev.Message,
				Progress: verificationProgress(ev.Progress),
			})
		},
	})
	report, err := engine.VerifyAll(ctx, record, text)
	if err != nil {
		return nil, cancelled(LayerVerification, err)
	}
	record = report.Record
	res.FieldOutcomes = report.Outcomes
	res.Diagnostics = report.Diagnostics
	for _, d := range report.Diagnostics {
		if d.Critical {
			r.warn(d.Message)
		}
	}
	res.Layers.Verification = true
	r.saveArtifact(ctx, db.ArtifactVerification, report)
	r.saveArtifact(ctx, db.ArtifactDiagnostics, report.Diagnostics)

	// Completeness
	r.progress.stage(ctx, LayerCompleteness, progressCompleteness, "Checking extraction completeness")
	record, err = r.completeness(ctx, record, text)
	if err != nil {
		return nil, err
	}
	res.Layers.Completeness = true

	// Normalization
	r.progress.stage(ctx, LayerNormalization, progressNormalization, "Normalizing and deduplicating")
	record = cleanup.HandleAllEdgeCases(record, text)
	cleanup.FillDefaults(record)
	res.Validation = cleanup.ValidateProcessedData(record)
	for _, issue := range res.Validation.Issues {
		r.warn(issue)
	}
	for _, w := range res.Validation.Warnings {
		r.warn(w)
	}
	res.Confidence = confidence.Score(record)
	if merged != nil {
		res.Completeness = merged.Completeness
	} else {
		res.Completeness = int(math.Round(res.Verification.Confidence * 100))
	}
	res.Data = record
	res.Layers.Normalization = true
	r.saveArtifact(ctx, db.ArtifactConfidence, res.Confidence)

	// Persist
	if err := ctx.Err(); err != nil {
		return nil, cancelled(LayerPersist, err)
	}
	if r.o.opts.Store != nil {
		r.progress.stage(ctx, LayerPersist, progressPersist, "Saving snapshot")
		path, err := r.o.opts.Store.Save(ctx, res.DocumentID, record)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, cancelled(LayerPersist, ctx.Err())
		case err != nil:
			r.log.WithError(err).Warn("Failed to save snapshot, continuing")
			r.warn(fmt.Sprintf("Snapshot not saved: %v", err))
		default:
			res.SnapshotPath = path
			res.Layers.Persisted = true
		}
	}
	r.saveArtifact(ctx, db.ArtifactResult, res)
	r.progress.stage(ctx, "complete", progressDone, "Extraction complete")
	return res, nil
}

// extractText prepares the text every later layer reads.
func (r *run) extractText(in Input) (string, error) {
	text := in.RawText
	if strings.TrimSpace(text) == "" && strings.TrimSpace(in.HTML) != "" {
		converted, err := ingestion.HTMLToText(in.HTML)
		if err != nil {
			return "", fmt.Errorf("failed to convert HTML: %w", err)
		}
		text = converted
	}
	text = ingestion.CleanText(text)
	if text == "" {
		return "", errors.New("no text to extract")
	}

	quality := ingestion.AssessQuality(text)
	r.result.Quality = &quality
	if !quality.IsGoodQuality {
		r.log.WithField("score", quality.Score).Warn("Low quality input text, continuing")
		for _, issue := range quality.Issues {
			r.warn("Text quality: " + issue)
		}
	}
	return text, nil
}

// structure runs the model structuring pass, falling back to the heuristic
// parser when it fails.
func (r *run) structure(ctx context.Context, text string) (*types.ResumeRecord, error) {
	result, err := r.o.structurer.Structure(ctx, text)
	if err == nil {
		if !result.Strict {
			r.warn("Structured output did not match the record schema; used lenient decode")
		}
		return result.Record, nil
	}

	var failure *structuring.Failure
	if ctx.Err() != nil || (errors.As(err, &failure) && failure.Kind == structuring.FailureCancelled) {
		if ctx.Err() != nil {
			return nil, cancelled(LayerStructuring, ctx.Err())
		}
		return nil, cancelled(LayerStructuring, err)
	}
	if r.o.opts.DisableHeuristicFallback {
		return nil, r.fail(LayerStructuring, err)
	}

	r.log.WithError(err).Warn("AI structuring failed, using heuristic parser")
	record := structuring.ParseHeuristic(text)
	if merger.CountFields(record) == 0 {
		return nil, r.fail(LayerStructuring, fmt.Errorf("heuristic parser found nothing after: %w", err))
	}
	r.warn("AI structuring unavailable; used heuristic parser")
	return record, nil
}

// visual runs the vision pass and merges it into record. A failed pass is
// a warning and yields nil.
func (r *run) visual(ctx context.Context, record *types.ResumeRecord, in Input, text string) (*merger.Result, error) {
	vis, err := r.o.opts.Visual.Extract(ctx, in.Document, in.MIMEType, text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, cancelled(LayerVisual, ctx.Err())
		}
		r.log.WithError(err).Warn("Visual extraction failed, continuing with text only")
		r.warn(fmt.Sprintf("Visual extraction failed: %v", err))
		return nil, nil
	}
	return merger.Merge(record, vis), nil
}

// completeness audits record against text and runs one gap-filling second
// pass when the audit is unsure and reports enough missing content.
func (r *run) completeness(ctx context.Context, record *types.ResumeRecord, text string) (*types.ResumeRecord, error) {
	audit := classifier.Completeness{IsComplete: true, MissingContent: []string{}, Confidence: defaultCompletenessConfidence}
	if r.o.classifier.Available() {
		var err error
		audit, err = r.o.classifier.VerifyCompleteness(ctx, text, record)
		if err != nil {
			if ctx.Err() != nil {
				return nil, cancelled(LayerCompleteness, ctx.Err())
			}
			r.log.WithError(err).Warn("Completeness check failed, continuing")
		}
	}
	r.result.Verification = audit

	if audit.Confidence >= SecondPassConfidence || len(audit.MissingContent) <= SecondPassMissingItems {
		return record, nil
	}

	r.log.WithField("missing", len(audit.MissingContent)).Info("Running second structuring pass")
	second, err := r.o.structurer.StructureSecondPass(ctx, text, audit.MissingContent)
	if err != nil {
		if ctx.Err() != nil {
			return nil, cancelled(LayerCompleteness, ctx.Err())
		}
		r.log.WithError(err).Warn("Second structuring pass failed, continuing")
		r.warn("Second extraction pass failed; some content may be missing")
		return record, nil
	}
	return merger.MergeExtractions(record, second.Record), nil
}
