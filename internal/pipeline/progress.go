package pipeline

import "context"

// Layer names, in run order.
const (
	LayerExtraction     = "extraction"
	LayerStructuring    = "structuring"
	LayerVisual         = "visual"
	LayerClassification = "classification"
	LayerVerification   = "verification"
	LayerCompleteness   = "completeness"
	LayerNormalization  = "normalization"
	LayerPersist        = "persisted"
)

// Layers records which layers completed.
type Layers struct {
	Extraction     bool `json:"extraction"`
	Structuring    bool `json:"structuring"`
	Visual         bool `json:"visual"`
	Classification bool `json:"classification"`
	Verification   bool `json:"verification"`
	Completeness   bool `json:"completeness"`
	Normalization  bool `json:"normalization"`
	Persisted      bool `json:"persisted"`
}

// ProgressEvent is one progress update of a run. Progress runs from 0 to
// 100 and never decreases within a run. Field and Status are set for
// per-field verification events only.
type ProgressEvent struct {
	Stage    string `json:"stage"`
	Field    string `json:"field,omitempty"`
	Status   string `json:"status,omitempty"`
	Message  string `json:"message"`
	Progress int    `json:"progress"`
}

// Progress bands per layer.
const (
	progressExtraction     = 0
	progressStructuring    = 10
	progressVisual         = 30
	progressClassification = 40
	progressVerification   = 55
	progressCompleteness   = 80
	progressNormalization  = 85
	progressPersist        = 95
	progressDone           = 100
)

// reporter publishes events from the run's goroutine. Sends block until
// the consumer receives or ctx ends, so no event is dropped.
type reporter struct {
	ch   chan<- ProgressEvent
	last int
}

func (r *reporter) emit(ctx context.Context, ev ProgressEvent) {
	if ev.Progress < r.last {
		ev.Progress = r.last
	}
	if ev.Progress > progressDone {
		ev.Progress = progressDone
	}
	r.last = ev.Progress
	if r.ch == nil {
		return
	}
	select {
	case r.ch <- ev:
	case <-ctx.Done():
	}
}

func (r *reporter) stage(ctx context.Context, stage string, progress int, message string) {
	r.emit(ctx, ProgressEvent{Stage: stage, Message: message, Progress: progress})
}

// verificationProgress maps the engine's 0-100 scale onto the
// verification band.
func verificationProgress(p float64) int {
	return progressVerification + int(p*float64(progressCompleteness-progressVerification)/100)
}
