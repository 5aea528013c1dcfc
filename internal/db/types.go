package db

import (
	"time"

	"github.com/google/uuid"
)

// Run is one row of extraction_runs.
type Run struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	DocumentID   string     `db:"document_id" json:"documentId"`
	Status       string     `db:"status" json:"status"`
	Completeness int        `db:"completeness" json:"completeness"`
	Confidence   int        `db:"confidence" json:"confidence"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	CompletedAt  *time.Time `db:"completed_at" json:"completedAt,omitempty"`
}

// RunFilters narrows Runs. Zero values match everything; Limit defaults
// to 50.
type RunFilters struct {
	DocumentID string
	Status     string
	Limit      int
}

// Run status values
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Layer artifact names stored per run
const (
	ArtifactLayers       = "layers"
	ArtifactStructured   = "structured"
	ArtifactVisual       = "visual"
	ArtifactDiagnostics  = "diagnostics"
	ArtifactVerification = "verification"
	ArtifactConfidence   = "confidence"
	ArtifactResult       = "result"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS extraction_runs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		document_id TEXT NOT NULL,
		status TEXT NOT NULL,
		completeness INTEGER NOT NULL DEFAULT 0,
		confidence INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS extraction_runs_document_idx ON extraction_runs (document_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS layer_artifacts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		run_id UUID NOT NULL REFERENCES extraction_runs(id) ON DELETE CASCADE,
		layer TEXT NOT NULL,
		content JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (run_id, layer)
	)`,
	`CREATE TABLE IF NOT EXISTS record_snapshots (
		document_id TEXT PRIMARY KEY,
		content JSONB NOT NULL,
		version TEXT NOT NULL,
		extracted_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}
