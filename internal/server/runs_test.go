package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kairoscv/resume-extractor/internal/db"
	"github.com/kairoscv/resume-extractor/internal/logging"
	"github.com/kairoscv/resume-extractor/internal/pipeline"
	"github.com/kairoscv/resume-extractor/internal/server/ratelimit"
	"github.com/kairoscv/resume-extractor/internal/storage"
)

type fakeRuns struct {
	runs      []db.Run
	artifacts map[string]json.RawMessage
	filters   db.RunFilters
}

func (f *fakeRuns) Runs(_ context.Context, filters db.RunFilters) ([]db.Run, error) {
	f.filters = filters
	return f.runs, nil
}

func (f *fakeRuns) Run(_ context.Context, id uuid.UUID) (*db.Run, error) {
	for i := range f.runs {
		if f.runs[i].ID == id {
			return &f.runs[i], nil
		}
	}
	return nil, fmt.Errorf("run %s: %w", id, db.ErrNotFound)
}

func (f *fakeRuns) LayerArtifact(_ context.Context, id uuid.UUID, layer string) (json.RawMessage, error) {
	if content, ok := f.artifacts[id.String()+"/"+layer]; ok {
		return content, nil
	}
	return nil, fmt.Errorf("artifact %s: %w", layer, db.ErrNotFound)
}

func newRunsServer(t *testing.T, runs RunHistory) *testServer {
	t.Helper()
	store := storage.NewFileStore(t.TempDir(), logging.Discard())
	s, err := New(Config{
		Orchestrator: pipeline.New(pipeline.Options{Store: store, Logger: logging.Discard()}),
		Store:        store,
		Runs:         runs,
		RateLimit:    &ratelimit.Config{Enabled: false},
		Logger:       logging.Discard(),
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return &testServer{Server: s, store: store}
}

func TestRuns(t *testing.T) {
	runID := uuid.New()
	fake := &fakeRuns{
		runs: []db.Run{{
			ID:           runID,
			DocumentID:   "doc-1",
			Status:       db.StatusCompleted,
			Completeness: 90,
			CreatedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}},
		artifacts: map[string]json.RawMessage{
			runID.String() + "/" + db.ArtifactLayers: json.RawMessage(`{"extraction":true}`),
		},
	}
	ts := newRunsServer(t, fake)

	rec := ts.do(t, http.MethodGet, "/runs?documentId=doc-1&status=completed&limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, db.RunFilters{DocumentID: "doc-1", Status: "completed", Limit: 5}, fake.filters)
	assert.Len(t, decodeBody(t, rec)["runs"], 1)

	rec = ts.do(t, http.MethodGet, "/runs/"+runID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "doc-1", decodeBody(t, rec)["documentId"])

	rec = ts.do(t, http.MethodGet, "/runs/"+runID.String()+"/artifacts/layers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"extraction":true}`, rec.Body.String())
}

func TestRuns_Errors(t *testing.T) {
	ts := newRunsServer(t, &fakeRuns{})

	tests := []struct {
		name string
		path string
		want int
	}{
		{"bad limit", "/runs?limit=-1", http.StatusBadRequest},
		{"non numeric limit", "/runs?limit=ten", http.StatusBadRequest},
		{"bad id", "/runs/not-a-uuid", http.StatusBadRequest},
		{"unknown run", "/runs/" + uuid.NewString(), http.StatusNotFound},
		{"unknown artifact", "/runs/" + uuid.NewString() + "/artifacts/visual", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ts.do(t, http.MethodGet, tt.path, nil).Code)
		})
	}
}

func TestRuns_NotRegisteredWithoutHistory(t *testing.T) {
	ts := newTestServer(t, nil)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/runs", nil).Code)
}
