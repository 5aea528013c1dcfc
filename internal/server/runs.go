package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/kairoscv/resume-extractor/internal/db"
)

// RunHistory reads the extraction run log.
type RunHistory interface {
	Runs(ctx context.Context, filters db.RunFilters) ([]db.Run, error)
	Run(ctx context.Context, runID uuid.UUID) (*db.Run, error)
	LayerArtifact(ctx context.Context, runID uuid.UUID, layer string) (json.RawMessage, error)
}

var _ RunHistory = (*db.DB)(nil)

// handleListRuns lists runs, filtered by the documentId, status and limit
// query parameters.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := db.RunFilters{
		DocumentID: q.Get("documentId"),
		Status:     q.Get("status"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			s.errResponse(w, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		filters.Limit = limit
	}

	runs, err := s.runs.Runs(r.Context(), filters)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs})
}

// handleGetRun returns one run.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.runID(w, r)
	if !ok {
		return
	}
	run, err := s.runs.Run(r.Context(), runID)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// handleGetArtifact returns the stored JSON for one layer of a run as is.
func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.runID(w, r)
	if !ok {
		return
	}
	content, err := s.runs.LayerArtifact(r.Context(), runID, r.PathValue("layer"))
	if err != nil {
		s.errResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, content)
}

func (s *Server) runID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errResponse(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return uuid.Nil, false
	}
	return id, true
}
