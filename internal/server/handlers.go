package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kairoscv/resume-extractor/internal/pipeline"
	"github.com/kairoscv/resume-extractor/internal/storage"
)

// progressBuffer is how many progress events may queue ahead of a slow
// stream reader.
const progressBuffer = 16

// ExtractRequest is the body of /extract and /extract/stream. Document is
// base64 in JSON and feeds the vision pass.
type ExtractRequest struct {
	DocumentID string `json:"documentId,omitempty" validate:"omitempty,max=128"`
	Text       string `json:"text,omitempty" validate:"required_without=HTML"`
	HTML       string `json:"html,omitempty"`
	Document   []byte `json:"document,omitempty"`
	MIMEType   string `json:"mimeType,omitempty" validate:"required_with=Document,omitempty,mimetype"`
}

func (r ExtractRequest) input() pipeline.Input {
	return pipeline.Input{
		DocumentID: r.DocumentID,
		RawText:    r.Text,
		HTML:       r.HTML,
		Document:   r.Document,
		MIMEType:   r.MIMEType,
	}
}

// BatchRequest is the body of /extract/batch.
type BatchRequest struct {
	Documents []ExtractRequest `json:"documents" validate:"required,min=1,max=20,dive"`
}

// BatchItem is the outcome of one document in a batch. Exactly one of
// Result and Error is set.
type BatchItem struct {
	DocumentID string           `json:"documentId,omitempty"`
	Result     *pipeline.Result `json:"result,omitempty"`
	Error      string           `json:"error,omitempty"`
	Status     int              `json:"status"`
}

// BatchResponse lists batch outcomes in request order.
type BatchResponse struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// SnapshotResponse is a stored record with its metadata.
type SnapshotResponse struct {
	DocumentID  string    `json:"documentId"`
	ExtractedAt time.Time `json:"extractedAt"`
	Version     string    `json:"version"`
	Data        any       `json:"data"`
}

// decode reads and validates a JSON body into dst.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return &ErrValidation{Message: "invalid request body: " + err.Error()}
	}
	if err := s.validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

// handleExtract runs one extraction and returns the full result.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errResponse(w, err)
		return
	}

	result, err := s.orchestrator.Extract(r.Context(), req.input())
	if err != nil {
		s.errResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleExtractStream runs one extraction, relaying progress as SSE
// "progress" events and finishing with "complete" or "error".
func (s *Server) handleExtractStream(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errResponse(w, err)
		return
	}

	stream, err := newEventStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	type outcome struct {
		result *pipeline.Result
		err    error
	}
	events := make(chan pipeline.ProgressEvent, progressBuffer)
	done := make(chan outcome, 1)
	orch := s.orchestrator.WithProgress(events, true)
	go func() {
		result, err := orch.Extract(r.Context(), req.input())
		done <- outcome{result: result, err: err}
	}()

	// Drain until the orchestrator closes the channel, even after the
	// client goes away, so the run never blocks on a send.
	streaming := true
	for ev := range events {
		if !streaming {
			continue
		}
		if err := stream.progress(ev); err != nil {
			s.log.WithError(err).Debug("Progress stream closed by client")
			streaming = false
		}
	}

	out := <-done
	if !streaming {
		return
	}
	if out.err != nil {
		if HTTPStatus(out.err) >= http.StatusInternalServerError {
			s.log.WithError(out.err).Error("Streaming extraction failed")
		}
		err = stream.fail(out.err)
	} else {
		err = stream.complete(out.result)
	}
	if err != nil {
		s.log.WithError(err).Debug("Failed to write final stream event")
	}
}

// handleExtractBatch extracts several documents with bounded concurrency.
// One document failing does not fail the batch.
func (s *Server) handleExtractBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errResponse(w, err)
		return
	}

	items := make([]BatchItem, len(req.Documents))
	var g errgroup.Group
	g.SetLimit(s.batchConcurrency)
	for i, doc := range req.Documents {
		g.Go(func() error {
			result, err := s.orchestrator.Extract(r.Context(), doc.input())
			if err != nil {
				items[i] = BatchItem{DocumentID: doc.DocumentID, Error: err.Error(), Status: HTTPStatus(err)}
				return nil
			}
			items[i] = BatchItem{DocumentID: result.DocumentID, Result: result, Status: http.StatusOK}
			return nil
		})
	}
	_ = g.Wait() // items carry per-document errors

	resp := BatchResponse{Items: items}
	for _, item := range items {
		if item.Error == "" {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGetSnapshot returns the stored record for an id.
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := storage.ValidateID(id); err != nil {
		s.errResponse(w, err)
		return
	}

	snap, err := s.store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "snapshot not found: "+id)
			return
		}
		s.errResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, SnapshotResponse{
		DocumentID:  id,
		ExtractedAt: snap.Metadata.ExtractedAt,
		Version:     snap.Metadata.Version,
		Data:        snap.Record,
	})
}

// handleDeleteSnapshot removes the stored record for an id.
func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := storage.ValidateID(id); err != nil {
		s.errResponse(w, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.errResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
