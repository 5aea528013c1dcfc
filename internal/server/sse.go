package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/kairoscv/resume-extractor/internal/pipeline"
)

// SSE event names on /extract/stream.
const (
	eventProgress = "progress"
	eventComplete = "complete"
	eventError    = "error"
)

var errStreamingUnsupported = errors.New("streaming not supported")

// eventStream writes Server-Sent Events, flushing after each one.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// newEventStream sets the SSE headers. It fails when w cannot flush.
func newEventStream(w http.ResponseWriter) (*eventStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	return &eventStream{w: w, flusher: flusher}, nil
}

func (s *eventStream) send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func (s *eventStream) progress(ev pipeline.ProgressEvent) error {
	return s.send(eventProgress, ev)
}

type completeEvent struct {
	DocumentID string           `json:"documentId"`
	Result     *pipeline.Result `json:"result"`
}

func (s *eventStream) complete(result *pipeline.Result) error {
	return s.send(eventComplete, completeEvent{DocumentID: result.DocumentID, Result: result})
}

type errorEvent struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// fail reports err with the status a plain request would have returned.
func (s *eventStream) fail(err error) error {
	return s.send(eventError, errorEvent{Error: err.Error(), Status: HTTPStatus(err)})
}
