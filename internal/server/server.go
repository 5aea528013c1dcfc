// Package server provides the HTTP API for resume extraction.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kairoscv/resume-extractor/internal/logging"
	"github.com/kairoscv/resume-extractor/internal/pipeline"
	"github.com/kairoscv/resume-extractor/internal/server/ratelimit"
	"github.com/kairoscv/resume-extractor/internal/storage"
)

const (
	// maxBodyBytes caps request bodies. Documents arrive base64 encoded.
	maxBodyBytes = 20 << 20
	// defaultBatchConcurrency bounds the extractions a batch runs at once.
	defaultBatchConcurrency = 2
	// maxBatchSize is the most documents one batch request may carry.
	maxBatchSize = 20
	// shutdownTimeout bounds how long in-flight extractions get to finish.
	shutdownTimeout = 30 * time.Second
)

// Server represents the HTTP server
type Server struct {
	httpServer       *http.Server
	handler          http.Handler
	orchestrator     *pipeline.Orchestrator
	store            storage.SnapshotStore
	runs             RunHistory
	rateLimiter      *ratelimit.Limiter
	validate         *validator.Validate
	batchConcurrency int
	log              logrus.FieldLogger
}

// Config holds server configuration
type Config struct {
	// Addr is the listen address. Defaults to ":8080".
	Addr         string
	Orchestrator *pipeline.Orchestrator
	// Store serves the snapshot endpoints. It is usually the store the
	// orchestrator persists to.
	Store storage.SnapshotStore
	// Runs serves the /runs endpoints. They are not registered when nil.
	Runs RunHistory
	// RateLimit defaults to ratelimit.LoadConfig().
	RateLimit        *ratelimit.Config
	BatchConcurrency int
	Logger           logrus.FieldLogger
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Orchestrator == nil {
		return nil, errors.New("server requires an orchestrator")
	}
	if cfg.Store == nil {
		return nil, errors.New("server requires a snapshot store")
	}

	rateCfg := cfg.RateLimit
	if rateCfg == nil {
		rateCfg = ratelimit.LoadConfig()
	}
	concurrency := cfg.BatchConcurrency
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}

	s := &Server{
		orchestrator:     cfg.Orchestrator,
		store:            cfg.Store,
		runs:             cfg.Runs,
		rateLimiter:      ratelimit.NewLimiter(rateCfg),
		validate:         newValidator(),
		batchConcurrency: concurrency,
		log:              logging.OrDiscard(cfg.Logger),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /extract", s.handleExtract)
	mux.HandleFunc("POST /extract/stream", s.handleExtractStream)
	mux.HandleFunc("POST /extract/batch", s.handleExtractBatch)
	mux.HandleFunc("GET /snapshots/{id}", s.handleGetSnapshot)
	mux.HandleFunc("DELETE /snapshots/{id}", s.handleDeleteSnapshot)
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.runs != nil {
		mux.HandleFunc("GET /runs", s.handleListRuns)
		mux.HandleFunc("GET /runs/{id}", s.handleGetRun)
		mux.HandleFunc("GET /runs/{id}/artifacts/{layer}", s.handleGetArtifact)
	}

	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // extraction makes several model calls
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is done or the process receives SIGINT or SIGTERM,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer s.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.WithField("addr", s.httpServer.Addr).Info("Server starting")
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		s.log.Info("Server stopped")
		return nil
	})
	return g.Wait()
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.WithError(err).Warn("Error encoding JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errResponse maps err to a status and writes it.
func (s *Server) errResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).Error("Request failed")
	}
	s.errorResponse(w, status, err.Error())
}
