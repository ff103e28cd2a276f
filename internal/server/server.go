// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the companion service over HTTP for the editor
// front end.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/research-companion/internal/companion"
	"github.com/pdiddy/research-companion/internal/metrics"
	"github.com/pdiddy/research-companion/pkg/types"
)

// Defaults for zero ServerConfig fields.
const (
	DefaultAddr            = "127.0.0.1:5000"
	DefaultMaxBodyBytes    = 1 << 20
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// DefaultAllowedOrigins are the editor development origins.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}

// Server serves the scoring API.
type Server struct {
	svc     *companion.Service
	metrics *metrics.Metrics
	logger  zerolog.Logger
	cfg     types.ServerConfig
	handler http.Handler
}

// New creates a Server for svc. A nil m disables the /metrics endpoint and
// request metrics.
func New(svc *companion.Service, m *metrics.Metrics, cfg types.ServerConfig, logger zerolog.Logger) *Server {
	s := &Server{
		svc:     svc,
		metrics: m,
		logger:  logger.With().Str("component", "server").Logger(),
		cfg:     withDefaults(cfg),
	}

	mux := http.NewServeMux()
	s.handle(mux, "POST /score", s.handleScore)
	s.handle(mux, "GET /test-papers", s.handlePapers)
	s.handle(mux, "GET /papers", s.handlePapers)
	s.handle(mux, "GET /healthz", s.handleHealth)
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	s.handler = s.requestID(s.accessLog(s.cors(mux)))
	return s
}

func withDefaults(cfg types.ServerConfig) types.ServerConfig {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.AllowedOrigins == nil {
		cfg.AllowedOrigins = DefaultAllowedOrigins
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	return cfg
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler { return s.handler }

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully, letting
// in-flight requests finish within the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("serving")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info().Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req companion.Request
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ev, err := s.svc.Evaluate(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

type papersResponse struct {
	Papers      []types.ReferenceDocument `json:"papers"`
	PapersCount int                       `json:"papers_count"`
}

func (s *Server) handlePapers(w http.ResponseWriter, r *http.Request) {
	papers, err := s.svc.Papers(r.Context(), r.URL.Query().Get("problem"))
	if errors.Is(err, companion.ErrProblemRequired) {
		writeError(w, http.StatusBadRequest, "Problem parameter is required")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if papers == nil {
		papers = []types.ReferenceDocument{}
	}
	writeJSON(w, http.StatusOK, papersResponse{Papers: papers, PapersCount: len(papers)})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
