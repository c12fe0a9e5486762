// Package server exposes the layout pipeline over HTTP.
//
// # Endpoints
//
//	GET  /healthz               build information
//	POST /v1/layout             positioned graph and run summary (JSON)
//	POST /v1/levels             coarsening level report (JSON)
//	POST /v1/render/{format}    rendered artifact (json, dot or svg)
//
// Every POST takes a [Request] body. Responses carry the run identifier in the
// X-Run-ID header. Errors are JSON objects with the error code of
// [github.com/matzehuels/stackmixer/pkg/errors].
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/stackmixer/pkg/buildinfo"
	"github.com/matzehuels/stackmixer/pkg/errors"
	"github.com/matzehuels/stackmixer/pkg/graph"
	"github.com/matzehuels/stackmixer/pkg/pipeline"
)

// Defaults for [Config].
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 8 << 20
	DefaultTimeout      = 60 * time.Second
)

// RunIDHeader carries the run identifier of a response.
const RunIDHeader = "X-Run-ID"

// Config configures the HTTP server.
type Config struct {
	Addr         string
	MaxBodyBytes int64
	Timeout      time.Duration

	// Defaults are applied to request options before their own defaults;
	// request values win.
	Defaults pipeline.Options
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Request is the body of every POST endpoint.
type Request struct {
	Graph   graph.Graph      `json:"graph"`
	Options pipeline.Options `json:"options"`
}

// LayoutResponse is the body returned by POST /v1/layout.
type LayoutResponse struct {
	RunID     string           `json:"run_id"`
	GraphHash string           `json:"graph_hash"`
	Cached    bool             `json:"cached"`
	Graph     graph.Graph      `json:"graph"`
	Summary   pipeline.Summary `json:"summary"`
}

// LevelsResponse is the body returned by POST /v1/levels.
type LevelsResponse struct {
	RunID  string `json:"run_id"`
	Cached bool   `json:"cached"`
	pipeline.LevelReport
}

// Server serves the pipeline over HTTP.
type Server struct {
	runner *pipeline.Runner
	cfg    Config
	logger *log.Logger
}

// New creates a server around runner.
func New(runner *pipeline.Runner, cfg Config, logger *log.Logger) *Server {
	cfg.setDefaults()
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{runner: runner, cfg: cfg, logger: logger}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(middleware.Timeout(s.cfg.Timeout))

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.layout)
		r.Post("/levels", s.levels)
		r.Post("/render/{format}", s.render)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: s.cfg.Timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	runID := setRunID(w)
	l, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), req.Graph, req.Options)
	if err != nil {
		s.fail(w, runID, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{
		RunID:     runID,
		GraphHash: pipeline.GraphHash(req.Graph),
		Cached:    hit,
		Graph:     l.Graph,
		Summary:   l.Summary,
	})
}

func (s *Server) levels(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	runID := setRunID(w)
	report, hit, err := s.runner.LevelsWithCacheInfo(r.Context(), req.Graph, req.Options)
	if err != nil {
		s.fail(w, runID, err)
		return
	}
	writeJSON(w, http.StatusOK, LevelsResponse{RunID: runID, Cached: hit, LevelReport: report})
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeUnsupported, err, "format %q", format))
		return
	}
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	runID := setRunID(w)
	req.Options.Formats = []string{format}
	res, err := s.runner.Execute(r.Context(), req.Graph, req.Options)
	if err != nil {
		s.fail(w, runID, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// decode reads the request body and merges the server defaults into the
// request options.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (Request, bool) {
	req := Request{Options: s.cfg.Defaults}
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return req, false
	}
	if err := json.Unmarshal(data, &req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return req, false
	}
	req.Options.Logger = s.logger
	return req, true
}

func (s *Server) fail(w http.ResponseWriter, runID string, err error) {
	s.logger.Warn("request failed", "run", runID, "err", err)
	writeError(w, err)
}

func setRunID(w http.ResponseWriter) string {
	id := uuid.NewString()
	w.Header().Set(RunIDHeader, id)
	return id
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidGraph,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotFound
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	var body errorBody
	body.Error.Code = code
	body.Error.Message = err.Error()
	writeJSON(w, statusFor(code), body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
