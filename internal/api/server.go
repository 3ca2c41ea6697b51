package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/IshaanNene/CommentGoat/internal/config"
	"github.com/IshaanNene/CommentGoat/internal/observability"
	"github.com/IshaanNene/CommentGoat/internal/snapshot"
	"github.com/IshaanNene/CommentGoat/internal/types"
)

// Runner is what the API needs from the extraction engine.
type Runner interface {
	RunIsolated(snap *types.Snapshot) (*types.Pass, error)
	Loader() *snapshot.Loader
	Metrics() *observability.Metrics
}

// Server exposes extraction over HTTP: post a page, get its comments back.
type Server struct {
	router chi.Router
	runner Runner
	cfg    *config.Config
	logger *slog.Logger
}

// NewServer creates a new API server.
func NewServer(cfg *config.Config, runner Runner, logger *slog.Logger) *Server {
	s := &Server{
		runner: runner,
		cfg:    cfg,
		logger: logger.With("component", "api_server"),
	}
	s.registerRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.logger))

	r.Get("/health", s.handleHealth)
	if s.cfg.Metrics.Enabled {
		r.Method(http.MethodGet, s.cfg.Metrics.Path, s.runner.Metrics())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/extract", s.handleExtract)
		r.Get("/stats", s.handleStats)
	})

	s.router = r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server starting", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("API server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": config.Version,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.runner.Metrics().Snapshot())
}

// handleExtract runs one pass over the HTML request body. The body may be
// compressed (Content-Encoding gzip, deflate or br). The response is the
// JSON array of records. Every request is its own pass: dedup never drops
// records seen by an earlier request.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if source == "" {
		source = "api"
	}

	body := http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	snap, err := s.runner.Loader().Read(source, r.Header.Get("Content-Encoding"), body)
	if err != nil {
		status := snapshotStatus(err)
		s.logger.Warn("rejected snapshot", "source", source, "status", status, "error", err)
		s.jsonError(w, status, err.Error())
		return
	}

	pass, err := s.runner.RunIsolated(snap)
	if err != nil {
		s.logger.Error("extraction failed", "source", source, "error", err)
		s.jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	records := pass.Records
	if records == nil {
		records = []types.CommentRecord{}
	}
	w.Header().Set("X-Run-ID", pass.ID)
	w.Header().Set("X-Comments-Found", strconv.Itoa(pass.Found))
	s.jsonResponse(w, http.StatusOK, records)
}

// snapshotStatus maps a snapshot read error to an HTTP status.
func snapshotStatus(err error) int {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig), errors.Is(err, types.ErrSnapshotTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, types.ErrUnknownEncoding):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, msg string) {
	s.jsonResponse(w, status, map[string]string{"error": msg})
}
