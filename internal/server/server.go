// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the analyzer over HTTP: an aggregate JSON endpoint,
// a streaming variant for progressive rendering, and a health probe.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/company-lens/internal/analyze"
	"github.com/pdiddy/company-lens/internal/usage"
	"github.com/pdiddy/company-lens/pkg/types"
)

// Runner is the analysis surface the handlers call.
type Runner interface {
	Run(ctx context.Context, companyNumber string) (<-chan analyze.Event, error)
	RunAll(ctx context.Context, companyNumber string) (*types.AnalysisRun, error)
}

// RateLimited reports remaining request budget; the registry client
// implements it.
type RateLimited interface {
	RateLimitRemaining() int
}

// CacheInfo reports cache occupancy; the cache store implements it.
type CacheInfo interface {
	Size() (int, error)
}

// UsageInfo reports run statistics; the usage tracker implements it.
type UsageInfo interface {
	Stats() (usage.Stats, error)
}

// Server is the HTTP layer. It delegates to the analyzer and keeps no
// business logic of its own.
type Server struct {
	analyzer Runner
	limits   RateLimited
	cache    CacheInfo
	usage    UsageInfo
	log      *slog.Logger
}

// New builds a Server. limits, cache, and usage may be nil; the health
// endpoint then omits the corresponding fields.
func New(analyzer Runner, limits RateLimited, cache CacheInfo, usageInfo UsageInfo, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{analyzer: analyzer, limits: limits, cache: cache, usage: usageInfo, log: log}
}

// Routes wires the API endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Post("/api/analyze", s.handleAnalyze)
	r.Post("/api/analyze/stream", s.handleAnalyzeStream)
	r.Get("/api/health", s.handleHealth)
	return r
}

// Serve runs the HTTP server until ctx is canceled, then shuts down
// gracefully within cfg.ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, cfg types.ServerConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type analyzeRequest struct {
	CompanyNumber string `json:"company_number"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	number, ok := s.decodeNumber(w, r)
	if !ok {
		return
	}

	run, err := s.analyzer.RunAll(r.Context(), number)
	if err != nil {
		s.writeAnalysisError(w, number, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	number, ok := s.decodeNumber(w, r)
	if !ok {
		return
	}

	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events, err := s.analyzer.Run(r.Context(), number)
	if err != nil {
		s.writeAnalysisError(w, number, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for ev := range events {
		frame, err := json.Marshal(ev)
		if err != nil {
			s.log.Error("event marshal failed", "error", err)
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", frame)
		flusher.Flush()
	}
}

type healthResponse struct {
	Status             string `json:"status"`
	RateLimitRemaining *int   `json:"rate_limit_remaining,omitempty"`
	CacheEntries       *int   `json:"cache_entries,omitempty"`
	TotalRuns          *int   `json:"total_runs,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if s.limits != nil {
		remaining := s.limits.RateLimitRemaining()
		resp.RateLimitRemaining = &remaining
	}
	if s.cache != nil {
		if size, err := s.cache.Size(); err == nil {
			resp.CacheEntries = &size
		}
	}
	if s.usage != nil {
		if stats, err := s.usage.Stats(); err == nil {
			resp.TotalRuns = &stats.TotalRuns
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeNumber parses and validates the request body, writing the error
// response itself when validation fails.
func (s *Server) decodeNumber(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return "", false
	}
	number, err := analyze.NormalizeCompanyNumber(req.CompanyNumber)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return number, true
}

func (s *Server) writeAnalysisError(w http.ResponseWriter, number string, err error) {
	switch {
	case errors.Is(err, analyze.ErrInvalidNumber):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, analyze.ErrCompanyNotFound):
		writeError(w, http.StatusNotFound, fmt.Sprintf("company %s not found", number))
	default:
		s.log.Error("analysis failed", "company_number", number, "error", err)
		writeError(w, http.StatusBadGateway, "analysis failed: "+err.Error())
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
