// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/company-lens/internal/analyze"
	"github.com/pdiddy/company-lens/internal/usage"
	"github.com/pdiddy/company-lens/pkg/types"
)

// fakeRunner replays a canned event stream and aggregate result.
type fakeRunner struct {
	events []analyze.Event
	run    *types.AnalysisRun
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, number string) (<-chan analyze.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan analyze.Event, len(f.events))
	for _, ev := range f.events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func (f *fakeRunner) RunAll(ctx context.Context, number string) (*types.AnalysisRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.run, nil
}

func cleanRun() *types.AnalysisRun {
	run := &types.AnalysisRun{
		Profile: types.CompanyProfile{
			CompanyNumber: "01234567",
			CompanyName:   "ORCHARD TRADING LIMITED",
		},
		Metadata: types.RunMetadata{RunID: "run-1"},
	}
	for _, d := range types.AllDimensions() {
		run.Dimensions = append(run.Dimensions, types.DimensionResult{
			Dimension: d,
			Rating:    types.RatingClean,
		})
	}
	return run
}

func newTestServer(runner Runner) *Server {
	return New(runner, nil, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer(&fakeRunner{run: cleanRun()})
	rec := postJSON(t, srv.Routes(), "/api/analyze", `{"company_number":"1234567"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var run types.AnalysisRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, "01234567", run.Profile.CompanyNumber)
	assert.Len(t, run.Dimensions, 6)
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	srv := newTestServer(&fakeRunner{run: cleanRun()})

	rec := postJSON(t, srv.Routes(), "/api/analyze", `{"company_number":"XX123456"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, srv.Routes(), "/api/analyze", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeCompanyNotFound(t *testing.T) {
	srv := newTestServer(&fakeRunner{err: analyze.ErrCompanyNotFound})
	rec := postJSON(t, srv.Routes(), "/api/analyze", `{"company_number":"99999999"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyzeStream(t *testing.T) {
	events := []analyze.Event{
		{Type: analyze.EventProfile, Profile: &types.CompanyProfile{CompanyNumber: "01234567"}},
		{Type: analyze.EventDimension, Dimension: &types.DimensionResult{
			Dimension: types.DimensionTrackRecord,
			Rating:    types.RatingClean,
		}},
		{Type: analyze.EventComplete, Complete: &types.RunMetadata{RunID: "run-1"}},
	}
	srv := newTestServer(&fakeRunner{events: events})
	rec := postJSON(t, srv.Routes(), "/api/analyze/stream", `{"company_number":"01234567"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	frames := strings.Split(strings.TrimSpace(rec.Body.String()), "\n\n")
	require.Len(t, frames, 3)
	for i, frame := range frames {
		require.True(t, strings.HasPrefix(frame, "data: "), "frame %d", i)
		var ev analyze.Event
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(frame, "data: ")), &ev))
		require.Equal(t, events[i].Type, ev.Type)
	}
}

type staticLimits int

func (l staticLimits) RateLimitRemaining() int { return int(l) }

type staticCache int

func (c staticCache) Size() (int, error) { return int(c), nil }

type staticUsage int

func (u staticUsage) Stats() (usage.Stats, error) {
	return usage.Stats{TotalRuns: int(u)}, nil
}

func TestHealthEndpoint(t *testing.T) {
	srv := New(&fakeRunner{}, staticLimits(583), staticCache(42), staticUsage(7),
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status             string `json:"status"`
		RateLimitRemaining int    `json:"rate_limit_remaining"`
		CacheEntries       int    `json:"cache_entries"`
		TotalRuns          int    `json:"total_runs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 583, resp.RateLimitRemaining)
	assert.Equal(t, 42, resp.CacheEntries)
	assert.Equal(t, 7, resp.TotalRuns)
}

func TestHealthOmitsMissingSources(t *testing.T) {
	srv := newTestServer(&fakeRunner{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "rate_limit_remaining")
	assert.NotContains(t, rec.Body.String(), "cache_entries")
}
