// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze orchestrates the six dimension analyses for one company
// and multiplexes their outcomes onto a single event stream.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/company-lens/internal/dimensions"
	"github.com/pdiddy/company-lens/internal/registry"
	"github.com/pdiddy/company-lens/pkg/types"
)

// ErrCompanyNotFound reports that the registry has no company under the
// requested number.
var ErrCompanyNotFound = errors.New("company not found")

// newAnalyzers builds the dimension set; a variable so tests can substitute
// controlled analyzers.
var newAnalyzers = dimensions.All

// EventType discriminates stream events.
type EventType string

const (
	EventProfile   EventType = "profile"
	EventDimension EventType = "dimension"
	EventError     EventType = "error"
	EventComplete  EventType = "complete"
)

// Event is one frame of the analysis stream. Exactly one payload field is
// set, matching Type.
type Event struct {
	Type EventType `json:"type"`

	Profile   *types.CompanyProfile  `json:"company_profile,omitempty"`
	Dimension *types.DimensionResult `json:"dimension_result,omitempty"`
	Error     *ErrorInfo             `json:"error,omitempty"`
	Complete  *types.RunMetadata     `json:"metadata,omitempty"`

	// PriorRuns is how many times this company has been analyzed before,
	// carried on the profile event when a usage recorder is configured.
	PriorRuns int `json:"prior_runs,omitempty"`
}

// ErrorInfo classifies a run-ending failure.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Recorder counts analysis runs. It returns how many runs were recorded for
// the company before this one.
type Recorder interface {
	Record(companyNumber string) (int, error)
}

// Analyzer runs the full six-dimension analysis of a company.
type Analyzer struct {
	client  dimensions.Client
	opts    dimensions.Options
	workers int
	usage   Recorder
	log     *slog.Logger
}

// New builds an Analyzer. usage may be nil; workers <= 0 means one worker
// per dimension.
func New(client dimensions.Client, cfg types.AnalysisConfig, usage Recorder, log *slog.Logger) *Analyzer {
	if log == nil {
		log = slog.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = len(types.AllDimensions())
	}
	return &Analyzer{
		client:  client,
		opts: dimensions.Options{
			OrbitSampleLimit:  cfg.OrbitSampleLimit,
			MaxOwnershipDepth: cfg.MaxOwnershipDepth,
		},
		workers: workers,
		usage:   usage,
		log:     log,
	}
}

// Run validates the company number and starts the analysis, returning the
// event stream. The channel carries a profile event, one dimension event per
// dimension as each finishes, and exactly one complete event, then closes.
// A run-ending failure (unknown company, registry outage) is a single error
// event followed by the close, with no complete event.
func (a *Analyzer) Run(ctx context.Context, companyNumber string) (<-chan Event, error) {
	number, err := NormalizeCompanyNumber(companyNumber)
	if err != nil {
		return nil, err
	}

	events := make(chan Event, 8)
	go func() {
		defer close(events)
		a.run(ctx, number, events)
	}()
	return events, nil
}

func (a *Analyzer) run(ctx context.Context, number string, events chan<- Event) {
	start := time.Now()
	runID := uuid.NewString()
	log := a.log.With("run_id", runID, "company_number", number)

	profile, err := a.client.GetCompany(ctx, number, false)
	if err != nil {
		if registry.IsNotFound(err) {
			log.Info("company not found")
			events <- Event{Type: EventError, Error: &ErrorInfo{
				Code:    "company_not_found",
				Message: fmt.Sprintf("no company registered under %s", number),
			}}
			return
		}
		log.Error("profile fetch failed", "error", err)
		events <- Event{Type: EventError, Error: &ErrorInfo{
			Code:    "registry_error",
			Message: err.Error(),
		}}
		return
	}

	profileEvent := Event{Type: EventProfile, Profile: profile}
	if a.usage != nil {
		if prior, err := a.usage.Record(number); err != nil {
			log.Warn("usage recording failed", "error", err)
		} else {
			profileEvent.PriorRuns = prior
		}
	}
	events <- profileEvent
	log.Info("analysis started", "company_name", profile.CompanyName)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for _, analyzer := range newAnalyzers(a.opts) {
		analyzer := analyzer
		g.Go(func() error {
			result, err := analyzer.Analyze(gctx, a.client, number)
			if err != nil {
				log.Warn("dimension failed",
					"dimension", analyzer.Dimension(), "error", err)
				result = failedResult(analyzer.Dimension(), err)
			}
			events <- Event{Type: EventDimension, Dimension: result}
			return nil
		})
	}
	// Tasks report failures as dimension results, never as group errors.
	_ = g.Wait()

	events <- Event{Type: EventComplete, Complete: &types.RunMetadata{
		RunID:          runID,
		AnalyzedAt:     start.UTC(),
		ElapsedSeconds: time.Since(start).Seconds(),
	}}
	log.Info("analysis complete", "elapsed", time.Since(start))
}

// failedResult is the placeholder for a dimension whose analysis errored.
// It rates investigate rather than clean so a failure is never mistaken for
// an all-clear.
func failedResult(d types.Dimension, err error) *types.DimensionResult {
	return &types.DimensionResult{
		Dimension:   d,
		Title:       dimensionTitles[d],
		Rating:      types.RatingInvestigate,
		Summary:     "Analysis did not complete; treat as unresolved",
		RatingLogic: "Dimension analysis failed",
		Err:         err.Error(),
	}
}

var dimensionTitles = map[types.Dimension]string{
	types.DimensionTrackRecord:          "Director Track Record",
	types.DimensionFilingDiscipline:     "Filing Discipline",
	types.DimensionGovernanceStability:  "Governance Stability",
	types.DimensionRelatedParty:         "Connected Parties",
	types.DimensionOwnershipClarity:     "Ownership Clarity",
	types.DimensionTransactionReadiness: "Closing Friction",
}

// RunAll drains the stream into an aggregate result with the dimensions in
// their fixed display order.
func (a *Analyzer) RunAll(ctx context.Context, companyNumber string) (*types.AnalysisRun, error) {
	events, err := a.Run(ctx, companyNumber)
	if err != nil {
		return nil, err
	}

	run := &types.AnalysisRun{}
	byDimension := make(map[types.Dimension]types.DimensionResult)
	for ev := range events {
		switch ev.Type {
		case EventProfile:
			run.Profile = *ev.Profile
		case EventDimension:
			byDimension[ev.Dimension.Dimension] = *ev.Dimension
		case EventComplete:
			run.Metadata = *ev.Complete
		case EventError:
			if ev.Error.Code == "company_not_found" {
				return nil, fmt.Errorf("%w: %s", ErrCompanyNotFound, companyNumber)
			}
			return nil, errors.New(ev.Error.Message)
		}
	}

	for _, d := range types.AllDimensions() {
		result, ok := byDimension[d]
		if !ok {
			return nil, fmt.Errorf("stream ended without a %s result", d)
		}
		run.Dimensions = append(run.Dimensions, result)
	}
	return run, nil
}
