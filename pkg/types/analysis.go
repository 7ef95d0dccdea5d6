// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Dimension identifies one of the six behavioral axes.
type Dimension string

const (
	DimensionTrackRecord          Dimension = "director_track_record"
	DimensionFilingDiscipline     Dimension = "filing_discipline"
	DimensionGovernanceStability  Dimension = "governance_stability"
	DimensionRelatedParty         Dimension = "related_party"
	DimensionOwnershipClarity     Dimension = "ownership_clarity"
	DimensionTransactionReadiness Dimension = "transaction_readiness"
)

// AllDimensions returns the six dimensions in their fixed display order.
func AllDimensions() []Dimension {
	return []Dimension{
		DimensionTrackRecord,
		DimensionFilingDiscipline,
		DimensionGovernanceStability,
		DimensionRelatedParty,
		DimensionOwnershipClarity,
		DimensionTransactionReadiness,
	}
}

// Rating is the three-level outcome of one dimension.
type Rating string

const (
	RatingClean       Rating = "clean"
	RatingInvestigate Rating = "investigate"
	RatingRedFlag     Rating = "red_flag"
)

// Severity grades a single evidence item.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Confidence records how directly the registry supports an evidence item.
// Verified items restate registry facts; inferred items are pattern matches;
// partial items come from incomplete traversals.
type Confidence string

const (
	ConfidenceVerified Confidence = "verified"
	ConfidenceInferred Confidence = "inferred"
	ConfidencePartial  Confidence = "partial"
)

// EvidenceItem is one discrete fact contributing to a dimension's rating.
type EvidenceItem struct {
	Dimension   Dimension  `json:"dimension" yaml:"dimension"`
	Type        string     `json:"type" yaml:"type"`
	Severity    Severity   `json:"severity" yaml:"severity"`
	Confidence  Confidence `json:"confidence" yaml:"confidence"`
	Description string     `json:"description" yaml:"description"`

	// Subject is the person or company the item is about, when there is one.
	Subject string `json:"subject,omitempty" yaml:"subject,omitempty"`

	// Date anchors the item in time when the underlying record carries one.
	Date Date `json:"date,omitempty" yaml:"date,omitempty"`

	// Source names the registry endpoint(s) the item was derived from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Link is a registry web URL for the subject, when one can be built.
	Link string `json:"link,omitempty" yaml:"link,omitempty"`

	// Disclaimer states what the registry cannot verify about this item.
	Disclaimer string `json:"disclaimer,omitempty" yaml:"disclaimer,omitempty"`
}

// DimensionResult is the complete outcome of one dimension analysis.
// A failed dimension carries Err and an empty evidence list; Rating is
// then investigate by convention, never silently clean.
type DimensionResult struct {
	Dimension   Dimension      `json:"dimension" yaml:"dimension"`
	Title       string         `json:"title" yaml:"title"`
	Question    string         `json:"question,omitempty" yaml:"question,omitempty"`
	Rating      Rating         `json:"rating" yaml:"rating"`
	Summary     string         `json:"summary" yaml:"summary"`
	Evidence    []EvidenceItem `json:"evidence" yaml:"evidence"`
	RatingLogic string         `json:"rating_logic,omitempty" yaml:"rating_logic,omitempty"`
	WhatToAsk   []string       `json:"what_to_ask,omitempty" yaml:"what_to_ask,omitempty"`
	Err         string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the dimension analysis did not complete.
func (r DimensionResult) Failed() bool {
	return r.Err != ""
}

// RunMetadata describes one analysis run.
type RunMetadata struct {
	RunID          string    `json:"run_id" yaml:"run_id"`
	AnalyzedAt     time.Time `json:"analyzed_at" yaml:"analyzed_at"`
	ElapsedSeconds float64   `json:"elapsed_seconds" yaml:"elapsed_seconds"`
}

// AnalysisRun is the aggregate result for non-streaming callers: the company
// profile plus exactly six dimension results in fixed dimension order.
type AnalysisRun struct {
	Profile    CompanyProfile    `json:"company_profile" yaml:"company_profile"`
	Dimensions []DimensionResult `json:"dimensions" yaml:"dimensions"`
	Metadata   RunMetadata       `json:"metadata" yaml:"metadata"`
}

// Result returns the result slot for d, or nil when absent.
func (r *AnalysisRun) Result(d Dimension) *DimensionResult {
	for i := range r.Dimensions {
		if r.Dimensions[i].Dimension == d {
			return &r.Dimensions[i]
		}
	}
	return nil
}

// FailedDimensions lists the dimensions that did not complete.
func (r *AnalysisRun) FailedDimensions() []Dimension {
	var failed []Dimension
	for _, d := range r.Dimensions {
		if d.Failed() {
			failed = append(failed, d.Dimension)
		}
	}
	return failed
}
