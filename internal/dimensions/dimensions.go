// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dimensions implements the six behavioral analyses. Each analyzer
// gathers evidence through the registry client and finishes with a pure
// evaluator: an ordered decision table over the evidence list, first match
// wins. Because the evaluator reads nothing but the evidence, re-running it
// over a stored result reproduces the rating.
package dimensions

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/company-lens/internal/graph"
	"github.com/pdiddy/company-lens/internal/registry"
	"github.com/pdiddy/company-lens/pkg/types"
)

// registryWebBase is the public web front end used for evidence links.
var registryWebBase = "https://find-and-update.company-information.service.gov.uk"

// Client is the registry surface the analyzers fetch through.
type Client interface {
	GetCompany(ctx context.Context, companyNumber string, bypassCache bool) (*types.CompanyProfile, error)
	GetOfficers(ctx context.Context, companyNumber string) (*types.OfficerList, error)
	GetAppointments(ctx context.Context, officerID string) (*types.AppointmentList, error)
	GetDisqualifications(ctx context.Context, officerID string) (*types.DisqualificationRecord, error)
	GetInsolvency(ctx context.Context, companyNumber string) (*types.InsolvencyRecord, error)
	GetPSCs(ctx context.Context, companyNumber string) (*types.PSCList, error)
	GetPSCStatements(ctx context.Context, companyNumber string) (*types.PSCStatementList, error)
	GetFilingHistory(ctx context.Context, companyNumber, category string) (*types.FilingList, error)
	GetCharges(ctx context.Context, companyNumber string) (*types.ChargeList, error)
	GetRegisteredOffice(ctx context.Context, companyNumber string) (*types.Address, error)
}

// Analyzer is one dimension analysis.
type Analyzer interface {
	Dimension() types.Dimension
	Analyze(ctx context.Context, client Client, companyNumber string) (*types.DimensionResult, error)
}

// Options tunes analyzer behavior; the zero value uses the defaults.
type Options struct {
	// OrbitSampleLimit caps how many connected companies the ownership
	// analyzer classifies; 0 means 20.
	OrbitSampleLimit int

	// MaxOwnershipDepth caps how many corporate layers the ownership trace
	// follows; 0 means graph.DefaultMaxDepth.
	MaxOwnershipDepth int

	// Now anchors all date arithmetic; nil means time.Now.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) orbitLimit() int {
	if o.OrbitSampleLimit > 0 {
		return o.OrbitSampleLimit
	}
	return 20
}

func (o Options) maxDepth() int {
	if o.MaxOwnershipDepth > 0 {
		return o.MaxOwnershipDepth
	}
	return graph.DefaultMaxDepth
}

// All returns the six analyzers in fixed dimension order.
func All(opts Options) []Analyzer {
	return []Analyzer{
		&TrackRecord{opts: opts},
		&FilingDiscipline{opts: opts},
		&GovernanceStability{opts: opts},
		&RelatedParty{opts: opts},
		&OwnershipClarity{opts: opts},
		&TransactionReadiness{opts: opts},
	}
}

// Evaluate re-runs the pure decision table for d over evidence. The rating
// of any completed DimensionResult equals Evaluate over its evidence list.
func Evaluate(d types.Dimension, evidence []types.EvidenceItem) types.Rating {
	switch d {
	case types.DimensionTrackRecord:
		r, _ := evaluateTrackRecord(evidence)
		return r
	case types.DimensionFilingDiscipline:
		r, _ := evaluateFilingDiscipline(evidence)
		return r
	case types.DimensionGovernanceStability:
		r, _ := evaluateGovernance(evidence)
		return r
	case types.DimensionRelatedParty:
		r, _ := evaluateRelatedParty(evidence)
		return r
	case types.DimensionOwnershipClarity:
		r, _ := evaluateOwnership(evidence)
		return r
	case types.DimensionTransactionReadiness:
		r, _ := evaluateReadiness(evidence)
		return r
	}
	return types.RatingInvestigate
}

// companyURL builds the public web link for a company.
func companyURL(companyNumber string) string {
	return fmt.Sprintf("%s/company/%s", registryWebBase, companyNumber)
}

// currentDirectors filters an officer list to unresigned directors.
func currentDirectors(list *types.OfficerList) []types.Officer {
	var out []types.Officer
	for _, o := range list.Items {
		if o.IsDirector() && o.IsActive() {
			out = append(out, o)
		}
	}
	return out
}

// resignedDirectors filters an officer list to directors who have resigned.
func resignedDirectors(list *types.OfficerList) []types.Officer {
	var out []types.Officer
	for _, o := range list.Items {
		if o.IsDirector() && !o.IsActive() {
			out = append(out, o)
		}
	}
	return out
}

// ignoreNotFound maps a registry 404 to nil so callers can treat an absent
// record as an empty one. Any other error is passed through.
func ignoreNotFound(err error) error {
	if err == nil || registry.IsNotFound(err) {
		return nil
	}
	return err
}

// countType counts evidence items of one type.
func countType(evidence []types.EvidenceItem, typ string) int {
	n := 0
	for _, e := range evidence {
		if e.Type == typ {
			n++
		}
	}
	return n
}

// hasType reports whether any evidence item has the given type.
func hasType(evidence []types.EvidenceItem, typ string) bool {
	return countType(evidence, typ) > 0
}

// daysBetween returns the whole days from a to b, negative when b is
// earlier.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
