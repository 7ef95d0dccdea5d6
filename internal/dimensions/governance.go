// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dimensions

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/company-lens/internal/graph"
	"github.com/pdiddy/company-lens/pkg/types"
)

// Evidence types emitted by the governance stability analyzer.
const (
	evDirectorCount         = "director_count"
	evSoleDirector          = "sole_director"
	evRecentAppointment     = "recent_appointment"
	evAverageTenure         = "average_tenure"
	evShortAverageTenure    = "short_average_tenure"
	evResignation           = "resignation"
	evShortTenurePattern    = "short_tenure_pattern"
	evTimingNearAccounts    = "timing_near_accounts"
	evTimingNearPSC         = "timing_near_psc"
	evFormationAgentAddress = "formation_agent_address"
	evAddressChurn          = "address_churn"
)

// GovernanceStability answers: is leadership stable or is there concerning
// churn? It cross-references director changes with accounts filings and PSC
// changes to surface timing correlations.
type GovernanceStability struct {
	opts Options
}

func (a *GovernanceStability) Dimension() types.Dimension { return types.DimensionGovernanceStability }

func (a *GovernanceStability) Analyze(ctx context.Context, client Client, companyNumber string) (*types.DimensionResult, error) {
	result := &types.DimensionResult{
		Dimension: types.DimensionGovernanceStability,
		Title:     "Governance Stability",
		Question:  "Is leadership stable or is there concerning churn?",
	}
	now := a.opts.now()

	officers, err := client.GetOfficers(ctx, companyNumber)
	if err != nil {
		if err := ignoreNotFound(err); err != nil {
			return nil, err
		}
		officers = &types.OfficerList{}
	}
	current := currentDirectors(officers)
	resigned := resignedDirectors(officers)

	result.Evidence = append(result.Evidence, types.EvidenceItem{
		Dimension:   types.DimensionGovernanceStability,
		Type:        evDirectorCount,
		Severity:    types.SeverityNone,
		Confidence:  types.ConfidenceVerified,
		Description: fmt.Sprintf("%d active director(s)", len(current)),
		Source:      "officers",
	})
	if len(current) == 1 {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionGovernanceStability,
			Type:        evSoleDirector,
			Severity:    types.SeverityLow,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("Sole director: %s", current[0].Name),
			Subject:     current[0].Name,
			Source:      "officers",
		})
	}

	var tenureYears []float64
	var changeDates []time.Time

	for _, d := range current {
		if d.AppointedOn.IsZero() {
			continue
		}
		tenureDays := daysBetween(d.AppointedOn.Time, now)
		tenureYears = append(tenureYears, float64(tenureDays)/365.25)
		if tenureDays < 90 {
			changeDates = append(changeDates, d.AppointedOn.Time)
			result.Evidence = append(result.Evidence, types.EvidenceItem{
				Dimension:  types.DimensionGovernanceStability,
				Type:       evRecentAppointment,
				Severity:   types.SeverityMedium,
				Confidence: types.ConfidenceVerified,
				Description: fmt.Sprintf("New director %s appointed %s (%d days ago)",
					d.Name, d.AppointedOn, tenureDays),
				Subject: d.Name,
				Date:    d.AppointedOn,
				Source:  "officers",
			})
		}
	}

	avgTenure := 0.0
	if len(tenureYears) > 0 {
		for _, t := range tenureYears {
			avgTenure += t
		}
		avgTenure /= float64(len(tenureYears))
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionGovernanceStability,
			Type:        evAverageTenure,
			Severity:    types.SeverityNone,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("Average director tenure: %.1f years", avgTenure),
			Source:      "officers",
		})
		if avgTenure < 2 {
			result.Evidence = append(result.Evidence, types.EvidenceItem{
				Dimension:   types.DimensionGovernanceStability,
				Type:        evShortAverageTenure,
				Severity:    types.SeverityLow,
				Confidence:  types.ConfidenceVerified,
				Description: fmt.Sprintf("Average director tenure below 2 years (%.1f)", avgTenure),
				Source:      "officers",
			})
		}
	}

	shortTenures := 0
	for _, d := range resigned {
		if !d.ResignedOn.IsZero() {
			daysAgo := daysBetween(d.ResignedOn.Time, now)
			if daysAgo >= 0 && daysAgo < 730 {
				changeDates = append(changeDates, d.ResignedOn.Time)
				result.Evidence = append(result.Evidence, types.EvidenceItem{
					Dimension:   types.DimensionGovernanceStability,
					Type:        evResignation,
					Severity:    types.SeverityLow,
					Confidence:  types.ConfidenceVerified,
					Description: fmt.Sprintf("%s resigned %s", d.Name, d.ResignedOn),
					Subject:     d.Name,
					Date:        d.ResignedOn,
					Source:      "officers",
				})
			}
		}
		if !d.AppointedOn.IsZero() && !d.ResignedOn.IsZero() {
			if tenure := daysBetween(d.AppointedOn.Time, d.ResignedOn.Time); tenure >= 0 && tenure < 548 {
				shortTenures++
			}
		}
	}
	if shortTenures >= 3 {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionGovernanceStability,
			Type:        evShortTenurePattern,
			Severity:    types.SeverityMedium,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("%d directors served less than 18 months", shortTenures),
			Source:      "officers",
		})
	}

	if err := a.timingCorrelations(ctx, client, companyNumber, changeDates, result); err != nil {
		return nil, err
	}
	if err := a.addressChecks(ctx, client, companyNumber, now, result); err != nil {
		return nil, err
	}

	result.Rating, result.RatingLogic = evaluateGovernance(result.Evidence)
	result.Summary = governanceSummary(result, len(current), avgTenure)
	result.WhatToAsk = governanceQuestions(result.Evidence)
	return result, nil
}

// timingCorrelations flags director changes landing within 30 days of an
// accounts filing or a PSC change.
func (a *GovernanceStability) timingCorrelations(ctx context.Context, client Client, companyNumber string, changeDates []time.Time, result *types.DimensionResult) error {
	if len(changeDates) == 0 {
		return nil
	}

	filings, err := client.GetFilingHistory(ctx, companyNumber, "")
	if err != nil {
		if err := ignoreNotFound(err); err != nil {
			return err
		}
		filings = &types.FilingList{}
	}
	var accountsDates []time.Time
	for _, f := range filings.Items {
		if f.Category == "accounts" && !f.Date.IsZero() {
			accountsDates = append(accountsDates, f.Date.Time)
			if len(accountsDates) == 5 {
				break
			}
		}
	}

	pscs, err := client.GetPSCs(ctx, companyNumber)
	if err != nil {
		if err := ignoreNotFound(err); err != nil {
			return err
		}
		pscs = &types.PSCList{}
	}
	var pscDates []time.Time
	for _, p := range pscs.Items {
		if !p.NotifiedOn.IsZero() {
			pscDates = append(pscDates, p.NotifiedOn.Time)
		}
		if !p.CeasedOn.IsZero() {
			pscDates = append(pscDates, p.CeasedOn.Time)
		}
	}

	if anyWithin(changeDates, accountsDates, 30) {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionGovernanceStability,
			Type:        evTimingNearAccounts,
			Severity:    types.SeverityMedium,
			Confidence:  types.ConfidenceVerified,
			Description: "Director change within 30 days of accounts filing",
			Source:      "officers + filing-history",
		})
	}
	if anyWithin(changeDates, pscDates, 30) {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionGovernanceStability,
			Type:        evTimingNearPSC,
			Severity:    types.SeverityMedium,
			Confidence:  types.ConfidenceVerified,
			Description: "Director change within 30 days of PSC change",
			Source:      "officers + persons-with-significant-control",
		})
	}
	return nil
}

// addressChecks flags a formation agent registered office and address churn
// over the last three years.
func (a *GovernanceStability) addressChecks(ctx context.Context, client Client, companyNumber string, now time.Time, result *types.DimensionResult) error {
	office, err := client.GetRegisteredOffice(ctx, companyNumber)
	if err != nil {
		if err := ignoreNotFound(err); err != nil {
			return err
		}
	}
	if office != nil && graph.IsFormationAgentAddress(*office) {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionGovernanceStability,
			Type:        evFormationAgentAddress,
			Severity:    types.SeverityMedium,
			Confidence:  types.ConfidenceVerified,
			Description: "Registered office is a known formation agent address",
			Source:      "registered-office-address",
		})
	}

	addressFilings, err := client.GetFilingHistory(ctx, companyNumber, "address")
	if err != nil {
		if err := ignoreNotFound(err); err != nil {
			return err
		}
		addressFilings = &types.FilingList{}
	}
	changes := 0
	for _, f := range addressFilings.Items {
		if f.Date.IsZero() {
			continue
		}
		if ago := daysBetween(f.Date.Time, now); ago >= 0 && ago < 1095 {
			changes++
		}
	}
	if changes >= 3 {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionGovernanceStability,
			Type:        evAddressChurn,
			Severity:    types.SeverityMedium,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("Registered office changed %d times in last 3 years", changes),
			Source:      "filing-history",
		})
	}
	return nil
}

// anyWithin reports whether any date in a lands within windowDays of any
// date in b.
func anyWithin(a, b []time.Time, windowDays int) bool {
	for _, x := range a {
		for _, y := range b {
			gap := daysBetween(x, y)
			if gap < 0 {
				gap = -gap
			}
			if gap <= windowDays {
				return true
			}
		}
	}
	return false
}

// evaluateGovernance is the ordered decision table for the governance
// dimension; first match wins. Director changes in the last two years are
// the recent resignations plus the sub-90-day appointments.
func evaluateGovernance(evidence []types.EvidenceItem) (types.Rating, string) {
	changes := countType(evidence, evResignation) + countType(evidence, evRecentAppointment)

	switch {
	case changes >= 3:
		return types.RatingRedFlag, fmt.Sprintf("%d director changes in last 2 years", changes)
	case hasType(evidence, evTimingNearPSC) && hasType(evidence, evRecentAppointment):
		return types.RatingInvestigate, "Director change coincided with PSC change"
	case hasType(evidence, evRecentAppointment):
		return types.RatingInvestigate, "Director appointed in last 3 months"
	case hasType(evidence, evSoleDirector):
		return types.RatingInvestigate, "Sole director — key person dependency"
	case hasType(evidence, evShortAverageTenure):
		return types.RatingInvestigate, "Average director tenure below 2 years"
	case hasType(evidence, evFormationAgentAddress):
		return types.RatingInvestigate, "Registered at formation agent address"
	case hasType(evidence, evAddressChurn):
		return types.RatingInvestigate, "Repeated registered office changes"
	}
	return types.RatingClean, "Stable board"
}

func governanceSummary(result *types.DimensionResult, directorCount int, avgTenure float64) string {
	if result.Rating == types.RatingClean {
		return fmt.Sprintf("Stable board: %d directors, %.1f year average tenure", directorCount, avgTenure)
	}
	return result.RatingLogic
}

func governanceQuestions(evidence []types.EvidenceItem) []string {
	var out []string
	for _, e := range evidence {
		if e.Type == evRecentAppointment {
			out = append(out, fmt.Sprintf("What prompted the appointment of %s?", e.Subject))
		}
	}
	if countType(evidence, evResignation)+countType(evidence, evRecentAppointment) > 1 {
		out = append(out, "Why has there been recent board turnover?")
	}
	if hasType(evidence, evSoleDirector) {
		out = append(out, "What succession plan exists if the sole director is unavailable?")
	}
	if hasType(evidence, evFormationAgentAddress) {
		out = append(out, "Why is the registered office at a formation agent rather than the trading address?")
	}
	if hasType(evidence, evTimingNearPSC) {
		out = append(out, "Why did the director and ownership changes happen at the same time?")
	}
	return out
}
