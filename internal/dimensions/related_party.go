// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dimensions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/company-lens/internal/graph"
	"github.com/pdiddy/company-lens/pkg/types"
)

// Evidence types emitted by the related-party analyzer. The first four
// mirror graph.SignalKind.
const (
	evSharedAddress         = "shared_address"
	evBusinessNetwork       = "business_network"
	evYoungMajorityOwner    = "young_majority_owner"
	evDirectorIsPSCOfficer  = "director_is_psc_officer"
	evNetworkSize           = "network_size"
	evLargeNetwork          = "large_network"
	evDecisionConcentration = "decision_concentration"
	evRecentDirector        = "recent_director"
	evRecentPSC             = "recent_psc"
	evPSCActivity           = "psc_activity"
	evDenseNetwork          = "dense_director_network"
	evCleanNetwork          = "clean_network"
)

// RelatedParty answers: what does the decision-making network look like?
// Signals here are hints for follow-up questions, never proof of
// misconduct, so the rating is capped at investigate.
type RelatedParty struct {
	opts Options
}

func (a *RelatedParty) Dimension() types.Dimension { return types.DimensionRelatedParty }

func (a *RelatedParty) Analyze(ctx context.Context, client Client, companyNumber string) (*types.DimensionResult, error) {
	result := &types.DimensionResult{
		Dimension: types.DimensionRelatedParty,
		Title:     "Connected Parties",
		Question:  "What does the decision-making network look like?",
	}
	now := a.opts.now()

	officers, err := client.GetOfficers(ctx, companyNumber)
	if err != nil {
		if err := ignoreNotFound(err); err != nil {
			return nil, err
		}
		officers = &types.OfficerList{}
	}
	directors := currentDirectors(officers)

	pscList, err := client.GetPSCs(ctx, companyNumber)
	if err != nil {
		if err := ignoreNotFound(err); err != nil {
			return nil, err
		}
		pscList = &types.PSCList{}
	}
	var activePSCs, ceasedPSCs []types.PSC
	for _, p := range pscList.Items {
		if p.IsActive() {
			activePSCs = append(activePSCs, p)
		} else {
			ceasedPSCs = append(ceasedPSCs, p)
		}
	}

	if len(directors) == 0 && len(activePSCs) == 0 {
		result.Rating = types.RatingClean
		result.Summary = "Insufficient data to assess control network"
		result.RatingLogic = "No directors or PSCs on record"
		return result, nil
	}

	// Appointment histories and corporate-PSC officer lists feed both the
	// graph signals and the network metrics.
	appointments := make(map[string][]types.Appointment)
	for _, d := range directors {
		id := d.OfficerID()
		if id == "" {
			continue
		}
		appts, err := client.GetAppointments(ctx, id)
		if err != nil {
			if err := ignoreNotFound(err); err != nil {
				return nil, err
			}
			continue
		}
		appointments[id] = appts.Items
	}

	pscOfficers := make(map[string][]types.Officer)
	for _, p := range activePSCs {
		if !p.IsCorporate() || p.Identification.RegistrationNumber == "" {
			continue
		}
		reg := p.Identification.RegistrationNumber
		list, err := client.GetOfficers(ctx, reg)
		if err != nil {
			if err := ignoreNotFound(err); err != nil {
				return nil, err
			}
			continue
		}
		pscOfficers[reg] = list.Items
	}

	signals := graph.DetectRelatedPartySignals(graph.SignalInput{
		CompanyNumber: companyNumber,
		Directors:     directors,
		PSCs:          pscList.Items,
		Appointments:  appointments,
		PSCOfficers:   pscOfficers,
		Now:           now,
	})
	for _, s := range signals {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionRelatedParty,
			Type:        string(s.Kind),
			Severity:    s.Severity,
			Confidence:  types.ConfidenceVerified,
			Description: s.Description,
			Subject:     strings.Join(s.People, ", "),
			Source:      "officers + appointments + persons-with-significant-control",
		})
	}
	densePairs := 0
	for _, s := range signals {
		if s.Kind == graph.SignalBusinessNetwork {
			densePairs++
		}
	}
	if densePairs >= 3 {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionRelatedParty,
			Type:        evDenseNetwork,
			Severity:    types.SeverityMedium,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("Dense director network: %d pairs of directors share multiple company appointments", densePairs),
			Source:      "appointments",
		})
	}

	a.networkMetrics(directors, activePSCs, ceasedPSCs, now, result)

	if len(result.Evidence) == 0 {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionRelatedParty,
			Type:        evCleanNetwork,
			Severity:    types.SeverityNone,
			Confidence:  types.ConfidenceVerified,
			Description: "No concerning control network patterns detected",
			Source:      "officers + persons-with-significant-control",
		})
	}

	result.Rating, result.RatingLogic = evaluateRelatedParty(result.Evidence)
	result.Summary = relatedPartySummary(result, len(directors), len(activePSCs))
	result.WhatToAsk = relatedPartyQuestions(result.Evidence)
	return result, nil
}

// networkMetrics records network size, decision concentration, recent
// additions, and PSC activity.
func (a *RelatedParty) networkMetrics(directors []types.Officer, activePSCs, ceasedPSCs []types.PSC, now time.Time, result *types.DimensionResult) {
	unique := make(map[string]bool)
	individualPSCs := 0
	for _, d := range directors {
		unique[strings.ToUpper(d.Name)] = true
	}
	for _, p := range activePSCs {
		if p.IsIndividual() {
			unique[strings.ToUpper(p.Name)] = true
			individualPSCs++
		}
	}
	networkSize := len(unique)

	result.Evidence = append(result.Evidence, types.EvidenceItem{
		Dimension:   types.DimensionRelatedParty,
		Type:        evNetworkSize,
		Severity:    types.SeverityNone,
		Confidence:  types.ConfidenceVerified,
		Description: fmt.Sprintf("Control network includes %d unique individual(s) (%d directors, %d individual PSCs)", networkSize, len(directors), individualPSCs),
		Source:      "officers + persons-with-significant-control",
	})
	if networkSize > 10 {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionRelatedParty,
			Type:        evLargeNetwork,
			Severity:    types.SeverityMedium,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("Large control network: %d individuals across directors and PSCs", networkSize),
			Source:      "officers + persons-with-significant-control",
		})
	}

	directorNames := make(map[string]bool, len(directors))
	for _, d := range directors {
		directorNames[strings.ToUpper(d.Name)] = true
	}
	concentration := 0.0
	for _, p := range activePSCs {
		if !p.IsIndividual() || !directorNames[strings.ToUpper(p.Name)] {
			continue
		}
		for _, n := range p.NaturesOfControl {
			switch {
			case strings.Contains(n, "75-to-100"):
				concentration += 87.5
			case strings.Contains(n, "50-to-75"):
				concentration += 62.5
			case strings.Contains(n, "25-to-50"):
				concentration += 37.5
			}
		}
	}
	if concentration > 0 {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionRelatedParty,
			Type:        evDecisionConcentration,
			Severity:    types.SeverityNone,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("Directors hold ~%.0f%% of significant control", concentration),
			Source:      "officers + persons-with-significant-control",
		})
	}

	for _, d := range directors {
		if d.AppointedOn.IsZero() {
			continue
		}
		if ago := daysBetween(d.AppointedOn.Time, now); ago >= 0 && ago < 90 {
			result.Evidence = append(result.Evidence, types.EvidenceItem{
				Dimension:   types.DimensionRelatedParty,
				Type:        evRecentDirector,
				Severity:    types.SeverityMedium,
				Confidence:  types.ConfidenceVerified,
				Description: fmt.Sprintf("Director %s appointed %d days ago (%s)", d.Name, ago, d.AppointedOn),
				Subject:     d.Name,
				Date:        d.AppointedOn,
				Source:      "officers",
			})
		}
	}
	for _, p := range activePSCs {
		if p.NotifiedOn.IsZero() {
			continue
		}
		if ago := daysBetween(p.NotifiedOn.Time, now); ago >= 0 && ago < 90 {
			result.Evidence = append(result.Evidence, types.EvidenceItem{
				Dimension:   types.DimensionRelatedParty,
				Type:        evRecentPSC,
				Severity:    types.SeverityMedium,
				Confidence:  types.ConfidenceVerified,
				Description: fmt.Sprintf("PSC %s notified %d days ago (%s)", p.Name, ago, p.NotifiedOn),
				Subject:     p.Name,
				Date:        p.NotifiedOn,
				Source:      "persons-with-significant-control",
			})
		}
	}

	pscChanges := 0
	for _, p := range ceasedPSCs {
		if ago := daysBetween(p.CeasedOn.Time, now); ago >= 0 && ago < 730 {
			pscChanges++
		}
	}
	for _, p := range activePSCs {
		if p.NotifiedOn.IsZero() {
			continue
		}
		if ago := daysBetween(p.NotifiedOn.Time, now); ago >= 0 && ago < 730 {
			pscChanges++
		}
	}
	if pscChanges >= 2 {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionRelatedParty,
			Type:        evPSCActivity,
			Severity:    types.SeverityMedium,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("%d PSC change(s) in last 2 years", pscChanges),
			Source:      "persons-with-significant-control",
		})
	}
}

// evaluateRelatedParty is the ordered decision table for the related-party
// dimension. Network signals are always hints rather than proof, so the
// table never returns red_flag.
func evaluateRelatedParty(evidence []types.EvidenceItem) (types.Rating, string) {
	switch {
	case hasType(evidence, evRecentDirector) && hasType(evidence, evRecentPSC):
		return types.RatingInvestigate, "Director and PSC both changed in last 90 days"
	case hasType(evidence, evDenseNetwork):
		return types.RatingInvestigate, "Dense director network across other companies"
	case hasType(evidence, evRecentPSC):
		return types.RatingInvestigate, "PSC change in last 90 days"
	case hasType(evidence, evLargeNetwork):
		return types.RatingInvestigate, "Large control network"
	case hasType(evidence, evPSCActivity):
		return types.RatingInvestigate, "Repeated PSC changes in last 2 years"
	case hasType(evidence, evSharedAddress) || hasType(evidence, evBusinessNetwork) ||
		hasType(evidence, evYoungMajorityOwner) || hasType(evidence, evDirectorIsPSCOfficer):
		return types.RatingInvestigate, "Related-party signals detected"
	}
	return types.RatingClean, "No concerning control network patterns"
}

func relatedPartySummary(result *types.DimensionResult, directorCount, pscCount int) string {
	if result.Rating == types.RatingClean {
		return fmt.Sprintf("Clean control network (%d directors, %d PSCs)", directorCount, pscCount)
	}
	return result.RatingLogic
}

func relatedPartyQuestions(evidence []types.EvidenceItem) []string {
	var out []string
	if hasType(evidence, evRecentDirector) && hasType(evidence, evRecentPSC) {
		out = append(out, "What prompted the recent changes to both board and ownership?")
	}
	if hasType(evidence, evRecentPSC) {
		out = append(out, "What prompted the recent ownership change?")
	}
	for _, e := range evidence {
		if e.Type == evBusinessNetwork {
			out = append(out, fmt.Sprintf("What is the history of the business relationship between %s?", e.Subject))
			break
		}
	}
	return out
}
