// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dimensions

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/company-lens/internal/graph"
	"github.com/pdiddy/company-lens/pkg/types"
)

// Evidence types emitted by the ownership clarity analyzer.
const (
	evPSCStatement      = "psc_statement"
	evIndividualPSC     = "individual_psc"
	evCorporatePSC      = "corporate_psc"
	evTrustPSC          = "trust_psc"
	evForeignOwner      = "foreign_owner"
	evOwnershipDepth    = "ownership_depth"
	evDeepStructure     = "deep_structure"
	evUntraceableBranch = "untraceable_branch"
	evPSCChurn          = "psc_churn"
	evOrbitSummary      = "orbit_summary"
	evOrbitClutter      = "orbit_clutter"
	evNoPSCData         = "no_psc_data"
)

// ownershipDisclaimer states the structural limit of registry data.
const ownershipDisclaimer = "Asset location (IP, property, contracts) cannot be determined from the register"

// OwnershipClarity answers: is it clear who controls this company and why?
// It traces the PSC chain recursively, checks for statements admitting an
// unidentified controller, and surveys the orbit of connected companies.
type OwnershipClarity struct {
	opts Options
}

func (a *OwnershipClarity) Dimension() types.Dimension { return types.DimensionOwnershipClarity }

func (a *OwnershipClarity) Analyze(ctx context.Context, client Client, companyNumber string) (*types.DimensionResult, error) {
	result := &types.DimensionResult{
		Dimension: types.DimensionOwnershipClarity,
		Title:     "Ownership Clarity",
		Question:  "Is it clear who controls this company and why?",
	}
	now := a.opts.now()

	statements, err := client.GetPSCStatements(ctx, companyNumber)
	if err != nil {
		if err := ignoreNotFound(err); err != nil {
			return nil, err
		}
		statements = &types.PSCStatementList{}
	}
	for _, s := range statements.Items {
		if !s.Unresolved() {
			continue
		}
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionOwnershipClarity,
			Type:        evPSCStatement,
			Severity:    types.SeverityHigh,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("PSC statement filed: %q", strings.ReplaceAll(s.Statement, "-", " ")),
			Source:      "persons-with-significant-control-statements",
		})
	}

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

	a.describePSCs(activePSCs, result)

	tree, err := graph.TraceOwnership(ctx, companyNumber, func(ctx context.Context, number string) ([]types.PSC, error) {
		list, err := client.GetPSCs(ctx, number)
		if err != nil {
			if err := ignoreNotFound(err); err != nil {
				return nil, err
			}
			return nil, nil
		}
		return list.Items, nil
	}, a.opts.maxDepth())
	if err != nil {
		return nil, err
	}
	summary := tree.Summary()

	for _, name := range summary.ForeignEntities {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionOwnershipClarity,
			Type:        evForeignOwner,
			Severity:    types.SeverityMedium,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("Foreign entity in ownership chain: %s", name),
			Subject:     name,
			Source:      "recursive persons-with-significant-control tracing",
			Disclaimer:  ownershipDisclaimer,
		})
	}
	if summary.CorporateLayers > 0 {
		severity := types.SeverityLow
		if summary.CorporateLayers > 1 {
			severity = types.SeverityMedium
		}
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionOwnershipClarity,
			Type:        evOwnershipDepth,
			Severity:    severity,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("%d-layer ownership structure (including target)", summary.CorporateLayers+1),
			Source:      "recursive persons-with-significant-control tracing",
		})
	}
	if summary.CorporateLayers >= 3 {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionOwnershipClarity,
			Type:        evDeepStructure,
			Severity:    types.SeverityMedium,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("%d corporate layers in ownership chain", summary.CorporateLayers),
			Source:      "recursive persons-with-significant-control tracing",
		})
	}
	if summary.Untraceable {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionOwnershipClarity,
			Type:        evUntraceableBranch,
			Severity:    types.SeverityMedium,
			Confidence:  types.ConfidencePartial,
			Description: "Ownership chain could not be fully traced (cycle, depth limit, or fetch failure)",
			Source:      "recursive persons-with-significant-control tracing",
		})
	}

	recentCeased := 0
	for _, p := range ceasedPSCs {
		if ago := daysBetween(p.CeasedOn.Time, now); ago >= 0 && ago < 730 {
			recentCeased++
		}
	}
	if recentCeased >= 2 {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionOwnershipClarity,
			Type:        evPSCChurn,
			Severity:    types.SeverityMedium,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("%d PSC changes in last 2 years", recentCeased),
			Source:      "persons-with-significant-control",
		})
	}

	if err := a.orbitSurvey(ctx, client, companyNumber, activePSCs, result); err != nil {
		return nil, err
	}

	if len(pscList.Items) == 0 && len(result.Evidence) == 0 {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionOwnershipClarity,
			Type:        evNoPSCData,
			Severity:    types.SeverityNone,
			Confidence:  types.ConfidenceVerified,
			Description: "No PSC information on record",
			Source:      "persons-with-significant-control",
		})
	}

	result.Rating, result.RatingLogic = evaluateOwnership(result.Evidence)
	result.Summary = ownershipSummary(result, activePSCs)
	result.WhatToAsk = ownershipQuestions(result.Evidence)
	return result, nil
}

// describePSCs records one neutral evidence item per active PSC.
func (a *OwnershipClarity) describePSCs(activePSCs []types.PSC, result *types.DimensionResult) {
	for _, p := range activePSCs {
		control := make([]string, 0, 2)
		for _, n := range p.NaturesOfControl {
			control = append(control, strings.ReplaceAll(n, "-", " "))
			if len(control) == 2 {
				break
			}
		}
		controlDesc := strings.Join(control, ", ")

		switch {
		case p.IsIndividual():
			nationality := p.Nationality
			if nationality == "" {
				nationality = "Unknown nationality"
			}
			result.Evidence = append(result.Evidence, types.EvidenceItem{
				Dimension:   types.DimensionOwnershipClarity,
				Type:        evIndividualPSC,
				Severity:    types.SeverityNone,
				Confidence:  types.ConfidenceVerified,
				Description: fmt.Sprintf("%s (%s) — %s", p.Name, nationality, controlDesc),
				Subject:     p.Name,
				Source:      "persons-with-significant-control",
			})
		case p.IsCorporate():
			jurisdiction := strings.TrimSpace(p.Identification.PlaceRegistered + " " + p.Identification.CountryRegistered)
			severity := types.SeverityLow
			if jurisdiction != "" && !strings.Contains(strings.ToLower(jurisdiction), "england") {
				severity = types.SeverityMedium
			}
			item := types.EvidenceItem{
				Dimension:   types.DimensionOwnershipClarity,
				Type:        evCorporatePSC,
				Severity:    severity,
				Confidence:  types.ConfidenceVerified,
				Description: fmt.Sprintf("%s (%s) — %s", p.Name, jurisdictionOrUK(jurisdiction), controlDesc),
				Subject:     p.Name,
				Source:      "persons-with-significant-control",
			}
			if reg := p.Identification.RegistrationNumber; reg != "" {
				item.Link = companyURL(reg)
			}
			result.Evidence = append(result.Evidence, item)
		case p.IsLegalPerson():
			result.Evidence = append(result.Evidence, types.EvidenceItem{
				Dimension:   types.DimensionOwnershipClarity,
				Type:        evTrustPSC,
				Severity:    types.SeverityMedium,
				Confidence:  types.ConfidenceVerified,
				Description: fmt.Sprintf("%s (trust/legal person) — %s", p.Name, controlDesc),
				Subject:     p.Name,
				Source:      "persons-with-significant-control",
			})
		}
	}
}

// orbitSurvey classifies the companies connected through corporate PSCs and
// director appointments, flagging heavy dormant/dissolved clutter. The
// sample is capped because each classification costs a profile fetch.
func (a *OwnershipClarity) orbitSurvey(ctx context.Context, client Client, companyNumber string, activePSCs []types.PSC, result *types.DimensionResult) error {
	seen := make(map[string]bool)
	var orbit []string
	add := func(number string) {
		if number != "" && number != companyNumber && !seen[number] {
			seen[number] = true
			orbit = append(orbit, number)
		}
	}

	for _, p := range activePSCs {
		if p.IsCorporate() {
			add(p.Identification.RegistrationNumber)
		}
	}

	officers, err := client.GetOfficers(ctx, companyNumber)
	if err != nil {
		if err := ignoreNotFound(err); err != nil {
			return err
		}
		officers = &types.OfficerList{}
	}
	directors := currentDirectors(officers)
	if len(directors) > 3 {
		directors = directors[:3]
	}
	for _, d := range directors {
		id := d.OfficerID()
		if id == "" {
			continue
		}
		appts, err := client.GetAppointments(ctx, id)
		if err != nil {
			if err := ignoreNotFound(err); err != nil {
				return err
			}
			continue
		}
		for _, appt := range appts.Items {
			add(appt.AppointedTo.CompanyNumber)
		}
	}

	sample := orbit
	if limit := a.opts.orbitLimit(); len(sample) > limit {
		sample = sample[:limit]
	}
	active, dissolved := 0, 0
	for _, number := range sample {
		profile, err := client.GetCompany(ctx, number, false)
		if err != nil {
			if err := ignoreNotFound(err); err != nil {
				return err
			}
			continue
		}
		if profile.CompanyStatus == types.StatusDissolved {
			dissolved++
		} else {
			active++
		}
	}

	result.Evidence = append(result.Evidence, types.EvidenceItem{
		Dimension:  types.DimensionOwnershipClarity,
		Type:       evOrbitSummary,
		Severity:   types.SeverityNone,
		Confidence: types.ConfidenceVerified,
		Description: fmt.Sprintf("Orbit includes %d connected companies (%d sampled: %d active, %d dissolved)",
			len(orbit), len(sample), active, dissolved),
		Source: "persons-with-significant-control + appointments",
	})
	if dissolved >= 5 {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionOwnershipClarity,
			Type:        evOrbitClutter,
			Severity:    types.SeverityMedium,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("%d dissolved entities in orbit", dissolved),
			Source:      "persons-with-significant-control + appointments",
		})
	}
	return nil
}

// evaluateOwnership is the ordered decision table for the ownership
// dimension; first match wins.
func evaluateOwnership(evidence []types.EvidenceItem) (types.Rating, string) {
	switch {
	case hasType(evidence, evPSCStatement):
		return types.RatingRedFlag, "PSC statement indicates unidentified controller"
	case hasType(evidence, evOrbitClutter):
		return types.RatingInvestigate, "Heavy dissolved clutter in connected companies"
	case hasType(evidence, evForeignOwner):
		return types.RatingInvestigate, "Foreign entity in ownership chain"
	case hasType(evidence, evTrustPSC):
		return types.RatingInvestigate, "Trust/legal person in ownership chain"
	case hasType(evidence, evDeepStructure):
		return types.RatingInvestigate, "3+ corporate layers in ownership"
	case hasType(evidence, evPSCChurn):
		return types.RatingInvestigate, "Repeated PSC changes in last 2 years"
	case hasType(evidence, evUntraceableBranch):
		return types.RatingInvestigate, "Ownership chain not fully traceable"
	}
	return types.RatingClean, "Ownership structure traceable"
}

func ownershipSummary(result *types.DimensionResult, activePSCs []types.PSC) string {
	if result.Rating != types.RatingClean {
		if result.Rating == types.RatingRedFlag {
			return "Company has unidentified person(s) with significant control"
		}
		return result.RatingLogic
	}
	var individuals []string
	for _, p := range activePSCs {
		if p.IsIndividual() {
			individuals = append(individuals, p.Name)
		}
	}
	if len(individuals) > 2 {
		individuals = individuals[:2]
	}
	if len(individuals) > 0 {
		return fmt.Sprintf("Clear ownership: %s", strings.Join(individuals, ", "))
	}
	if len(activePSCs) > 0 {
		return "Ownership structure is traceable"
	}
	return "No PSC information on record"
}

func ownershipQuestions(evidence []types.EvidenceItem) []string {
	var out []string
	for _, e := range evidence {
		if e.Type == evForeignOwner {
			out = append(out, fmt.Sprintf("Who is the ultimate beneficial owner of %s?", e.Subject))
		}
	}
	if hasType(evidence, evTrustPSC) {
		out = append(out, "Can we see the trust deed?")
	}
	if hasType(evidence, evOwnershipDepth) {
		out = append(out, "Why is ownership structured through holding companies rather than directly?")
	}
	if hasType(evidence, evPSCChurn) {
		out = append(out, "What prompted the recent ownership changes?")
	}
	if hasType(evidence, evOrbitClutter) {
		out = append(out, "Are there plans to clean up dissolved entities in the group?")
	}
	return out
}

func jurisdictionOrUK(jurisdiction string) string {
	if jurisdiction == "" {
		return "UK"
	}
	return jurisdiction
}
