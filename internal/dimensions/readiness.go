// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dimensions

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/company-lens/pkg/types"
)

// Evidence types emitted by the transaction readiness analyzer.
const (
	evAllAssetsDebenture = "all_assets_debenture"
	evOutstandingCharge  = "outstanding_charge"
	evRecentCharge       = "recent_charge"
	evMultipleCreditors  = "multiple_creditors"
	evNoCharges          = "no_charges"
)

// recentChargeWindow is how far back a charge registration counts as recent.
const recentChargeWindow = 180 // days

// TransactionReadiness answers: how much friction should we expect in
// executing a deal? Charges describe ordinary financing, so the rating is
// capped at investigate.
type TransactionReadiness struct {
	opts Options
}

func (a *TransactionReadiness) Dimension() types.Dimension {
	return types.DimensionTransactionReadiness
}

func (a *TransactionReadiness) Analyze(ctx context.Context, client Client, companyNumber string) (*types.DimensionResult, error) {
	result := &types.DimensionResult{
		Dimension: types.DimensionTransactionReadiness,
		Title:     "Closing Friction",
		Question:  "How much friction should we expect in executing this deal?",
	}
	now := a.opts.now()

	chargeList, err := client.GetCharges(ctx, companyNumber)
	if err != nil {
		if err := ignoreNotFound(err); err != nil {
			return nil, err
		}
		chargeList = &types.ChargeList{}
	}
	charges := chargeList.Items

	var outstanding []types.Charge
	for _, c := range charges {
		if c.IsOutstanding() {
			outstanding = append(outstanding, c)
		}
	}

	for _, c := range outstanding {
		persons := strings.Join(c.Creditors(), ", ")
		if c.Particulars.FloatingChargeCoversAll {
			result.Evidence = append(result.Evidence, types.EvidenceItem{
				Dimension:   types.DimensionTransactionReadiness,
				Type:        evAllAssetsDebenture,
				Severity:    types.SeverityHigh,
				Confidence:  types.ConfidenceVerified,
				Description: fmt.Sprintf("Floating charge covers ALL assets — held by %s. Lender consent required for sale.", persons),
				Subject:     persons,
				Date:        c.CreatedOn,
				Source:      "charges",
			})
			continue
		}
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionTransactionReadiness,
			Type:        evOutstandingCharge,
			Severity:    types.SeverityMedium,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("Charge to %s (created %s) — OUTSTANDING", persons, c.CreatedOn),
			Subject:     persons,
			Date:        c.CreatedOn,
			Source:      "charges",
		})
	}

	for _, c := range charges {
		if c.CreatedOn.IsZero() {
			continue
		}
		if ago := daysBetween(c.CreatedOn.Time, now); ago >= 0 && ago < recentChargeWindow {
			result.Evidence = append(result.Evidence, types.EvidenceItem{
				Dimension:   types.DimensionTransactionReadiness,
				Type:        evRecentCharge,
				Severity:    types.SeverityMedium,
				Confidence:  types.ConfidenceVerified,
				Description: fmt.Sprintf("New charge registered %s to %s", c.CreatedOn, strings.Join(c.Creditors(), ", ")),
				Date:        c.CreatedOn,
				Source:      "charges",
			})
		}
	}

	creditors := make(map[string]bool)
	for _, c := range outstanding {
		for _, name := range c.Creditors() {
			creditors[name] = true
		}
	}
	if len(creditors) > 1 {
		names := make([]string, 0, len(creditors))
		for name := range creditors {
			names = append(names, name)
		}
		sort.Strings(names)
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionTransactionReadiness,
			Type:        evMultipleCreditors,
			Severity:    types.SeverityMedium,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("%d secured creditors: %s", len(creditors), strings.Join(names, ", ")),
			Source:      "charges",
		})
	}

	if len(charges) == 0 {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionTransactionReadiness,
			Type:        evNoCharges,
			Severity:    types.SeverityNone,
			Confidence:  types.ConfidenceVerified,
			Description: "No charges registered against this company",
			Source:      "charges",
		})
	}

	result.Rating, result.RatingLogic = evaluateReadiness(result.Evidence)
	result.Summary = readinessSummary(result, len(outstanding))
	result.WhatToAsk = readinessQuestions(result.Evidence)
	return result, nil
}

// evaluateReadiness is the decision table for the readiness dimension.
// Charges are routine financing, never fraud evidence, so the table never
// returns red_flag.
func evaluateReadiness(evidence []types.EvidenceItem) (types.Rating, string) {
	var flags []string
	if hasType(evidence, evAllAssetsDebenture) {
		flags = append(flags, "All-assets debenture outstanding")
	}
	if hasType(evidence, evRecentCharge) {
		flags = append(flags, "Charge created in last 6 months")
	}
	if hasType(evidence, evMultipleCreditors) {
		flags = append(flags, "Multiple secured creditors")
	}
	if len(flags) > 0 {
		return types.RatingInvestigate, strings.Join(flags, "; ")
	}
	return types.RatingClean, "No concerning charge patterns"
}

func readinessSummary(result *types.DimensionResult, outstandingCount int) string {
	if result.Rating != types.RatingClean {
		return strings.SplitN(result.RatingLogic, ";", 2)[0]
	}
	if outstandingCount > 0 {
		return fmt.Sprintf("%d charge(s) on record, no red flags", outstandingCount)
	}
	return "No charges registered — clean transaction path"
}

func readinessQuestions(evidence []types.EvidenceItem) []string {
	var out []string
	if hasType(evidence, evAllAssetsDebenture) {
		out = append(out, "Has the lender been informed of the potential sale? What's their typical consent process?")
	}
	if hasType(evidence, evRecentCharge) {
		out = append(out, "Why was the recent charge taken out? What were the proceeds used for?")
	}
	if hasType(evidence, evMultipleCreditors) {
		out = append(out, "Is there an intercreditor agreement? Understand subordination terms.")
	}
	return out
}
