// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dimensions

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/company-lens/internal/deadline"
	"github.com/pdiddy/company-lens/pkg/types"
)

// Evidence types emitted by the filing discipline analyzer.
const (
	evAccountsOverdue     = "accounts_overdue"
	evConfirmationOverdue = "confirmation_overdue"
	evLateFiling          = "late_filing"
	evLastMinutePattern   = "last_minute_pattern"
	evAmendment           = "amendment"
	evARDChange           = "ard_change"
)

// filingHistoryWindow is how many recent accounts filings are scanned for
// amendments and reference date changes; timelinessWindow is how many are
// checked against their computed deadline.
const (
	filingHistoryWindow = 10
	timelinessWindow    = 5
)

// FilingDiscipline answers: do they treat statutory obligations seriously?
// The overdue flags come from a cache-bypassed profile fetch so a stale
// snapshot can never hide a live overdue state.
type FilingDiscipline struct {
	opts Options
}

func (a *FilingDiscipline) Dimension() types.Dimension { return types.DimensionFilingDiscipline }

func (a *FilingDiscipline) Analyze(ctx context.Context, client Client, companyNumber string) (*types.DimensionResult, error) {
	result := &types.DimensionResult{
		Dimension: types.DimensionFilingDiscipline,
		Title:     "Filing Discipline",
		Question:  "Do they treat statutory obligations seriously?",
	}

	profile, err := client.GetCompany(ctx, companyNumber, true)
	if err != nil {
		return nil, err
	}

	if profile.Accounts.Overdue {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionFilingDiscipline,
			Type:        evAccountsOverdue,
			Severity:    types.SeverityHigh,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("Accounts currently OVERDUE (due: %s)", profile.Accounts.NextAccounts.DueOn),
			Date:        profile.Accounts.NextAccounts.DueOn,
			Source:      "company profile",
		})
	}
	if profile.Confirmation.Overdue {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionFilingDiscipline,
			Type:        evConfirmationOverdue,
			Severity:    types.SeverityHigh,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("Confirmation statement currently OVERDUE (due: %s)", profile.Confirmation.NextDue),
			Date:        profile.Confirmation.NextDue,
			Source:      "company profile",
		})
	}

	filings, err := client.GetFilingHistory(ctx, companyNumber, "")
	if err != nil {
		if err := ignoreNotFound(err); err != nil {
			return nil, err
		}
		filings = &types.FilingList{}
	}

	var accountsFilings []types.Filing
	for _, f := range filings.Items {
		if f.Category == "accounts" {
			accountsFilings = append(accountsFilings, f)
		}
	}

	scanned := accountsFilings
	if len(scanned) > filingHistoryWindow {
		scanned = scanned[:filingHistoryWindow]
	}
	for _, f := range scanned {
		desc := strings.ToUpper(f.Description + " " + f.Type)
		if strings.Contains(desc, "AMENDED") || strings.Contains(desc, "REPLACEMENT") {
			result.Evidence = append(result.Evidence, types.EvidenceItem{
				Dimension:   types.DimensionFilingDiscipline,
				Type:        evAmendment,
				Severity:    types.SeverityMedium,
				Confidence:  types.ConfidenceVerified,
				Description: fmt.Sprintf("Amended/replacement accounts filed on %s", f.Date),
				Date:        f.Date,
				Source:      "filing-history",
			})
		}
		if f.Type == "AA01" || strings.Contains(desc, "CHANGE OF ACCOUNTING REFERENCE") {
			result.Evidence = append(result.Evidence, types.EvidenceItem{
				Dimension:   types.DimensionFilingDiscipline,
				Type:        evARDChange,
				Severity:    types.SeverityLow,
				Confidence:  types.ConfidenceVerified,
				Description: fmt.Sprintf("Accounting reference date changed on %s", f.Date),
				Date:        f.Date,
				Source:      "filing-history",
			})
		}
	}

	recent := accountsFilings
	if len(recent) > timelinessWindow {
		recent = recent[:timelinessWindow]
	}
	lastMinute := 0
	for _, f := range recent {
		madeUp := f.DescriptionValues.MadeUpDate
		if madeUp.IsZero() || f.Date.IsZero() {
			continue
		}
		due := deadline.AccountsDeadline(madeUp, false, profile.IsPublic())
		switch deadline.ClassifyTimeliness(f.Date, due) {
		case deadline.Late:
			daysLate := daysBetween(due.Time, f.Date.Time)
			result.Evidence = append(result.Evidence, types.EvidenceItem{
				Dimension:   types.DimensionFilingDiscipline,
				Type:        evLateFiling,
				Severity:    types.SeverityHigh,
				Confidence:  types.ConfidenceVerified,
				Description: fmt.Sprintf("Accounts for Y/E %s filed %d days late (deadline %s)", madeUp, daysLate, due),
				Date:        f.Date,
				Source:      "filing-history",
			})
		case deadline.LastMinute:
			lastMinute++
		}
	}
	if lastMinute >= 3 {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionFilingDiscipline,
			Type:        evLastMinutePattern,
			Severity:    types.SeverityMedium,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("%d of last %d accounts filed within final 14 days of deadline", lastMinute, timelinessWindow),
			Source:      "filing-history",
		})
	}

	result.Rating, result.RatingLogic = evaluateFilingDiscipline(result.Evidence)
	result.Summary = filingSummary(result)
	result.WhatToAsk = filingQuestions(result.Evidence)
	return result, nil
}

// evaluateFilingDiscipline is the ordered decision table for the filing
// dimension; first match wins.
func evaluateFilingDiscipline(evidence []types.EvidenceItem) (types.Rating, string) {
	late := countType(evidence, evLateFiling)
	amendments := countType(evidence, evAmendment)
	ardChanges := countType(evidence, evARDChange)

	switch {
	case hasType(evidence, evAccountsOverdue) || hasType(evidence, evConfirmationOverdue):
		return types.RatingRedFlag, "Accounts or confirmation statement currently overdue"
	case late >= 2:
		return types.RatingRedFlag, fmt.Sprintf("%d late filings in recent history", late)
	case hasType(evidence, evLastMinutePattern):
		return types.RatingInvestigate, "Pattern of last-minute filings"
	case amendments > 0:
		return types.RatingInvestigate, fmt.Sprintf("%d amended/replacement accounts filed", amendments)
	case ardChanges >= 2:
		return types.RatingInvestigate, fmt.Sprintf("Multiple accounting reference date changes (%d)", ardChanges)
	}
	return types.RatingClean, "Consistent on-time filing with no amendments"
}

func filingSummary(result *types.DimensionResult) string {
	switch {
	case hasType(result.Evidence, evAccountsOverdue) || hasType(result.Evidence, evConfirmationOverdue):
		return "Currently overdue on statutory filings"
	case result.Rating == types.RatingClean:
		return "All filings on time with no amendments"
	}
	return result.RatingLogic
}

func filingQuestions(evidence []types.EvidenceItem) []string {
	var out []string
	if hasType(evidence, evLateFiling) {
		out = append(out, "Why were accounts filed late? Was this a one-off or systemic?")
	}
	if hasType(evidence, evAmendment) {
		out = append(out, "What was corrected in the amended accounts?")
	}
	if hasType(evidence, evARDChange) {
		out = append(out, "Why was the accounting reference date changed?")
	}
	if hasType(evidence, evAccountsOverdue) {
		out = append(out, "When will the overdue accounts be filed?")
	}
	return out
}
