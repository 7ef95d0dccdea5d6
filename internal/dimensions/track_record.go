// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dimensions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/company-lens/pkg/types"
)

// Evidence types emitted by the track record analyzer.
const (
	evDisqualification         = "disqualification"
	evDirectorProfile          = "director_profile"
	evHighDissolutionRate      = "high_dissolution_rate"
	evHighChurn                = "high_churn"
	evInsolvencyAssociation    = "insolvency_association"
	evPreInsolvencyResignation = "pre_insolvency_resignation"
	evPhoenixPattern           = "phoenix_pattern"
	evCleanRecord              = "clean_record"
	evNoDirectors              = "no_directors"
)

// phoenixCandidateLimit caps how many dissolved prior companies are profiled
// per director; each lookup costs a registry call.
const phoenixCandidateLimit = 5

// TrackRecord answers: have these directors been associated with companies
// that failed? Verified evidence covers disqualifications, insolvency
// associations, and serial-director metrics; phoenix patterns are inferred
// from dissolution timing plus SIC or name overlap and labeled as such.
type TrackRecord struct {
	opts Options
}

func (a *TrackRecord) Dimension() types.Dimension { return types.DimensionTrackRecord }

func (a *TrackRecord) Analyze(ctx context.Context, client Client, companyNumber string) (*types.DimensionResult, error) {
	result := &types.DimensionResult{
		Dimension: types.DimensionTrackRecord,
		Title:     "Director Track Record",
		Question:  "Have these directors been associated with companies that failed?",
	}
	now := a.opts.now()

	profile, err := client.GetCompany(ctx, companyNumber, false)
	if err != nil {
		return nil, err
	}

	officers, err := client.GetOfficers(ctx, companyNumber)
	if err != nil {
		if err := ignoreNotFound(err); err != nil {
			return nil, err
		}
		officers = &types.OfficerList{}
	}
	directors := currentDirectors(officers)
	if len(directors) == 0 {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionTrackRecord,
			Type:        evNoDirectors,
			Severity:    types.SeverityMedium,
			Confidence:  types.ConfidenceVerified,
			Description: "No current directors on record",
			Source:      "officers",
		})
		result.Rating = types.RatingInvestigate
		result.RatingLogic = "No current directors found"
		result.Summary = "No current directors found"
		return result, nil
	}

	for _, director := range directors {
		if err := a.analyzeDirector(ctx, client, companyNumber, director, profile, now, result); err != nil {
			return nil, err
		}
	}

	result.Rating, result.RatingLogic = evaluateTrackRecord(result.Evidence)
	result.Summary = trackRecordSummary(result)
	result.WhatToAsk = trackRecordQuestions(result.Evidence)
	return result, nil
}

func (a *TrackRecord) analyzeDirector(ctx context.Context, client Client, companyNumber string, director types.Officer, profile *types.CompanyProfile, now time.Time, result *types.DimensionResult) error {
	name := director.Name
	officerID := director.OfficerID()
	if officerID == "" {
		// Unlinkable officers stay in the director set but their history
		// cannot be fetched.
		return nil
	}
	before := len(result.Evidence)

	disq, err := client.GetDisqualifications(ctx, officerID)
	if err != nil {
		if err := ignoreNotFound(err); err != nil {
			return err
		}
	}
	if disq != nil {
		for _, d := range disq.Disqualifications {
			result.Evidence = append(result.Evidence, types.EvidenceItem{
				Dimension:   types.DimensionTrackRecord,
				Type:        evDisqualification,
				Severity:    types.SeverityHigh,
				Confidence:  types.ConfidenceVerified,
				Description: fmt.Sprintf("%s is disqualified until %s", name, d.DisqualifiedUntil),
				Subject:     name,
				Date:        d.DisqualifiedFrom,
				Source:      "disqualified-officers",
			})
		}
	}

	appts, err := client.GetAppointments(ctx, officerID)
	if err != nil {
		if err := ignoreNotFound(err); err != nil {
			return err
		}
		appts = &types.AppointmentList{}
	}
	appointments := appts.Items

	dissolved, total, rate := dissolutionStats(appointments)
	churn := churnRate(appointments)
	active := 0
	for _, appt := range appointments {
		if appt.IsActive() {
			active++
		}
	}

	profileDesc := fmt.Sprintf("%s: %d lifetime appointments (%d active), %d dissolved (%.0f%%)",
		name, total, active, dissolved, rate)
	if tenure := medianTenureYears(appointments, now); tenure >= 0 {
		profileDesc += fmt.Sprintf(", median tenure %.1f years", tenure)
	}
	result.Evidence = append(result.Evidence, types.EvidenceItem{
		Dimension:   types.DimensionTrackRecord,
		Type:        evDirectorProfile,
		Severity:    types.SeverityNone,
		Confidence:  types.ConfidenceVerified,
		Description: profileDesc,
		Subject:     name,
		Source:      "appointments",
	})

	if total >= 10 && rate > 50 {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionTrackRecord,
			Type:        evHighDissolutionRate,
			Severity:    types.SeverityHigh,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("%s has %.0f%% dissolution rate across %d companies", name, rate, total),
			Subject:     name,
			Source:      "appointments",
		})
	}

	if churn > 3 {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionTrackRecord,
			Type:        evHighChurn,
			Severity:    types.SeverityMedium,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("%s has high appointment churn (%.1f new appointments/year)", name, churn),
			Subject:     name,
			Source:      "appointments",
		})
	}

	var dissolvedPrior []types.Appointment
	for _, appt := range appointments {
		to := appt.AppointedTo
		if to.CompanyNumber == companyNumber {
			continue
		}
		if to.CompanyStatus == types.StatusDissolved {
			dissolvedPrior = append(dissolvedPrior, appt)
		}
		if !to.CompanyStatus.IsInsolvency() {
			continue
		}
		if err := a.reportInsolvency(ctx, client, name, appt, result); err != nil {
			return err
		}
	}

	if err := a.detectPhoenix(ctx, client, name, dissolvedPrior, profile, result); err != nil {
		return err
	}

	// A director with no medium-or-worse findings gets an explicit clean
	// record item.
	issues := false
	for _, e := range result.Evidence[before:] {
		if e.Type == evDirectorProfile {
			continue
		}
		if e.Severity == types.SeverityHigh || e.Severity == types.SeverityMedium {
			issues = true
			break
		}
	}
	if !issues {
		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:   types.DimensionTrackRecord,
			Type:        evCleanRecord,
			Severity:    types.SeverityNone,
			Confidence:  types.ConfidenceVerified,
			Description: fmt.Sprintf("%s — no insolvencies, disqualifications, or concerning patterns found", name),
			Subject:     name,
			Source:      "appointments + disqualified-officers",
		})
	}
	return nil
}

// reportInsolvency records one insolvency association, checking the
// resignation-to-commencement gap when the director had already resigned.
func (a *TrackRecord) reportInsolvency(ctx context.Context, client Client, name string, appt types.Appointment, result *types.DimensionResult) error {
	to := appt.AppointedTo
	severity := types.SeverityHigh
	assessment := "Director was present at failure"

	if !appt.ResignedOn.IsZero() {
		record, err := client.GetInsolvency(ctx, to.CompanyNumber)
		if err != nil {
			if err := ignoreNotFound(err); err != nil {
				return err
			}
		}
		var commenced types.Date
		if record != nil && len(record.Cases) > 0 {
			commenced = record.Cases[0].CommencedOn()
		}
		if !commenced.IsZero() {
			gap := daysBetween(appt.ResignedOn.Time, commenced.Time)
			switch {
			case gap > 0 && gap < 180:
				assessment = fmt.Sprintf("Resigned %d days before insolvency", gap)
				result.Evidence = append(result.Evidence, types.EvidenceItem{
					Dimension:   types.DimensionTrackRecord,
					Type:        evPreInsolvencyResignation,
					Severity:    types.SeverityMedium,
					Confidence:  types.ConfidenceVerified,
					Description: fmt.Sprintf("%s resigned from %s %d days before insolvency commenced", name, to.CompanyName, gap),
					Subject:     name,
					Date:        appt.ResignedOn,
					Source:      "appointments + insolvency",
				})
			case gap >= 180:
				assessment = fmt.Sprintf("Resigned %d days before insolvency", gap)
				severity = types.SeverityMedium
			}
		}
	}

	result.Evidence = append(result.Evidence, types.EvidenceItem{
		Dimension:  types.DimensionTrackRecord,
		Type:       evInsolvencyAssociation,
		Severity:   severity,
		Confidence: types.ConfidenceVerified,
		Description: fmt.Sprintf("%s — %s (%s) entered %s. %s",
			name, to.CompanyName, to.CompanyNumber,
			strings.ReplaceAll(string(to.CompanyStatus), "-", " "), assessment),
		Subject: name,
		Source:  "appointments + insolvency",
		Link:    companyURL(to.CompanyNumber),
	})
	return nil
}

// detectPhoenix profiles up to phoenixCandidateLimit dissolved prior
// companies and flags ones that ceased within twelve months before the
// target incorporated and share a SIC code or a similar name. These are
// inferred patterns: the registry cannot show asset or staff migration.
func (a *TrackRecord) detectPhoenix(ctx context.Context, client Client, name string, dissolvedPrior []types.Appointment, profile *types.CompanyProfile, result *types.DimensionResult) error {
	if profile.DateOfCreation.IsZero() || len(dissolvedPrior) == 0 {
		return nil
	}
	if len(dissolvedPrior) > phoenixCandidateLimit {
		dissolvedPrior = dissolvedPrior[:phoenixCandidateLimit]
	}

	for _, dc := range dissolvedPrior {
		dcProfile, err := client.GetCompany(ctx, dc.AppointedTo.CompanyNumber, false)
		if err != nil {
			if err := ignoreNotFound(err); err != nil {
				return err
			}
			continue
		}
		if dcProfile.DateOfCessation.IsZero() {
			continue
		}

		gap := daysBetween(dcProfile.DateOfCessation.Time, profile.DateOfCreation.Time)
		if gap < 0 || gap > 365 {
			continue
		}

		sicMatch := sicOverlap(dcProfile.SICCodes, profile.SICCodes)
		similarity := nameSimilarity(dc.AppointedTo.CompanyName, profile.CompanyName)
		if !sicMatch && similarity <= 0.6 {
			continue
		}

		var indicators []string
		if sicMatch {
			indicators = append(indicators, "same industry (SIC)")
		}
		if similarity > 0.6 {
			indicators = append(indicators, fmt.Sprintf("similar name (%.0f%%)", similarity*100))
		}

		result.Evidence = append(result.Evidence, types.EvidenceItem{
			Dimension:  types.DimensionTrackRecord,
			Type:       evPhoenixPattern,
			Severity:   types.SeverityMedium,
			Confidence: types.ConfidenceInferred,
			Description: fmt.Sprintf("Phoenix-likelihood: %s dissolved %s, %s incorporated %d days later (%s)",
				dc.AppointedTo.CompanyName, dcProfile.DateOfCessation, profile.CompanyName, gap,
				strings.Join(indicators, ", ")),
			Subject:    name,
			Date:       dcProfile.DateOfCessation,
			Source:     "appointments + company profiles",
			Link:       companyURL(dc.AppointedTo.CompanyNumber),
			Disclaimer: "Cannot verify: asset/staff migration or creditor harm",
		})
	}
	return nil
}

// evaluateTrackRecord is the ordered decision table for the track record
// dimension; first match wins.
func evaluateTrackRecord(evidence []types.EvidenceItem) (types.Rating, string) {
	disqualified := countType(evidence, evDisqualification)
	insolvencies := countType(evidence, evInsolvencyAssociation)
	phoenixes := countType(evidence, evPhoenixPattern)

	switch {
	case disqualified > 0:
		return types.RatingRedFlag, fmt.Sprintf("%d director(s) formally disqualified", disqualified)
	case hasType(evidence, evHighDissolutionRate):
		return types.RatingRedFlag, "Director(s) with >50% dissolution rate"
	case insolvencies >= 2:
		return types.RatingRedFlag, fmt.Sprintf("Director(s) associated with %d insolvencies", insolvencies)
	case phoenixes >= 2:
		return types.RatingRedFlag, fmt.Sprintf("Multiple phoenix-like patterns detected (%d)", phoenixes)
	case insolvencies == 1:
		return types.RatingInvestigate, "1 insolvency association found"
	case phoenixes == 1:
		return types.RatingInvestigate, "Phoenix-like pattern detected (inferred)"
	case hasType(evidence, evHighChurn):
		return types.RatingInvestigate, "High appointment churn"
	case hasType(evidence, evPreInsolvencyResignation):
		return types.RatingInvestigate, "Director resigned within 6 months before insolvency at another company"
	case hasType(evidence, evNoDirectors):
		return types.RatingInvestigate, "No current directors found"
	}
	return types.RatingClean, "No insolvency associations, disqualifications, or concerning patterns found"
}

func trackRecordSummary(result *types.DimensionResult) string {
	switch result.Rating {
	case types.RatingClean:
		return fmt.Sprintf("All %d directors checked — clean track record", countType(result.Evidence, evDirectorProfile))
	default:
		return result.RatingLogic
	}
}

func trackRecordQuestions(evidence []types.EvidenceItem) []string {
	var out []string
	for _, e := range evidence {
		if e.Type == evInsolvencyAssociation {
			out = append(out, fmt.Sprintf("Ask %s to explain their involvement in the insolvency on record", e.Subject))
		}
	}
	if hasType(evidence, evInsolvencyAssociation) {
		out = append(out,
			"Request the insolvency practitioner's report to check for findings of director misconduct",
			"Verify whether failures were due to external factors vs. management decisions")
	}
	if hasType(evidence, evPhoenixPattern) {
		out = append(out, "Understand the relationship between the dissolved company and this one")
	}
	return out
}
