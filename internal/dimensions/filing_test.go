// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dimensions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdiddy/company-lens/pkg/types"
)

func TestFilingDisciplineOverdueAccounts(t *testing.T) {
	client := minimalCompany("01234567")
	client.profiles["01234567"].Accounts.Overdue = true

	filing := &FilingDiscipline{opts: testOpts()}
	result, err := filing.Analyze(context.Background(), client, "01234567")
	require.NoError(t, err)

	require.Equal(t, types.RatingRedFlag, result.Rating)
	require.True(t, hasType(result.Evidence, evAccountsOverdue))
	require.Equal(t, "Currently overdue on statutory filings", result.Summary)
}

func TestFilingDisciplineBypassesCacheForProfile(t *testing.T) {
	client := minimalCompany("01234567")

	filing := &FilingDiscipline{opts: testOpts()}
	_, err := filing.Analyze(context.Background(), client, "01234567")
	require.NoError(t, err)

	require.Contains(t, client.bypassedProfiles, "01234567")
}

func TestFilingDisciplineTwoLateFilings(t *testing.T) {
	client := minimalCompany("01234567")
	// Private company: deadline is period end plus nine months. Both
	// filings land after it.
	client.filings["01234567|"] = &types.FilingList{Items: []types.Filing{
		accountsFiling(date(2025, 11, 15), date(2024, 12, 31), "AA"), // due 2025-09-30
		accountsFiling(date(2024, 10, 20), date(2023, 12, 31), "AA"), // due 2024-09-30
	}}

	filing := &FilingDiscipline{opts: testOpts()}
	result, err := filing.Analyze(context.Background(), client, "01234567")
	require.NoError(t, err)

	require.Equal(t, types.RatingRedFlag, result.Rating)
	require.Equal(t, 2, countType(result.Evidence, evLateFiling))
}

func TestFilingDisciplineLastMinutePattern(t *testing.T) {
	client := minimalCompany("01234567")
	// Three of the last five filed within the final fortnight.
	client.filings["01234567|"] = &types.FilingList{Items: []types.Filing{
		accountsFiling(date(2025, 9, 25), date(2024, 12, 31), "AA"), // due 2025-09-30
		accountsFiling(date(2024, 9, 28), date(2023, 12, 31), "AA"), // due 2024-09-30
		accountsFiling(date(2023, 9, 29), date(2022, 12, 31), "AA"), // due 2023-09-30
		accountsFiling(date(2022, 5, 1), date(2021, 12, 31), "AA"),
		accountsFiling(date(2021, 5, 1), date(2020, 12, 31), "AA"),
	}}

	filing := &FilingDiscipline{opts: testOpts()}
	result, err := filing.Analyze(context.Background(), client, "01234567")
	require.NoError(t, err)

	require.Equal(t, types.RatingInvestigate, result.Rating)
	require.True(t, hasType(result.Evidence, evLastMinutePattern))
}

func TestFilingDisciplineAmendment(t *testing.T) {
	client := minimalCompany("01234567")
	amended := accountsFiling(date(2025, 3, 1), types.Date{}, "AAMD")
	amended.Description = "amended accounts made up to 2023-12-31"
	client.filings["01234567|"] = &types.FilingList{Items: []types.Filing{amended}}

	filing := &FilingDiscipline{opts: testOpts()}
	result, err := filing.Analyze(context.Background(), client, "01234567")
	require.NoError(t, err)

	require.Equal(t, types.RatingInvestigate, result.Rating)
	require.True(t, hasType(result.Evidence, evAmendment))
}

func TestFilingDisciplineCleanHistory(t *testing.T) {
	client := minimalCompany("01234567")

	filing := &FilingDiscipline{opts: testOpts()}
	result, err := filing.Analyze(context.Background(), client, "01234567")
	require.NoError(t, err)

	require.Equal(t, types.RatingClean, result.Rating)
	require.Equal(t, "All filings on time with no amendments", result.Summary)
}
