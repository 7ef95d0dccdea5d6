// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dimensions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdiddy/company-lens/pkg/types"
)

func charge(status string, createdOn types.Date, coversAll bool, creditors ...string) types.Charge {
	c := types.Charge{Status: status, CreatedOn: createdOn}
	c.Particulars.FloatingChargeCoversAll = coversAll
	for _, name := range creditors {
		c.PersonsEntitled = append(c.PersonsEntitled, struct {
			Name string `json:"name"`
		}{Name: name})
	}
	return c
}

func TestReadinessAllAssetsDebenture(t *testing.T) {
	client := minimalCompany("01234567")
	client.charges = map[string]*types.ChargeList{
		"01234567": {Items: []types.Charge{
			charge("outstanding", date(2020, 3, 1), true, "BARCLAYS BANK PLC"),
		}},
	}

	readiness := &TransactionReadiness{opts: testOpts()}
	result, err := readiness.Analyze(context.Background(), client, "01234567")
	require.NoError(t, err)

	require.Equal(t, types.RatingInvestigate, result.Rating)
	require.True(t, hasType(result.Evidence, evAllAssetsDebenture))
}

func TestReadinessRecentCharge(t *testing.T) {
	client := minimalCompany("01234567")
	client.charges = map[string]*types.ChargeList{
		"01234567": {Items: []types.Charge{
			charge("outstanding", date(2026, 3, 1), false, "HSBC UK BANK PLC"),
		}},
	}

	readiness := &TransactionReadiness{opts: testOpts()}
	result, err := readiness.Analyze(context.Background(), client, "01234567")
	require.NoError(t, err)

	require.Equal(t, types.RatingInvestigate, result.Rating)
	require.True(t, hasType(result.Evidence, evRecentCharge))
}

func TestReadinessMultipleCreditors(t *testing.T) {
	client := minimalCompany("01234567")
	client.charges = map[string]*types.ChargeList{
		"01234567": {Items: []types.Charge{
			charge("outstanding", date(2019, 1, 1), false, "BARCLAYS BANK PLC"),
			charge("outstanding", date(2020, 1, 1), false, "FUNDING CIRCLE LIMITED"),
		}},
	}

	readiness := &TransactionReadiness{opts: testOpts()}
	result, err := readiness.Analyze(context.Background(), client, "01234567")
	require.NoError(t, err)

	require.Equal(t, types.RatingInvestigate, result.Rating)
	require.True(t, hasType(result.Evidence, evMultipleCreditors))
}

func TestReadinessSatisfiedChargesAreClean(t *testing.T) {
	client := minimalCompany("01234567")
	client.charges = map[string]*types.ChargeList{
		"01234567": {Items: []types.Charge{
			charge("fully-satisfied", date(2018, 1, 1), true, "BARCLAYS BANK PLC"),
		}},
	}

	readiness := &TransactionReadiness{opts: testOpts()}
	result, err := readiness.Analyze(context.Background(), client, "01234567")
	require.NoError(t, err)

	require.Equal(t, types.RatingClean, result.Rating)
}

// No charges at all stays clean with an explicit evidence item.
func TestReadinessNoCharges(t *testing.T) {
	client := minimalCompany("01234567")

	readiness := &TransactionReadiness{opts: testOpts()}
	result, err := readiness.Analyze(context.Background(), client, "01234567")
	require.NoError(t, err)

	require.Equal(t, types.RatingClean, result.Rating)
	require.True(t, hasType(result.Evidence, evNoCharges))
	require.Equal(t, "No charges registered — clean transaction path", result.Summary)
}

// A fully loaded charges register still never reaches red_flag.
func TestReadinessNeverRedFlag(t *testing.T) {
	client := minimalCompany("01234567")
	client.charges = map[string]*types.ChargeList{
		"01234567": {Items: []types.Charge{
			charge("outstanding", date(2026, 4, 1), true, "BARCLAYS BANK PLC"),
			charge("outstanding", date(2026, 5, 1), false, "FUNDING CIRCLE LIMITED"),
			charge("outstanding", date(2026, 5, 15), false, "AVIVA INVESTORS LIMITED"),
		}},
	}

	readiness := &TransactionReadiness{opts: testOpts()}
	result, err := readiness.Analyze(context.Background(), client, "01234567")
	require.NoError(t, err)

	require.Equal(t, types.RatingInvestigate, result.Rating)
}
