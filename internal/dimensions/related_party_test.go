// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dimensions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdiddy/company-lens/pkg/types"
)

func TestRelatedPartyRecentPSCChange(t *testing.T) {
	client := minimalCompany("01234567")
	client.pscs["01234567"].Items[0].NotifiedOn = date(2026, 5, 1)

	related := &RelatedParty{opts: testOpts()}
	result, err := related.Analyze(context.Background(), client, "01234567")
	require.NoError(t, err)

	require.Equal(t, types.RatingInvestigate, result.Rating)
	require.True(t, hasType(result.Evidence, evRecentPSC))
}

func TestRelatedPartyDirectorAndPSCBothRecent(t *testing.T) {
	client := minimalCompany("01234567")
	client.pscs["01234567"].Items[0].NotifiedOn = date(2026, 5, 1)
	client.officers["01234567"].Items = append(client.officers["01234567"].Items,
		officerWithID("NEW, Nick", "off9", date(2026, 5, 10)))
	client.appointments["off9"] = &types.AppointmentList{}

	related := &RelatedParty{opts: testOpts()}
	result, err := related.Analyze(context.Background(), client, "01234567")
	require.NoError(t, err)

	require.Equal(t, types.RatingInvestigate, result.Rating)
	require.Equal(t, "Director and PSC both changed in last 90 days", result.RatingLogic)
}

func TestRelatedPartySharedAddressSignal(t *testing.T) {
	client := minimalCompany("01234567")
	home := types.Address{AddressLine1: "14 Orchard Lane", Locality: "Sheffield"}
	client.officers["01234567"].Items[0].Address = home
	client.officers["01234567"].Items[1].Address = home

	related := &RelatedParty{opts: testOpts()}
	result, err := related.Analyze(context.Background(), client, "01234567")
	require.NoError(t, err)

	require.Equal(t, types.RatingInvestigate, result.Rating)
	require.True(t, hasType(result.Evidence, evSharedAddress))
}

func TestRelatedPartyNeverRedFlag(t *testing.T) {
	// Load every signal at once; the rating must still cap at investigate.
	client := minimalCompany("01234567")
	home := types.Address{AddressLine1: "14 Orchard Lane", Locality: "Sheffield"}
	client.officers["01234567"].Items[0].Address = home
	client.officers["01234567"].Items[1].Address = home
	client.pscs["01234567"].Items[0].NotifiedOn = date(2026, 5, 1)
	client.pscs["01234567"].Items = append(client.pscs["01234567"].Items, types.PSC{
		Name:             "YOUNG, Tom",
		Kind:             "individual-person-with-significant-control",
		NaturesOfControl: []string{"ownership-of-shares-75-to-100-percent"},
		NotifiedOn:       date(2026, 4, 1),
		DateOfBirth:      types.DateOfBirth{Month: 1, Year: 2004},
	})
	client.appointments["off1"] = &types.AppointmentList{Items: []types.Appointment{
		activeAppointment("01234567", "ORCHARD TRADING LIMITED", date(2015, 4, 1)),
		activeAppointment("11111111", "SIDE ONE LIMITED", date(2018, 1, 1)),
		activeAppointment("22222222", "SIDE TWO LIMITED", date(2019, 1, 1)),
	}}
	client.appointments["off2"] = &types.AppointmentList{Items: []types.Appointment{
		activeAppointment("01234567", "ORCHARD TRADING LIMITED", date(2016, 1, 15)),
		activeAppointment("11111111", "SIDE ONE LIMITED", date(2018, 2, 1)),
		activeAppointment("22222222", "SIDE TWO LIMITED", date(2019, 2, 1)),
	}}

	related := &RelatedParty{opts: testOpts()}
	result, err := related.Analyze(context.Background(), client, "01234567")
	require.NoError(t, err)

	require.Equal(t, types.RatingInvestigate, result.Rating)
	require.True(t, hasType(result.Evidence, evSharedAddress))
	require.True(t, hasType(result.Evidence, evBusinessNetwork))
	require.True(t, hasType(result.Evidence, evYoungMajorityOwner))
}

func TestRelatedPartyCleanNetwork(t *testing.T) {
	client := minimalCompany("01234567")

	related := &RelatedParty{opts: testOpts()}
	result, err := related.Analyze(context.Background(), client, "01234567")
	require.NoError(t, err)

	require.Equal(t, types.RatingClean, result.Rating)
	require.True(t, hasType(result.Evidence, evNetworkSize))
}

func TestRelatedPartyDecisionConcentration(t *testing.T) {
	// The majority PSC is also a director.
	client := minimalCompany("01234567")

	related := &RelatedParty{opts: testOpts()}
	result, err := related.Analyze(context.Background(), client, "01234567")
	require.NoError(t, err)

	require.True(t, hasType(result.Evidence, evDecisionConcentration))
}
