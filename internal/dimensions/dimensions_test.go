// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dimensions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pdiddy/company-lens/internal/registry"
	"github.com/pdiddy/company-lens/pkg/types"
)

// testNow anchors all date arithmetic in the analyzer tests.
var testNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func testOpts() Options {
	return Options{Now: func() time.Time { return testNow }}
}

func date(year int, month time.Month, day int) types.Date {
	return types.NewDate(year, month, day)
}

// fakeClient serves canned registry records; anything absent is a 404.
type fakeClient struct {
	profiles          map[string]*types.CompanyProfile
	officers          map[string]*types.OfficerList
	appointments      map[string]*types.AppointmentList
	disqualifications map[string]*types.DisqualificationRecord
	insolvencies      map[string]*types.InsolvencyRecord
	pscs              map[string]*types.PSCList
	pscStatements     map[string]*types.PSCStatementList
	filings           map[string]*types.FilingList
	charges           map[string]*types.ChargeList
	offices           map[string]*types.Address

	// failures maps "method:key" to an injected error.
	failures map[string]error

	// bypassedProfiles records profile fetches with the cache bypassed.
	bypassedProfiles []string
}

var errNotFound = &registry.FetchError{Kind: registry.KindNotFound}

func lookup[T any](m map[string]T, key string, failures map[string]error, failKey string) (T, error) {
	var zero T
	if err, ok := failures[failKey]; ok {
		return zero, err
	}
	v, ok := m[key]
	if !ok {
		return zero, errNotFound
	}
	return v, nil
}

func (f *fakeClient) GetCompany(_ context.Context, number string, bypassCache bool) (*types.CompanyProfile, error) {
	if bypassCache {
		f.bypassedProfiles = append(f.bypassedProfiles, number)
	}
	return lookup(f.profiles, number, f.failures, "company:"+number)
}

func (f *fakeClient) GetOfficers(_ context.Context, number string) (*types.OfficerList, error) {
	return lookup(f.officers, number, f.failures, "officers:"+number)
}

func (f *fakeClient) GetAppointments(_ context.Context, officerID string) (*types.AppointmentList, error) {
	return lookup(f.appointments, officerID, f.failures, "appointments:"+officerID)
}

func (f *fakeClient) GetDisqualifications(_ context.Context, officerID string) (*types.DisqualificationRecord, error) {
	return lookup(f.disqualifications, officerID, f.failures, "disqualifications:"+officerID)
}

func (f *fakeClient) GetInsolvency(_ context.Context, number string) (*types.InsolvencyRecord, error) {
	return lookup(f.insolvencies, number, f.failures, "insolvency:"+number)
}

func (f *fakeClient) GetPSCs(_ context.Context, number string) (*types.PSCList, error) {
	return lookup(f.pscs, number, f.failures, "pscs:"+number)
}

func (f *fakeClient) GetPSCStatements(_ context.Context, number string) (*types.PSCStatementList, error) {
	return lookup(f.pscStatements, number, f.failures, "psc-statements:"+number)
}

func (f *fakeClient) GetFilingHistory(_ context.Context, number, category string) (*types.FilingList, error) {
	return lookup(f.filings, number+"|"+category, f.failures, "filings:"+number)
}

func (f *fakeClient) GetCharges(_ context.Context, number string) (*types.ChargeList, error) {
	return lookup(f.charges, number, f.failures, "charges:"+number)
}

func (f *fakeClient) GetRegisteredOffice(_ context.Context, number string) (*types.Address, error) {
	return lookup(f.offices, number, f.failures, "office:"+number)
}

// minimalCompany is a fake with one long-tenured director, one individual
// UK PSC, no charges, and an unremarkable filing history.
func minimalCompany(number string) *fakeClient {
	return &fakeClient{
		profiles: map[string]*types.CompanyProfile{
			number: {
				CompanyNumber:  number,
				CompanyName:    "ORCHARD TRADING LIMITED",
				CompanyStatus:  types.StatusActive,
				Kind:           "ltd",
				DateOfCreation: date(2015, 4, 1),
				SICCodes:       []string{"62020"},
			},
		},
		officers: map[string]*types.OfficerList{
			number: {Items: []types.Officer{
				officerWithID("SMITH, John", "off1", date(2015, 4, 1)),
				officerWithID("DOE, Jane", "off2", date(2016, 1, 15)),
			}},
		},
		appointments: map[string]*types.AppointmentList{
			"off1": {Items: []types.Appointment{activeAppointment(number, "ORCHARD TRADING LIMITED", date(2015, 4, 1))}},
			"off2": {Items: []types.Appointment{activeAppointment(number, "ORCHARD TRADING LIMITED", date(2016, 1, 15))}},
		},
		pscs: map[string]*types.PSCList{
			number: {Items: []types.PSC{{
				Name:             "SMITH, John",
				Kind:             "individual-person-with-significant-control",
				Nationality:      "British",
				NaturesOfControl: []string{"ownership-of-shares-75-to-100-percent"},
				NotifiedOn:       date(2016, 4, 6),
			}}},
		},
		filings: map[string]*types.FilingList{
			number + "|": {Items: []types.Filing{
				accountsFiling(date(2025, 6, 1), date(2024, 12, 31), "AA"),
			}},
		},
	}
}

func officerWithID(name, officerID string, appointedOn types.Date) types.Officer {
	o := types.Officer{Name: name, OfficerRole: "director", AppointedOn: appointedOn}
	o.Links.Officer.Appointments = "/officers/" + officerID + "/appointments"
	return o
}

func activeAppointment(number, name string, appointedOn types.Date) types.Appointment {
	var a types.Appointment
	a.AppointedTo.CompanyNumber = number
	a.AppointedTo.CompanyName = name
	a.AppointedTo.CompanyStatus = types.StatusActive
	a.AppointedOn = appointedOn
	a.OfficerRole = "director"
	return a
}

func accountsFiling(filedOn, madeUpTo types.Date, filingType string) types.Filing {
	f := types.Filing{Category: "accounts", Type: filingType, Date: filedOn, Description: "accounts"}
	f.DescriptionValues.MadeUpDate = madeUpTo
	return f
}

// Every completed result must reproduce its rating from its evidence alone.
func TestEvaluatorDeterminism(t *testing.T) {
	client := minimalCompany("01234567")
	for _, analyzer := range All(testOpts()) {
		result, err := analyzer.Analyze(context.Background(), client, "01234567")
		require.NoError(t, err, analyzer.Dimension())
		require.Equal(t, result.Rating, Evaluate(result.Dimension, result.Evidence),
			"re-evaluating %s evidence must reproduce the rating", analyzer.Dimension())
	}
}

func TestAllReturnsFixedOrder(t *testing.T) {
	analyzers := All(Options{})
	require.Len(t, analyzers, 6)
	for i, d := range types.AllDimensions() {
		require.Equal(t, d, analyzers[i].Dimension())
	}
}

func TestAnalyzersPropagateFetchFailures(t *testing.T) {
	client := minimalCompany("01234567")
	client.failures = map[string]error{
		"officers:01234567": errors.New("registry unavailable"),
	}

	track := &TrackRecord{opts: testOpts()}
	_, err := track.Analyze(context.Background(), client, "01234567")
	require.Error(t, err)
}
