// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model: raw Companies House record
// shapes, analysis results, and configuration.
package types

import "strings"

// CompanyStatus is the registry's lifecycle status for a company.
type CompanyStatus string

const (
	StatusActive                CompanyStatus = "active"
	StatusDissolved             CompanyStatus = "dissolved"
	StatusLiquidation           CompanyStatus = "liquidation"
	StatusAdministration        CompanyStatus = "administration"
	StatusReceivership          CompanyStatus = "receivership"
	StatusVoluntaryArrangement  CompanyStatus = "voluntary-arrangement"
	StatusInsolvencyProceedings CompanyStatus = "insolvency-proceedings"
	StatusProposalToStrikeOff   CompanyStatus = "proposal-to-strike-off"
)

// insolvencyStatuses are the statuses that count as an insolvency event for
// track-record purposes.
var insolvencyStatuses = map[CompanyStatus]bool{
	StatusLiquidation:           true,
	StatusAdministration:        true,
	StatusReceivership:          true,
	StatusVoluntaryArrangement:  true,
	StatusInsolvencyProceedings: true,
}

// IsInsolvency reports whether the status records a formal insolvency process.
func (s CompanyStatus) IsInsolvency() bool {
	return insolvencyStatuses[s]
}

// Address is a registered office or service address.
type Address struct {
	AddressLine1 string `json:"address_line_1,omitempty" yaml:"address_line_1,omitempty"`
	AddressLine2 string `json:"address_line_2,omitempty" yaml:"address_line_2,omitempty"`
	Locality     string `json:"locality,omitempty" yaml:"locality,omitempty"`
	Region       string `json:"region,omitempty" yaml:"region,omitempty"`
	PostalCode   string `json:"postal_code,omitempty" yaml:"postal_code,omitempty"`
	Country      string `json:"country,omitempty" yaml:"country,omitempty"`
}

// IsZero reports whether every address line is empty.
func (a Address) IsZero() bool {
	return a == Address{}
}

// AccountsSchedule carries the accounts block of a company profile,
// including the live overdue flag.
type AccountsSchedule struct {
	Overdue      bool `json:"overdue"`
	NextAccounts struct {
		DueOn       Date `json:"due_on"`
		PeriodEndOn Date `json:"period_end_on"`
	} `json:"next_accounts"`
	NextDue Date `json:"next_due"`
}

// ConfirmationSchedule carries the confirmation statement block of a
// company profile.
type ConfirmationSchedule struct {
	Overdue bool `json:"overdue"`
	NextDue Date `json:"next_due"`
}

// CompanyProfile is the immutable company snapshot one analysis run works
// from. Field names follow the registry's JSON.
type CompanyProfile struct {
	CompanyNumber           string               `json:"company_number"`
	CompanyName             string               `json:"company_name"`
	CompanyStatus           CompanyStatus        `json:"company_status"`
	Kind                    string               `json:"type"`
	DateOfCreation          Date                 `json:"date_of_creation"`
	DateOfCessation         Date                 `json:"date_of_cessation,omitempty"`
	RegisteredOfficeAddress Address              `json:"registered_office_address"`
	SICCodes                []string             `json:"sic_codes,omitempty"`
	Accounts                AccountsSchedule     `json:"accounts"`
	Confirmation            ConfirmationSchedule `json:"confirmation_statement"`
}

// IsPublic reports whether the company files on the public-company timetable.
func (p CompanyProfile) IsPublic() bool {
	return strings.HasPrefix(p.Kind, "plc") || strings.HasPrefix(p.Kind, "public")
}

// OfficerLinks holds the link block an officer record carries. The officer
// ID is only available embedded in these paths.
type OfficerLinks struct {
	Self    string `json:"self,omitempty"`
	Officer struct {
		Appointments string `json:"appointments,omitempty"`
	} `json:"officer"`
}

// Officer is one entry from the company officers list.
type Officer struct {
	Name        string       `json:"name"`
	OfficerRole string       `json:"officer_role"`
	AppointedOn Date         `json:"appointed_on"`
	ResignedOn  Date         `json:"resigned_on"`
	DateOfBirth DateOfBirth  `json:"date_of_birth"`
	Address     Address      `json:"address"`
	Links       OfficerLinks `json:"links"`
}

// IsDirector reports whether the officer holds a directorship.
func (o Officer) IsDirector() bool {
	return o.OfficerRole == "director" || o.OfficerRole == "corporate-director"
}

// IsActive reports whether the officer has not resigned.
func (o Officer) IsActive() bool {
	return o.ResignedOn.IsZero()
}

// OfficerID extracts the stable officer identifier from the appointments
// link (".../officers/<id>/appointments"). Some officer records carry no
// such link; those yield "" and must be treated as unlinkable.
func (o Officer) OfficerID() string {
	link := o.Links.Officer.Appointments
	if link == "" {
		link = o.Links.Self
	}
	parts := strings.Split(link, "/")
	for i, part := range parts {
		if part == "officers" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

// OfficerList is the officers endpoint response.
type OfficerList struct {
	Items []Officer `json:"items"`
}

// AppointedTo identifies the company side of an officer appointment.
type AppointedTo struct {
	CompanyNumber string        `json:"company_number"`
	CompanyName   string        `json:"company_name"`
	CompanyStatus CompanyStatus `json:"company_status"`
}

// Appointment is one entry from an officer's appointment history.
type Appointment struct {
	AppointedTo AppointedTo `json:"appointed_to"`
	AppointedOn Date        `json:"appointed_on"`
	ResignedOn  Date        `json:"resigned_on"`
	OfficerRole string      `json:"officer_role"`
}

// IsActive reports whether the appointment is still open.
func (a Appointment) IsActive() bool {
	return a.ResignedOn.IsZero()
}

// AppointmentList is the officer appointments endpoint response.
type AppointmentList struct {
	Items []Appointment `json:"items"`
}

// Disqualification is one disqualification order against an officer.
type Disqualification struct {
	DisqualifiedFrom  Date `json:"disqualified_from"`
	DisqualifiedUntil Date `json:"disqualified_until"`
	Reason            struct {
		DescriptionIdentifier string `json:"description_identifier"`
	} `json:"reason"`
}

// DisqualificationRecord is the disqualified-officers endpoint response.
type DisqualificationRecord struct {
	Disqualifications []Disqualification `json:"disqualifications"`
}

// CaseDate is one dated event within an insolvency case.
type CaseDate struct {
	Type string `json:"type"`
	Date Date   `json:"date"`
}

// InsolvencyCase is one case from a company's insolvency record.
type InsolvencyCase struct {
	Type  string     `json:"type"`
	Dates []CaseDate `json:"dates"`
}

// CommencedOn returns the date the case formally started, or the zero Date
// when no start-type date is recorded.
func (c InsolvencyCase) CommencedOn() Date {
	for _, d := range c.Dates {
		switch d.Type {
		case "wound-up-on", "instrumented-on", "administration-started-on":
			return d.Date
		}
	}
	return Date{}
}

// InsolvencyRecord is the insolvency endpoint response.
type InsolvencyRecord struct {
	Cases []InsolvencyCase `json:"cases"`
}

// PSCIdentification holds the registration details of a corporate PSC.
type PSCIdentification struct {
	RegistrationNumber string `json:"registration_number,omitempty"`
	PlaceRegistered    string `json:"place_registered,omitempty"`
	CountryRegistered  string `json:"country_registered,omitempty"`
}

// PSC is a person with significant control: an individual, a corporate
// entity, or a legal person such as a trust, distinguished by Kind.
type PSC struct {
	Name             string            `json:"name"`
	Kind             string            `json:"kind"`
	NaturesOfControl []string          `json:"natures_of_control"`
	NotifiedOn       Date              `json:"notified_on"`
	CeasedOn         Date              `json:"ceased_on"`
	DateOfBirth      DateOfBirth       `json:"date_of_birth"`
	Nationality      string            `json:"nationality,omitempty"`
	Address          Address           `json:"address"`
	Identification   PSCIdentification `json:"identification"`
}

// IsIndividual reports whether the PSC is a natural person.
func (p PSC) IsIndividual() bool {
	return strings.Contains(p.Kind, "individual")
}

// IsCorporate reports whether the PSC is a corporate entity.
func (p PSC) IsCorporate() bool {
	return strings.Contains(p.Kind, "corporate")
}

// IsLegalPerson reports whether the PSC is a legal person or trust.
func (p PSC) IsLegalPerson() bool {
	return strings.Contains(p.Kind, "legal-person")
}

// IsActive reports whether the PSC interest has not ceased.
func (p PSC) IsActive() bool {
	return p.CeasedOn.IsZero()
}

// HasMajorityControl reports whether any nature-of-control tag records
// ownership or voting rights in the 75-100% band.
func (p PSC) HasMajorityControl() bool {
	for _, n := range p.NaturesOfControl {
		if strings.Contains(n, "75-to-100") {
			return true
		}
	}
	return false
}

// PSCList is the persons-with-significant-control endpoint response.
type PSCList struct {
	Items []PSC `json:"items"`
}

// PSCStatement is a registry statement about incomplete PSC information.
type PSCStatement struct {
	Statement string `json:"statement"`
	CeasedOn  Date   `json:"ceased_on"`
}

// Unresolved reports whether the statement indicates a controller the
// company has not identified or confirmed.
func (s PSCStatement) Unresolved() bool {
	if !s.CeasedOn.IsZero() {
		return false
	}
	switch s.Statement {
	case "psc-exists-but-not-identified",
		"psc-details-not-confirmed",
		"steps-to-find-psc-not-yet-completed":
		return true
	}
	return false
}

// PSCStatementList is the PSC statements endpoint response.
type PSCStatementList struct {
	Items []PSCStatement `json:"items"`
}

// Filing is one entry from the filing history.
type Filing struct {
	Category          string `json:"category"`
	Type              string `json:"type"`
	Date              Date   `json:"date"`
	Description       string `json:"description"`
	DescriptionValues struct {
		MadeUpDate Date `json:"made_up_date"`
	} `json:"description_values"`
}

// FilingList is the filing history endpoint response.
type FilingList struct {
	Items []Filing `json:"items"`
}

// ChargeParticulars describes what a charge covers.
type ChargeParticulars struct {
	Description             string `json:"description,omitempty"`
	FloatingChargeCoversAll bool   `json:"floating_charge_covers_all,omitempty"`
}

// Charge is one registered charge (mortgage or debenture).
type Charge struct {
	ChargeNumber    int               `json:"charge_number"`
	Status          string            `json:"status"`
	CreatedOn       Date              `json:"created_on"`
	Particulars     ChargeParticulars `json:"particulars"`
	PersonsEntitled []struct {
		Name string `json:"name"`
	} `json:"persons_entitled"`
}

// IsOutstanding reports whether the charge has not been satisfied.
func (c Charge) IsOutstanding() bool {
	return c.Status == "outstanding"
}

// Creditors returns the names of the persons entitled under the charge.
func (c Charge) Creditors() []string {
	names := make([]string, 0, len(c.PersonsEntitled))
	for _, p := range c.PersonsEntitled {
		names = append(names, p.Name)
	}
	return names
}

// ChargeList is the charges endpoint response.
type ChargeList struct {
	Items []Charge `json:"items"`
}
