// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph cross-references officers, PSCs, and appointment histories
// into relationship signals and ownership trees. It performs no I/O of its
// own: raw records arrive from the fetch layer, and recursive tracing calls
// back through a supplied fetch function.
package graph

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/company-lens/pkg/types"
)

// SignalKind tags a relationship signal category.
type SignalKind string

const (
	SignalSharedAddress        SignalKind = "shared_address"
	SignalBusinessNetwork      SignalKind = "business_network"
	SignalYoungMajorityOwner   SignalKind = "young_majority_owner"
	SignalDirectorIsPSCOfficer SignalKind = "director_is_psc_officer"
)

// youngOwnerAgeThreshold is the age below which a majority owner is
// surfaced for a closer look.
const youngOwnerAgeThreshold = 25

// RelationshipSignal is one related-party observation. Signals are hints
// for follow-up questions, never proof of misconduct; the related-party
// dimension caps their combined rating at investigate.
type RelationshipSignal struct {
	Kind        SignalKind
	Severity    types.Severity
	Description string
	People      []string

	// SharedCount carries the group or intersection size where relevant.
	SharedCount int
}

// SignalInput is the raw record set signal detection runs over. All
// records are for one target company; Appointments is keyed by officer ID
// and PSCOfficers by corporate-PSC registration number.
type SignalInput struct {
	CompanyNumber string
	Directors     []types.Officer
	PSCs          []types.PSC
	Appointments  map[string][]types.Appointment
	PSCOfficers   map[string][]types.Officer

	// Now anchors age calculations; the zero value means time.Now().
	Now time.Time
}

// DetectRelatedPartySignals runs the four signal detectors in fixed
// category order: shared addresses, business network overlap, young
// majority owners, directors who are officers of a corporate PSC. Within
// a category, signals follow the discovery order of the input lists.
func DetectRelatedPartySignals(in SignalInput) []RelationshipSignal {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	var signals []RelationshipSignal
	signals = append(signals, sharedAddressSignals(in)...)
	signals = append(signals, businessNetworkSignals(in)...)
	signals = append(signals, youngOwnerSignals(in, now)...)
	signals = append(signals, pscOfficerSignals(in)...)
	return signals
}

// sharedAddressSignals groups directors and PSCs by normalized address and
// flags any address shared by two or more distinct people.
func sharedAddressSignals(in SignalInput) []RelationshipSignal {
	type occupant struct {
		name string
		norm string
	}

	var order []string
	byAddress := make(map[string][]occupant)

	add := func(name string, addr types.Address) {
		norm := NormalizeAddress(addr)
		if norm == "" {
			return
		}
		if _, seen := byAddress[norm]; !seen {
			order = append(order, norm)
		}
		byAddress[norm] = append(byAddress[norm], occupant{name: name, norm: normalizeName(name)})
	}

	for _, d := range in.Directors {
		add(d.Name, d.Address)
	}
	for _, p := range in.PSCs {
		if p.IsActive() {
			add(p.Name, p.Address)
		}
	}

	var signals []RelationshipSignal
	for _, addr := range order {
		occupants := byAddress[addr]
		distinct := make(map[string]bool)
		var names []string
		for _, o := range occupants {
			if !distinct[o.norm] {
				distinct[o.norm] = true
				names = append(names, o.name)
			}
		}
		if len(distinct) < 2 {
			continue
		}
		signals = append(signals, RelationshipSignal{
			Kind:        SignalSharedAddress,
			Severity:    types.SeverityMedium,
			Description: fmt.Sprintf("%s share a recorded address", joinNames(names)),
			People:      names,
			SharedCount: len(names),
		})
	}
	return signals
}

// businessNetworkSignals flags director pairs whose appointment histories
// intersect on two or more companies other than the target.
func businessNetworkSignals(in SignalInput) []RelationshipSignal {
	type directorCompanies struct {
		name      string
		companies map[string]bool
	}

	var dirs []directorCompanies
	for _, d := range in.Directors {
		id := d.OfficerID()
		if id == "" {
			continue
		}
		companies := make(map[string]bool)
		for _, appt := range in.Appointments[id] {
			cn := appt.AppointedTo.CompanyNumber
			if cn != "" && cn != in.CompanyNumber {
				companies[cn] = true
			}
		}
		dirs = append(dirs, directorCompanies{name: d.Name, companies: companies})
	}

	var signals []RelationshipSignal
	for i := 0; i < len(dirs); i++ {
		for j := i + 1; j < len(dirs); j++ {
			shared := 0
			for cn := range dirs[i].companies {
				if dirs[j].companies[cn] {
					shared++
				}
			}
			if shared < 2 {
				continue
			}
			signals = append(signals, RelationshipSignal{
				Kind:     SignalBusinessNetwork,
				Severity: types.SeverityLow,
				Description: fmt.Sprintf("%s and %s hold appointments at %d of the same other companies",
					dirs[i].name, dirs[j].name, shared),
				People:      []string{dirs[i].name, dirs[j].name},
				SharedCount: shared,
			})
		}
	}
	return signals
}

// youngOwnerSignals flags individual PSCs holding a 75-100% interest whose
// partial date of birth implies an age under the threshold. Age is an upper
// bound: the registry gives month and year only, so the day is never used.
func youngOwnerSignals(in SignalInput, now time.Time) []RelationshipSignal {
	var signals []RelationshipSignal
	for _, p := range in.PSCs {
		if !p.IsActive() || !p.IsIndividual() || !p.HasMajorityControl() {
			continue
		}
		age := p.DateOfBirth.AgeAt(now)
		if age < 0 || age >= youngOwnerAgeThreshold {
			continue
		}
		signals = append(signals, RelationshipSignal{
			Kind:        SignalYoungMajorityOwner,
			Severity:    types.SeverityMedium,
			Description: fmt.Sprintf("%s holds a 75-100%% interest at age %d", p.Name, age),
			People:      []string{p.Name},
		})
	}
	return signals
}

// pscOfficerSignals flags directors who also serve as officers of one of
// the target's corporate PSCs.
func pscOfficerSignals(in SignalInput) []RelationshipSignal {
	var signals []RelationshipSignal
	for _, d := range in.Directors {
		dNorm := normalizeName(d.Name)
		for _, p := range in.PSCs {
			if !p.IsCorporate() || !p.IsActive() {
				continue
			}
			reg := p.Identification.RegistrationNumber
			if reg == "" {
				continue
			}
			for _, officer := range in.PSCOfficers[reg] {
				if !officer.IsActive() || normalizeName(officer.Name) != dNorm {
					continue
				}
				signals = append(signals, RelationshipSignal{
					Kind:     SignalDirectorIsPSCOfficer,
					Severity: types.SeverityLow,
					Description: fmt.Sprintf("%s is a director of the company and an officer of its controlling entity %s",
						d.Name, p.Name),
					People: []string{d.Name},
				})
				break
			}
		}
	}
	return signals
}

func joinNames(names []string) string {
	if len(names) <= 2 {
		return strings.Join(names, " and ")
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return strings.Join(sorted[:len(sorted)-1], ", ") + " and " + sorted[len(sorted)-1]
}
