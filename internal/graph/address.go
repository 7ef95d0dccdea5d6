// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/company-lens/pkg/types"
)

// countrySuffixes are trailing tokens that vary between otherwise identical
// addresses and are dropped during normalization.
var countrySuffixes = []string{"united kingdom", "great britain", "england", "wales", "scotland", "uk", "gb"}

// formationAgentFragments are normalized fragments of addresses known to
// belong to bulk company-formation agents.
var formationAgentFragments = []string{
	"7175 shelton street",
	"2022 wenlock road",
	"85 great portland street",
	"kemp house",
	"27 old gloucester street",
	"128 city road",
	"suite 4 lincoln house",
	"167169 great portland street",
	"co companies house",
	"lenta business centre",
	"6366 hatton garden",
}

// NormalizeAddress flattens an address for comparison: lowercase, digits and
// letters only, single spaces, country suffixes removed. Two records at the
// same premises normalize to the same string regardless of case, punctuation,
// or whether the country line was filled in.
func NormalizeAddress(a types.Address) string {
	raw := strings.Join([]string{a.AddressLine1, a.AddressLine2, a.Locality, a.PostalCode}, " ")
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	norm := strings.Join(strings.Fields(b.String()), " ")
	for _, suffix := range countrySuffixes {
		norm = strings.TrimSuffix(norm, " "+suffix)
	}
	return norm
}

// IsFormationAgentAddress reports whether the address matches a known
// formation agent location.
func IsFormationAgentAddress(a types.Address) bool {
	norm := NormalizeAddress(a)
	if norm == "" {
		return false
	}
	for _, fragment := range formationAgentFragments {
		if strings.Contains(norm, fragment) {
			return true
		}
	}
	return false
}

// nameTitles are honorific tokens the registry sometimes records on officer
// names but not on PSC names for the same person.
var nameTitles = map[string]bool{
	"DR": true, "MR": true, "MRS": true, "MS": true, "MISS": true,
	"PROF": true, "SIR": true, "DAME": true,
}

// normalizeName flattens a person name for identity comparison across
// endpoints that format names differently ("SMITH, John" vs "John Smith",
// "Dr. Jane O'Brien" vs "JANE OBRIEN"). Tokens are uppercased, punctuation
// and honorifics dropped, and sorted.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	fields := strings.Fields(b.String())
	kept := fields[:0]
	for _, f := range fields {
		if !nameTitles[f] {
			kept = append(kept, f)
		}
	}
	sort.Strings(kept)
	return strings.Join(kept, " ")
}
