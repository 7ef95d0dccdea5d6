// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"testing"

	"github.com/pdiddy/company-lens/pkg/types"
)

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name string
		addr types.Address
		want string
	}{
		{
			name: "case and punctuation collapse",
			addr: types.Address{AddressLine1: "71-75, Shelton Street", Locality: "London", PostalCode: "WC2H 9JQ"},
			want: "7175 shelton street london wc2h 9jq",
		},
		{
			name: "country suffix dropped",
			addr: types.Address{AddressLine1: "128 City Road", Locality: "London", PostalCode: "EC1V 2NX United Kingdom"},
			want: "128 city road london ec1v 2nx",
		},
		{
			name: "internal whitespace collapsed",
			addr: types.Address{AddressLine1: "  20-22   Wenlock  Road ", Locality: "London"},
			want: "2022 wenlock road london",
		},
		{
			name: "empty address",
			addr: types.Address{},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAddress(tt.addr); got != tt.want {
				t.Errorf("NormalizeAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeAddressEquivalence(t *testing.T) {
	a := types.Address{AddressLine1: "71-75 Shelton Street", Locality: "London", PostalCode: "WC2H 9JQ", Country: "United Kingdom"}
	b := types.Address{AddressLine1: "71-75, SHELTON STREET", Locality: "london", PostalCode: "wc2h 9jq"}
	if NormalizeAddress(a) != NormalizeAddress(b) {
		t.Errorf("equivalent addresses normalize differently: %q vs %q", NormalizeAddress(a), NormalizeAddress(b))
	}
}

func TestIsFormationAgentAddress(t *testing.T) {
	tests := []struct {
		name string
		addr types.Address
		want bool
	}{
		{
			name: "shelton street",
			addr: types.Address{AddressLine1: "71-75 Shelton Street", AddressLine2: "Covent Garden", Locality: "London"},
			want: true,
		},
		{
			name: "wenlock road",
			addr: types.Address{AddressLine1: "20-22 Wenlock Road", Locality: "London", PostalCode: "N1 7GU"},
			want: true,
		},
		{
			name: "ordinary address",
			addr: types.Address{AddressLine1: "14 Orchard Lane", Locality: "Sheffield", PostalCode: "S1 4GH"},
			want: false,
		},
		{
			name: "empty address",
			addr: types.Address{},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFormationAgentAddress(tt.addr); got != tt.want {
				t.Errorf("IsFormationAgentAddress() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		a, b string
		same bool
	}{
		{"SMITH, John", "John Smith", true},
		{"Dr. Jane O'Brien", "JANE OBRIEN", true},
		{"MR JOHN SMITH", "SMITH, John", true},
		{"Miss Amara Okafor", "OKAFOR, Amara", true},
		{"John Smith", "John Smythe", false},
		{"DRAKE, Nathan", "Nathan", false},
	}
	for _, tt := range tests {
		got := normalizeName(tt.a) == normalizeName(tt.b)
		if got != tt.same {
			t.Errorf("normalizeName(%q) == normalizeName(%q): got %v, want %v", tt.a, tt.b, got, tt.same)
		}
	}
}
