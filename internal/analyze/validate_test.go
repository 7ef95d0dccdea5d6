// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"errors"
	"testing"
)

func TestNormalizeCompanyNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"01234567", "01234567"},
		{"1234567", "01234567"},
		{"99", "00000099"},
		{"  1234567  ", "01234567"},
		{"sc123456", "SC123456"},
		{"SC1234", "SC001234"},
		{"NI654321", "NI654321"},
		{"OC305634", "OC305634"},
		{"R0123456", "R0123456"},
	}
	for _, c := range cases {
		got, err := NormalizeCompanyNumber(c.in)
		if err != nil {
			t.Errorf("NormalizeCompanyNumber(%q): unexpected error %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("NormalizeCompanyNumber(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeCompanyNumberIdempotent(t *testing.T) {
	for _, in := range []string{"1234567", "99", "sc1234", "NI654321"} {
		once, err := NormalizeCompanyNumber(in)
		if err != nil {
			t.Fatalf("first pass on %q: %v", in, err)
		}
		twice, err := NormalizeCompanyNumber(once)
		if err != nil {
			t.Fatalf("second pass on %q: %v", once, err)
		}
		if once != twice {
			t.Errorf("normalization not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestNormalizeCompanyNumberRejects(t *testing.T) {
	for _, in := range []string{
		"",
		"1",
		"123456789", // too long
		"XX123456",  // unknown prefix
		"12B4567",   // letter in a numeric body
		"SC",        // prefix with no digits
		"SC12A456",  // non-digit tail
		"not a number",
	} {
		if _, err := NormalizeCompanyNumber(in); !errors.Is(err, ErrInvalidNumber) {
			t.Errorf("NormalizeCompanyNumber(%q): want ErrInvalidNumber, got %v", in, err)
		}
	}
}
