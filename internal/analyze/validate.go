// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidNumber marks input that cannot be a Companies House number.
var ErrInvalidNumber = errors.New("invalid company number")

// alphaPrefixes are the two-character registration prefixes the registry
// issues (Scotland, Northern Ireland, LLPs, overseas entities, and so on).
var alphaPrefixes = map[string]bool{
	"SC": true, "NI": true, "OC": true, "SO": true, "NC": true,
	"R0": true, "AC": true, "FC": true, "GE": true, "LP": true,
	"NA": true, "IP": true, "SP": true, "IC": true, "SI": true,
	"NP": true, "NO": true, "RC": true, "NR": true, "CE": true,
}

// NormalizeCompanyNumber canonicalizes user input into the registry's
// 8-character form: purely numeric input is zero-padded to 8 digits, and a
// known alpha prefix keeps its prefix with the numeric tail padded to 6.
// Normalization is idempotent.
func NormalizeCompanyNumber(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if len(s) < 2 || len(s) > 8 {
		return "", fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}

	if allDigits(s) {
		return strings.Repeat("0", 8-len(s)) + s, nil
	}

	prefix, tail := s[:2], s[2:]
	if alphaPrefixes[prefix] && tail != "" && len(tail) <= 6 && allDigits(tail) {
		return prefix + strings.Repeat("0", 6-len(tail)) + tail, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
