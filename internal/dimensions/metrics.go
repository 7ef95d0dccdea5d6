// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dimensions

import (
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/company-lens/pkg/types"
)

// dissolutionStats returns how many of an officer's lifetime appointments
// ended in dissolution, the total count, and the rate as a percentage.
func dissolutionStats(appointments []types.Appointment) (dissolved, total int, rate float64) {
	total = len(appointments)
	for _, a := range appointments {
		if a.AppointedTo.CompanyStatus == types.StatusDissolved {
			dissolved++
		}
	}
	if total > 0 {
		rate = float64(dissolved) / float64(total) * 100
	}
	return dissolved, total, rate
}

// medianTenureYears returns the median appointment length in years, with
// open appointments measured to now. Returns -1 when no appointment carries
// an appointment date.
func medianTenureYears(appointments []types.Appointment, now time.Time) float64 {
	var tenures []float64
	for _, a := range appointments {
		if a.AppointedOn.IsZero() {
			continue
		}
		end := now
		if !a.ResignedOn.IsZero() {
			end = a.ResignedOn.Time
		}
		days := daysBetween(a.AppointedOn.Time, end)
		if days >= 0 {
			tenures = append(tenures, float64(days)/365.25)
		}
	}
	if len(tenures) == 0 {
		return -1
	}
	sort.Float64s(tenures)
	mid := len(tenures) / 2
	if len(tenures)%2 == 0 {
		return (tenures[mid-1] + tenures[mid]) / 2
	}
	return tenures[mid]
}

// churnRate returns new appointments per year over the span of the
// officer's appointment dates. Spans under six months return 0.
func churnRate(appointments []types.Appointment) float64 {
	var dates []time.Time
	for _, a := range appointments {
		if !a.AppointedOn.IsZero() {
			dates = append(dates, a.AppointedOn.Time)
		}
	}
	if len(dates) < 2 {
		return 0
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	spanYears := float64(daysBetween(dates[0], dates[len(dates)-1])) / 365.25
	if spanYears < 0.5 {
		return 0
	}
	return float64(len(appointments)) / spanYears
}

// sicOverlap reports whether two SIC code lists share any code.
func sicOverlap(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, code := range a {
		set[code] = true
	}
	for _, code := range b {
		if set[code] {
			return true
		}
	}
	return false
}

// nameSimilarity returns a 0-1 similarity ratio between two company names
// based on Levenshtein edit distance, case-insensitive.
func nameSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}

	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	return 1 - float64(prev[len(rb)])/float64(maxLen)
}
