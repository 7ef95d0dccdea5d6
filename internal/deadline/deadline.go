// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package deadline computes statutory accounts deadlines and classifies
// filing timeliness. All arithmetic is calendar-month based to match the
// statutory definitions, never fixed 30-day increments.
package deadline

import (
	"time"

	"github.com/pdiddy/company-lens/pkg/types"
)

// lastMinuteWindow is how close to the deadline a filing must land to count
// as last-minute.
const lastMinuteWindow = 14 // days

// Timeliness classifies one filing against its deadline.
type Timeliness string

const (
	OnTime     Timeliness = "on_time"
	LastMinute Timeliness = "last_minute"
	Late       Timeliness = "late"
)

// AccountsDeadline returns the statutory filing deadline for a set of
// accounts. For first accounts ref is the incorporation date and the
// deadline is 21 months later; otherwise ref is the accounting reference
// date and the deadline is 9 months later for private companies or 6 for
// public ones.
func AccountsDeadline(ref types.Date, firstAccounts, public bool) types.Date {
	if ref.IsZero() {
		return types.Date{}
	}
	months := 9
	switch {
	case firstAccounts:
		months = 21
	case public:
		months = 6
	}
	return addMonths(ref, months)
}

// ClassifyTimeliness grades filedOn against deadline: late when filed after
// the deadline, last_minute when filed within 14 days before it (the
// deadline day included), on_time otherwise.
func ClassifyTimeliness(filedOn, deadline types.Date) Timeliness {
	if filedOn.IsZero() || deadline.IsZero() {
		return OnTime
	}
	if filedOn.After(deadline.Time) {
		return Late
	}
	if filedOn.DaysUntil(deadline) < lastMinuteWindow {
		return LastMinute
	}
	return OnTime
}

// addMonths advances d by whole calendar months, clamping to the last day
// of the target month when the source day does not exist there (e.g.
// 31 May + 9 months is 28/29 February, not 2/3 March as time.AddDate
// normalization would give).
func addMonths(d types.Date, months int) types.Date {
	y, m, day := d.Date()
	m += time.Month(months)
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(first); day > last {
		day = last
	}
	return types.NewDate(first.Year(), first.Month(), day)
}

// daysIn returns the number of days in t's month.
func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
