// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date as Companies House reports it ("2006-01-02").
// The zero value means the field was absent from the API response.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month, day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string. Longer strings are truncated to
// the date portion. Empty or malformed input yields the zero Date.
func ParseDate(s string) Date {
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}
	}
	return Date{t}
}

// String formats the date as "YYYY-MM-DD", or "" for the zero value.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// DaysUntil returns the number of days from d to other, positive when
// other is later.
func (d Date) DaysUntil(other Date) int {
	return int(other.Sub(d.Time).Hours() / 24)
}

// UnmarshalJSON accepts a JSON string in "YYYY-MM-DD" form. null and the
// empty string decode to the zero Date.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed := ParseDate(s)
	if parsed.IsZero() {
		return fmt.Errorf("invalid date %q", s)
	}
	*d = parsed
	return nil
}

// MarshalJSON encodes the date as a "YYYY-MM-DD" string, or null when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// DateOfBirth is the partial date of birth Companies House publishes for
// officers and PSCs: month and year only, never the day. Comparisons must
// not assume a day of the month.
type DateOfBirth struct {
	Month int `json:"month" yaml:"month"`
	Year  int `json:"year" yaml:"year"`
}

// IsZero reports whether no date of birth was supplied.
func (b DateOfBirth) IsZero() bool {
	return b.Year == 0 || b.Month == 0
}

// AgeAt returns an upper bound on the person's age at t. Because the day is
// unknown the birth is pinned to the first of the month, so the result can
// overstate age by at most one month's worth of days.
func (b DateOfBirth) AgeAt(t time.Time) int {
	if b.IsZero() {
		return -1
	}
	age := t.Year() - b.Year
	if int(t.Month()) < b.Month {
		age--
	}
	return age
}
