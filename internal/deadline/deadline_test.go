// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deadline

import (
	"testing"
	"time"

	"github.com/pdiddy/company-lens/pkg/types"
)

func TestAccountsDeadline(t *testing.T) {
	tests := []struct {
		name          string
		ref           types.Date
		firstAccounts bool
		public        bool
		want          string
	}{
		{"private subsequent", types.NewDate(2023, time.March, 31), false, false, "2023-12-31"},
		{"public subsequent", types.NewDate(2023, time.March, 31), false, true, "2023-09-30"},
		{"first accounts", types.NewDate(2022, time.January, 15), true, false, "2023-10-15"},
		{"first accounts public uses 21 months too", types.NewDate(2022, time.January, 15), true, true, "2023-10-15"},
		{"month-end clamp", types.NewDate(2023, time.May, 31), false, false, "2024-02-29"},
		{"month-end clamp non-leap", types.NewDate(2022, time.May, 31), false, false, "2023-02-28"},
		{"year rollover", types.NewDate(2023, time.August, 31), false, false, "2024-05-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AccountsDeadline(tt.ref, tt.firstAccounts, tt.public)
			if got.String() != tt.want {
				t.Errorf("AccountsDeadline() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAccountsDeadlineZeroRef(t *testing.T) {
	if got := AccountsDeadline(types.Date{}, false, false); !got.IsZero() {
		t.Errorf("AccountsDeadline(zero) = %s, want zero", got)
	}
}

func TestClassifyTimeliness(t *testing.T) {
	deadline := types.NewDate(2023, time.December, 31)

	tests := []struct {
		name    string
		filedOn types.Date
		want    Timeliness
	}{
		{"well before deadline", types.NewDate(2023, time.November, 1), OnTime},
		{"within final fortnight", types.NewDate(2023, time.December, 20), LastMinute},
		{"on the deadline day", types.NewDate(2023, time.December, 31), LastMinute},
		{"exactly 14 days early", types.NewDate(2023, time.December, 17), OnTime},
		{"after deadline", types.NewDate(2024, time.January, 5), Late},
		{"one day late", types.NewDate(2024, time.January, 1), Late},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyTimeliness(tt.filedOn, deadline); got != tt.want {
				t.Errorf("ClassifyTimeliness(%s) = %s, want %s", tt.filedOn, got, tt.want)
			}
		})
	}
}

func TestClassifyTimelinessZeroInputs(t *testing.T) {
	d := types.NewDate(2023, time.December, 31)
	if got := ClassifyTimeliness(types.Date{}, d); got != OnTime {
		t.Errorf("zero filedOn = %s, want on_time", got)
	}
	if got := ClassifyTimeliness(d, types.Date{}); got != OnTime {
		t.Errorf("zero deadline = %s, want on_time", got)
	}
}
