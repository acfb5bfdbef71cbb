package internal

import (
	"fmt"
	"time"
)

// AddMonths adds n whole months to an ISO YYYY-MM-DD date, clamping the day
// to the last valid day of the destination month (Jan 31 + 1 month is Feb 28
// or 29, never Mar 2). Negative n works symmetrically. The arithmetic is
// purely component-level; no timezone is ever consulted.
func AddMonths(iso string, n int) string {
	year, month, day := splitISO(iso)

	month += n
	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}

	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return isoDate(year, month, day)
}

// AddYears is AddMonths with n*12.
func AddYears(iso string, n int) string {
	return AddMonths(iso, n*12)
}

// DaysBetween returns the whole-day difference b - a between two ISO dates.
func DaysBetween(a, b string) int {
	ta := mustUTCDate(a)
	tb := mustUTCDate(b)
	return int(tb.Sub(ta).Hours() / 24)
}

// Today returns the current calendar day as an ISO date, time-of-day zeroed.
func Today() string {
	return time.Now().Format("2006-01-02")
}

func splitISO(iso string) (year, month, day int) {
	fmt.Sscanf(iso, "%d-%d-%d", &year, &month, &day)
	return
}

func daysInMonth(year, month int) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// mustUTCDate parses a pre-validated ISO date at UTC midnight. Calendar
// arithmetic never fails on engine-produced dates; a malformed input yields
// the zero time and surfaces as an absurd day difference in tests.
func mustUTCDate(iso string) time.Time {
	t, _ := time.Parse("2006-01-02", iso)
	return t
}
