package internal

import (
	"fmt"
	"regexp"
)

// Statement exports commonly prefix lines with a bracketed timestamp like
// [05.03.2026 10:00]. The bracketed form is tried first so the transaction
// date wins over any other digit groups in the fragment.
var (
	bracketedDateRe = regexp.MustCompile(`\[(\d{1,2})\.(\d{1,2})\.(\d{2,4})`)
	bareDateRe      = regexp.MustCompile(`\b(\d{1,2})[./-](\d{1,2})(?:[./-](\d{2,4}))?\b`)
)

// ExtractDate pulls a calendar date out of a noisy text fragment and returns
// it as ISO YYYY-MM-DD. fallbackYear is used when the fragment carries no year
// at all; 2-digit years are promoted by adding 2000 regardless of fallback.
// Validation is lenient: day <= 31 and month <= 12, with no per-month length
// check. Returns ok=false when nothing in the fragment looks like a date.
func ExtractDate(fragment string, fallbackYear int) (string, bool) {
	if m := bracketedDateRe.FindStringSubmatch(fragment); m != nil {
		day := atoiSafe(m[1])
		month := atoiSafe(m[2])
		year := atoiSafe(m[3])
		if year < 100 {
			year += 2000
		}
		if day >= 1 && month >= 1 && day <= 31 && month <= 12 && year >= 2000 && year <= 2100 {
			return isoDate(year, month, day), true
		}
	}

	m := bareDateRe.FindStringSubmatch(fragment)
	if m == nil {
		return "", false
	}
	day := atoiSafe(m[1])
	month := atoiSafe(m[2])
	if day < 1 || month < 1 || day > 31 || month > 12 {
		return "", false
	}

	var year int
	switch {
	case m[3] == "":
		year = fallbackYear
	case len(m[3]) == 2:
		year = 2000 + atoiSafe(m[3])
	default:
		year = atoiSafe(m[3])
	}
	if year < 2000 || year > 2100 {
		return "", false
	}
	return isoDate(year, month, day), true
}

func isoDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// atoiSafe parses a digit-only string already vetted by a regex match.
func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
