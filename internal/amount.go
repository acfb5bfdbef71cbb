package internal

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// One known export annotates card purchases as "Покупка: 17.26 €".
	labeledAmountRe = regexp.MustCompile(`(?i)Покупка:\s*(\d+[.,]\d+)\s*€`)

	// A number directly followed by one of the supported currency symbols.
	symbolAmountRe = regexp.MustCompile(`(-?\d[\d ]*(?:[.,]\d{1,2})?)\s*[₽$€]`)

	// Generic scan over a fragment reduced to digits, separators and spaces.
	numberRunRe  = regexp.MustCompile(`-?\d[\d ]*(?:[.,]\d{1,2})?`)
	nonNumericRe = regexp.MustCompile(`[^0-9,.\- ]`)
)

// ExtractAmount pulls a monetary magnitude out of a noisy text fragment.
// Three strategies are tried in order: the labeled export annotation, a bare
// number with a currency symbol, and a generic numeric scan. The sign is
// stripped (statements show negative debits), thousands-spaces are removed and
// comma decimals are normalized to a dot. Returns ok=false when no strategy
// yields a finite number.
func ExtractAmount(fragment string) (float64, bool) {
	// Statement exports use non-breaking spaces as thousands separators.
	fragment = strings.ReplaceAll(fragment, " ", " ")

	if m := labeledAmountRe.FindStringSubmatch(fragment); m != nil {
		if v, ok := parseAmountNumber(m[1]); ok {
			return v, true
		}
	}

	if m := symbolAmountRe.FindStringSubmatch(fragment); m != nil {
		if v, ok := parseAmountNumber(m[1]); ok {
			return v, true
		}
	}

	cleaned := nonNumericRe.ReplaceAllString(fragment, " ")
	cleaned = strings.TrimSpace(cleaned)
	m := numberRunRe.FindString(cleaned)
	if m == "" {
		return 0, false
	}
	return parseAmountNumber(m)
}

func parseAmountNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return math.Abs(v), true
}
