package internal

import (
	"regexp"
	"strings"
)

// nonAlnumRe matches everything outside letters, digits and space,
// Unicode-aware so non-Latin merchant names survive normalization.
var nonAlnumRe = regexp.MustCompile(`[^\p{L}\p{N} ]`)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeMerchant canonicalizes a free-text transaction description into a
// stable grouping key: lower-case, punctuation stripped, generic banking words
// removed, whitespace collapsed. An empty result means the transaction cannot
// be grouped.
func NormalizeMerchant(s string, h Heuristics) string {
	s = strings.ToLower(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = nonAlnumRe.ReplaceAllString(s, " ")

	stop := make(map[string]bool, len(h.Stopwords))
	for _, w := range h.Stopwords {
		stop[strings.ToLower(w)] = true
	}

	var kept []string
	for _, tok := range strings.Fields(s) {
		if !stop[tok] {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

// DisplayTitle derives a human display title from a description: trimmed and
// truncated to the configured rune count with an ellipsis. An empty
// description falls back to a generic placeholder.
func DisplayTitle(s string, h Heuristics) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return "Подписка"
	}
	runes := []rune(t)
	if len(runes) > h.NameMaxLen {
		return string(runes[:h.NameMaxLen]) + "…"
	}
	return t
}
