package internal

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

var (
	bracketedSpanRe  = regexp.MustCompile(`\[.*?\]`)
	labeledStripRe   = regexp.MustCompile(`(?i)Покупка:\s*\d+[.,]\d+\s*€`)
	amountCurrencyRe = regexp.MustCompile(`-?\d[\d ]*(?:[.,]\d{1,2})?\s*[₽$€]`)
	cardAnnotationRe = regexp.MustCompile(`(?i)Карта:\s*\*\d+`)
	balanceTrailerRe = regexp.MustCompile(`(?i)Остаток:.*`)
	currencySymbolRe = regexp.MustCompile(`[₽$€]`)
)

// boilerplateRegexp builds the strip pattern for currency/format boilerplate
// words plus the layout marker phrase. Go's \b only understands ASCII word
// characters, so Cyrillic entries are matched without boundaries.
func boilerplateRegexp(h Heuristics) *regexp.Regexp {
	words := make([]string, 0, len(h.BoilerplateWords)+1)
	words = append(words, h.BoilerplateWords...)
	if h.MarkerPhrase != "" {
		words = append(words, h.MarkerPhrase)
	}

	var alts []string
	for _, w := range words {
		quoted := regexp.QuoteMeta(w)
		if isASCII(w) {
			alts = append(alts, `\b`+quoted+`\b`)
		} else {
			alts = append(alts, quoted)
		}
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(alts, "|") + `)`)
}

func isASCII(s string) bool {
	for _, r := range s {
		if r >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// ExtractTransactions turns statement segments into structured transactions.
// A segment is discarded when no date or amount can be resolved, or when the
// residue after stripping dates, amounts, card annotations and boilerplate is
// too short to be a merchant name. The result is sorted ascending by date;
// every downstream consumer relies on that ordering. The second return value
// is the number of discarded segments.
func ExtractTransactions(segments []string, fallbackYear int, h Heuristics) ([]Transaction, int) {
	strip := boilerplateRegexp(h)

	var txs []Transaction
	skipped := 0
	for _, seg := range segments {
		tx, ok := extractOne(seg, fallbackYear, strip)
		if !ok {
			skipped++
			log.WithField("segment", seg).Debug("segment skipped")
			continue
		}
		txs = append(txs, tx)
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date < txs[j].Date
	})
	return txs, skipped
}

func extractOne(seg string, fallbackYear int, strip *regexp.Regexp) (Transaction, bool) {
	date, ok := ExtractDate(seg, fallbackYear)
	if !ok {
		return Transaction{}, false
	}
	amount, ok := ExtractAmount(seg)
	if !ok {
		return Transaction{}, false
	}

	desc := seg
	desc = bracketedSpanRe.ReplaceAllString(desc, " ")
	desc = bareDateRe.ReplaceAllString(desc, " ")
	desc = labeledStripRe.ReplaceAllString(desc, " ")
	desc = amountCurrencyRe.ReplaceAllString(desc, " ")
	desc = cardAnnotationRe.ReplaceAllString(desc, " ")
	desc = balanceTrailerRe.ReplaceAllString(desc, " ")
	desc = currencySymbolRe.ReplaceAllString(desc, " ")
	desc = strip.ReplaceAllString(desc, " ")
	desc = strings.TrimSpace(whitespaceRe.ReplaceAllString(desc, " "))

	// Residue under 2 runes is almost certainly all-boilerplate.
	if utf8.RuneCountInString(desc) < 2 {
		return Transaction{}, false
	}

	return Transaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Currency:    DetectCurrency(seg),
		Raw:         seg,
	}, true
}

// NewImportSession prepares a session for one import attempt. A zero
// fallbackYear defaults to the current calendar year.
func NewImportSession(blob string, fallbackYear int) *ImportSession {
	if fallbackYear == 0 {
		fallbackYear = time.Now().Year()
	}
	return &ImportSession{Raw: blob, FallbackYear: fallbackYear}
}

// Run executes the full synchronous pipeline on the session's blob: layout
// detection, segmentation, transaction extraction and candidate building.
// It is side-effect-free with respect to everything but the session itself
// and is safe to re-run.
func (s *ImportSession) Run(h Heuristics) {
	s.Layout = DetectLayout(s.Raw, h)
	segments := Segment(s.Raw, s.Layout, h)
	s.Transactions, s.SkippedSegments = ExtractTransactions(segments, s.FallbackYear, h)
	s.Candidates = BuildCandidates(s.Transactions, h)

	log.WithFields(log.Fields{
		"layout":     s.Layout,
		"segments":   len(segments),
		"skipped":    s.SkippedSegments,
		"txs":        len(s.Transactions),
		"candidates": len(s.Candidates),
	}).Debug("import pipeline finished")
}
