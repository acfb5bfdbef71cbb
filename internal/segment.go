package internal

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Layout identifies a supported statement layout. The set is closed; the
// layout is detected once per blob and dispatched explicitly.
type Layout string

const (
	// LayoutMarker is the legacy export where multi-line records are
	// separated by a marker phrase.
	LayoutMarker Layout = "marker"

	// LayoutLines is the denser one-record-per-line export.
	LayoutLines Layout = "lines"
)

var blankLineRe = regexp.MustCompile(`\n\s*\n`)

// DetectLayout picks the segmentation strategy for a statement blob by
// looking for the marker phrase (case-insensitive).
func DetectLayout(blob string, h Heuristics) Layout {
	if h.MarkerPhrase != "" &&
		strings.Contains(strings.ToLower(blob), strings.ToLower(h.MarkerPhrase)) {
		return LayoutMarker
	}
	return LayoutLines
}

// Segment splits a raw statement blob into one text fragment per candidate
// transaction, using the strategy for the given layout.
func Segment(blob string, layout Layout, h Heuristics) []string {
	switch layout {
	case LayoutMarker:
		return segmentByMarker(blob, h)
	default:
		return segmentByLines(blob, h)
	}
}

// segmentByMarker collapses multi-line records into a single line, then
// splits on the marker phrase. Fragments shorter than the configured minimum
// are discarded as noise.
func segmentByMarker(blob string, h Heuristics) []string {
	normalized := blankLineRe.ReplaceAllString(blob, "\n")
	normalized = strings.ReplaceAll(normalized, "\n", " ")

	markerRe := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(h.MarkerPhrase))
	parts := markerRe.Split(normalized, -1)

	var segments []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) >= h.MinSegmentLen {
			segments = append(segments, p)
		}
	}
	return segments
}

// segmentByLines treats each sufficiently long trimmed line as one fragment.
func segmentByLines(blob string, h Heuristics) []string {
	var segments []string
	for _, line := range strings.Split(blob, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) >= h.MinLineLen {
			segments = append(segments, line)
		}
	}
	return segments
}
