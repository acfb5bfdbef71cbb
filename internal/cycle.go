package internal

import "sort"

// InferCycle infers billing periodicity and a confidence tier from the
// chronologically sorted ISO dates of one merchant's transactions.
// Consecutive day-gaps are classified as month-like or year-like using the
// heuristic windows; on a tie, year-like evidence wins. Fewer than two dates
// cannot support gap inference and default to monthly/low.
func InferCycle(dates []string, h Heuristics) (Cycle, Confidence) {
	if len(dates) < 2 {
		return CycleMonthly, ConfidenceLow
	}

	sorted := make([]string, len(dates))
	copy(sorted, dates)
	sort.Strings(sorted)

	monthLike, yearLike := 0, 0
	for i := 1; i < len(sorted); i++ {
		gap := DaysBetween(sorted[i-1], sorted[i])
		switch {
		case gap >= h.MonthGapMin && gap <= h.MonthGapMax:
			monthLike++
		case gap >= h.YearGapMin && gap <= h.YearGapMax:
			yearLike++
		}
	}

	if yearLike >= 1 && yearLike >= monthLike {
		if yearLike >= 2 {
			return CycleYearly, ConfidenceHigh
		}
		return CycleYearly, ConfidenceMedium
	}
	if monthLike >= 1 {
		if monthLike >= 2 {
			return CycleMonthly, ConfidenceHigh
		}
		return CycleMonthly, ConfidenceMedium
	}
	return CycleMonthly, ConfidenceLow
}
