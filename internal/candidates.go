package internal

import (
	"sort"
	"strings"
)

// BuildCandidates groups transactions by normalized merchant key and turns
// each group into a ranked subscription candidate. Transactions whose key
// normalizes to empty stay in the transaction list but cannot be grouped.
func BuildCandidates(txs []Transaction, h Heuristics) []Candidate {
	groups := make(map[string][]Transaction)
	var order []string
	for _, t := range txs {
		key := NormalizeMerchant(t.Description, h)
		if key == "" {
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], t)
	}

	var candidates []Candidate
	for _, key := range order {
		group := groups[key]

		// Each candidate owns its sorted copy of the group.
		sorted := make([]Transaction, len(group))
		copy(sorted, group)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Date < sorted[j].Date
		})

		var cycle Cycle
		var confidence Confidence
		if len(sorted) >= 2 {
			dates := make([]string, len(sorted))
			for i, t := range sorted {
				dates[i] = t.Date
			}
			cycle, confidence = InferCycle(dates, h)
		} else {
			// A single observation never earns more than low confidence;
			// a year-keyword in the text still flips the cycle to yearly.
			cycle, confidence = CycleMonthly, ConfidenceLow
			if hasYearKeyword(sorted[0], h) {
				cycle = CycleYearly
			}
		}

		last := sorted[len(sorted)-1]
		candidates = append(candidates, Candidate{
			Key:             key,
			Name:            DisplayTitle(sorted[0].Description, h),
			Currency:        last.Currency,
			LastAmount:      last.Amount,
			LastPaymentDate: last.Date,
			InferredCycle:   cycle,
			Confidence:      confidence,
			Transactions:    sorted,
		})
	}

	// Higher confidence dominates; ties break on supporting evidence.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidateScore(candidates[i]) > candidateScore(candidates[j])
	})
	return candidates
}

func candidateScore(c Candidate) int {
	return c.Confidence.rank()*100 + len(c.Transactions)
}

func hasYearKeyword(t Transaction, h Heuristics) bool {
	text := strings.ToLower(t.Description + " " + t.Raw)
	for _, kw := range h.YearKeywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// NextBillingDate projects a candidate's next due date by advancing its last
// payment date one inferred cycle.
func NextBillingDate(c Candidate) string {
	if c.InferredCycle == CycleYearly {
		return AddYears(c.LastPaymentDate, 1)
	}
	return AddMonths(c.LastPaymentDate, 1)
}
