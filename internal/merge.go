package internal

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MergeCandidates reconciles accepted candidates against an existing
// subscription collection. Matching is case-insensitive by name, which makes
// the merge idempotent: re-running it against its own output updates records
// in place instead of duplicating them. A matched subscription keeps its
// identifier and its user-owned fields (group, category, exclusion flag);
// derived fields are refreshed and an import annotation is appended to the
// notes. Unmatched candidates become new subscriptions with fresh identifiers
// and the supplied default group/category.
func MergeCandidates(existing []Subscription, candidates []Candidate, group, category string) []Subscription {
	byName := make(map[string]Subscription, len(existing))
	for _, s := range existing {
		byName[strings.ToLower(s.Name)] = s
	}

	result := make([]Subscription, len(existing))
	copy(result, existing)

	for _, c := range candidates {
		next := NextBillingDate(c)
		prior, matched := byName[strings.ToLower(c.Name)]

		sub := Subscription{
			Name:            c.Name,
			Price:           c.LastAmount,
			Currency:        c.Currency,
			NextBillingDate: next,
			BillingCycle:    c.InferredCycle,
			Group:           group,
			Category:        category,
		}
		if matched {
			sub.ID = prior.ID
			sub.Group = prior.Group
			sub.Category = prior.Category
			sub.ExcludeFromStats = prior.ExcludeFromStats
			sub.Notes = appendNote(prior.Notes, importNote(c))
		} else {
			sub.ID = uuid.NewString()
			sub.Notes = importNote(c)
		}

		replaced := false
		for i := range result {
			if result[i].ID == sub.ID {
				result[i] = sub
				replaced = true
				break
			}
		}
		if !replaced {
			result = append(result, sub)
		}
		byName[strings.ToLower(sub.Name)] = sub
	}

	return result
}

func importNote(c Candidate) string {
	return fmt.Sprintf("Импортировано из выписки. Последнее списание: %s. Уверенность: %s.",
		c.LastPaymentDate, c.Confidence)
}

func appendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + "\n" + note
}

// RollForward advances an overdue subscription's due date by whole cycles
// until it is today or later. Each step moves at least 28 (monthly) or 350
// (yearly) calendar days, so termination is bounded by construction. Returns
// the number of steps taken; zero means the date was already current.
func RollForward(sub *Subscription, today string) int {
	if sub.NextBillingDate == "" {
		return 0
	}
	steps := 0
	for sub.NextBillingDate < today {
		if sub.BillingCycle == CycleYearly {
			sub.NextBillingDate = AddYears(sub.NextBillingDate, 1)
		} else {
			sub.NextBillingDate = AddMonths(sub.NextBillingDate, 1)
		}
		steps++
	}
	return steps
}
