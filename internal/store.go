package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// LoadStore reads the subscription collection from a JSON file. A missing
// file is not an error: it yields an empty collection, matching first use.
func LoadStore(path string) ([]Subscription, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.WithField("path", path).Debug("store file missing, starting empty")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading store file: %w", err)
	}

	var subs []Subscription
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("parsing store file: %w", err)
	}
	return subs, nil
}

// SaveStore writes the subscription collection back as indented JSON,
// creating parent directories as needed.
func SaveStore(path string, subs []Subscription) error {
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling store: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing store file: %w", err)
	}
	return nil
}

// RollForwardAll catches up every overdue subscription in the collection and
// returns how many were advanced.
func RollForwardAll(subs []Subscription, today string) int {
	advanced := 0
	for i := range subs {
		if steps := RollForward(&subs[i], today); steps > 0 {
			advanced++
			log.WithFields(log.Fields{
				"name":  subs[i].Name,
				"steps": steps,
				"next":  subs[i].NextBillingDate,
			}).Debug("rolled subscription forward")
		}
	}
	return advanced
}

// MonthlyPrice normalizes a subscription's price to a per-month figure.
func MonthlyPrice(sub Subscription) float64 {
	if sub.BillingCycle == CycleYearly {
		return sub.Price / 12
	}
	return sub.Price
}

// Upcoming returns the subscriptions due within the next 1-2 days, the window
// the reminder collaborator cares about. Today itself counts.
func Upcoming(subs []Subscription, today string) []Subscription {
	var due []Subscription
	for _, s := range subs {
		if s.NextBillingDate == "" {
			continue
		}
		d := DaysBetween(today, s.NextBillingDate)
		if d >= 0 && d <= 2 {
			due = append(due, s)
		}
	}
	return due
}

// StoreSummary aggregates a subscription collection for display.
type StoreSummary struct {
	Count         int
	MonthlyTotals map[string]float64 // currency symbol -> monthly total
	TotalsByGroup map[string]map[string]float64
	UpcomingCount int
}

// Summarize computes per-currency monthly totals across the collection,
// skipping subscriptions excluded from statistics. Yearly prices contribute
// one twelfth per month.
func Summarize(subs []Subscription, today string) StoreSummary {
	sum := StoreSummary{
		MonthlyTotals: make(map[string]float64),
		TotalsByGroup: make(map[string]map[string]float64),
	}
	for _, s := range subs {
		if s.ExcludeFromStats {
			continue
		}
		sum.Count++
		monthly := MonthlyPrice(s)
		sum.MonthlyTotals[s.Currency] += monthly
		if sum.TotalsByGroup[s.Group] == nil {
			sum.TotalsByGroup[s.Group] = make(map[string]float64)
		}
		sum.TotalsByGroup[s.Group][s.Currency] += monthly
	}
	sum.UpcomingCount = len(Upcoming(subs, today))
	return sum
}
