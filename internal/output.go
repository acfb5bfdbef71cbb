package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// JSONCandidate is the JSON output format for one import candidate.
type JSONCandidate struct {
	Name            string  `json:"name"`
	Currency        string  `json:"currency"`
	LastAmount      float64 `json:"last_amount"`
	LastPaymentDate string  `json:"last_payment_date"`
	InferredCycle   string  `json:"inferred_cycle"`
	Confidence      string  `json:"confidence"`
	NextBillingDate string  `json:"next_billing_date"`
	Transactions    int     `json:"transactions"`
}

// JSONImportOutput is the root JSON object for an import run.
type JSONImportOutput struct {
	Layout          string          `json:"layout,omitempty"`
	Transactions    int             `json:"transactions"`
	SkippedSegments int             `json:"skipped_segments"`
	Candidates      []JSONCandidate `json:"candidates"`
}

// PrintCandidatesJSON outputs an import session's candidates in JSON format.
func PrintCandidatesJSON(w io.Writer, session *ImportSession) error {
	out := JSONImportOutput{
		Layout:          string(session.Layout),
		Transactions:    len(session.Transactions),
		SkippedSegments: session.SkippedSegments,
		Candidates:      []JSONCandidate{},
	}
	for _, c := range session.Candidates {
		out.Candidates = append(out.Candidates, JSONCandidate{
			Name:            c.Name,
			Currency:        c.Currency,
			LastAmount:      c.LastAmount,
			LastPaymentDate: c.LastPaymentDate,
			InferredCycle:   string(c.InferredCycle),
			Confidence:      string(c.Confidence),
			NextBillingDate: NextBillingDate(c),
			Transactions:    len(c.Transactions),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// PrintCandidatesTable renders the import review table: candidates in ranking
// order with projected next billing dates.
func PrintCandidatesTable(w io.Writer, session *ImportSession) {
	if len(session.Candidates) == 0 {
		fmt.Fprintln(w, "No confident subscription matches found.")
		fmt.Fprintln(w, "Check that statement lines contain both a date and an amount.")
		return
	}

	fmt.Fprintf(w, "Parsed %d transactions (%d segments skipped), %d candidates\n\n",
		len(session.Transactions), session.SkippedSegments, len(session.Candidates))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Name", "Cycle", "Confidence", "Last Payment", "Amount", "Next Billing", "Txs"})

	for _, c := range session.Candidates {
		fmtr := FormatterForSymbol(c.Currency)
		t.AppendRow(table.Row{
			c.Name,
			c.InferredCycle,
			confidenceCell(c.Confidence),
			c.LastPaymentDate,
			fmtr.Format(c.LastAmount),
			NextBillingDate(c),
			len(c.Transactions),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	t.Render()
}

func confidenceCell(c Confidence) string {
	switch c {
	case ConfidenceHigh:
		return text.FgGreen.Sprint(c)
	case ConfidenceMedium:
		return text.FgYellow.Sprint(c)
	default:
		return text.FgHiBlack.Sprint(c)
	}
}

// PrintSubscriptionsTable renders the stored collection with per-currency
// monthly totals and upcoming-billing markers.
func PrintSubscriptionsTable(w io.Writer, subs []Subscription, cfg *Config, today string) {
	if len(subs) == 0 {
		fmt.Fprintln(w, "No subscriptions stored yet.")
		return
	}

	upcoming := make(map[string]bool)
	for _, s := range Upcoming(subs, today) {
		upcoming[s.ID] = true
	}

	hasDescriptions := false
	if cfg != nil {
		for _, s := range subs {
			if cfg.GetDescription(s.Name) != "" {
				hasDescriptions = true
				break
			}
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{"Name"}
	if hasDescriptions {
		header = append(header, "Description")
	}
	header = append(header, "Group", "Cycle", "Price", "Monthly", "Next Billing")
	t.AppendHeader(header)

	for _, s := range subs {
		fmtr := FormatterForSymbol(s.Currency)
		next := s.NextBillingDate
		if upcoming[s.ID] {
			next = text.FgYellow.Sprint(next + " !")
		}

		row := table.Row{s.Name}
		if hasDescriptions {
			row = append(row, cfg.GetDescription(s.Name))
		}
		row = append(row, s.Group, s.BillingCycle, fmtr.Format(s.Price), fmtr.Format(MonthlyPrice(s)), next)
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Render()

	sum := Summarize(subs, today)
	fmt.Fprintf(w, "\n%d subscriptions in statistics, monthly total: %s\n",
		sum.Count, formatTotals(sum.MonthlyTotals))
	if len(sum.TotalsByGroup) > 1 {
		var groups []string
		for g := range sum.TotalsByGroup {
			groups = append(groups, g)
		}
		sort.Strings(groups)
		for _, g := range groups {
			fmt.Fprintf(w, "  %s: %s\n", g, formatTotals(sum.TotalsByGroup[g]))
		}
	}
	if sum.UpcomingCount > 0 {
		fmt.Fprintf(w, "%d due within 2 days\n", sum.UpcomingCount)
	}
}

// JSONStoreOutput is the root JSON object for a store listing.
type JSONStoreOutput struct {
	Subscriptions []Subscription                `json:"subscriptions"`
	MonthlyTotals map[string]float64            `json:"monthly_totals"`
	TotalsByGroup map[string]map[string]float64 `json:"totals_by_group,omitempty"`
	UpcomingCount int                           `json:"upcoming_count"`
}

// PrintSubscriptionsJSON outputs the stored collection in JSON format.
func PrintSubscriptionsJSON(w io.Writer, subs []Subscription, today string) error {
	sum := Summarize(subs, today)
	out := JSONStoreOutput{
		Subscriptions: subs,
		MonthlyTotals: sum.MonthlyTotals,
		TotalsByGroup: sum.TotalsByGroup,
		UpcomingCount: sum.UpcomingCount,
	}
	if out.Subscriptions == nil {
		out.Subscriptions = []Subscription{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func formatTotals(totals map[string]float64) string {
	if len(totals) == 0 {
		return "0,00 ₽"
	}
	// Stable symbol order for output
	var parts []string
	for _, sym := range []string{"€", "$", "₽"} {
		if v, ok := totals[sym]; ok {
			parts = append(parts, FormatterForSymbol(sym).Format(v))
		}
	}
	return strings.Join(parts, " + ")
}
