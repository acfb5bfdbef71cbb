package internal

// Cycle is a billing periodicity.
type Cycle string

const (
	CycleMonthly Cycle = "monthly"
	CycleYearly  Cycle = "yearly"
)

// Confidence is the qualitative strength of a cycle inference.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// rank orders confidence tiers for candidate scoring.
func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	default:
		return 1
	}
}

// Transaction is one parsed statement line. Date is an ISO YYYY-MM-DD string;
// Amount is a sign-stripped magnitude. Raw keeps the original segment text for
// currency re-detection and diagnostics.
type Transaction struct {
	Date        string
	Description string
	Amount      float64
	Currency    string
	Raw         string
}

// Candidate is one inferred recurring merchant, built from a group of
// transactions sharing a normalized merchant key. It exclusively owns its
// transaction list.
type Candidate struct {
	Key             string
	Name            string
	Currency        string
	LastAmount      float64
	LastPaymentDate string
	InferredCycle   Cycle
	Confidence      Confidence
	Transactions    []Transaction
}

// Subscription is a persisted recurring payment. The engine touches it only
// during import merge and billing roll-forward; everything else belongs to the
// surrounding application.
type Subscription struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	Currency         string  `json:"currency"`
	NextBillingDate  string  `json:"nextBillingDate"`
	BillingCycle     Cycle   `json:"billingCycle"`
	Group            string  `json:"group"`
	Category         string  `json:"category,omitempty"`
	ExcludeFromStats bool    `json:"excludeFromStats,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}

// ImportSession carries one import attempt through the pipeline. It is built
// by the caller, filled stage by stage, and has no lifetime beyond the attempt.
type ImportSession struct {
	Raw          string
	FallbackYear int
	Layout       Layout
	Transactions []Transaction
	Candidates   []Candidate

	// SkippedSegments counts segments discarded because a date, an amount or
	// a usable description could not be extracted.
	SkippedSegments int
}
