// internal/transactions/transactions.go
package transactions

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"customer-query-service/internal/record"
	"customer-query-service/internal/timeframe"
)

// Transaction is a single validated entry from a customer's history.
type Transaction struct {
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Merchant string          `json:"merchant"`
	Category string          `json:"category"`
	Status   string          `json:"status,omitempty"`
	Remarks  string          `json:"remarks,omitempty"`
}

// Result is the outcome of one aggregation. It is derived per query and never
// cached.
type Result struct {
	Transactions []Transaction              `json:"transactions"`
	Total        decimal.Decimal            `json:"total"`
	ByCategory   map[string]decimal.Decimal `json:"byCategory"`
	Window       timeframe.Window           `json:"window"`
	Count        int                        `json:"count"`
	Category     string                     `json:"category,omitempty"`
}

// Empty reports whether no transaction survived filtering.
func (r Result) Empty() bool { return r.Count == 0 }

// Categories returns the category names sorted by descending spend, then name.
func (r Result) Categories() []string {
	names := make([]string, 0, len(r.ByCategory))
	for name := range r.ByCategory {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := r.ByCategory[names[i]], r.ByCategory[names[j]]
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return names[i] < names[j]
	})
	return names
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2 Jan 2006",
	"January 2, 2006",
}

// ParseDate accepts the date layouts seen in customer documents. Dates without
// a zone are read in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Parse converts the raw Transactions section into validated transactions.
// Entries missing a date, amount, merchant or category, or with a
// non-positive amount, are dropped. The second return value counts them.
func Parse(raw []interface{}, loc *time.Location) ([]Transaction, int) {
	out := make([]Transaction, 0, len(raw))
	invalid := 0
	for _, el := range raw {
		m, ok := el.(map[string]interface{})
		if !ok {
			invalid++
			continue
		}
		txn, ok := parseOne(record.Record(m), loc)
		if !ok {
			invalid++
			continue
		}
		out = append(out, txn)
	}
	return out, invalid
}

func parseOne(m record.Record, loc *time.Location) (Transaction, bool) {
	dateStr, ok := firstString(m, "Date", "date", "Transaction_Date")
	if !ok {
		return Transaction{}, false
	}
	date, ok := ParseDate(dateStr, loc)
	if !ok {
		return Transaction{}, false
	}
	amount, ok := firstNumber(m, "Amount", "amount")
	if !ok || amount <= 0 {
		return Transaction{}, false
	}
	merchant, ok := firstString(m, "Merchant", "merchant", "Description")
	if !ok {
		return Transaction{}, false
	}
	category, ok := firstString(m, "Category", "category")
	if !ok {
		return Transaction{}, false
	}
	status, _ := firstString(m, "Status", "status")
	remarks, _ := firstString(m, "Remarks", "remarks")

	return Transaction{
		Date:     date,
		Amount:   decimal.NewFromFloat(amount),
		Merchant: merchant,
		Category: category,
		Status:   status,
		Remarks:  remarks,
	}, true
}

// Valid reports whether t satisfies the transaction invariants. Parse only
// produces valid transactions; Aggregate re-checks so that hand-built input is
// held to the same rule.
func (t Transaction) Valid() bool {
	return !t.Date.IsZero() &&
		t.Amount.IsPositive() &&
		strings.TrimSpace(t.Merchant) != "" &&
		strings.TrimSpace(t.Category) != ""
}

// Aggregate filters txns to the window and optional category, sorts them most
// recent first and totals them. Transactions dated after now are always
// excluded. Category matching is case-insensitive substring containment on
// the category or remarks.
func Aggregate(txns []Transaction, window timeframe.Window, category string, now time.Time) Result {
	needle := strings.ToLower(strings.TrimSpace(category))

	kept := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if !t.Valid() {
			continue
		}
		if t.Date.After(now) {
			continue
		}
		if !window.Contains(t.Date) {
			continue
		}
		if needle != "" && !matchesCategory(t, needle) {
			continue
		}
		kept = append(kept, t)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Date.After(kept[j].Date)
	})

	total := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)
	for _, t := range kept {
		total = total.Add(t.Amount)
		byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
	}

	return Result{
		Transactions: kept,
		Total:        total,
		ByCategory:   byCategory,
		Window:       window,
		Count:        len(kept),
		Category:     strings.TrimSpace(category),
	}
}

func matchesCategory(t Transaction, needle string) bool {
	return strings.Contains(strings.ToLower(t.Category), needle) ||
		strings.Contains(strings.ToLower(t.Remarks), needle)
}

func firstString(m record.Record, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := m.String(k); ok {
			return s, true
		}
	}
	return "", false
}

func firstNumber(m record.Record, keys ...string) (float64, bool) {
	for _, k := range keys {
		if n, ok := m.Number(k); ok {
			return n, true
		}
	}
	return 0, false
}
