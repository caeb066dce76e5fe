package transactions

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-query-service/internal/timeframe"
)

var now = time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC)

func rawTxn(date string, amount interface{}, merchant, category string) map[string]interface{} {
	return map[string]interface{}{
		"Date":     date,
		"Amount":   amount,
		"Merchant": merchant,
		"Category": category,
		"Status":   "Completed",
	}
}

func sampleRaw() []interface{} {
	return []interface{}{
		rawTxn("2025-02-03", 1500.0, "Swiggy", "Food & Dining"),
		rawTxn("2025-02-18", 2000.0, "Amazon", "Online Shopping"),
		rawTxn("2025-02-25", 1000.0, "Zomato", "Food & Dining"),
		rawTxn("2025-03-02", 750.0, "BESCOM", "Utilities"),
		rawTxn("2025-01-15", 3000.0, "IndiGo", "Travel"),
	}
}

func mustParse(t *testing.T, raw []interface{}) []Transaction {
	t.Helper()
	txns, _ := Parse(raw, time.UTC)
	return txns
}

func TestParse_DropsInvalidEntries(t *testing.T) {
	raw := append(sampleRaw(),
		rawTxn("", 100.0, "Nowhere", "Misc"),
		rawTxn("2025-02-10", 0.0, "Zero", "Misc"),
		rawTxn("2025-02-10", -50.0, "Refund", "Misc"),
		rawTxn("2025-02-10", 50.0, "", "Misc"),
		rawTxn("2025-02-10", 50.0, "Shop", ""),
		rawTxn("not a date", 50.0, "Shop", "Misc"),
		map[string]interface{}{"Date": "2025-02-10", "Merchant": "NoAmount", "Category": "Misc"},
		"garbage",
	)

	txns, invalid := Parse(raw, time.UTC)
	assert.Len(t, txns, 5)
	assert.Equal(t, 8, invalid)
}

func TestParse_AcceptsNumericStringsAndDateLayouts(t *testing.T) {
	txns, invalid := Parse([]interface{}{
		rawTxn("15/02/2025", "₹1,250.50", "DMart", "Groceries"),
		rawTxn("2025-02-16T10:15:00Z", 99, "Netflix", "Entertainment"),
	}, time.UTC)

	require.Len(t, txns, 2)
	assert.Zero(t, invalid)
	assert.True(t, txns[0].Amount.Equal(decimal.RequireFromString("1250.5")))
	assert.Equal(t, time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC), txns[0].Date)
}

func TestAggregate_LastMonth(t *testing.T) {
	txns := mustParse(t, sampleRaw())
	window := timeframe.Resolve("last month", now)

	res := Aggregate(txns, window, "", now)

	assert.Equal(t, 3, res.Count)
	assert.True(t, res.Total.Equal(decimal.NewFromInt(4500)), res.Total.String())
	require.Len(t, res.Transactions, 3)
	assert.Equal(t, "Zomato", res.Transactions[0].Merchant)
	assert.Equal(t, "Amazon", res.Transactions[1].Merchant)
	assert.Equal(t, "Swiggy", res.Transactions[2].Merchant)
	assert.True(t, res.ByCategory["Food & Dining"].Equal(decimal.NewFromInt(2500)))
	assert.True(t, res.ByCategory["Online Shopping"].Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, []string{"Food & Dining", "Online Shopping"}, res.Categories())
}

func TestAggregate_CategorySubstringMatch(t *testing.T) {
	txns := mustParse(t, sampleRaw())
	window := timeframe.Resolve("all", now)

	res := Aggregate(txns, window, "SHOPPING", now)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "Amazon", res.Transactions[0].Merchant)

	res = Aggregate(txns, window, "food", now)
	assert.Equal(t, 2, res.Count)
	assert.True(t, res.Total.Equal(decimal.NewFromInt(2500)))
}

func TestAggregate_MatchesRemarks(t *testing.T) {
	raw := rawTxn("2025-03-01", 400.0, "Paytm", "Transfers")
	raw["Remarks"] = "Movie tickets - entertainment"
	txns := mustParse(t, []interface{}{raw})

	res := Aggregate(txns, timeframe.Resolve("all", now), "entertainment", now)
	assert.Equal(t, 1, res.Count)
}

func TestAggregate_ExcludesFutureDated(t *testing.T) {
	txns := mustParse(t, append(sampleRaw(), rawTxn("2025-03-20", 999.0, "Future", "Utilities")))

	res := Aggregate(txns, timeframe.Resolve("all", now), "", now)
	assert.Equal(t, 5, res.Count)
	for _, txn := range res.Transactions {
		assert.NotEqual(t, "Future", txn.Merchant)
	}
}

func TestAggregate_RejectsHandBuiltInvalid(t *testing.T) {
	txns := []Transaction{
		{Date: now.AddDate(0, 0, -1), Amount: decimal.NewFromInt(10), Merchant: "A", Category: "X"},
		{Date: now.AddDate(0, 0, -1), Amount: decimal.NewFromInt(-10), Merchant: "B", Category: "X"},
		{Date: now.AddDate(0, 0, -1), Amount: decimal.NewFromInt(10), Merchant: "", Category: "X"},
	}
	res := Aggregate(txns, timeframe.Resolve("all", now), "", now)
	assert.Equal(t, 1, res.Count)
}

func TestAggregate_StableOnEqualDates(t *testing.T) {
	txns := mustParse(t, []interface{}{
		rawTxn("2025-03-01", 10.0, "first", "Misc"),
		rawTxn("2025-03-01", 20.0, "second", "Misc"),
		rawTxn("2025-03-02", 30.0, "third", "Misc"),
	})
	res := Aggregate(txns, timeframe.Resolve("all", now), "", now)
	require.Len(t, res.Transactions, 3)
	assert.Equal(t, "third", res.Transactions[0].Merchant)
	assert.Equal(t, "first", res.Transactions[1].Merchant)
	assert.Equal(t, "second", res.Transactions[2].Merchant)
}

func TestAggregate_TotalEqualsSumOfFiltered(t *testing.T) {
	txns := mustParse(t, sampleRaw())
	for _, expr := range []string{"all", "last month", "this month", "last 7 days", "last 3 months"} {
		window := timeframe.Resolve(expr, now)
		res := Aggregate(txns, window, "", now)

		sum := decimal.Zero
		expected := 0
		for _, txn := range txns {
			if txn.Valid() && !txn.Date.After(now) && window.Contains(txn.Date) {
				sum = sum.Add(txn.Amount)
				expected++
			}
		}
		assert.True(t, res.Total.Equal(sum), expr)
		assert.Equal(t, expected, res.Count, expr)
	}
}

func TestAggregate_CategoryFilterIsIdempotent(t *testing.T) {
	txns := mustParse(t, sampleRaw())
	window := timeframe.Resolve("last 3 months", now)

	first := Aggregate(txns, window, "food", now)
	second := Aggregate(first.Transactions, window, "food", now)

	assert.Equal(t, first.Count, second.Count)
	assert.True(t, first.Total.Equal(second.Total))
	assert.Equal(t, first.Transactions, second.Transactions)
	assert.Equal(t, first.Categories(), second.Categories())
}

func TestAggregate_Empty(t *testing.T) {
	txns := mustParse(t, sampleRaw())
	res := Aggregate(txns, timeframe.Resolve("today", now), "travel", now)
	assert.True(t, res.Empty())
	assert.True(t, res.Total.IsZero())
	assert.Empty(t, res.ByCategory)
}
