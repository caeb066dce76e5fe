// internal/resolvers/transactions.go
package resolvers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"customer-query-service/internal/format"
	"customer-query-service/internal/intent"
	"customer-query-service/internal/record"
	"customer-query-service/internal/timeframe"
	"customer-query-service/internal/transactions"
)

// maxListed caps the per-transaction listing; the total still covers every
// match.
const maxListed = 20

// Transactions resolves the timeframe, aggregates the history and renders a
// per-transaction list when a category was asked for, or a category
// breakdown otherwise. Data carries the transactions.Result.
func Transactions(rec record.Record, req Request) DomainResult {
	raw, ok := rec.List(record.SectionTransactions)
	if !ok || len(raw) == 0 {
		return missing(intent.TypeTransaction, req.SubType, "No transaction history available.")
	}

	expr := req.Timeframe
	if strings.TrimSpace(expr) == "" {
		expr = timeframe.DefaultExpression
	}
	window := timeframe.Resolve(expr, req.Now)
	parsed, _ := transactions.Parse(raw, req.Location)
	res := transactions.Aggregate(parsed, window, req.Category, req.Now)
	cur := currencyOf(rec, nil)

	if res.Empty() {
		r := missing(intent.TypeTransaction, req.SubType, emptyMessage(res))
		r.Data = res
		return r
	}

	var text string
	if res.Category != "" {
		text = renderTransactionList(res, cur)
	} else {
		text = renderBreakdown(res, cur)
	}
	return found(intent.TypeTransaction, req.SubType, res, text)
}

func emptyMessage(res transactions.Result) string {
	if res.Category != "" {
		return fmt.Sprintf("No transactions found for %s in %s.", res.Category, res.Window.Label)
	}
	return fmt.Sprintf("No transactions found for %s.", res.Window.Label)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func renderTransactionList(res transactions.Result, cur string) string {
	b := &format.Block{Title: fmt.Sprintf("Your %s transactions for %s:", res.Category, res.Window.Label)}

	lines := make([]string, 0, maxListed)
	for i, t := range res.Transactions {
		if i == maxListed {
			break
		}
		line := fmt.Sprintf("%s: %s, %s (%s)", format.Date(t.Date), t.Merchant, format.Currency(t.Amount, cur), t.Category)
		if t.Status != "" && !strings.EqualFold(t.Status, "completed") && !strings.EqualFold(t.Status, "success") {
			line += " [" + t.Status + "]"
		}
		lines = append(lines, line)
	}
	b.Text(format.List(lines))
	if res.Count > maxListed {
		b.Text(fmt.Sprintf("...and %d more.", res.Count-maxListed))
	}
	b.Add("Total", fmt.Sprintf("%s across %s", format.Currency(res.Total, cur), plural(res.Count, "transaction")))
	return b.Render()
}

func renderBreakdown(res transactions.Result, cur string) string {
	b := &format.Block{Title: fmt.Sprintf("Your spending for %s:", res.Window.Label)}
	b.Add("Total Spent", format.Currency(res.Total, cur))
	b.Add("Transactions", strconv.Itoa(res.Count))

	hundred := decimal.NewFromInt(100)
	lines := make([]string, 0, len(res.ByCategory))
	for _, name := range res.Categories() {
		amt := res.ByCategory[name]
		share := amt.Div(res.Total).Mul(hundred).InexactFloat64()
		lines = append(lines, fmt.Sprintf("%s: %s (%s)", name, format.Currency(amt, cur), format.Percent(share)))
	}
	b.Text("By category:")
	b.Text(format.List(lines))

	latest := res.Transactions[0]
	b.Add("Most Recent", fmt.Sprintf("%s at %s on %s", format.Currency(latest.Amount, cur), latest.Merchant, format.Date(latest.Date)))
	return b.Render()
}
