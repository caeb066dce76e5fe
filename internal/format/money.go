// internal/format/money.go
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// defaultCurrency is assumed when a record or item names none. It is set
// once at startup.
var defaultCurrency = "INR"

// SetDefaultCurrency changes the currency assumed for unlabelled amounts.
func SetDefaultCurrency(code string) {
	if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
		defaultCurrency = code
	}
}

// DefaultCurrency returns the currency assumed for unlabelled amounts.
func DefaultCurrency() string { return defaultCurrency }

var (
	crore   = decimal.NewFromInt(10_000_000)
	lakh    = decimal.NewFromInt(100_000)
	hundred = decimal.NewFromInt(100)
)

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"AED": "AED ",
	"SGD": "S$",
}

// Currency renders amount with two decimals and the grouping customary for
// the currency: lakh/crore grouping for INR, thousands grouping otherwise.
func Currency(amount decimal.Decimal, code string) string {
	code = normalizeCode(code)
	neg := amount.IsNegative()
	fixed := amount.Abs().StringFixed(2)

	intPart, frac := fixed, ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, frac = fixed[:i], fixed[i:]
	}

	var grouped string
	if code == "INR" {
		grouped = groupIndian(intPart)
	} else {
		grouped = groupThousands(intPart)
	}

	out := symbol(code) + grouped + frac
	if neg {
		return "-" + out
	}
	return out
}

// CurrencyFloat is Currency for values read straight from a record.
func CurrencyFloat(amount float64, code string) string {
	return Currency(decimal.NewFromFloat(amount), code)
}

// Compact renders INR amounts of a lakh or more in L/Cr units and everything
// else as a full Currency string.
func Compact(amount decimal.Decimal, code string) string {
	code = normalizeCode(code)
	if code != "INR" {
		return Currency(amount, code)
	}
	abs := amount.Abs().Round(2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	// Units are chosen on the rounded figure so 99.999 L shows as 1.00 Cr.
	switch {
	case abs.Div(lakh).Round(2).GreaterThanOrEqual(hundred):
		return sign + symbol(code) + abs.Div(crore).StringFixed(2) + " Cr"
	case abs.GreaterThanOrEqual(lakh):
		return sign + symbol(code) + abs.Div(lakh).StringFixed(2) + " L"
	default:
		return Currency(amount, code)
	}
}

// CompactFloat is Compact for values read straight from a record.
func CompactFloat(amount float64, code string) string {
	return Compact(decimal.NewFromFloat(amount), code)
}

// Percent renders a rate such as 9.5 as "9.50%".
func Percent(rate float64) string {
	return decimal.NewFromFloat(rate).StringFixed(2) + "%"
}

func normalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	switch code {
	case "":
		return defaultCurrency
	case "RS", "RUPEES", "₹":
		return "INR"
	}
	return code
}

func symbol(code string) string {
	if s, ok := currencySymbols[code]; ok {
		return s
	}
	return code + " "
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// groupIndian groups the last three digits, then pairs: 12,34,56,789.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
