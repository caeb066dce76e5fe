// internal/record/record.go
package record

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is a customer document keyed by domain section. The pipeline never
// mutates a Record after it has been loaded.
type Record map[string]interface{}

// Top-level sections of a customer document.
const (
	SectionPersonal        = "PersonalDetails"
	SectionCompany         = "CompanyDetails"
	SectionBankAccounts    = "BankAccounts"
	SectionLoans           = "Loans"
	SectionWorkingCapital  = "WorkingCapitalFacility"
	SectionTradeFinance    = "TradeFinance"
	SectionKYCCompliance   = "KYC_Compliance"
	SectionPersonalKYC     = "Personal_KYC_ID"
	SectionCreditProfile   = "CreditProfile"
	SectionSupport         = "SupportDetails"
	SectionSignatories     = "AuthorizedSignatories"
	SectionDigitalAccess   = "DigitalAccess"
	SectionTransactions    = "Transactions"
	SectionDefaultCurrency = "Currency"
)

// Path is an ordered list of keys describing descent into a Record.
type Path []string

// P builds a Path from its keys.
func P(keys ...string) Path { return Path(keys) }

func (p Path) String() string { return strings.Join(p, ".") }

// Resolve walks path through data one key at a time. It reports false as soon
// as an intermediate value is absent, nil or not a mapping; it never panics.
func Resolve(data map[string]interface{}, path Path) (interface{}, bool) {
	if data == nil {
		return nil, false
	}
	var current interface{} = data
	for _, key := range path {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		val, exists := m[key]
		if !exists || val == nil {
			return nil, false
		}
		current = val
	}
	return current, true
}

// Get resolves path against the record.
func (r Record) Get(path ...string) (interface{}, bool) {
	return Resolve(r, Path(path))
}

// String resolves path and renders scalar values as text. Empty strings are
// reported as missing.
func (r Record) String(path ...string) (string, bool) {
	v, ok := r.Get(path...)
	if !ok {
		return "", false
	}
	return AsString(v)
}

// Number resolves path and coerces the value to a float64.
func (r Record) Number(path ...string) (float64, bool) {
	v, ok := r.Get(path...)
	if !ok {
		return 0, false
	}
	return AsNumber(v)
}

// Map resolves path and returns the nested mapping.
func (r Record) Map(path ...string) (map[string]interface{}, bool) {
	v, ok := r.Get(path...)
	if !ok {
		return nil, false
	}
	return asMap(v)
}

// List resolves path and returns the nested array.
func (r Record) List(path ...string) ([]interface{}, bool) {
	v, ok := r.Get(path...)
	if !ok {
		return nil, false
	}
	return AsList(v)
}

// Items resolves path to an array of mappings, skipping elements that are not
// mappings.
func (r Record) Items(path ...string) ([]Record, bool) {
	list, ok := r.List(path...)
	if !ok {
		return nil, false
	}
	items := make([]Record, 0, len(list))
	for _, el := range list {
		if m, ok := asMap(el); ok {
			items = append(items, Record(m))
		}
	}
	return items, true
}

// Sub returns the nested mapping at path as a Record.
func (r Record) Sub(path ...string) (Record, bool) {
	m, ok := r.Map(path...)
	if !ok {
		return nil, false
	}
	return Record(m), true
}

// Clone returns a deep copy via a JSON round trip, used when a record crosses
// a cache boundary.
func (r Record) Clone() (Record, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("clone record: %w", err)
	}
	var out Record
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("clone record: %w", err)
	}
	return out, nil
}

// AsString renders a scalar as text.
func AsString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// AsNumber coerces numbers and numeric strings (with grouping commas or a
// leading or trailing currency token such as "Rs.", "INR" or "₹", or a
// trailing percent sign) to float64. Any other text makes the value
// non-numeric.
func AsNumber(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		return parseAmount(t)
	default:
		return 0, false
	}
}

// AsList returns v as a slice when it is an array.
func AsList(v interface{}) ([]interface{}, bool) {
	switch t := v.(type) {
	case []interface{}:
		return t, true
	case []map[string]interface{}:
		out := make([]interface{}, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []string:
		out := make([]interface{}, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	default:
		return nil, false
	}
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		return t, true
	case Record:
		return t, true
	default:
		return nil, false
	}
}

// currencyTokens are stripped from either end of an amount string. Longer
// tokens come first so "rs." wins over "rs".
var currencyTokens = []string{"rupees", "inr", "usd", "eur", "gbp", "rs.", "rs", "₹", "$", "€", "£", "¥"}

func parseAmount(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = strings.TrimSpace(s[1:])
	}
	for _, tok := range currencyTokens {
		if strings.HasPrefix(s, tok) {
			s = strings.TrimSpace(s[len(tok):])
			break
		}
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	for _, tok := range currencyTokens {
		if strings.HasSuffix(s, tok) {
			s = strings.TrimSpace(s[:len(s)-len(tok)])
			break
		}
	}
	if !neg && strings.HasPrefix(s, "-") {
		neg, s = true, s[1:]
	}

	clean := strings.Map(func(r rune) rune {
		if r == ',' || r == ' ' {
			return -1
		}
		return r
	}, s)
	if clean == "" {
		return 0, false
	}
	for _, r := range clean {
		if (r < '0' || r > '9') && r != '.' {
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}
