// internal/resolvers/fields.go
package resolvers

import (
	"strconv"
	"strings"

	"customer-query-service/internal/format"
	"customer-query-service/internal/record"
)

// Field readers return "" for anything missing so format.Block.Add drops
// the line.

func str(r record.Record, path ...string) string {
	s, _ := r.String(path...)
	return s
}

func money(r record.Record, currency string, path ...string) string {
	n, ok := r.Number(path...)
	if !ok {
		return ""
	}
	return format.CurrencyFloat(n, currency)
}

func compactMoney(r record.Record, currency string, path ...string) string {
	n, ok := r.Number(path...)
	if !ok {
		return ""
	}
	return format.CompactFloat(n, currency)
}

func date(r record.Record, path ...string) string {
	s, ok := r.String(path...)
	if !ok {
		return ""
	}
	return format.DateString(s)
}

func percent(r record.Record, path ...string) string {
	n, ok := r.Number(path...)
	if !ok {
		return ""
	}
	return format.Percent(n)
}

func masked(r record.Record, kind format.MaskKind, path ...string) string {
	s, ok := r.String(path...)
	if !ok {
		return ""
	}
	return format.Mask(s, kind)
}

// yesNo renders booleans and boolean-like strings.
func yesNo(r record.Record, path ...string) string {
	v, ok := r.Get(path...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			if b {
				return "Yes"
			}
			return "No"
		}
		return strings.TrimSpace(t)
	}
	s, _ := record.AsString(v)
	return s
}

// joined renders an array of scalars as a comma-separated list.
func joined(r record.Record, path ...string) string {
	list, ok := r.List(path...)
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(list))
	for _, el := range list {
		if s, ok := record.AsString(el); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// address flattens an address mapping or returns a plain string address.
func address(r record.Record, path ...string) string {
	if s, ok := r.String(path...); ok {
		return s
	}
	sub, ok := r.Sub(path...)
	if !ok {
		return ""
	}
	var parts []string
	for _, key := range []string{"Line1", "Line2", "City", "State", "Pincode", "Country"} {
		if s, ok := sub.String(key); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// firstOf returns the first non-empty value among keys.
func firstOf(r record.Record, keys ...string) string {
	for _, k := range keys {
		if s, ok := r.String(k); ok {
			return s
		}
	}
	return ""
}
