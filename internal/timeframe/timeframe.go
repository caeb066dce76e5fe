// internal/timeframe/timeframe.go
package timeframe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultExpression is used when a query names no timeframe at all.
const DefaultExpression = "last 30 days"

// Window is a resolved date interval. A nil Start means no lower bound.
type Window struct {
	Start *time.Time `json:"start,omitempty"`
	End   time.Time  `json:"end"`
	Label string     `json:"label"`
}

// Contains reports whether t falls inside [Start, End].
func (w Window) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	return !t.After(w.End)
}

// AllTime reports whether the window has no lower bound.
func (w Window) AllTime() bool { return w.Start == nil }

var numericPattern = regexp.MustCompile(`(\d+)\s*(day|week|month|year)s?`)

var qualifierPattern = regexp.MustCompile(`^(last|past|previous)\s+`)

// Resolve converts a timeframe expression into a concrete Window relative to
// now. The first matching rule wins; unknown expressions fall back to the last
// 30 days.
func Resolve(expression string, now time.Time) Window {
	expr := strings.Join(strings.Fields(strings.ToLower(expression)), " ")

	if w, ok := resolveNumeric(expr, now); ok {
		return w
	}
	if w, ok := resolveNamed(expr, now); ok {
		return w
	}
	if expr == "" || expr == "all" || expr == "all time" || expr == "ever" || expr == "lifetime" {
		return Window{End: now, Label: "all time"}
	}
	if stripped := qualifierPattern.ReplaceAllString(expr, ""); stripped != expr {
		if w, ok := resolveBareUnit(stripped, now); ok {
			return w
		}
	}
	return rolling(now, 0, 0, -30, "the last 30 days")
}

func resolveNumeric(expr string, now time.Time) (Window, bool) {
	m := numericPattern.FindStringSubmatch(expr)
	if m == nil {
		return Window{}, false
	}
	amount, err := strconv.Atoi(m[1])
	if err != nil || amount <= 0 {
		return Window{}, false
	}
	unit := m[2]
	label := fmt.Sprintf("the last %d %s", amount, unit)
	if amount != 1 {
		label += "s"
	}

	switch unit {
	case "day":
		return rolling(now, 0, 0, -amount, label), true
	case "week":
		return rolling(now, 0, 0, -7*amount, label), true
	case "month":
		return rolling(now, 0, -amount, 0, label), true
	default:
		return rolling(now, -amount, 0, 0, label), true
	}
}

func resolveNamed(expr string, now time.Time) (Window, bool) {
	today := midnight(now)

	switch {
	case contains(expr, "today"):
		return bounded(today, now, "today"), true

	case contains(expr, "yesterday"):
		return bounded(today.AddDate(0, 0, -1), endOfDay(today.AddDate(0, 0, -1)), "yesterday"), true

	case contains(expr, "this week"):
		return bounded(startOfWeek(today), now, "this week"), true

	case contains(expr, "last week"), contains(expr, "previous week"):
		start := startOfWeek(today).AddDate(0, 0, -7)
		return bounded(start, endOfDay(start.AddDate(0, 0, 6)), "last week"), true

	case contains(expr, "this month"):
		return bounded(startOfMonth(today), now, "this month"), true

	case contains(expr, "last month"), contains(expr, "previous month"):
		thisMonth := startOfMonth(today)
		start := thisMonth.AddDate(0, -1, 0)
		return bounded(start, thisMonth.Add(-time.Nanosecond), "last month"), true

	case contains(expr, "this year"):
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return bounded(start, now, "this year"), true

	case contains(expr, "1 year"), contains(expr, "one year"), contains(expr, "last year"), contains(expr, "past year"):
		return rolling(now, -1, 0, 0, "the last year"), true

	case contains(expr, "3 months"), contains(expr, "three months"), contains(expr, "quarter"):
		return rolling(now, 0, -3, 0, "the last 3 months"), true
	}
	return Window{}, false
}

// resolveBareUnit handles "past week" style phrases once the qualifier has
// been stripped.
func resolveBareUnit(expr string, now time.Time) (Window, bool) {
	switch expr {
	case "day":
		return rolling(now, 0, 0, -1, "the last day"), true
	case "week":
		return rolling(now, 0, 0, -7, "the last week"), true
	case "month":
		return rolling(now, 0, -1, 0, "the last month"), true
	case "year":
		return rolling(now, -1, 0, 0, "the last year"), true
	}
	return Window{}, false
}

func rolling(now time.Time, years, months, days int, label string) Window {
	start := subtractCalendar(now, years, months)
	if days != 0 {
		start = start.AddDate(0, 0, days)
	}
	return Window{Start: &start, End: now, Label: label}
}

func bounded(start, end time.Time, label string) Window {
	return Window{Start: &start, End: end, Label: label}
}

// subtractCalendar moves t by whole years and months, clamping the day to the
// length of the target month so that 31 March minus one month is 28/29 February.
func subtractCalendar(t time.Time, years, months int) time.Time {
	if years == 0 && months == 0 {
		return t
	}
	y, m, d := t.Date()
	target := time.Date(y+years, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(target.Year(), target.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// startOfWeek returns the Monday of day's week.
func startOfWeek(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func startOfMonth(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
}

func contains(expr, phrase string) bool {
	return strings.Contains(expr, phrase)
}
