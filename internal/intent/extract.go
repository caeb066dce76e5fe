// internal/intent/extract.go
package intent

import (
	"regexp"
	"sort"
	"strings"
)

var numericTimeframe = regexp.MustCompile(`(?:(?:last|past|previous)\s+)?\d+\s*(?:day|week|month|year)s?`)

// namedTimeframes lists the phrases timeframe.Resolve understands by name.
var namedTimeframes = []string{
	"previous month", "previous week", "three months", "this month", "last month",
	"past month", "this week", "last week", "past week", "this year", "last year",
	"past year", "one year", "yesterday", "all time", "lifetime", "quarter", "today",
}

// ExtractTimeframe returns the first timeframe phrase found in q, or "" when
// the query names none.
func ExtractTimeframe(q string) string {
	if m := numericTimeframe.FindString(q); m != "" {
		return m
	}
	for _, phrase := range namedTimeframes {
		if strings.Contains(q, phrase) {
			return phrase
		}
	}
	return ""
}

// Categories is the fixed spending vocabulary the classifier recognises.
var Categories = []string{
	"food", "travel", "shopping", "utilities", "entertainment", "groceries",
	"fuel", "health", "education", "rent", "insurance", "emi",
}

// categorySynonyms maps everyday words onto the vocabulary above.
var categorySynonyms = map[string]string{
	"dining":      "food",
	"restaurant":  "food",
	"restaurants": "food",
	"eating out":  "food",
	"swiggy":      "food",
	"zomato":      "food",
	"grocery":     "groceries",
	"supermarket": "groceries",
	"bills":       "utilities",
	"electricity": "utilities",
	"water bill":  "utilities",
	"internet":    "utilities",
	"movies":      "entertainment",
	"movie":       "entertainment",
	"netflix":     "entertainment",
	"flights":     "travel",
	"flight":      "travel",
	"hotel":       "travel",
	"hotels":      "travel",
	"petrol":      "fuel",
	"diesel":      "fuel",
	"medical":     "health",
	"pharmacy":    "health",
	"hospital":    "health",
	"school":      "education",
	"tuition":     "education",
	"amazon":      "shopping",
	"clothes":     "shopping",
}

type categoryTerm struct {
	pattern  *regexp.Regexp
	category string
}

var categoryTerms = buildCategoryTerms()

func buildCategoryTerms() []categoryTerm {
	terms := make([]categoryTerm, 0, len(Categories)+len(categorySynonyms))
	for _, c := range Categories {
		terms = append(terms, categoryTerm{pattern: wordPattern(c), category: c})
	}
	// Synonyms are checked in a fixed order so a query naming two of them
	// resolves the same way every run.
	for _, word := range sortedKeys(categorySynonyms) {
		terms = append(terms, categoryTerm{pattern: wordPattern(word), category: categorySynonyms[word]})
	}
	return terms
}

func wordPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
}

// ExtractCategory returns the spending category named in q, or "".
func ExtractCategory(q string) string {
	for _, t := range categoryTerms {
		if t.pattern.MatchString(q) {
			return t.category
		}
	}
	return ""
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
