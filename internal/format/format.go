// internal/format/format.go
package format

import (
	"fmt"
	"strings"
	"time"
)

// NotAvailable is rendered for fields the record does not carry.
const NotAvailable = "Not available"

const longDateLayout = "2 January 2006"

// Date renders t as a long-form calendar date.
func Date(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.Format(longDateLayout)
}

var inputDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02-01-2006",
	"02/01/2006",
}

// DateString re-renders a date read from a record in long form. Values that
// do not parse are returned unchanged.
func DateString(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotAvailable
	}
	for _, layout := range inputDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date(t)
		}
	}
	return s
}

// Line is one label:value row of a Block.
type Line struct {
	Label string
	Value string
}

// Block is an ordered set of lines under an optional title.
type Block struct {
	Title string
	Lines []Line
}

// Add appends a line. Empty values are skipped so missing fields drop out of
// the rendered block.
func (b *Block) Add(label, value string) *Block {
	if strings.TrimSpace(value) == "" {
		return b
	}
	b.Lines = append(b.Lines, Line{Label: label, Value: value})
	return b
}

// AddOr appends a line, substituting fallback for an empty value.
func (b *Block) AddOr(label, value, fallback string) *Block {
	if strings.TrimSpace(value) == "" {
		value = fallback
	}
	b.Lines = append(b.Lines, Line{Label: label, Value: value})
	return b
}

// Text appends a free-standing sentence with no label.
func (b *Block) Text(sentence string) *Block {
	b.Lines = append(b.Lines, Line{Value: sentence})
	return b
}

// Empty reports whether the block has no lines.
func (b *Block) Empty() bool { return len(b.Lines) == 0 }

// Render joins the title and lines with newlines.
func (b *Block) Render() string {
	parts := make([]string, 0, len(b.Lines)+1)
	if b.Title != "" {
		parts = append(parts, b.Title)
	}
	for _, l := range b.Lines {
		if l.Label == "" {
			parts = append(parts, l.Value)
			continue
		}
		parts = append(parts, l.Label+": "+l.Value)
	}
	return strings.Join(parts, "\n")
}

// Join renders blocks separated by a blank line, skipping empty ones.
func Join(blocks ...*Block) string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b == nil || (b.Empty() && b.Title == "") {
			continue
		}
		out = append(out, b.Render())
	}
	return strings.Join(out, "\n\n")
}

// Indexed titles an item of an enumerated list, e.g. "Loan 1 Details".
func Indexed(noun string, i int) string {
	return fmt.Sprintf("%s %d Details", noun, i+1)
}

// List renders items as "- item" lines.
func List(items []string) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, "- "+it)
	}
	return strings.Join(lines, "\n")
}
