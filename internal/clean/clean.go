// Package clean converts raw scraped table cells into typed values.
package clean

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// annotationRe matches parenthesized or bracketed annotations such as
// "(rookie)" or "[1]".
var annotationRe = regexp.MustCompile(`\(.*?\)|\[.*?\]`)

// strip removes annotations and surrounding whitespace. An empty result means
// the cell is absent.
func strip(raw string) string {
	return strings.TrimSpace(annotationRe.ReplaceAllString(raw, ""))
}

// Text returns the cleaned cell text, NFC-normalized with non-breaking spaces
// folded to plain spaces. ok is false when nothing remains.
func Text(raw string) (string, bool) {
	s := strings.ReplaceAll(raw, "\u00a0", " ")
	s = strip(norm.NFC.String(s))
	if s == "" {
		return "", false
	}
	return s, true
}

// Int parses the cleaned cell as an integer, dropping thousands separators.
func Int(raw string) (int, bool) {
	s := strip(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0, false
	}
	return v, true
}

// Float parses the cleaned cell as a float, dropping thousands separators.
// NaN and infinities are treated as absent.
func Float(raw string) (float64, bool) {
	s := strip(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// IntPtr is Int returning nil for an absent value.
func IntPtr(raw string) *int {
	v, ok := Int(raw)
	if !ok {
		return nil
	}
	return &v
}

// FloatPtr is Float returning nil for an absent value.
func FloatPtr(raw string) *float64 {
	v, ok := Float(raw)
	if !ok {
		return nil
	}
	return &v
}

// NonNegativeInt accepts only a trimmed run of ASCII digits, the gate used for
// games-played columns. Signs, separators, and annotations are rejected.
func NonNegativeInt(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IntOrZero parses a counting cell where blank means zero. Thousands
// separators are dropped; ok is false only for non-blank unparsable text.
func IntOrZero(raw string) (int, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, true
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
