// internal/intake/draft/normalize.go
package draft

import (
	"strings"
	"time"
)

// CanonicalDateLayout is the calendar-date representation stored in drafts.
const CanonicalDateLayout = "2006-01-02"

// dateLayouts are the extractor output formats we accept, most specific first.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/2006",
	"Jan 2006",
	"January 2006",
	"2006",
}

// NormalizeDate reduces a date-like string to the canonical calendar date.
// Partial dates resolve to the first day of their period.
func NormalizeDate(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(CanonicalDateLayout), true
		}
	}
	return "", false
}

// NormalizePhone reduces a phone-like string to its last 10 digits. The
// result is accepted only when exactly 10 digits remain.
func NormalizePhone(raw string) (string, bool) {
	var digits []rune
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) < 10 {
		return "", false
	}
	return string(digits[len(digits)-10:]), true
}
