package fidelity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// Characters that survive account sanitization: identifier-safe
	// characters plus whitespace, which the later passes normalize.
	accountStrip = regexp.MustCompile(`[^a-zA-Z0-9\-_: \t\n\r\v\f]`)
	whitespace   = regexp.MustCompile(`[ \t\n\r\v\f]`)
	multiSpace   = regexp.MustCompile(` {2,}`)
)

// BeanifyAccount turns a free-text account name into an identifier-safe
// token. The passes run in a fixed order: strip disallowed characters,
// map every whitespace character to a plain space, collapse runs of
// spaces, then hyphenate. Stripping happens before whitespace collapsing,
// so "My  Acct\t#1" becomes "My-Acct-1". The transform is idempotent.
func BeanifyAccount(name string) string {
	s := accountStrip.ReplaceAllString(name, "")
	s = whitespace.ReplaceAllString(s, " ")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.ReplaceAll(s, " ", "-")
}

// ParseDate parses an M/D/YYYY value into a UTC calendar date. The last
// segment is the year; the segments before it are month then day. Values
// that are shaped right but name an impossible date (month 13, day 32)
// return an error, which the row filter uses to drop the row.
func ParseDate(s string) (time.Time, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid date %q: want M/D/YYYY", s)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month in %q: %w", s, err)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day in %q: %w", s, err)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year in %q: %w", s, err)
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components (Jan 32 -> Feb 1);
	// a changed component means the input was not a real date.
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, fmt.Errorf("date out of range: %q", s)
	}
	return d, nil
}

// ParseAmount parses a decimal amount. Amounts must never abort an
// extraction, so any parse failure (empty string included) yields exactly
// zero instead of an error.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
