package util

import (
	"fmt"
	"time"
)

// BasisDateLayout is the 8-digit calendar date format used by exchange
// trade-data endpoints.
const BasisDateLayout = "20060102"

// FormatBasisDate renders t as an 8-digit date string.
func FormatBasisDate(t time.Time) string {
	return t.Format(BasisDateLayout)
}

// ParseBasisDate parses an 8-digit date string.
func ParseBasisDate(s string) (time.Time, error) {
	t, err := time.Parse(BasisDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid basis date %q: %w", s, err)
	}
	return t, nil
}

// IsBasisDate reports whether s is a well-formed 8-digit date string.
func IsBasisDate(s string) bool {
	if len(s) != 8 {
		return false
	}
	_, err := ParseBasisDate(s)
	return err == nil
}

// DaysBack returns t shifted back by n calendar days, as an 8-digit string.
func DaysBack(t time.Time, n int) string {
	return FormatBasisDate(t.AddDate(0, 0, -n))
}

// ParseTime tries RFC3339 then an 8-digit basis date. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := ParseBasisDate(s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
