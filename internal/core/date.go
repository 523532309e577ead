package core

import (
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// Date is the canonical YYYY-MM-DD text of a calendar day. Stored values are not
// guaranteed to parse; Time reports whether they do.
type Date string

// DateFromText trims whitespace and keeps at most the first 10 characters.
// The result is not validated.
func DateFromText(s string) Date {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	return Date(s)
}

// DateFromTime formats the calendar day of t.
func DateFromTime(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate is the strict form used for user input.
func ParseDate(s string) (Date, error) {
	d := Date(strings.TrimSpace(s))
	if _, err := d.Time(); err != nil {
		return "", err
	}
	return d, nil
}

// ParseMonth validates a YYYY-MM month key.
func ParseMonth(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(MonthLayout, s); err != nil {
		return "", ErrInvalidMonth
	}
	return s, nil
}

// FirstOfMonth returns the YYYY-MM-01 date of a month key.
func FirstOfMonth(month string) Date {
	return Date(month + "-01")
}

func (d Date) String() string {
	return string(d)
}

// Time parses the date in UTC.
func (d Date) Time() (time.Time, error) {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// Month returns the YYYY-MM prefix, or "" when the date is too short to have one.
func (d Date) Month() string {
	if len(d) < len(MonthLayout) {
		return ""
	}
	return string(d[:len(MonthLayout)])
}

// InMonth reports whether the date text starts with the month key.
func (d Date) InMonth(month string) bool {
	return strings.HasPrefix(string(d), month)
}
