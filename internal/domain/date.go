package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical storage and wire form of date-only fields.
const DateLayout = "2006-01-02"

// Date is a calendar day normalized to YYYY-MM-DD. It is stored in a DATE
// column and scans back from either a time value (Postgres) or text (SQLite).
type Date string

// ParseDate normalizes s into a Date. Full RFC 3339 timestamps are accepted
// and truncated to their calendar day.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("date is empty")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date(t.Format(DateLayout)), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Date(t.Format(DateLayout)), nil
	}
	return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date { return Date(t.Format(DateLayout)) }

// String implements fmt.Stringer.
func (d Date) String() string { return string(d) }

// Time returns midnight UTC of d.
func (d Date) Time() (time.Time, error) { return time.Parse(DateLayout, string(d)) }

// GormDataType maps Date to a DATE column.
func (Date) GormDataType() string { return "date" }

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = ""
		return nil
	case time.Time:
		*d = DateOf(v.UTC())
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("domain.Date: cannot scan %T", src)
	}
}

func (d *Date) scanText(s string) error {
	if len(s) >= len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
