package core

import (
	"errors"
	"fmt"
	"time"
)

// Date is a calendar day, stored as a UTC-midnight time.Time.
// All engine arithmetic works on whole days; wall-clock components are
// always zero.
type Date struct {
	time.Time
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary time to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, int(m), d)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// IsEmpty returns true if the date is zero (for optional dates)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// AddDays returns the date n whole days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// AddMonths adds n calendar months, clamping the day to the last valid
// day of the target month (Jan 31 + 1 month -> Feb 28/29). The receiver's
// day is the anchor, so repeated calls on the original date do not drift.
func (d Date) AddMonths(n int) Date {
	y, m := normalizeMonth(d.Year(), d.Month()+n)
	day := d.Day()
	if last := DaysInMonth(y, m); day > last {
		day = last
	}
	return NewDate(y, m, day)
}

// DaysBetween returns the number of whole days from d to other.
// Negative when other is earlier.
func (d Date) DaysBetween(other Date) int {
	return int(other.Time.Sub(d.Time) / (24 * time.Hour))
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// ParseDate parses "YYYY-MM-DD", the format dates are stored and
// serialized in.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date: %w", err)
	}
	return Date{Time: t}, nil
}

// MarshalJSON renders the date as "YYYY-MM-DD" rather than RFC 3339.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	t, err := time.Parse("2006-01-02", s[1:len(s)-1])
	if err != nil {
		return fmt.Errorf("parse date: %w", err)
	}
	*d = Date{Time: t}
	return nil
}

// DaysInMonth returns the number of days in the given month (1-12).
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// normalizeMonth folds an out-of-range month into (year, 1-12).
func normalizeMonth(year, month int) (int, int) {
	year += (month - 1) / 12
	month = (month-1)%12 + 1
	if month < 1 {
		month += 12
		year--
	}
	return year, month
}

// Period identifies one calendar month of the ledger.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 1-12
}

// PeriodOf returns the period containing the given date.
func PeriodOf(d Date) Period {
	return Period{Year: d.Year(), Month: d.Month()}
}

// Bounds returns the first and last day of the period.
func (p Period) Bounds() (Date, Date) {
	first := NewDate(p.Year, p.Month, 1)
	last := NewDate(p.Year, p.Month, DaysInMonth(p.Year, p.Month))
	return first, last
}

// DisplayName renders the period as e.g. "January 2026".
func (p Period) DisplayName() string {
	return time.Month(p.Month).String() + " " + fmt.Sprintf("%d", p.Year)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
