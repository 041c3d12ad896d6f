package depreciation

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of every calendar date.
const DateLayout = "2006-01-02"

// =============================================================================
// DATE - Calendar day without time of day
// =============================================================================

// Date is a calendar day in UTC. The zero value means "no date".
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return DateOf(t), nil
}

// MustParseDate panics on malformed input. Use in tests and fixtures only.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }
func (d Date) IsZero() bool                  { return d.Time.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date  { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) AddYears(n int) Date { return Date{Time: d.Time.AddDate(n, 0, 0)} }

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// ELAPSED PERIODS
// =============================================================================

// FullYearsBetween counts complete anniversary years from "from" to "to".
// 2023-01-01 -> 2024-01-01 is one year; 2023-01-01 -> 2023-12-31 is zero.
// A Feb 29 anchor completes its year on Feb 28 of non-leap years.
func FullYearsBetween(from, to Date) int {
	if to.Before(from) {
		return 0
	}
	years := to.Year() - from.Year()
	if years > 0 && anniversary(from, from.Year()+years).After(to) {
		years--
	}
	return years
}

// anniversary returns the anchor's month/day in the given year, clamped to
// the last day of the month.
func anniversary(anchor Date, year int) Date {
	last := EndOfMonth(year, anchor.Month()).Day()
	day := anchor.Day()
	if day > last {
		day = last
	}
	return NewDate(year, anchor.Month(), day)
}

func EndOfMonth(year int, month time.Month) Date {
	return DateOf(time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1))
}

// =============================================================================
// PERIOD - Useful-life year boundaries
// =============================================================================

// Period is an inclusive date range [Start, End].
type Period struct {
	Start Date `json:"inicio"`
	End   Date `json:"fin"`
}

// Contains returns true if the date is within the period.
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// UsefulLifeYear returns the k-th (1-based) anniversary year that starts at
// the purchase date.
func UsefulLifeYear(purchase Date, k int) Period {
	start := anniversary(purchase, purchase.Year()+k-1)
	end := anniversary(purchase, purchase.Year()+k).AddDays(-1)
	return Period{Start: start, End: end}
}
