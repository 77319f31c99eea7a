package timecard

import (
	"fmt"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04:05"
	TimestampLayout = "2006-01-02 15:04:05"
	ClockLayout     = "15:04"
)

// Date is a work date in YYYY-MM-DD form. Events are grouped by it regardless of "now".
type Date string

func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return "", &ValidationError{Field: "date", Value: s, Reason: "must be YYYY-MM-DD"}
	}
	return DateOf(t), nil
}

// Time returns local midnight of the date.
func (d Date) Time() (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, string(d), time.Local)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Value: string(d), Reason: "must be YYYY-MM-DD"}
	}
	return t, nil
}

func (d Date) String() string {
	return string(d)
}

// ParseTimestamp accepts "YYYY-MM-DD HH:MM:SS" and, for manual input, "YYYY-MM-DD HH:MM".
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{TimestampLayout, "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ValidationError{Field: "timestamp", Value: s, Reason: "must be YYYY-MM-DD HH:MM[:SS]"}
}

// MonthRange returns the first day of the month and the first day of the next one.
func MonthRange(year int, month time.Month) (time.Time, time.Time, error) {
	if month < time.January || month > time.December {
		return time.Time{}, time.Time{}, &ValidationError{Field: "month", Value: fmt.Sprint(int(month)), Reason: "must be between 1 and 12"}
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, 0), nil
}

// ParseYearMonth parses "YYYY-MM". An empty string means the month of now.
func ParseYearMonth(s string, now time.Time) (int, time.Month, error) {
	if s == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.ParseInLocation("2006-01", s, time.Local)
	if err != nil {
		return 0, 0, &ValidationError{Field: "month", Value: s, Reason: "must be YYYY-MM, ex: 2024-03"}
	}
	return t.Year(), t.Month(), nil
}
