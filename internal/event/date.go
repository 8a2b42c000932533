package event

import (
	"fmt"
	"time"
)

// DateLayout is the fixed-width ISO layout used for Event.Date
const DateLayout = "2006-01-02"

// ParseISODate parses a strict YYYY-MM-DD date string
func ParseISODate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FormatDate builds a YYYY-MM-DD string for the given civil date.
// Returns an error if day does not exist in the month; out-of-range days are
// never normalized into a neighbouring month.
func FormatDate(year int, month time.Month, day int) (string, error) {
	if month < time.January || month > time.December {
		return "", fmt.Errorf("invalid month %d", month)
	}
	if day < 1 || day > DaysIn(year, month) {
		return "", fmt.Errorf("day %d out of range for %s %d", day, month, year)
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(DateLayout), nil
}

// DaysIn returns the number of days in the given month
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthRange returns the first and last dates of a month given a zero-based
// month index (0 = January, 11 = December).
func MonthRange(year, monthIndex int) (start, end string, err error) {
	if monthIndex < 0 || monthIndex > 11 {
		return "", "", fmt.Errorf("month index %d out of range 0-11", monthIndex)
	}
	month := time.Month(monthIndex + 1)
	start = fmt.Sprintf("%04d-%02d-01", year, int(month))
	end = fmt.Sprintf("%04d-%02d-%02d", year, int(month), DaysIn(year, month))
	return start, end, nil
}

// InRange reports whether date lies within [start, end] inclusive.
// Comparison is lexicographic, which is chronological for YYYY-MM-DD strings.
func InRange(date, start, end string) bool {
	return date >= start && date <= end
}

// FilterByDateRange returns the events whose date lies within [start, end]
func FilterByDateRange(events []*Event, start, end string) []*Event {
	filtered := make([]*Event, 0)
	for _, evt := range events {
		if InRange(evt.Date, start, end) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

// Day parses the event's date
func (e *Event) Day() (time.Time, error) {
	return ParseISODate(e.Date)
}

// Manila is the university's local time. The Philippines keeps UTC+8 all
// year, so a fixed zone avoids depending on the host's tz database.
var Manila = time.FixedZone("PHT", 8*60*60)

// IsPast checks if the event's day has fully passed in Manila time relative
// to now. Returns false if the date cannot be parsed.
func (e *Event) IsPast(now time.Time) bool {
	day, err := time.ParseInLocation(DateLayout, e.Date, Manila)
	if err != nil {
		return false
	}
	return !now.Before(day.AddDate(0, 0, 1))
}
