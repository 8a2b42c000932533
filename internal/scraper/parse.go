package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/recovibe/pupcal/internal/event"
)

// initialYear is the calendar year of the first semester rows on the page.
const initialYear = 2025

var months = map[string]time.Month{
	"January":   time.January,
	"February":  time.February,
	"March":     time.March,
	"April":     time.April,
	"May":       time.May,
	"June":      time.June,
	"July":      time.July,
	"August":    time.August,
	"September": time.September,
	"October":   time.October,
	"November":  time.November,
	"December":  time.December,
}

// parseState is carried from row to row while walking the calendar tables
type parseState struct {
	month    string // last month name seen, "" until the first month row
	year     int
	semester string // label of the last semester/term header row
}

func newParseState() parseState {
	return parseState{year: initialYear}
}

// academicYearRollover returns the year to use after a month row.
//
// The published calendar covers one academic year, August 2025 through
// February 2026, so January and February rows belong to 2026 and every other
// month keeps the year already in effect. This is specific to that page
// and not a general rule.
func academicYearRollover(month string, year int) int {
	if month == "January" || month == "February" {
		return 2026
	}
	return year
}

// isSemesterHeader reports whether a first cell names an academic term
func isSemesterHeader(cell string) bool {
	return strings.Contains(cell, "Semester") || strings.Contains(cell, "Term")
}

// ParseCalendar extracts events from the HTML of the calendar page
func ParseCalendar(page []byte) ([]*event.Event, error) {
	rows, err := extractRows(page)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	return parseRows(rows)
}

// parseRows folds the row sequence into events, threading the parse state
func parseRows(rows [][]string) ([]*event.Event, error) {
	state := newParseState()
	events := make([]*event.Event, 0)

	for i, row := range rows {
		next, rowEvents, err := step(state, row)
		if err != nil {
			return nil, &ParseError{Row: i, Err: err}
		}
		state = next
		events = append(events, rowEvents...)
	}

	return events, nil
}

// step applies one table row to the parse state and returns the new state
// along with the events the row produces.
//
// Rows are either a semester header (first cell mentions "Semester" or
// "Term") or a [month, days, description] triple. A triple whose first cell
// is not a month name continues the previous month.
func step(state parseState, cells []string) (parseState, []*event.Event, error) {
	cell := func(i int) string {
		if i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	first := cell(0)
	if isSemesterHeader(first) {
		state.semester = first
		return state, nil, nil
	}

	monthText, daysText, description := first, cell(1), cell(2)
	if monthText == "" || daysText == "" || description == "" {
		return state, nil, nil
	}

	if _, ok := months[monthText]; ok {
		state.month = monthText
		state.year = academicYearRollover(monthText, state.year)
	}

	month, ok := months[state.month]
	if !ok {
		// no month row seen yet, the date cannot be resolved
		return state, nil, nil
	}

	days, err := ParseDays(daysText)
	if err != nil {
		return state, nil, fmt.Errorf("%q: %w", daysText, err)
	}
	events := make([]*event.Event, 0, len(days))
	for _, day := range days {
		date, err := event.FormatDate(state.year, month, day)
		if err != nil {
			return state, nil, fmt.Errorf("%q: %w", daysText, err)
		}
		events = append(events, event.NewEvent(date, description, state.semester))
	}

	return state, events, nil
}
