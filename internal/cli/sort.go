package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/recovibe/pupcal/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate     SortOrder = "date"
	SortByTitle    SortOrder = "title"
	SortByCategory SortOrder = "category"
)

// ParseSortOrder validates a --sort value
func ParseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case SortByDate, SortByTitle, SortByCategory:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort order: %s (must be 'date', 'title' or 'category')", s)
}

// sortEvents sorts a slice of events based on the specified sort order.
// Sorting is stable, so events that compare equal keep their calendar order.
func sortEvents(events []*event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Date < events[j].Date
		})
	case SortByTitle:
		sort.SliceStable(events, func(i, j int) bool {
			ti, tj := strings.ToLower(events[i].Title), strings.ToLower(events[j].Title)
			if ti != tj {
				return ti < tj
			}
			// If titles are equal, sort by date
			return events[i].Date < events[j].Date
		})
	case SortByCategory:
		sort.SliceStable(events, func(i, j int) bool {
			if events[i].Category != events[j].Category {
				return events[i].Category < events[j].Category
			}
			return events[i].Date < events[j].Date
		})
	}
}
