package event

import (
	"fmt"
	"strings"
)

// Category is a coarse classification of an event derived from its description
type Category string

const (
	CategoryAcademic    Category = "academic"
	CategoryExamination Category = "examination"
	CategoryCeremony    Category = "ceremony"
	CategoryMeeting     Category = "meeting"
	CategoryDeadline    Category = "deadline"
	CategoryHoliday     Category = "holiday"
	CategoryEvent       Category = "event"
)

// categoryRules is checked in order; the first rule with a matching keyword wins.
var categoryRules = []struct {
	category Category
	keywords []string
}{
	{CategoryAcademic, []string{"class", "registration", "enrollment"}},
	{CategoryExamination, []string{"exam", "examination"}},
	{CategoryCeremony, []string{"commencement", "graduation"}},
	{CategoryMeeting, []string{"meeting", "faculty"}},
	{CategoryDeadline, []string{"deadline", "submission"}},
	{CategoryHoliday, []string{"holiday", "vacation"}},
}

// Categorize assigns a category to an event description by case-insensitive
// keyword match. Descriptions matching no keyword are CategoryEvent.
func Categorize(description string) Category {
	desc := strings.ToLower(description)

	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(desc, kw) {
				return rule.category
			}
		}
	}

	return CategoryEvent
}

// Categories returns every category in precedence order, with the default last
func Categories() []Category {
	cats := make([]Category, 0, len(categoryRules)+1)
	for _, rule := range categoryRules {
		cats = append(cats, rule.category)
	}
	return append(cats, CategoryEvent)
}

// ParseCategory converts a user-supplied name into a Category
func ParseCategory(s string) (Category, error) {
	name := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range Categories() {
		if c == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

// FilterByCategory returns the events whose category is one of cats.
// With no categories given, all events are returned.
func FilterByCategory(events []*Event, cats ...Category) []*Event {
	if len(cats) == 0 {
		return events
	}

	want := make(map[Category]bool, len(cats))
	for _, c := range cats {
		want[c] = true
	}

	filtered := make([]*Event, 0, len(events))
	for _, evt := range events {
		if want[evt.Category] {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}
