package event

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

const (
	// Location is the venue attached to every scraped event
	Location = "PUP Main Campus"
	// Source labels where scraped events come from
	Source = "PUP Official Calendar"
)

// Event represents a single day of a PUP academic-calendar entry
type Event struct {
	Date        string   `json:"date" yaml:"date"` // YYYY-MM-DD
	Title       string   `json:"title" yaml:"title"`
	Time        string   `json:"time" yaml:"time"` // The source calendar has no time of day
	Location    string   `json:"location" yaml:"location"`
	Description string   `json:"description" yaml:"description"`
	Source      string   `json:"source" yaml:"source"`
	IsPUPEvent  bool     `json:"isPUPEvent" yaml:"isPUPEvent"`
	Category    Category `json:"category" yaml:"category"`
}

// NewEvent creates a new Event for one calendar day with the constant fields populated
func NewEvent(date, title, semester string) *Event {
	title = strings.TrimSpace(title)
	return &Event{
		Date:        date,
		Title:       title,
		Time:        "",
		Location:    Location,
		Description: fmt.Sprintf("%s - %s", semester, title),
		Source:      Source,
		IsPUPEvent:  true,
		Category:    Categorize(title),
	}
}

// ID returns a deterministic identifier for the event based on its date and title.
// A multi-day calendar entry yields one ID per day.
func (e *Event) ID() string {
	h := sha1.New()
	h.Write([]byte(e.Date + "|" + e.Title))
	return fmt.Sprintf("%x", h.Sum(nil))
}
