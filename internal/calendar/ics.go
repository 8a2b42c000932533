// Package calendar exports PUP calendar events as iCalendar (.ics) data.
package calendar

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/recovibe/pupcal/internal/event"
	"github.com/recovibe/pupcal/internal/logger"
)

const (
	// ProductID identifies the generator in the PRODID property
	ProductID = "-//PUP Calendar//pupcal//EN"
	// Name is the calendar display name shown by clients
	Name = "PUP Academic Calendar"
	// uidDomain qualifies event UIDs
	uidDomain = "pup.edu.ph"
)

// GenerateICS builds an iCalendar document with one all-day VEVENT per event.
// Events whose date cannot be read are left out.
func GenerateICS(events []*event.Event) string {
	return build(events, time.Now()).Serialize(ics.WithNewLineWindows)
}

// WriteICS writes the iCalendar document for events to w
func WriteICS(w io.Writer, events []*event.Event) error {
	if err := build(events, time.Now()).SerializeTo(w, ics.WithNewLineWindows); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}

func build(events []*event.Event, now time.Time) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)
	cal.SetName(Name)

	for _, evt := range events {
		day, err := evt.Day()
		if err != nil {
			logger.Warn("Skipping event with unreadable date", logger.Fields{
				"date":  evt.Date,
				"title": evt.Title,
			})
			continue
		}

		vevent := cal.AddEvent(fmt.Sprintf("%s@%s", evt.ID(), uidDomain))
		vevent.SetDtStampTime(now)
		vevent.SetAllDayStartAt(day)
		// DTEND is exclusive for all-day events
		vevent.SetAllDayEndAt(day.AddDate(0, 0, 1))
		vevent.SetSummary(fmt.Sprintf("PUP - %s", evt.Title))
		vevent.SetDescription(evt.Description)
		vevent.SetLocation(evt.Location)
		vevent.AddCategory(string(evt.Category))
		vevent.SetStatus(ics.ObjectStatusConfirmed)
		vevent.SetTimeTransparency(ics.TransparencyTransparent)
	}

	return cal
}
