// Package cli implements the command-line interface for pupcal.
//
// The cli package provides the Cobra-based CLI with commands for listing PUP
// academic-calendar events (from the live site or a saved page), formatting
// output (text/JSON/YAML/iCalendar), sorting (by date/title/category), and
// running the HTTP service with a scheduled cache refresh.
package cli
