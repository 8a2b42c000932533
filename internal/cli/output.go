package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/recovibe/pupcal/internal/calendar"
	"github.com/recovibe/pupcal/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatICS  OutputFormat = "ics"
)

// ParseOutputFormat validates a --format value
func ParseOutputFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case FormatText, FormatJSON, FormatYAML, FormatICS:
		return format, nil
	}
	return "", fmt.Errorf("invalid format: %s (must be 'text', 'json', 'yaml' or 'ics')", s)
}

// OutputResult contains data to be output
type OutputResult struct {
	GeneratedAt time.Time      `json:"generated_at" yaml:"generated_at"`
	Source      string         `json:"source" yaml:"source"`
	Start       string         `json:"start,omitempty" yaml:"start,omitempty"`
	End         string         `json:"end,omitempty" yaml:"end,omitempty"`
	EventCount  int            `json:"event_count" yaml:"event_count"`
	Events      []*event.Event `json:"events" yaml:"events"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatYAML:
		return writeYAML(w, result)
	case FormatICS:
		return calendar.WriteICS(w, result.Events)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	if result.Events == nil {
		result.Events = []*event.Event{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeYAML outputs results as YAML
func writeYAML(w io.Writer, result *OutputResult) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(result); err != nil {
		return err
	}
	return encoder.Close()
}

// writeText outputs results as a human-readable table
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.EventCount == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, evt := range result.Events {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", evt.Date, evt.Category, evt.Title)
		if verbose {
			fmt.Fprintf(tw, "\t\t  %s\n", evt.Description)
			fmt.Fprintf(tw, "\t\t  %s (%s)\n", evt.Location, evt.Source)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if result.Start != "" {
		fmt.Fprintf(w, "\nTotal: %d events from %s to %s\n", result.EventCount, result.Start, result.End)
	} else {
		fmt.Fprintf(w, "\nTotal: %d events\n", result.EventCount)
	}

	return nil
}
