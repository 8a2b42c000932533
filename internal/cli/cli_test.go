package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/recovibe/pupcal/internal/event"
	"github.com/recovibe/pupcal/internal/scraper"
	"github.com/recovibe/pupcal/internal/service"
)

const fixturePath = "../../testdata/fixtures/pup_calendar.html"

type stubFetcher struct {
	events []*event.Event
	err    error
}

func (f *stubFetcher) FetchCalendar(ctx context.Context) ([]*event.Event, error) {
	return f.events, f.err
}

func stubEvents() []*event.Event {
	return []*event.Event{
		event.NewEvent("2025-12-25", "Christmas Holiday", "First Semester"),
		event.NewEvent("2025-08-04", "Online Registration", "First Semester"),
		event.NewEvent("2025-10-20", "Midterm Examination", "First Semester"),
		event.NewEvent("2025-12-01", "Deadline for Add/Drop", "First Semester"),
		event.NewEvent("2026-01-01", "New Year's Day Holiday", "First Semester"),
	}
}

// execute runs the root command with args against f and returns stdout
func execute(t *testing.T, f service.Fetcher, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd(func() service.Fetcher { return f })
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestEventsCmd_JSON(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantDates []string
	}{
		{
			name:      "all events sorted by date",
			args:      nil,
			wantDates: []string{"2025-08-04", "2025-10-20", "2025-12-01", "2025-12-25", "2026-01-01"},
		},
		{
			name:      "month",
			args:      []string{"--month", "2025-12"},
			wantDates: []string{"2025-12-01", "2025-12-25"},
		},
		{
			name:      "date range",
			args:      []string{"--from", "2025-10-01", "--to", "2025-12-01"},
			wantDates: []string{"2025-10-20", "2025-12-01"},
		},
		{
			name:      "category filter",
			args:      []string{"--category", "holiday"},
			wantDates: []string{"2025-12-25", "2026-01-01"},
		},
		{
			name:      "repeated category",
			args:      []string{"--category", "holiday", "--category", "academic"},
			wantDates: []string{"2025-08-04", "2025-12-25", "2026-01-01"},
		},
		{
			name:      "sort by category",
			args:      []string{"--sort", "category"},
			wantDates: []string{"2025-08-04", "2025-12-01", "2025-10-20", "2025-12-25", "2026-01-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"events", "--format", "json"}, tt.args...)
			out, err := execute(t, &stubFetcher{events: stubEvents()}, args...)
			if err != nil {
				t.Fatalf("events %v: %v", tt.args, err)
			}

			var result OutputResult
			if err := json.Unmarshal([]byte(out), &result); err != nil {
				t.Fatalf("output is not JSON: %v\n%s", err, out)
			}

			if result.EventCount != len(tt.wantDates) {
				t.Fatalf("event_count = %d, want %d", result.EventCount, len(tt.wantDates))
			}
			for i, evt := range result.Events {
				if evt.Date != tt.wantDates[i] {
					t.Errorf("event %d date = %s, want %s", i, evt.Date, tt.wantDates[i])
				}
			}
		})
	}
}

func TestEventsCmd_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"--format", "xml"}},
		{"bad sort", []string{"--sort", "priority"}},
		{"bad category", []string{"--category", "party"}},
		{"bad month", []string{"--month", "2025-13"}},
		{"from without to", []string{"--from", "2025-08-01"}},
		{"reversed range", []string{"--from", "2025-08-31", "--to", "2025-08-01"}},
		{"month with range", []string{"--month", "2025-08", "--from", "2025-08-01", "--to", "2025-08-31"}},
		{"bad log level", []string{"--log-level", "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"events"}, tt.args...)
			if _, err := execute(t, &stubFetcher{events: stubEvents()}, args...); err == nil {
				t.Errorf("events %v: expected error", tt.args)
			}
		})
	}
}

func TestEventsCmd_FetchError(t *testing.T) {
	f := &stubFetcher{err: &scraper.TransportError{Err: errors.New("connection refused")}}

	_, err := execute(t, f, "events")
	if err == nil {
		t.Fatal("expected error when the calendar cannot be fetched")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("error should carry the cause: %v", err)
	}
}

func TestEventsCmd_Text(t *testing.T) {
	out, err := execute(t, &stubFetcher{events: stubEvents()}, "events", "--month", "2025-12")
	if err != nil {
		t.Fatalf("events: %v", err)
	}

	for _, want := range []string{"2025-12-01", "Deadline for Add/Drop", "Christmas Holiday", "Total: 2 events from 2025-12-01 to 2025-12-31"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestEventsCmd_TextEmpty(t *testing.T) {
	out, err := execute(t, &stubFetcher{events: stubEvents()}, "events", "--month", "2025-03")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if !strings.Contains(out, "No events found.") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestEventsCmd_YAML(t *testing.T) {
	out, err := execute(t, &stubFetcher{events: stubEvents()}, "events", "--format", "yaml", "--category", "deadline")
	if err != nil {
		t.Fatalf("events: %v", err)
	}

	var result struct {
		EventCount int            `yaml:"event_count"`
		Events     []*event.Event `yaml:"events"`
	}
	if err := yaml.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if result.EventCount != 1 || result.Events[0].Title != "Deadline for Add/Drop" {
		t.Errorf("unexpected YAML result: %+v", result)
	}
	if result.Events[0].Category != event.CategoryDeadline {
		t.Errorf("category = %q, want deadline", result.Events[0].Category)
	}
}

func TestEventsCmd_ICS(t *testing.T) {
	out, err := execute(t, &stubFetcher{events: stubEvents()}, "events", "--format", "ics")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if got := strings.Count(out, "BEGIN:VEVENT"); got != 5 {
		t.Errorf("got %d VEVENTs, want 5", got)
	}
}

func TestParseCmd_Fixture(t *testing.T) {
	out, err := execute(t, nil, "parse", fixturePath, "--format", "json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var result OutputResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if result.EventCount != 30 {
		t.Errorf("event_count = %d, want 30", result.EventCount)
	}
	if result.Source != fixturePath {
		t.Errorf("source = %q, want %q", result.Source, fixturePath)
	}
}

func TestParseCmd_Month(t *testing.T) {
	page := `<table>
		<tr><td>First Semester</td></tr>
		<tr><td>December</td><td>22-23</td><td>Christmas Break</td></tr>
		<tr><td>January</td><td>1</td><td>New Year's Day</td></tr>
	</table>`
	path := filepath.Join(t.TempDir(), "calendar.html")
	if err := os.WriteFile(path, []byte(page), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, nil, "parse", path, "--month", "2026-01", "--format", "json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var result OutputResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if result.EventCount != 1 || result.Events[0].Date != "2026-01-01" {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Start != "2026-01-01" || result.End != "2026-01-31" {
		t.Errorf("range = %s..%s, want 2026-01-01..2026-01-31", result.Start, result.End)
	}
}

func TestParseCmd_Errors(t *testing.T) {
	if _, err := execute(t, nil, "parse", filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Error("expected error for a missing file")
	}
	if _, err := execute(t, nil, "parse"); err == nil {
		t.Error("expected error without a file argument")
	}

	path := filepath.Join(t.TempDir(), "bad.html")
	bad := `<table><tr><td>February</td><td>30</td><td>Enrollment</td></tr></table>`
	if err := os.WriteFile(path, []byte(bad), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, nil, "parse", path)

	var parseErr *scraper.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *scraper.ParseError, got %v", err)
	}
}

func TestServeCmd_InvalidConfig(t *testing.T) {
	t.Setenv("PUPCAL_LISTEN", "")
	t.Setenv("PUPCAL_REFRESH", "")
	t.Setenv("PUPCAL_LOG_LEVEL", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "pupcal.yaml")
	if err := os.WriteFile(path, []byte("refresh: whenever\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, &stubFetcher{}, "serve", "--config", path, "--env-file", filepath.Join(dir, ".env"))
	if err == nil {
		t.Fatal("serve should reject an invalid refresh schedule")
	}
}

func TestSortEvents(t *testing.T) {
	tests := []struct {
		order      SortOrder
		wantTitles []string
	}{
		{SortByDate, []string{"Online Registration", "Midterm Examination", "Deadline for Add/Drop", "Christmas Holiday", "New Year's Day Holiday"}},
		{SortByTitle, []string{"Christmas Holiday", "Deadline for Add/Drop", "Midterm Examination", "New Year's Day Holiday", "Online Registration"}},
		{SortByCategory, []string{"Online Registration", "Deadline for Add/Drop", "Midterm Examination", "Christmas Holiday", "New Year's Day Holiday"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			events := stubEvents()
			sortEvents(events, tt.order)

			for i, evt := range events {
				if evt.Title != tt.wantTitles[i] {
					t.Errorf("position %d = %q, want %q", i, evt.Title, tt.wantTitles[i])
				}
			}
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	for _, s := range []string{"text", "JSON", " yaml ", "ics"} {
		if _, err := ParseOutputFormat(s); err != nil {
			t.Errorf("ParseOutputFormat(%q) error = %v", s, err)
		}
	}
	if _, err := ParseOutputFormat("csv"); err == nil {
		t.Error("ParseOutputFormat(csv) should fail")
	}
}

func TestStartRefresher(t *testing.T) {
	svc := service.New(&stubFetcher{events: stubEvents()}, nil)

	if _, err := startRefresher(context.Background(), svc, "every day"); err == nil {
		t.Error("startRefresher() should reject an invalid schedule")
	}

	scheduler, err := startRefresher(context.Background(), svc, "0 */6 * * *")
	if err != nil {
		t.Fatalf("startRefresher() error = %v", err)
	}
	defer scheduler.Stop()

	if got := len(scheduler.Entries()); got != 1 {
		t.Errorf("scheduled %d jobs, want 1", got)
	}
}

func TestRefresh_WarmsCache(t *testing.T) {
	svc := service.New(&stubFetcher{events: stubEvents()}, nil)

	refresh(context.Background(), svc)

	if st := svc.Status(); st.State != service.StateFresh || st.Events != 5 {
		t.Errorf("Status() after refresh = %+v", st)
	}
}
