package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/recovibe/pupcal/internal/event"
)

const (
	CalendarURL = "https://www.pup.edu.ph/about/calendar"
	UserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	Timeout     = 30 * time.Second
)

// Scraper handles fetching and parsing the PUP academic calendar
type Scraper struct {
	client *http.Client
	url    string
}

// New creates a new Scraper instance
func New() *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		url: CalendarURL,
	}
}

// URL returns the page the scraper fetches
func (s *Scraper) URL() string {
	return s.url
}

// FetchCalendar fetches the calendar page and parses every event from it.
// Failures to obtain the page are returned as *TransportError, failures to
// interpret it as *ParseError.
func (s *Scraper) FetchCalendar(ctx context.Context) ([]*event.Event, error) {
	body, err := s.fetchPage(ctx)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	return ParseCalendar(body)
}

// fetchPage downloads the complete calendar page
func (s *Scraper) fetchPage(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	return body, nil
}
