package scraper

import "fmt"

// TransportError reports a failure to obtain the calendar page: DNS, connect,
// timeout, non-200 status, or an unreadable body.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetching calendar: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError reports a row that could not be turned into valid events.
// Row is the zero-based index of the table row in document order.
type ParseError struct {
	Row int
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing calendar row %d: %v", e.Row, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
