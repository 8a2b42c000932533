// Package scraper provides HTTP fetching and HTML parsing for the PUP academic calendar.
//
// The scraper package fetches the published calendar page from pup.edu.ph and extracts
// one event per calendar day from its tables. Rows are processed in document order:
// semester header rows set the current semester label, month cells carry forward to
// continuation rows, and day lists such as "1-5, 20" expand into individual days.
package scraper
