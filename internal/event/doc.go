// Package event provides the normalized record type for PUP academic-calendar events.
//
// The event package handles event representation, keyword-based categorization, and the
// ISO date helpers used by range and month queries. Dates are stored as fixed-width
// YYYY-MM-DD strings so that plain string comparison orders them chronologically.
package event
