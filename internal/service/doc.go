// Package service provides the cached PUP calendar and the date queries built on it.
//
// A Service keeps the last successfully parsed calendar in memory for 24 hours.
// When a refresh fails at the transport level the previous events are served again,
// however old, and the failure is only reported when nothing has been cached yet.
// Parse failures are always reported. Concurrent refreshes share a single request.
package service
