package service

import (
	"time"

	"github.com/recovibe/pupcal/internal/event"
)

// State describes the cache lifecycle
type State string

const (
	StateEmpty State = "empty" // nothing fetched yet, or cleared
	StateFresh State = "fresh" // younger than the TTL
	StateStale State = "stale" // older than the TTL, still usable as a fallback
)

// cache holds the last successfully parsed calendar.
// An empty event list is still a populated cache.
type cache struct {
	events    []*event.Event
	fetchedAt time.Time
	populated bool
	ttl       time.Duration
}

// newCache creates an empty cache with the given TTL
func newCache(ttl time.Duration) cache {
	return cache{ttl: ttl}
}

// fresh returns the cached events if they are younger than the TTL
func (c *cache) fresh(now time.Time) ([]*event.Event, bool) {
	if !c.populated || now.Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return c.events, true
}

// any returns the cached events regardless of age
func (c *cache) any() ([]*event.Event, bool) {
	if !c.populated {
		return nil, false
	}
	return c.events, true
}

// set replaces the cached events unconditionally
func (c *cache) set(events []*event.Event, now time.Time) {
	c.events = events
	c.fetchedAt = now
	c.populated = true
}

// clear empties the cache
func (c *cache) clear() {
	c.events = nil
	c.fetchedAt = time.Time{}
	c.populated = false
}

// state reports where the cache is in its lifecycle
func (c *cache) state(now time.Time) State {
	switch {
	case !c.populated:
		return StateEmpty
	case now.Sub(c.fetchedAt) < c.ttl:
		return StateFresh
	default:
		return StateStale
	}
}

// size returns the number of cached events
func (c *cache) size() int {
	return len(c.events)
}
