package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/recovibe/pupcal/internal/event"
	"github.com/recovibe/pupcal/internal/logger"
	"github.com/recovibe/pupcal/internal/metrics"
	"github.com/recovibe/pupcal/internal/scraper"
)

// CacheDuration is how long a fetched calendar is served without refetching
const CacheDuration = 24 * time.Hour

// Fetcher retrieves and parses the calendar
type Fetcher interface {
	FetchCalendar(ctx context.Context) ([]*event.Event, error)
}

// CacheStatus describes the cache at a point in time
type CacheStatus struct {
	State     State     `json:"state"`
	Events    int       `json:"events"`
	FetchedAt time.Time `json:"fetchedAt,omitzero"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`

	// Changes made by the most recent refresh that replaced a populated cache
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// Service serves PUP calendar events from an in-memory cache backed by a Fetcher
type Service struct {
	fetcher Fetcher
	metrics *metrics.Metrics
	log     *logger.Logger
	now     func() time.Time

	mu          sync.Mutex
	cache       cache
	lastChanges *event.DiffResult
	group       singleflight.Group
}

// New creates a Service with an empty cache. m may be nil.
func New(fetcher Fetcher, m *metrics.Metrics) *Service {
	return &Service{
		fetcher: fetcher,
		metrics: m,
		log:     logger.With(logger.Fields{"component": "service"}),
		now:     time.Now,
		cache:   newCache(CacheDuration),
	}
}

// Fetch returns all calendar events.
//
// A cache younger than CacheDuration is returned without a network request.
// Otherwise the calendar is fetched again; on success the cache is replaced,
// even by an empty list. If the fetch fails with a *scraper.TransportError and
// anything was cached before, the cached events are returned instead of the
// error. Any other failure is returned as is.
func (s *Service) Fetch(ctx context.Context) ([]*event.Event, error) {
	if events, ok := s.freshEvents(); ok {
		s.log.Debug("Returning cached PUP calendar events", logger.Fields{"events": len(events)})
		s.metrics.ObserveFetch(metrics.OutcomeCached)
		return slices.Clone(events), nil
	}

	// One refresh at a time; callers arriving meanwhile share its result.
	v, err, _ := s.group.Do("calendar", func() (interface{}, error) {
		return s.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}

	return slices.Clone(v.([]*event.Event)), nil
}

// refresh fetches the calendar and updates the cache, falling back to stale
// events on transport failures
func (s *Service) refresh(ctx context.Context) ([]*event.Event, error) {
	s.log.Info("Fetching fresh PUP calendar", nil)

	start := time.Now()
	events, err := s.fetcher.FetchCalendar(ctx)
	s.metrics.ObserveFetchDuration(time.Since(start))

	if err != nil {
		var transportErr *scraper.TransportError
		if !errors.As(err, &transportErr) {
			s.log.Error("Error parsing PUP calendar", nil, err)
			s.metrics.IncParseErrors()
			s.metrics.ObserveFetch(metrics.OutcomeError)
			return nil, err
		}

		if stale, fetchedAt, ok := s.staleEvents(); ok {
			s.log.Warn("Returning stale cached PUP calendar events due to fetch error", logger.Fields{
				"events": len(stale),
				"age":    s.now().Sub(fetchedAt).Round(time.Second).String(),
				"error":  err.Error(),
			})
			s.metrics.ObserveFetch(metrics.OutcomeStale)
			return stale, nil
		}

		s.log.Error("Error fetching PUP calendar", nil, err)
		s.metrics.ObserveFetch(metrics.OutcomeError)
		return nil, err
	}

	s.mu.Lock()
	var changes *event.DiffResult
	if previous, ok := s.cache.any(); ok {
		changes = event.Diff(event.CreateSnapshot(previous), events)
		s.lastChanges = changes
	}
	s.cache.set(events, s.now())
	s.mu.Unlock()

	s.log.Info("Successfully parsed PUP calendar events", logger.Fields{"events": len(events)})
	if changes != nil && changes.HasChanges() {
		s.log.Info("PUP calendar changed since last fetch", logger.Fields{
			"added":   len(changes.Added),
			"removed": len(changes.Removed),
		})
	}
	s.metrics.ObserveFetch(metrics.OutcomeFresh)
	s.metrics.SetCachedEvents(len(events))

	return events, nil
}

func (s *Service) freshEvents() ([]*event.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.fresh(s.now())
}

func (s *Service) staleEvents() ([]*event.Event, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events, ok := s.cache.any()
	return events, s.cache.fetchedAt, ok
}

// EventsByDateRange returns the events dated within [start, end] inclusive.
// Both bounds are YYYY-MM-DD strings.
func (s *Service) EventsByDateRange(ctx context.Context, start, end string) ([]*event.Event, error) {
	events, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	return event.FilterByDateRange(events, start, end), nil
}

// EventsByMonth returns the events of one month. monthIndex is zero-based:
// 0 is January and 11 is December.
func (s *Service) EventsByMonth(ctx context.Context, year, monthIndex int) ([]*event.Event, error) {
	start, end, err := event.MonthRange(year, monthIndex)
	if err != nil {
		return nil, err
	}

	return s.EventsByDateRange(ctx, start, end)
}

// ClearCache empties the cache so the next Fetch goes to the network
func (s *Service) ClearCache() {
	s.mu.Lock()
	s.cache.clear()
	s.lastChanges = nil
	s.mu.Unlock()

	s.log.Info("Cleared PUP calendar cache", nil)
	s.metrics.SetCachedEvents(0)
}

// Status reports the current state of the cache
func (s *Service) Status() CacheStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	status := CacheStatus{
		State:  s.cache.state(now),
		Events: s.cache.size(),
	}
	if status.State != StateEmpty {
		status.FetchedAt = s.cache.fetchedAt
		status.ExpiresAt = s.cache.fetchedAt.Add(s.cache.ttl)
	}
	if s.lastChanges != nil {
		status.Added = len(s.lastChanges.Added)
		status.Removed = len(s.lastChanges.Removed)
	}
	return status
}
