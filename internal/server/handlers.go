package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/recovibe/pupcal/internal/calendar"
	"github.com/recovibe/pupcal/internal/event"
	"github.com/recovibe/pupcal/internal/logger"
)

// eventsResponse is the JSON body of the event listing endpoints
type eventsResponse struct {
	Count  int            `json:"count"`
	Start  string         `json:"start,omitempty"`
	End    string         `json:"end,omitempty"`
	Events []*event.Event `json:"events"`
}

// eventQuery is a validated set of listing parameters
type eventQuery struct {
	start      string
	end        string
	categories []event.Category
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	q, err := parseEventQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, ok := s.query(w, r, q)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, eventsResponse{
		Count:  len(events),
		Start:  q.start,
		End:    q.end,
		Events: events,
	})
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 || year > 9999 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid year %q", chi.URLParam(r, "year")))
		return
	}

	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid month %q (must be 1-12)", chi.URLParam(r, "month")))
		return
	}

	categories, err := parseCategories(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := s.cal.EventsByMonth(r.Context(), year, month-1)
	if err != nil {
		s.fetchFailed(w, err)
		return
	}
	events = nonNil(event.FilterByCategory(events, categories...))

	start, end, _ := event.MonthRange(year, month-1)
	writeJSON(w, http.StatusOK, eventsResponse{
		Count:  len(events),
		Start:  start,
		End:    end,
		Events: events,
	})
}

func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	q, err := parseEventQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, ok := s.query(w, r, q)
	if !ok {
		return
	}

	body := calendar.GenerateICS(events)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="pup-calendar.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cal.Status())
}

func (s *Server) handleClearCache(w http.ResponseWriter, _ *http.Request) {
	s.cal.ClearCache()
	w.WriteHeader(http.StatusNoContent)
}

// query runs q against the calendar, writing an error response on failure
func (s *Server) query(w http.ResponseWriter, r *http.Request, q eventQuery) ([]*event.Event, bool) {
	var (
		events []*event.Event
		err    error
	)
	if q.start != "" {
		events, err = s.cal.EventsByDateRange(r.Context(), q.start, q.end)
	} else {
		events, err = s.cal.Fetch(r.Context())
	}
	if err != nil {
		s.fetchFailed(w, err)
		return nil, false
	}

	return nonNil(event.FilterByCategory(events, q.categories...)), true
}

func (s *Server) fetchFailed(w http.ResponseWriter, err error) {
	s.log.Error("Error fetching PUP calendar", nil, err)
	writeError(w, http.StatusBadGateway, "failed to fetch PUP calendar: "+err.Error())
}

// parseEventQuery reads start, end and category from the query string.
// start and end must be given together.
func parseEventQuery(r *http.Request) (eventQuery, error) {
	values := r.URL.Query()
	q := eventQuery{
		start: strings.TrimSpace(values.Get("start")),
		end:   strings.TrimSpace(values.Get("end")),
	}

	if (q.start == "") != (q.end == "") {
		return eventQuery{}, errors.New("start and end must be given together")
	}
	if q.start != "" {
		startDay, err := event.ParseISODate(q.start)
		if err != nil {
			return eventQuery{}, fmt.Errorf("invalid start: %w", err)
		}
		endDay, err := event.ParseISODate(q.end)
		if err != nil {
			return eventQuery{}, fmt.Errorf("invalid end: %w", err)
		}
		if endDay.Before(startDay) {
			return eventQuery{}, errors.New("end is before start")
		}
	}

	categories, err := parseCategories(r)
	if err != nil {
		return eventQuery{}, err
	}
	q.categories = categories

	return q, nil
}

// parseCategories accepts repeated or comma-separated category parameters
func parseCategories(r *http.Request) ([]event.Category, error) {
	var categories []event.Category
	for _, raw := range r.URL.Query()["category"] {
		for _, name := range strings.Split(raw, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			c, err := event.ParseCategory(name)
			if err != nil {
				return nil, err
			}
			categories = append(categories, c)
		}
	}
	return categories, nil
}

// nonNil makes empty results encode as [] rather than null
func nonNil(events []*event.Event) []*event.Event {
	if events == nil {
		return []*event.Event{}
	}
	return events
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to write JSON response", nil, err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
