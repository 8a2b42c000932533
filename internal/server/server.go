// Package server exposes the PUP calendar over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/recovibe/pupcal/internal/event"
	"github.com/recovibe/pupcal/internal/logger"
	"github.com/recovibe/pupcal/internal/metrics"
	"github.com/recovibe/pupcal/internal/service"
)

const (
	// APIPrefix is the mount point of the calendar API
	APIPrefix = "/api/pup-calendar"

	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Calendar is the data source behind the API
type Calendar interface {
	Fetch(ctx context.Context) ([]*event.Event, error)
	EventsByDateRange(ctx context.Context, start, end string) ([]*event.Event, error)
	EventsByMonth(ctx context.Context, year, monthIndex int) ([]*event.Event, error)
	ClearCache()
	Status() service.CacheStatus
}

// Server routes HTTP requests to a Calendar
type Server struct {
	cal     Calendar
	metrics *metrics.Metrics
	log     *logger.Logger
	router  chi.Router
}

// New creates a Server. m may be nil, in which case /metrics is not served.
func New(cal Calendar, m *metrics.Metrics) *Server {
	s := &Server{
		cal:     cal,
		metrics: m,
		log:     logger.With(logger.Fields{"component": "server"}),
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route(APIPrefix, func(r chi.Router) {
		r.Get("/events", s.handleEvents)
		r.Get("/events/{year}/{month}", s.handleMonth)
		r.Get("/calendar.ics", s.handleICS)
		r.Get("/status", s.handleStatus)
		r.Delete("/cache", s.handleClearCache)
	})
}

// Handler returns the root http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting HTTP server", logger.Fields{"listen": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// requestLogger logs one line per request with its status and latency
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		fields := logger.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      status,
			"bytes":       ww.BytesWritten(),
			"duration_ms": time.Since(start).Milliseconds(),
			"remote":      r.RemoteAddr,
		}
		if id := middleware.GetReqID(r.Context()); id != "" {
			fields["request_id"] = id
		}

		if status >= http.StatusInternalServerError {
			s.log.Warn("HTTP request failed", fields)
			return
		}
		s.log.Debug("HTTP request", fields)
	})
}
