// Package httpapi exposes the query surface consumed by the dashboard plus
// the operational endpoints: health, readiness, metrics, and the interactive
// refresh trigger.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/radhe123-123/disaster-app/internal/domain"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Refresher triggers collection runs on demand.
type Refresher interface {
	RunOnce(ctx context.Context) (int, error)
	Running() bool
}

// EventSource answers event queries.
type EventSource interface {
	Query(ctx context.Context, filter domain.EventFilter) ([]domain.DisasterEvent, error)
	RecentEvents(ctx context.Context, days int) ([]domain.DisasterEvent, error)
}

// UserRegistry creates user accounts.
type UserRegistry interface {
	RegisterUser(ctx context.Context, username, email, passwordHash string, preferences map[string]any) (string, error)
}

// Server exposes the HTTP API.
type Server struct {
	httpServer *http.Server
	events     EventSource
	users      UserRegistry
	refresher  Refresher
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the API and operational routes.
func NewServer(addr string, events EventSource, users UserRegistry, refresher Refresher, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		events:    events,
		users:     users,
		refresher: refresher,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.HandleFunc("GET /api/events/recent", s.handleRecentEvents)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("POST /api/register", s.handleRegister)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.EventFilter{
		DisasterType: q.Get("disaster_type"),
		FromDate:     q.Get("from"),
		ToDate:       q.Get("to"),
	}

	if filter.DisasterType != "" && !domain.ValidDisasterType(filter.DisasterType) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "unknown disaster_type " + strconv.Quote(filter.DisasterType),
		})
		return
	}

	events, err := s.events.Query(r.Context(), filter)
	if err != nil {
		s.logger.Error("event query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "query failed"})
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Count: len(events), Events: events})
}

func (s *Server) handleRecentEvents(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "days must be a positive integer"})
			return
		}
		days = n
	}

	events, err := s.events.RecentEvents(r.Context(), days)
	if err != nil {
		s.logger.Error("recent events query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "query failed"})
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Count: len(events), Events: events})
}

// handleRefresh starts a collection run in the background. The run can take
// minutes under the geocoder's rate gate, so the handler answers 202 and the
// caller polls /api/events for new data.
func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	if s.refresher.Running() {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a refresh is already in flight"})
		return
	}

	go func() {
		inserted, err := s.refresher.RunOnce(context.Background())
		if err != nil {
			s.logger.Error("refresh run failed", "error", err)
			return
		}
		s.logger.Info("refresh run complete", "inserted", inserted)
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh started"})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username, email, and password are required"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("password hash failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "registration failed"})
		return
	}

	id, err := s.users.RegisterUser(r.Context(), req.Username, req.Email, string(hash), nil)
	if errors.Is(err, domain.ErrUsernameTaken) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "username already registered"})
		return
	}
	if err != nil {
		s.logger.Error("user registration failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "registration failed"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type eventsResponse struct {
	Count  int                    `json:"count"`
	Events []domain.DisasterEvent `json:"events"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
