// Package api provides the HTTP API for observing a running scenario.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
// See design doc Section 7.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/flashpoint/internal/engine"
	"github.com/talgya/flashpoint/internal/journal"
	"github.com/talgya/flashpoint/internal/scenario"
)

// Rate limit for the whole API, per client IP.
const (
	rateLimitRequests = 120
	rateLimitWindow   = time.Minute
)

// Server serves simulation state over HTTP.
type Server struct {
	Sim      *scenario.Simulation
	Eng      *engine.Engine
	DB       *journal.DB // nil when journaling is disabled
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Handler builds the full route table with CORS and rate limiting.
func (s *Server) Handler() http.Handler {
	limiter := NewRateLimiter(rateLimitRequests, rateLimitWindow)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only observation).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/actors", s.handleActors)
	mux.HandleFunc("/api/v1/actor/", s.handleActorDetail)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/decisions", s.handleDecisions)
	mux.HandleFunc("/api/v1/theater", s.handleTheater)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/control/pause", s.adminOnly(s.handlePause))
	mux.HandleFunc("/api/v1/control/resume", s.adminOnly(s.handleResume))
	mux.HandleFunc("/api/v1/control/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("/api/v1/control/step", s.adminOnly(s.handleStep))

	return corsMiddleware(RateLimitMiddleware(limiter, mux))
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	handler := s.Handler()
	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through (for endpoints that support both GET and POST).
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no FLASHPOINT_ADMIN_KEY set)", http.StatusForbidden)
				return
			}

			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}

		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"name":           "Flashpoint",
		"run_id":         s.Sim.RunID(),
		"scenario":       s.Sim.Name(),
		"cycle":          s.Sim.Cycle(),
		"tension":        s.Sim.Tension(),
		"nations":        s.Sim.Nations(),
		"units":          len(s.Sim.Units()),
		"speed":          s.Eng.Speed(),
		"paused":         s.Eng.Paused(),
		"running":        s.Eng.Running(),
		"journaled":      s.DB != nil,
		"uptime_seconds": int(time.Since(s.Sim.StartedAt()).Seconds()),
	}
	writeJSON(w, status)
}

func (s *Server) handleActors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.ActorViews())
}

func (s *Server) handleActorDetail(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/v1/actor/")
	if name == "" {
		http.Error(w, "missing nation name", http.StatusBadRequest)
		return
	}

	view, ok := s.Sim.ActorView(name)
	if !ok {
		http.Error(w, "nation not found", http.StatusNotFound)
		return
	}
	writeJSON(w, view)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 250 {
			limit = n
		}
	}

	events := s.Sim.RecentEvents(limit)

	// Optional nation filter.
	if nation := r.URL.Query().Get("nation"); nation != "" {
		filtered := make([]scenario.Event, 0, len(events))
		for _, e := range events {
			if e.Nation == nation {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}

	writeJSON(w, events)
}

func (s *Server) handleDecisions(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "journal not available", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	rows, err := s.DB.RecentDecisions(s.Sim.RunID(), limit)
	if err != nil {
		slog.Error("decision query failed", "error", err)
		http.Error(w, "decision query failed", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []journal.DecisionRow{}
	}
	writeJSON(w, rows)
}

func (s *Server) handleTheater(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"tension": s.Sim.Tension(),
		"units":   s.Sim.Units(),
	})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.Eng.Pause()
	slog.Info("engine paused via API")
	writeJSON(w, map[string]any{"paused": true, "cycle": s.Sim.Cycle()})
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.Eng.Resume()
	slog.Info("engine resumed via API")
	writeJSON(w, map[string]any{"paused": false, "cycle": s.Sim.Cycle()})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := s.Eng.SetSpeed(req.Speed); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Info("speed changed", "speed", req.Speed)
	}

	writeJSON(w, map[string]float64{"speed": s.Eng.Speed()})
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.Eng.Step()
	writeJSON(w, map[string]any{"cycle": s.Sim.Cycle(), "ticks": s.Eng.Ticks()})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
