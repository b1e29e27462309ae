package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/alivemon/internal/httpapi/middleware"
	"github.com/hamed0406/alivemon/internal/scheduler"
)

// Trigger starts a monitoring cycle without waiting for it. It returns
// false when the monitor is shutting down.
type Trigger interface {
	Trigger() bool
}

// HealthSource reports the latest site-document load state.
type HealthSource interface {
	Snapshot() scheduler.HealthSnapshot
}

// Server is the optional ops surface: liveness, readiness and a manual
// cycle trigger. It exposes no probe results.
type Server struct {
	Logger  *zap.Logger
	Health  HealthSource
	Trigger Trigger
}

func NewServer(l *zap.Logger, h HealthSource, t Trigger) *Server {
	return &Server{Logger: l, Health: h, Trigger: t}
}

func (s *Server) Router(keys apimw.Keys, rpm, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(apimw.RateLimit(rpm, burst))
		r.With(apimw.RequireAdmin(keys)).Post("/cycles", s.handleTriggerCycle)
	})
	return r
}

type readyPayload struct {
	Ready     bool       `json:"ready"`
	Error     string     `json:"error,omitempty"`
	Missing   []string   `json:"missing,omitempty"`
	LastCycle *time.Time `json:"last_cycle,omitempty"`
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	snap := s.Health.Snapshot()
	p := readyPayload{Ready: snap.Ready, Error: snap.Error, Missing: snap.Missing}
	if !snap.LastCycle.IsZero() {
		p.LastCycle = &snap.LastCycle
	}

	status := http.StatusOK
	if !snap.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, p)
}

func (s *Server) handleTriggerCycle(w http.ResponseWriter, r *http.Request) {
	if !s.Trigger.Trigger() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "shutting down"})
		return
	}
	s.Logger.Info("cycle_triggered", zap.String("remote", r.RemoteAddr))
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
