package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"calculator-api/internal/observability"
)

const serviceName = "calculator-api"

// StorePinger is the subset of the history store the probes need. It is
// declared locally so this package does not import the history package,
// which imports this one for its response helpers.
type StorePinger interface {
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}

// Health serves the liveness and readiness probes. Readiness and the
// detailed report ping the history store; liveness never does.
type Health struct {
	store StorePinger
}

func NewHealth(store StorePinger) *Health {
	return &Health{store: store}
}

// RegisterRoutes mounts the probes under /health.
func (h *Health) RegisterRoutes(r chi.Router) {
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.Basic)
		r.Get("/live", h.Live)
		r.Get("/ready", h.Ready)
		r.Get("/detailed", h.Detailed)
	})
}

// Basic handles GET /health.
func (h *Health) Basic(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   serviceName,
		"timestamp": time.Now().UTC(),
	})
}

// Live handles GET /health/live. Liveness only proves the process serves
// requests.
func (h *Health) Live(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
	})
}

// Ready handles GET /health/ready.
func (h *Health) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		observability.LoggerWithTrace(r.Context()).Error("readiness check failed", zap.Error(err))

		WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "not_ready",
			"reason":    "history store unreachable",
			"timestamp": time.Now().UTC(),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
	})
}

// Detailed handles GET /health/detailed with a per-component report.
func (h *Health) Detailed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status := "healthy"
	storeStatus := map[string]any{"status": "healthy"}
	httpStatus := http.StatusOK

	if err := h.store.Ping(r.Context()); err != nil {
		status = "unhealthy"
		storeStatus = map[string]any{"status": "unhealthy", "error": err.Error()}
		httpStatus = http.StatusServiceUnavailable
	}

	WriteJSON(w, httpStatus, map[string]any{
		"status":        status,
		"service":       serviceName,
		"timestamp":     time.Now().UTC(),
		"response_time": time.Since(start).Seconds(),
		"components": map[string]any{
			"history_store": storeStatus,
		},
	})
}
