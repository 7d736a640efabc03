package history

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"calculator-api/internal/handlers"
	"calculator-api/internal/observability"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// Handler serves the read side of the history store plus the explicit
// administrative purge.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the history endpoints under /history.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/statistics", h.Statistics)
		r.Delete("/", h.Clear)
	})
}

// List handles GET /history?limit=&offset=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	requestID := observability.RequestIDFromContext(r.Context())

	limit, offset, err := pagination(r)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	recs, err := h.store.List(r.Context(), limit, offset)
	if err != nil {
		observability.LoggerWithTrace(r.Context()).Error("failed to fetch calculation history", zap.Error(err))
		handlers.WriteError(w, http.StatusServiceUnavailable, "history store unavailable", requestID)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    recs,
		"pagination": map[string]int{
			"limit":  limit,
			"offset": offset,
			"count":  len(recs),
		},
		"timestamp": time.Now().UTC(),
	})
}

// Statistics handles GET /history/statistics.
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	requestID := observability.RequestIDFromContext(r.Context())

	stats, err := h.store.Statistics(r.Context())
	if err != nil {
		observability.LoggerWithTrace(r.Context()).Error("failed to fetch calculation statistics", zap.Error(err))
		handlers.WriteError(w, http.StatusServiceUnavailable, "history store unavailable", requestID)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"data":      stats,
		"timestamp": time.Now().UTC(),
	})
}

// Clear handles DELETE /history.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	requestID := observability.RequestIDFromContext(r.Context())

	deleted, err := h.store.Clear(r.Context())
	if err != nil {
		observability.LoggerWithTrace(r.Context()).Error("failed to clear calculation history", zap.Error(err))
		handlers.WriteError(w, http.StatusServiceUnavailable, "history store unavailable", requestID)
		return
	}

	observability.LoggerWithTrace(r.Context()).Info("calculation history cleared",
		zap.Int64("deleted_count", deleted),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "calculation history cleared",
		"deleted_count": deleted,
		"timestamp":     time.Now().UTC(),
	})
}

// pagination parses and bounds the limit/offset query parameters.
func pagination(r *http.Request) (limit, offset int, err error) {
	limit = defaultPageLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPageLimit {
			return 0, 0, fmt.Errorf("limit must be an integer between 1 and %d", maxPageLimit)
		}
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("offset must be a non-negative integer")
		}
	}

	return limit, offset, nil
}
