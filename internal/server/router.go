package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"calculator-api/internal/alerts"
	"calculator-api/internal/calculator"
	"calculator-api/internal/handlers"
	"calculator-api/internal/history"
	"calculator-api/internal/observability"
)

// Deps carries everything the router needs. RateLimit is optional; nil
// disables it.
type Deps struct {
	Environment string
	Calculator  *calculator.Service
	Store       history.Store
	RateLimit   func(http.Handler) http.Handler
}

func NewRouter(deps Deps) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)
	r.Use(observability.HTTPMetricsMiddleware)
	if deps.RateLimit != nil {
		r.Use(deps.RateLimit)
	}

	r.Get("/", rootInfo(deps.Environment))

	r.Handle("/metrics", observability.PrometheusHandler())

	handlers.NewHealth(deps.Store).RegisterRoutes(r)
	calculator.NewHandler(deps.Calculator).RegisterRoutes(r)
	history.NewHandler(deps.Store).RegisterRoutes(r)
	alerts.RegisterRoutes(r)

	return r
}

// rootInfo serves GET / with a service summary.
func rootInfo(environment string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteJSON(w, http.StatusOK, map[string]any{
			"message":     "Calculator API",
			"status":      "running",
			"environment": environment,
			"timestamp":   time.Now().UTC(),
			"endpoints": map[string]string{
				"calculate":  "/calculate",
				"operations": "/operations",
				"history":    "/history",
				"health":     "/health",
				"metrics":    "/metrics",
			},
		})
	}
}
