// Package alerts receives Grafana alert notifications. It only acknowledges
// and logs them; alert evaluation lives in the monitoring stack.
package alerts

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"calculator-api/internal/handlers"
	"calculator-api/internal/observability"
)

// Notification is the webhook payload Grafana posts on state changes.
type Notification struct {
	Alerts []Alert `json:"alerts"`
}

// Alert is one alert instance inside a notification.
type Alert struct {
	Status      string            `json:"status"`
	Labels      map[string]string `json:"labels"`
	Annotations map[string]string `json:"annotations"`
}

// RegisterRoutes mounts the webhook endpoints under /alerts.
func RegisterRoutes(r chi.Router) {
	r.Route("/alerts", func(r chi.Router) {
		r.Post("/webhook", Webhook)
		r.Get("/status", Status)
	})
}

// Webhook handles POST /alerts/webhook.
func Webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	var note Notification
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "invalid alert payload", requestID)
		return
	}

	for _, alert := range note.Alerts {
		fields := []zap.Field{
			zap.String("alertname", alert.Labels["alertname"]),
			zap.String("severity", alert.Labels["severity"]),
			zap.String("description", alert.Annotations["description"]),
			zap.String("request_id", requestID),
		}

		switch alert.Status {
		case "firing":
			logger.Error("alert firing", fields...)
		case "resolved":
			logger.Info("alert resolved", fields...)
		default:
			logger.Warn("alert with unknown status", append(fields, zap.String("status", alert.Status))...)
		}
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "alert processed",
	})
}

// Status handles GET /alerts/status.
func Status(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, map[string]any{
		"status":           "healthy",
		"webhook_endpoint": "/alerts/webhook",
		"timestamp":        time.Now().UTC(),
	})
}
