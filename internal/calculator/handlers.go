package calculator

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"calculator-api/internal/observability"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Handler exposes the calculation endpoints over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Calculate handles POST /calculate.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.calculate",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req CalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "calculate", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.String("calculator.operation", req.Operation),
		attribute.Float64("calculator.operand.a", req.A),
	)
	if req.B != nil {
		span.SetAttributes(attribute.Float64("calculator.operand.b", *req.B))
	}

	start := time.Now()
	result, err := h.svc.Calculate(ctx, req)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, req.Operation, err.Error(), err, statusForError(err), w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", req.Operation))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, result.Value, attrs)

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Float64("result", result.Value),
		attribute.Float64("duration_ms", elapsed),
		attribute.Bool("persisted", result.Persisted),
	))
	span.SetAttributes(attribute.Float64("calculator.result", result.Value))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculation completed",
		zap.String("operation", req.Operation),
		zap.Float64("a", req.A),
		zap.Float64("result", result.Value),
		zap.Bool("persisted", result.Persisted),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	resp := CalculationResponse{
		Success:   true,
		Operation: string(result.Operation),
		A:         result.A,
		B:         result.B,
		Result:    result.Value,
		Timestamp: result.Timestamp,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Operations handles GET /operations.
func (h *Handler) Operations(w http.ResponseWriter, r *http.Request) {
	infos := Operations()
	resp := OperationsResponse{Operations: infos, Count: len(infos)}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// statusForError maps the error taxonomy to HTTP status codes. Validation
// and domain faults are client errors; everything else is a 500.
func statusForError(err error) int {
	var vErr *ValidationError
	var dErr *DomainError

	switch {
	case errors.As(err, &vErr), errors.As(err, &dErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
