package calculator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"calculator-api/internal/history"
)

// Result is one evaluated calculation, immutable once produced.
type Result struct {
	Operation Operation
	A         float64
	B         *float64
	Value     float64
	Timestamp time.Time

	// Persisted reports whether the history write succeeded. History is
	// best-effort: a false value does not invalidate the result.
	Persisted bool
}

// Service runs the validate → dispatch → metrics → persist pipeline. It is
// stateless apart from the store behind the history port.
type Service struct {
	store  history.Store
	logger *zap.Logger
}

func NewService(store history.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Calculate evaluates a request. Validation and domain errors are returned
// to the caller; a failed history write is logged and counted but the
// computed result is still returned.
func (s *Service) Calculate(ctx context.Context, req CalculationRequest) (Result, error) {
	op := Operation(req.Operation)
	start := time.Now()

	if err := req.Validate(); err != nil {
		calcCount.WithLabelValues(req.Operation, "error").Inc()
		return Result{}, err
	}

	value, err := Evaluate(op, req.A, req.B)
	calcLatency.WithLabelValues(req.Operation).Observe(time.Since(start).Seconds())

	if err != nil {
		calcCount.WithLabelValues(req.Operation, "error").Inc()
		s.logger.Error("calculation failed",
			zap.String("operation", req.Operation),
			zap.Float64("a", req.A),
			zap.Error(err),
		)
		return Result{}, err
	}

	calcCount.WithLabelValues(req.Operation, "success").Inc()

	res := Result{
		Operation: op,
		A:         req.A,
		B:         req.B,
		Value:     value,
		Timestamp: time.Now().UTC(),
	}

	_, storeErr := s.store.Append(ctx, history.Record{
		Operation: req.Operation,
		OperandA:  req.A,
		OperandB:  req.B,
		Result:    value,
		CreatedAt: res.Timestamp,
	})
	if storeErr != nil {
		persistenceErrors.Inc()
		s.logger.Error("failed to store calculation",
			zap.String("operation", req.Operation),
			zap.Float64("result", value),
			zap.Error(storeErr),
		)
	} else {
		res.Persisted = true
	}

	return res, nil
}
