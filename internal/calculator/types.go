package calculator

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// CalculationRequest is the JSON body for POST /calculate. B is a pointer
// so that absence can be told apart from zero.
type CalculationRequest struct {
	Operation string   `json:"operation" validate:"required,oneof=add subtract multiply divide power sqrt abs_diff cubic"`
	A         float64  `json:"a"`
	B         *float64 `json:"b,omitempty"`
}

// Validate applies the structural rules and the operation-specific domain
// constraints. It has no side effects.
func (r *CalculationRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			return validationErrorf("unsupported operation: %q", r.Operation)
		}
		return err
	}

	op := Operation(r.Operation)

	if math.IsNaN(r.A) || math.IsInf(r.A, 0) {
		return validationErrorf("operand a must be a finite number")
	}
	if r.B != nil && (math.IsNaN(*r.B) || math.IsInf(*r.B, 0)) {
		return validationErrorf("operand b must be a finite number")
	}

	if !op.Unary() && r.B == nil {
		return validationErrorf("second operand is required for %s", op)
	}

	switch op {
	case OpSqrt:
		if r.A < 0 {
			return validationErrorf("cannot calculate square root of negative number")
		}
	case OpDivide:
		if *r.B == 0 {
			return validationErrorf("division by zero is not allowed")
		}
	}

	return nil
}

// CalculationResponse is the JSON response for POST /calculate.
type CalculationResponse struct {
	Success   bool      `json:"success"`
	Operation string    `json:"operation"`
	A         float64   `json:"a"`
	B         *float64  `json:"b,omitempty"`
	Result    float64   `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}

// OperationsResponse is the JSON response for GET /operations.
type OperationsResponse struct {
	Operations []Info `json:"operations"`
	Count      int    `json:"count"`
}
