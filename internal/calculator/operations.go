package calculator

import "math"

// Operation is the tag identifying which arithmetic function to invoke.
type Operation string

const (
	OpAdd      Operation = "add"
	OpSubtract Operation = "subtract"
	OpMultiply Operation = "multiply"
	OpDivide   Operation = "divide"
	OpPower    Operation = "power"
	OpSqrt     Operation = "sqrt"
	OpAbsDiff  Operation = "abs_diff"
	OpCubic    Operation = "cubic"
)

// Info describes one supported operation, served by GET /operations.
type Info struct {
	Name        string   `json:"name"`
	Symbol      string   `json:"symbol"`
	Description string   `json:"description"`
	Parameters  []string `json:"parameters"`
}

type opSpec struct {
	info  Info
	unary bool
	fn    func(a, b float64) (float64, error)
}

// operations is the tag-to-function dispatch table. All arithmetic is
// standard IEEE-754 double precision.
var operations = map[Operation]opSpec{
	OpAdd: {
		info: Info{Name: "add", Symbol: "+", Description: "Add two numbers", Parameters: []string{"a", "b"}},
		fn:   func(a, b float64) (float64, error) { return a + b, nil },
	},
	OpSubtract: {
		info: Info{Name: "subtract", Symbol: "-", Description: "Subtract second number from first", Parameters: []string{"a", "b"}},
		fn:   func(a, b float64) (float64, error) { return a - b, nil },
	},
	OpMultiply: {
		info: Info{Name: "multiply", Symbol: "×", Description: "Multiply two numbers", Parameters: []string{"a", "b"}},
		fn:   func(a, b float64) (float64, error) { return a * b, nil },
	},
	OpDivide: {
		info: Info{Name: "divide", Symbol: "÷", Description: "Divide first number by second", Parameters: []string{"a", "b"}},
		fn: func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, &DomainError{Operation: OpDivide, Reason: "division by zero is not allowed"}
			}
			return a / b, nil
		},
	},
	OpPower: {
		info: Info{Name: "power", Symbol: "^", Description: "Raise first number to power of second", Parameters: []string{"a", "b"}},
		fn:   func(a, b float64) (float64, error) { return math.Pow(a, b), nil },
	},
	OpSqrt: {
		info:  Info{Name: "sqrt", Symbol: "√", Description: "Calculate square root of number", Parameters: []string{"a"}},
		unary: true,
		fn: func(a, _ float64) (float64, error) {
			if a < 0 {
				return 0, &DomainError{Operation: OpSqrt, Reason: "cannot calculate square root of negative number"}
			}
			return math.Sqrt(a), nil
		},
	},
	OpAbsDiff: {
		info: Info{Name: "abs_diff", Symbol: "|a-b|", Description: "Calculate absolute difference between two numbers", Parameters: []string{"a", "b"}},
		fn:   func(a, b float64) (float64, error) { return math.Abs(a - b), nil },
	},
	OpCubic: {
		info:  Info{Name: "cubic", Symbol: "³", Description: "Raise number to the power of 3 (cubic)", Parameters: []string{"a"}},
		unary: true,
		fn:    func(a, _ float64) (float64, error) { return math.Pow(a, 3), nil },
	},
}

// operationOrder fixes the order of GET /operations output.
var operationOrder = []Operation{
	OpAdd, OpSubtract, OpMultiply, OpDivide, OpPower, OpSqrt, OpAbsDiff, OpCubic,
}

// Operations returns metadata for every supported operation, in a stable
// order across calls.
func Operations() []Info {
	infos := make([]Info, 0, len(operationOrder))
	for _, op := range operationOrder {
		infos = append(infos, operations[op].info)
	}
	return infos
}

// Unary reports whether op takes a single operand.
func (op Operation) Unary() bool {
	return operations[op].unary
}

// Evaluate dispatches op on the given operands. b may be nil only for
// unary operations. The result is rounded to 8 decimal places; a
// non-finite result is a DomainError since it cannot be represented in a
// JSON response.
func Evaluate(op Operation, a float64, b *float64) (float64, error) {
	spec, ok := operations[op]
	if !ok {
		return 0, validationErrorf("unsupported operation: %s", op)
	}

	var second float64
	if !spec.unary {
		if b == nil {
			return 0, validationErrorf("second operand is required for %s", op)
		}
		second = *b
	}

	result, err := spec.fn(a, second)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, &DomainError{Operation: op, Reason: "result is not a finite number"}
	}

	return roundResult(result), nil
}

// roundResult trims float noise to 8 decimal places. Above 1e15 the scaled
// intermediate would overflow the integer precision of float64, so large
// magnitudes pass through untouched.
func roundResult(v float64) float64 {
	if math.Abs(v) >= 1e15 {
		return v
	}
	return math.Round(v*1e8) / 1e8
}
