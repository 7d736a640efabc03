package calculator

import "fmt"

// ValidationError rejects a request before any computation happens. It
// names the violated constraint and maps to HTTP 400.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// DomainError reports a numeric fault during evaluation of otherwise valid
// input, such as a result outside the representable range. Maps to HTTP 400.
type DomainError struct {
	Operation Operation
	Reason    string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, e.Reason)
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
