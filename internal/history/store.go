package history

import (
	"context"
	"fmt"
	"time"
)

// Record is one persisted calculation. Records are append-only and never
// mutated; they are removed only by an explicit Clear.
type Record struct {
	ID        int64     `json:"id"`
	Operation string    `json:"operation"`
	OperandA  float64   `json:"operand_a"`
	OperandB  *float64  `json:"operand_b,omitempty"`
	Result    float64   `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}

// Statistics summarises the stored history.
type Statistics struct {
	TotalCalculations int64   `json:"total_calculations"`
	MostUsedOperation string  `json:"most_used_operation,omitempty"`
	AverageResult     float64 `json:"average_result"`
	TodayCalculations int64   `json:"today_calculations"`
	WeekCalculations  int64   `json:"week_calculations"`
}

// Store is the narrow persistence port for calculation history. The
// calculation core depends only on this interface, never on a concrete
// storage technology.
type Store interface {
	// Append stores a new record and returns it with its generated ID and
	// creation timestamp filled in.
	Append(ctx context.Context, rec Record) (Record, error)

	// List returns up to limit records, newest first, skipping offset.
	List(ctx context.Context, limit, offset int) ([]Record, error)

	// Statistics aggregates over all stored records.
	Statistics(ctx context.Context) (Statistics, error)

	// Clear deletes all records and returns how many were removed.
	Clear(ctx context.Context) (int64, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error

	Close()
}

// PersistenceError wraps a store failure. The calculate path treats it as
// best-effort logging; the history endpoints surface it as 503.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
