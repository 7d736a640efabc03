package history

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps history in process memory. It backs local development
// runs without a database and the test suite.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	recs   []Record
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Append(_ context.Context, rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = s.nextID
	s.nextID++
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.recs = append(s.recs, rec)

	return rec, nil
}

func (s *MemoryStore) List(_ context.Context, limit, offset int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Newest first.
	out := make([]Record, 0, limit)
	for i := len(s.recs) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.recs[i])
	}

	return out, nil
}

func (s *MemoryStore) Statistics(_ context.Context) (Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Statistics{TotalCalculations: int64(len(s.recs))}
	if len(s.recs) == 0 {
		return stats, nil
	}

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := now.Add(-7 * 24 * time.Hour)

	counts := make(map[string]int64)
	var sum float64
	for _, rec := range s.recs {
		counts[rec.Operation]++
		sum += rec.Result
		if !rec.CreatedAt.Before(dayStart) {
			stats.TodayCalculations++
		}
		if !rec.CreatedAt.Before(weekStart) {
			stats.WeekCalculations++
		}
	}

	var best int64
	for op, n := range counts {
		if n > best || (n == best && op < stats.MostUsedOperation) {
			best = n
			stats.MostUsedOperation = op
		}
	}
	stats.AverageResult = sum / float64(len(s.recs))

	return stats, nil
}

func (s *MemoryStore) Clear(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.recs))
	s.recs = nil

	return n, nil
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }

func (s *MemoryStore) Close() {}
