package history

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"calculator-api/internal/observability"
	"calculator-api/internal/testutil"
)

type downStore struct{}

var _ Store = (*downStore)(nil)

func (s *downStore) Append(context.Context, Record) (Record, error) {
	return Record{}, &PersistenceError{Op: "append", Err: errors.New("down")}
}
func (s *downStore) List(context.Context, int, int) ([]Record, error) {
	return nil, &PersistenceError{Op: "list", Err: errors.New("down")}
}
func (s *downStore) Statistics(context.Context) (Statistics, error) {
	return Statistics{}, &PersistenceError{Op: "statistics", Err: errors.New("down")}
}
func (s *downStore) Clear(context.Context) (int64, error) {
	return 0, &PersistenceError{Op: "clear", Err: errors.New("down")}
}
func (s *downStore) Ping(context.Context) error {
	return &PersistenceError{Op: "ping", Err: errors.New("down")}
}
func (s *downStore) Close() {}

func newHistoryRouter(store Store) http.Handler {
	observability.Logger = zap.NewNop()

	r := chi.NewRouter()
	NewHandler(store).RegisterRoutes(r)
	return r
}

func seededStore(t *testing.T, n int) *MemoryStore {
	t.Helper()

	store := NewMemoryStore()
	for i := 0; i < n; i++ {
		if _, err := store.Append(context.Background(), Record{Operation: "add", OperandA: float64(i), Result: float64(i)}); err != nil {
			t.Fatalf("seeding store: %v", err)
		}
	}
	return store
}

func TestListEndpointDefaultsAndPagination(t *testing.T) {
	router := newHistoryRouter(seededStore(t, 15))

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp struct {
		Success    bool           `json:"success"`
		Data       []Record       `json:"data"`
		Pagination map[string]int `json:"pagination"`
	}
	testutil.DecodeJSONBody(t, w.Body, &resp)

	if !resp.Success {
		t.Fatal("expected success=true")
	}
	if len(resp.Data) != 10 {
		t.Fatalf("expected default limit of 10, got %d records", len(resp.Data))
	}
	if resp.Pagination["limit"] != 10 || resp.Pagination["offset"] != 0 || resp.Pagination["count"] != 10 {
		t.Fatalf("unexpected pagination: %+v", resp.Pagination)
	}

	req = httptest.NewRequest(http.MethodGet, "/history?limit=5&offset=12", nil)
	w = testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	testutil.DecodeJSONBody(t, w.Body, &resp)

	if len(resp.Data) != 3 {
		t.Fatalf("expected 3 records at the tail, got %d", len(resp.Data))
	}
}

func TestListEndpointRejectsBadPagination(t *testing.T) {
	router := newHistoryRouter(seededStore(t, 1))

	for _, query := range []string{"?limit=0", "?limit=101", "?limit=abc", "?offset=-1", "?offset=x"} {
		req := httptest.NewRequest(http.MethodGet, "/history"+query, nil)
		w := testutil.ExecuteRequest(req, router)

		testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
	}
}

func TestListEndpointStoreDown(t *testing.T) {
	router := newHistoryRouter(&downStore{})

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]string
	testutil.DecodeJSONBody(t, w.Body, &body)
	if body["error"] == "" {
		t.Fatal("expected error message in body")
	}
}

func TestStatisticsEndpoint(t *testing.T) {
	router := newHistoryRouter(seededStore(t, 4))

	req := httptest.NewRequest(http.MethodGet, "/history/statistics", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool       `json:"success"`
		Data    Statistics `json:"data"`
	}
	testutil.DecodeJSONBody(t, w.Body, &resp)

	if !resp.Success {
		t.Fatal("expected success=true")
	}
	if resp.Data.TotalCalculations != 4 {
		t.Fatalf("expected total 4, got %d", resp.Data.TotalCalculations)
	}
	if resp.Data.MostUsedOperation != "add" {
		t.Fatalf("expected most used %q, got %q", "add", resp.Data.MostUsedOperation)
	}
}

func TestClearEndpoint(t *testing.T) {
	store := seededStore(t, 3)
	router := newHistoryRouter(store)

	req := httptest.NewRequest(http.MethodDelete, "/history", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp struct {
		Success      bool  `json:"success"`
		DeletedCount int64 `json:"deleted_count"`
	}
	testutil.DecodeJSONBody(t, w.Body, &resp)

	if !resp.Success || resp.DeletedCount != 3 {
		t.Fatalf("expected 3 deletions, got %+v", resp)
	}

	recs, err := store.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected empty history, got %d records", len(recs))
	}
}
