package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"calculator-api/internal/calculator"
	"calculator-api/internal/history"
	"calculator-api/internal/observability"
	"calculator-api/internal/testutil"
)

func newTestDeps(t *testing.T) (Deps, *history.MemoryStore) {
	t.Helper()

	observability.Logger = zap.NewNop()
	if err := calculator.InitMetrics(); err != nil {
		t.Fatalf("initializing calculator metrics: %v", err)
	}

	store := history.NewMemoryStore()
	deps := Deps{
		Environment: "test",
		Calculator:  calculator.NewService(store, zap.NewNop()),
		Store:       store,
	}
	return deps, store
}

func TestRouterHealthEndpoint(t *testing.T) {
	deps, _ := newTestDeps(t)
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var body map[string]any
	testutil.DecodeJSONBody(t, w.Body, &body)
	if body["status"] != "healthy" {
		t.Fatalf("expected status healthy, got %v", body["status"])
	}
}

func TestRouterCalculateFlowPersistsHistory(t *testing.T) {
	deps, store := newTestDeps(t)
	router := NewRouter(deps)

	req := testutil.PostJSON("/calculate", `{"operation":"power","a":2,"b":8}`)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	requestID := w.Result().Header.Get("X-Request-ID")
	if requestID == "" {
		t.Fatal("expected X-Request-ID header to be set")
	}
	if _, err := uuid.Parse(requestID); err != nil {
		t.Fatalf("expected valid UUID in X-Request-ID, got %q: %v", requestID, err)
	}

	var payload map[string]any
	testutil.DecodeJSONBody(t, w.Result().Body, &payload)

	if got, ok := payload["result"].(float64); !ok || got != 256 {
		t.Fatalf("expected result 256, got %#v", payload["result"])
	}
	if _, ok := payload["request_id"]; ok {
		t.Fatal("did not expect request_id field in success JSON body")
	}

	req = httptest.NewRequest(http.MethodGet, "/history?limit=5", nil)
	w = testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var hist struct {
		Data []history.Record `json:"data"`
	}
	testutil.DecodeJSONBody(t, w.Result().Body, &hist)
	if len(hist.Data) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(hist.Data))
	}
	if hist.Data[0].Operation != "power" || hist.Data[0].Result != 256 {
		t.Fatalf("unexpected record: %+v", hist.Data[0])
	}

	recs, err := store.List(req.Context(), 10, 0)
	if err != nil {
		t.Fatalf("listing store: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected exactly one stored record, got %d", len(recs))
	}
}

func TestRouterOperationsEndpoint(t *testing.T) {
	deps, _ := newTestDeps(t)
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/operations", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp calculator.OperationsResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp.Count != 8 {
		t.Fatalf("expected 8 operations, got %d", resp.Count)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	deps, _ := newTestDeps(t)
	router := NewRouter(deps)

	// Generate one request so the HTTP counters have something to show.
	req := httptest.NewRequest(http.MethodGet, "/operations", nil)
	_ = testutil.ExecuteRequest(req, router)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	body := w.Body.String()
	if !strings.Contains(body, "http_requests_total") {
		t.Fatal("expected http_requests_total in metrics exposition")
	}
}

func TestRouterRootInfo(t *testing.T) {
	deps, _ := newTestDeps(t)
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var body map[string]any
	testutil.DecodeJSONBody(t, w.Body, &body)
	if body["environment"] != "test" {
		t.Fatalf("expected environment %q, got %v", "test", body["environment"])
	}
}

func TestRouterAppliesRateLimit(t *testing.T) {
	deps, _ := newTestDeps(t)
	deps.RateLimit = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
	}
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/operations", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusTooManyRequests, w.Code)
}
