package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP-level Prometheus instruments, scraped via GET /metrics. The API has
// a small fixed route set, so the raw path is a safe label.
var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	httpInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "http_requests_in_progress",
		Help: "Number of HTTP requests currently in progress",
	}, []string{"method", "path"})
)

// HTTPMetricsMiddleware records request counts, latencies, and in-flight
// gauges per method and path. The scrape endpoint itself is not measured.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		method, path := r.Method, r.URL.Path

		httpInFlight.WithLabelValues(method, path).Inc()
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			// Nothing was written; net/http defaults to 200.
			status = http.StatusOK
		}

		httpInFlight.WithLabelValues(method, path).Dec()
		httpLatency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	})
}
