package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"calculator-api/internal/handlers"
	"calculator-api/internal/observability"
)

// Middleware enforces perMinute requests per client IP. A limiter failure
// fails open: the request proceeds and the error is logged, so a Redis
// outage never takes the API down with it.
func Middleware(limiter Allower, perMinute int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			res, err := limiter.Allow(ctx, clientIP(r), perMinute, time.Minute)
			if err != nil {
				observability.LoggerWithTrace(ctx).Warn("rate limiter unavailable, allowing request", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				observability.LoggerWithTrace(ctx).Warn("rate limit exceeded",
					zap.String("client_ip", clientIP(r)),
					zap.String("path", r.URL.Path),
				)
				handlers.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded", observability.RequestIDFromContext(ctx))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the caller address, honouring X-Forwarded-For from the
// ingress in front of the service.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
