package observability

import (
	"context"

	"github.com/google/uuid"
)

// HeaderRequestID is the header carrying the per-request UUID, both inbound
// (from an ingress that already tagged the request) and on every response.
const HeaderRequestID = "X-Request-ID"

type contextKey string

// RequestIDKey is the context key under which the per-request UUID lives.
const RequestIDKey contextKey = "request_id"

func NewRequestID() string {
	return uuid.New().String()
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return id
}
