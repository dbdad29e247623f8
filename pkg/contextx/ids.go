package contextx

import (
	"context"
	"fmt"
)

// TraceID ties together the log lines of one dashboard request and the admin
// API calls it makes.
type TraceID string

// SessionID identifies an operator's dashboard session. It is safe to log,
// unlike the bearer token the session holds.
type SessionID string

type (
	contextKeyTraceID   struct{}
	contextKeySessionID struct{}
)

func (t TraceID) String() string {
	return string(t)
}

func (s SessionID) String() string {
	return string(s)
}

func WithTraceID(ctx context.Context, traceID TraceID) context.Context {
	return context.WithValue(ctx, contextKeyTraceID{}, traceID)
}

func TraceIDFromContext(ctx context.Context) (TraceID, error) {
	return valueFromContext[TraceID](ctx, contextKeyTraceID{}, "trace id")
}

func WithSessionID(ctx context.Context, sessionID SessionID) context.Context {
	return context.WithValue(ctx, contextKeySessionID{}, sessionID)
}

func SessionIDFromContext(ctx context.Context) (SessionID, error) {
	return valueFromContext[SessionID](ctx, contextKeySessionID{}, "session id")
}

func valueFromContext[T ~string](ctx context.Context, key any, name string) (T, error) {
	value, ok := ctx.Value(key).(T)
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrNoValue)
	}

	return value, nil
}
