// Package logging is the structured logger shared by the auth server and the
// CLI. Every call takes the request context, so a request id placed there by
// ContextWithRequestID ends up on each record logged while serving it.
package logging

import "context"

// Logger is a context-aware, structured logger. Args are alternating keys
// and values:
//
//	log.Info(ctx, "account created", "user_id", id)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying args on every record.
	With(args ...any) Logger
}

type requestIDKey struct{}

// ContextWithRequestID returns a copy of ctx tagged with the request id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by ContextWithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
