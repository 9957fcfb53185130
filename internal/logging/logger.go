// Package logging defines a minimal structured-logging interface used across
// the Relief client. The default implementation wraps log/slog.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key/value pairs, e.g.:
//
//	log.Warn(ctx, "content cache write failed", "key", key, "err", err)
type Logger interface {
	// Debug logs diagnostic details (tokens, payload sizes).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs recoverable conditions such as storage fallbacks.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures surfaced to the user.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key/value pairs.
	With(args ...any) Logger
}
