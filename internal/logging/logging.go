// Package logging carries the request scoped slog logger through contexts so
// services and handlers enrich one logger instead of creating their own.
package logging

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// ContextWithLogger derives a context carrying logger. A nil logger leaves the
// context unchanged.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger attached to ctx, or nil when none was
// attached. Callers fall back to their own logger on nil.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	logger, _ := ctx.Value(loggerKey{}).(*slog.Logger)
	return logger
}
