// Package ctxlog carries a *slog.Logger through a context.Context so that
// every layer of the platform logs through the same sink without threading
// a logger parameter through every call.
package ctxlog

import (
	"context"
	"io"
	"log/slog"
)

type key struct{}

var loggerKey = key{}

// WithLogger returns a new context carrying the given logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger embedded in ctx. If none was attached, it
// returns a logger that discards all output rather than panicking, since
// platform code may legitimately run ahead of any caller-supplied context
// (e.g. during tests that exercise a sub-package directly).
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return discardLogger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
