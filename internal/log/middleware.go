package log

import (
	"context"
	"log/slog"
	"net/http"
)

type ContextKey string

// LoggerContextKey holds the request-scoped *Logger.
const LoggerContextKey ContextKey = "logger"

// NewContext returns ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext returns the request logger, or the slog default tagged with
// an "unknown" component.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return wrap(slog.Default(), "unknown")
}

// StructuredLogger emits the fixed-shape records: HTTP access lines,
// store mutations and failures.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogHTTPEnd logs the completion of an HTTP request. 4xx logs at warn and
// 5xx at error.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	switch {
	case statusCode >= 500:
		level = slog.LevelError
	case statusCode >= 400:
		level = slog.LevelWarn
	}

	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")).
		WithHTTPResponse(statusCode, durationMs, statusCode < 400).
		WithClientIP(clientIP)

	sl.logger.Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
}

// LogMutation logs a successful store mutation.
func (sl *StructuredLogger) LogMutation(ctx context.Context, op, kind, id, owner string, amountCents int64) {
	fields := NewFields().
		WithEntity(kind, id, owner).
		WithAmount(amountCents).
		WithOperation(op)

	sl.logger.InfoContext(ctx, "Record "+op+"d", fields.ToSlice()...)
}

// LogError logs err with the operation it interrupted. failedIn names the
// component where the failure happened when it differs from the logger's.
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, failedIn string, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	fields = fields.WithError(err).WithOperation(operation)
	if failedIn != "" && failedIn != sl.logger.Component() {
		fields["failed_in"] = failedIn
	}

	sl.logger.ErrorContext(ctx, msg, fields.ToSlice()...)
}
