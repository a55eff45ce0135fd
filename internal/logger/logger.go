package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

type implLogger struct {
	logger zerolog.Logger
}

// New creates a new Logger instance writing to stdout. format "text" selects
// the human readable console writer, anything else emits JSON lines.
func New(level, format string) Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level, format string) Logger {
	if strings.EqualFold(format, "text") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return &implLogger{
		logger: zerolog.New(w).
			Level(parseLevel(level)).
			With().
			Timestamp().
			Logger(),
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &implLogger{logger: zerolog.Nop()}
}

// WithRequestID returns a context whose log lines carry the request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestIDFromContext returns the request id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *implLogger) event(ctx context.Context, e *zerolog.Event, msg string, args []interface{}) {
	if rid := RequestIDFromContext(ctx); rid != "" {
		e = e.Str("request_id", rid)
	}
	e.Msgf(msg, args...)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.event(ctx, l.logger.Debug(), msg, args)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.event(ctx, l.logger.Info(), msg, args)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.event(ctx, l.logger.Warn(), msg, args)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.event(ctx, l.logger.Error(), msg, args)
}
