// Package logger wraps zerolog with the service's conventions: a component
// field per subsystem and request, correlation and trace IDs taken from the
// context.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

const FormatJSON = "json"

type (
	Logger struct {
		zerolog.Logger
	}

	ctxKey int
)

const (
	requestIDKey ctxKey = iota
	correlationIDKey
)

// New logs to stdout. Any format other than "json" is human readable.
func New(level, format string) Logger {
	return NewWithWriter(level, format, os.Stdout)
}

func NewWithWriter(level, format string, w io.Writer) Logger {
	if !strings.EqualFold(format, FormatJSON) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return Logger{Logger: zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()}
}

// ParseLevel accepts zerolog level names in any case plus "warning". Anything
// else is info.
func ParseLevel(level string) zerolog.Level {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = zerolog.LevelWarnValue
	}

	parsed, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return zerolog.InfoLevel
	}

	return parsed
}

// Discard drops every event.
func Discard() Logger {
	return Logger{Logger: zerolog.Nop()}
}

// Capture writes bare JSON events to w, without timestamps.
func Capture(w io.Writer) Logger {
	return Logger{Logger: zerolog.New(w)}
}

func (l Logger) Component(name string) Logger {
	return Logger{Logger: l.With().Str("component", name).Logger()}
}

// WithContext adds whichever of the request, correlation and trace IDs ctx
// carries.
func (l Logger) WithContext(ctx context.Context) zerolog.Logger {
	fields := l.With()

	if id := stringValue(ctx, correlationIDKey); id != "" {
		fields = fields.Str("correlation_id", id)
	}

	if id := stringValue(ctx, requestIDKey); id != "" {
		fields = fields.Str("request_id", id)
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = fields.Str("trace_id", sc.TraceID().String()).Str("span_id", sc.SpanID().String())
	}

	return fields.Logger()
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

func stringValue(ctx context.Context, key ctxKey) string {
	value, _ := ctx.Value(key).(string)

	return value
}
