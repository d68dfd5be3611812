// Package logger provides the application's structured logging setup.
package logger

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// contextKey is the type for context keys used by the logger
type contextKey string

const loggerKey contextKey = "logger"

// New creates a new structured JSON logger writing to stdout.
func New() zerolog.Logger {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter creates a new structured logger with a custom writer.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// WithContext adds the logger to the context.
func WithContext(ctx context.Context, log zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext retrieves the logger from the context or returns a default logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if log, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return log
	}
	return New()
}

// WithFields adds structured fields to a logger.
func WithFields(log zerolog.Logger, fields map[string]interface{}) zerolog.Logger {
	lc := log.With()
	for k, v := range fields {
		lc = lc.Interface(k, v)
	}
	return lc.Logger()
}
