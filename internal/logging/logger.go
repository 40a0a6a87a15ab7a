// Package logging is the structured logger of the command-line tools. It
// wraps log/slog with run-id propagation through contexts and an
// environment-controlled level. The simulation packages never log.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	levelEnv  = "PHYSIM_LOG_LEVEL"
	formatEnv = "PHYSIM_LOG_FORMAT"
)

// Logger wraps slog.Logger with context-aware helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger writes to stderr so tables and exports on stdout stay clean.
// PHYSIM_LOG_LEVEL selects DEBUG, INFO, WARN or ERROR (default INFO) and
// PHYSIM_LOG_FORMAT=json switches from text to JSON lines.
func NewLogger() *Logger {
	return New(os.Stderr, getLogLevelFromEnv(), strings.EqualFold(os.Getenv(formatEnv), "json"))
}

// New returns a logger writing to w at level.
func New(w io.Writer, level slog.Level, json bool) *Logger {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return &Logger{slog.New(h)}
}

// Discard drops every record.
func Discard() *Logger {
	return New(io.Discard, slog.LevelError+1, false)
}

// LogWithContext adds the run id carried by ctx, if any.
func (l *Logger) LogWithContext(ctx context.Context, level slog.Level, msg string, args ...any) {
	if id := RunID(ctx); id != "" {
		args = append(args, "run_id", id)
	}
	l.Log(ctx, level, msg, args...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelInfo, msg, args...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelWarn, msg, args...)
}

// Error logs msg with err attached under "error".
func (l *Logger) Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.LogWithContext(ctx, slog.LevelError, msg, args...)
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelDebug, msg, args...)
}

type runIDKey struct{}

// WithRunID tags ctx so every record logged with it names the run.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

func RunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok {
		return id
	}
	return ""
}

func getLogLevelFromEnv() slog.Level {
	switch strings.ToUpper(os.Getenv(levelEnv)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
