// Package logger wraps slog with a process-wide default configured from the
// gateway's config file, plus helpers for tracing backend calls.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Initialize builds the shared logger from the configured level and output
// format ("json" or "text") and installs it as slog's default. Unknown
// levels fall back to info.
func Initialize(level, format string) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// Get hands back the shared logger, configuring a text logger at info level
// on first use if Initialize was never called.
func Get() *slog.Logger {
	if defaultLogger == nil {
		Initialize("info", "text")
	}
	return defaultLogger
}

// Debug emits at debug level through the shared logger.
func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

// Info emits at info level through the shared logger.
func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

// Warn emits at warn level through the shared logger.
func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

// Error emits at error level through the shared logger.
func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

// WithComponent returns a logger with a component name attached
func WithComponent(name string) *slog.Logger {
	return Get().With("component", name)
}

// BackendCall logs an outbound call to the EquiShare backend
func BackendCall(method, path string, args ...any) {
	allArgs := append([]any{"method", method, "path", path}, args...)
	Get().Debug("→ Backend call", allArgs...)
}

// BackendResult logs the outcome of a backend call
func BackendResult(method, path string, status int, err error, args ...any) {
	allArgs := append([]any{"method", method, "path", path, "status", status}, args...)
	if err != nil {
		allArgs = append(allArgs, "error", err)
		Get().Debug("← Backend call failed", allArgs...)
	} else {
		Get().Debug("← Backend call succeeded", allArgs...)
	}
}
