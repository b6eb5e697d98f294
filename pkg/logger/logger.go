// Package logger provides a logging utility based on log/slog
//
// DEBUG logging is off by default. The MCP server enables it through
// Setup when DIVIDER_DEBUG is set:
//
//	export DIVIDER_DEBUG=1
package logger

import (
	"io"
	"log/slog"
	"os"
)

var (
	// Logger is the global logger instance
	Logger *slog.Logger
)

func init() {
	Setup(os.Stderr, false)
}

// Setup replaces the global logger with a text handler writing to w
func Setup(w io.Writer, debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	Logger = slog.New(handler)

	// Replace the default slog logger too
	slog.SetDefault(Logger)
}

// Debug logs a debug message if debug logging is enabled
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}
