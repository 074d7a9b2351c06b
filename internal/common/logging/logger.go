// Package logging provides structured logging using zap
package logging

import (
	"context"
	"fmt"
	"os"
)

// NewLogger creates a logger from the given config
func NewLogger(config LogConfig) (Logger, error) {
	return NewZapLogger(config)
}

// NewDefaultLogger creates a logger with default settings
func NewDefaultLogger() Logger {
	logger, err := NewZapLogger(DefaultLogConfig())
	if err != nil {
		panic(fmt.Sprintf("failed to create default logger: %v", err))
	}
	return logger
}

// DefaultLogConfig returns a sensible default logging configuration
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  InfoLevel,
		Output: os.Stdout,
	}
}

// InitGlobalLogger initializes the global logger from environment variables.
// LOG_LEVEL controls verbosity and defaults to INFO. LOG_FILE, when set,
// redirects output to the named file; otherwise logs go to stdout.
func InitGlobalLogger() {
	level := ParseLevel(os.Getenv("LOG_LEVEL"))

	config := LogConfig{
		Level:  level,
		Output: os.Stdout,
	}

	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			panic(fmt.Sprintf("failed to open log file %s: %v", logFile, err))
		}
		config.Output = file
	}

	logger, err := NewZapLogger(config)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize global logger: %v", err))
	}

	SetGlobalLogger(logger)
}

// MustSync flushes any buffered log entries on the global logger
func MustSync() {
	if adapter, ok := GetGlobalLogger().(*ZapAdapter); ok {
		_ = adapter.Sync()
	}
}

// WithContext returns the global logger enriched with context values
func WithContext(ctx context.Context) Logger {
	return GetGlobalLogger().WithContext(ctx)
}

// WithFields returns the global logger enriched with the given fields
func WithFields(fields ...Field) Logger {
	return GetGlobalLogger().WithFields(fields...)
}

// Err creates an error field
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// NamedError creates a named error field
func NamedError(key string, err error) Field {
	return Field{Key: key, Value: err}
}
