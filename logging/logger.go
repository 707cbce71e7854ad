// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. It also offers a richer ChatVaultLogger with contextual
// helpers (component, session, request) and domain specific logging helpers
// for blob operations and model calls.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string (debug/info/warn/error) to a LogLevel,
// defaulting to info.
func ParseLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger defines the minimal logging interface for ChatVault. This allows
// callers to provide their own implementation or use the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// ChatVaultLogger wraps slog.Logger adding contextual cloning helpers and
// domain convenience methods. It is cheap to copy via With* methods.
type ChatVaultLogger struct {
	logger    *slog.Logger
	level     LogLevel
	context   map[string]any
	component string
	sessionID string
	requestID string
}

// LoggerConfig configures construction of a ChatVaultLogger.
type LoggerConfig struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	Component string
}

// DefaultLoggerConfig returns a baseline JSON info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stdout}
}

// NewLogger builds a ChatVaultLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *ChatVaultLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	return &ChatVaultLogger{
		logger:    slog.New(handler),
		level:     cfg.Level,
		context:   map[string]any{},
		component: cfg.Component,
	}
}

// NewSlogLogger creates a ChatVaultLogger with the given level and format
// ("json" or "text") writing to stdout.
func NewSlogLogger(level LogLevel, format string) *ChatVaultLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	return NewLogger(cfg)
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *ChatVaultLogger) clone() *ChatVaultLogger {
	nl := *l
	nl.context = make(map[string]any, len(l.context))
	for k, v := range l.context {
		nl.context[k] = v
	}
	return &nl
}

// WithContext adds a key/value attribute attached to every log entry.
func (l *ChatVaultLogger) WithContext(key string, value any) *ChatVaultLogger {
	nl := l.clone()
	nl.context[key] = value
	return nl
}

// WithComponent sets the logical component (registry, server, agent, etc.).
func (l *ChatVaultLogger) WithComponent(c string) *ChatVaultLogger {
	nl := l.clone()
	nl.component = c
	return nl
}

// WithSession attaches the session identifier.
func (l *ChatVaultLogger) WithSession(sessionID string) *ChatVaultLogger {
	nl := l.clone()
	nl.sessionID = sessionID
	return nl
}

// WithRequest attaches the HTTP request correlation id.
func (l *ChatVaultLogger) WithRequest(requestID string) *ChatVaultLogger {
	nl := l.clone()
	nl.requestID = requestID
	return nl
}

func (l *ChatVaultLogger) buildAttrs(extra ...any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(l.context)+len(extra)/2+3)
	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	if l.sessionID != "" {
		attrs = append(attrs, slog.String("session_id", l.sessionID))
	}
	if l.requestID != "" {
		attrs = append(attrs, slog.String("request_id", l.requestID))
	}
	for k, v := range l.context {
		attrs = append(attrs, slog.Any(k, v))
	}
	for i := 0; i+1 < len(extra); i += 2 {
		key, ok := extra[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", extra[i])
		}
		attrs = append(attrs, slog.Any(key, extra[i+1]))
	}
	return attrs
}

func (l *ChatVaultLogger) log(level slog.Level, allowed bool, msg string, args ...any) {
	if !allowed {
		return
	}
	l.logger.LogAttrs(context.Background(), level, msg, l.buildAttrs(args...)...)
}

// Debug logs at debug level with optional key/value pairs.
func (l *ChatVaultLogger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, l.level <= LogLevelDebug, msg, args...)
}

// Info logs at info level with optional key/value pairs.
func (l *ChatVaultLogger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, l.level <= LogLevelInfo, msg, args...)
}

// Warn logs at warn level with optional key/value pairs.
func (l *ChatVaultLogger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, l.level <= LogLevelWarn, msg, args...)
}

// Error logs at error level with optional key/value pairs.
func (l *ChatVaultLogger) Error(msg string, args ...any) {
	l.log(slog.LevelError, l.level <= LogLevelError, msg, args...)
}

// LogBlobOperation records a storage operation with latency and outcome.
func (l *ChatVaultLogger) LogBlobOperation(op, blobName string, dur time.Duration, err error) {
	attrs := l.buildAttrs("operation", op, "blob_name", blobName, "duration", dur)
	level := slog.LevelInfo
	msg := "blob operation completed"
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		level = slog.LevelError
		msg = "blob operation failed"
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// LogModelCall records model call latency, token usage and outcome.
func (l *ChatVaultLogger) LogModelCall(model string, tokens int, dur time.Duration, err error) {
	attrs := l.buildAttrs("model", model, "token_count", tokens, "duration", dur)
	level := slog.LevelInfo
	msg := "model call completed"
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		level = slog.LevelError
		msg = "model call failed"
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// NoOpLogger discards all log messages. Useful for tests or when logging is
// disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}
