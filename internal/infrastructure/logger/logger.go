// Package logger provides structured logging using zerolog.
// It supports JSON and console output formats with configurable log levels,
// plus the field helpers every layer uses to scope its loggers.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Field names shared by every scoped logger.
const (
	FieldService   = "service"
	FieldRequestID = "request_id"
	FieldSessionID = "session_id"
	FieldPage      = "page"
	FieldRegion    = "region"
	FieldSource    = "source"
	FieldComponent = "component"
)

// Config holds the logger configuration options.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string

	// Format is the output format (json, console)
	Format string

	// EnableCaller adds caller information to log entries
	EnableCaller bool

	ServiceName string
}

// DefaultConfig returns the configuration used when the global logger is
// touched before Init.
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "travel-listings",
	}
}

// Logger wraps zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// New creates a Logger writing to stdout.
func New(cfg Config) *Logger {
	return NewWithOutput(cfg, os.Stdout)
}

// NewWithOutput creates a Logger with a custom output writer.
func NewWithOutput(cfg Config, output io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	writer := output
	if cfg.Format == "console" {
		writer = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str(FieldService, cfg.ServiceName)
	if cfg.EnableCaller {
		ctx = ctx.Caller()
	}

	return &Logger{Logger: ctx.Logger()}
}

// Nop returns a disabled logger.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// ForRequest scopes log to one HTTP request.
func ForRequest(log zerolog.Logger, requestID string) zerolog.Logger {
	return log.With().Str(FieldRequestID, requestID).Logger()
}

// ForSession scopes log to a page session of the given kind.
func ForSession(log zerolog.Logger, sessionID, page string) zerolog.Logger {
	return log.With().Str(FieldSessionID, sessionID).Str(FieldPage, page).Logger()
}

// ForRegion scopes a session logger to one of its regions.
func ForRegion(log zerolog.Logger, region string) zerolog.Logger {
	return log.With().Str(FieldRegion, region).Logger()
}

// ForSource scopes log to a data source.
func ForSource(log zerolog.Logger, source string) zerolog.Logger {
	return log.With().Str(FieldSource, source).Logger()
}

// ForComponent scopes log to a named infrastructure component.
func ForComponent(log zerolog.Logger, component string) zerolog.Logger {
	return log.With().Str(FieldComponent, component).Logger()
}

// Global is the process logger, set by Init at startup.
var Global *Logger

// Init initializes the global logger with the given configuration.
func Init(cfg Config) {
	Global = New(cfg)
}

// SetGlobal replaces the global logger.
func SetGlobal(l *Logger) {
	Global = l
}

func global() *Logger {
	if Global == nil {
		Init(DefaultConfig())
	}
	return Global
}

// Info returns an info level event from the global logger.
func Info() *zerolog.Event { return global().Info() }

// Warn returns a warn level event from the global logger.
func Warn() *zerolog.Event { return global().Warn() }

// Error returns an error level event from the global logger.
func Error() *zerolog.Event { return global().Error() }

// Debug returns a debug level event from the global logger.
func Debug() *zerolog.Event { return global().Debug() }

// Fatal returns a fatal level event from the global logger.
func Fatal() *zerolog.Event { return global().Fatal() }
