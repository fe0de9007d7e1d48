// Package logger holds the process-wide structured logger. It is a no-op
// until Initialize is called, so library code can log unconditionally.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field names shared by every log line.
const (
	FieldRunID      = "run_id"
	FieldUnit       = "unit"
	FieldPath       = "path"
	FieldStage      = "stage"
	FieldDecls      = "decls"
	FieldWarnings   = "warnings"
	FieldCached     = "cached"
	FieldDurationMS = "duration_ms"
	FieldError      = "error"
)

var (
	// Global logger instance
	Logger *zap.SugaredLogger
	// JSONOutput is set by Initialize.
	JSONOutput bool
)

func init() {
	Logger = zap.NewNop().Sugar()
}

// Config selects the encoder and level.
type Config struct {
	JSON    bool
	Verbose bool
	// Output defaults to stderr; headers may be going to stdout.
	Output io.Writer
}

// Initialize replaces the global logger.
func Initialize(cfg Config) error {
	Logger = New(cfg).Sugar()
	JSONOutput = cfg.JSON
	return nil
}

// New builds a logger without touching the global one.
func New(cfg Config) *zap.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	level := zap.InfoLevel
	if cfg.Verbose {
		level = zap.DebugLevel
	}

	var enc zapcore.Encoder
	if cfg.JSON {
		ec := zap.NewProductionEncoderConfig()
		ec.TimeKey = "ts"
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(ec)
	} else {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.TimeKey = ""
		ec.CallerKey = ""
		ec.EncodeLevel = zapcore.LowercaseLevelEncoder
		enc = zapcore.NewConsoleEncoder(ec)
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(out), level))
}

// With returns a child logger carrying fields.
func With(keysAndValues ...interface{}) *zap.SugaredLogger {
	return Logger.With(keysAndValues...)
}

// Cleanup flushes any buffered log entries
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Infow logs an info message with structured fields
func Infow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Infow(msg, keysAndValues...)
	}
}

// Warnw logs a warning message with structured fields
func Warnw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Warnw(msg, keysAndValues...)
	}
}

// Errorw logs an error message with structured fields
func Errorw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Errorw(msg, keysAndValues...)
	}
}

// Debugw logs a debug message with structured fields
func Debugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Debugw(msg, keysAndValues...)
	}
}
