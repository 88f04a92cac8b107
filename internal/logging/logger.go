package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "ADMITFORM_LOG_LEVEL"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks ADMITFORM_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"}, // stdout belongs to the terminal UI
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// ParseLevel maps a level name to a zap level.
// Unknown names fall back to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// SetLogger replaces the global logger. Mostly useful in tests.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogSubmission logs the outcome of one submission attempt
func LogSubmission(endpoint string, form string, payloadBytes int, elapsed time.Duration, err error) {
	fields := []zap.Field{
		zap.String("endpoint", redactURL(endpoint)),
		zap.String("form", form),
		zap.Int("payload_bytes", payloadBytes),
		zap.Duration("elapsed", elapsed),
	}
	if err != nil {
		Warn("Submission failed", append(fields, zap.Error(err))...)
		return
	}
	Info("Submission accepted", fields...)
}

// LogAttachment logs an encoded attachment
func LogAttachment(slot, fileName, mimeType string, size int64) {
	Debug("Attachment encoded",
		zap.String("slot", slot),
		zap.String("file_name", fileName),
		zap.String("mime_type", mimeType),
		zap.Int64("bytes", size),
	)
}

// LogIntake logs a row accepted or refused by the intake endpoint
func LogIntake(remoteAddr string, row int, form string, err error) {
	fields := []zap.Field{
		zap.String("remote_addr", remoteAddr),
		zap.String("form", form),
	}
	if err != nil {
		Warn("Intake rejected", append(fields, zap.Error(err))...)
		return
	}
	Info("Intake accepted", append(fields, zap.Int("row", row))...)
}

// LogConnection logs a connection event
func LogConnection(remoteAddr string, event string) {
	Info("Connection event",
		zap.String("remote_addr", remoteAddr),
		zap.String("event", event),
	)
}

// LogHTTPRequest logs an HTTP request served by the intake endpoint
func LogHTTPRequest(remoteAddr, method, path string, status int, elapsed time.Duration) {
	Info("HTTP request",
		zap.String("remote_addr", remoteAddr),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", status),
		zap.Duration("elapsed", elapsed),
	)
}

// redactURL drops the query string, which may carry deployment keys
func redactURL(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i] + "?…"
	}
	return raw
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
