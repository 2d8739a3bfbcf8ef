// Package logging wraps zap with concierge-specific field helpers.
package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with concierge-specific context fields.
type Logger struct {
	*zap.Logger
	service string
}

// Config configures a new Logger.
type Config struct {
	Level       string
	Service     string
	Environment string
	Format      string // json or console
}

type ctxKey string

// TraceIDKey is the context key carrying the per-request trace ID.
const TraceIDKey ctxKey = "trace_id"

// New builds a Logger for the given service name.
func New(cfg Config) *Logger {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Environment == "" {
		cfg.Environment = envOr("CONCIERGE_ENV", "development")
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
	base := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).With(
		zap.String("service", cfg.Service),
		zap.String("environment", cfg.Environment),
	)

	return &Logger{Logger: base, service: cfg.Service}
}

func (l *Logger) with(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...), service: l.service}
}

// WithTraceID attaches a trace ID to subsequent log lines.
func (l *Logger) WithTraceID(traceID string) *Logger {
	return l.with(zap.String("trace_id", traceID))
}

// WithContext extracts a trace ID from ctx, if present, and attaches it.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok && traceID != "" {
		return l.WithTraceID(traceID)
	}
	return l
}

// WithUserID attaches a user ID to subsequent log lines.
func (l *Logger) WithUserID(userID string) *Logger {
	if userID == "" {
		return l
	}
	return l.with(zap.String("user_id", userID))
}

// WithError attaches an error to subsequent log lines.
func (l *Logger) WithError(err error) *Logger {
	return l.with(zap.Error(err))
}

// ExternalCall logs an upstream/external service call outcome.
func (l *Logger) ExternalCall(service, operation string, err error) {
	if err != nil {
		l.Warn("external call failed", zap.String("external_service", service), zap.String("operation", operation), zap.Error(err))
		return
	}
	l.Debug("external call succeeded", zap.String("external_service", service), zap.String("operation", operation))
}

// CacheOp logs a cache read/write outcome.
func (l *Logger) CacheOp(operation, key string, hit bool) {
	l.Debug("cache operation", zap.String("operation", operation), zap.String("key", key), zap.Bool("hit", hit))
}

// BusinessEvent logs a domain event (deal ingested, watch fired, bundle generated).
func (l *Logger) BusinessEvent(eventType, eventID string, fields ...zap.Field) {
	all := append([]zap.Field{zap.String("event_type", eventType), zap.String("event_id", eventID)}, fields...)
	l.Info("business event", all...)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var global *Logger

// InitGlobal sets the package-level logger used only by shared library code
// that cannot receive a Logger through its constructor.
func InitGlobal(l *Logger) {
	global = l
}

// Global returns the package-level logger, creating a development default
// if InitGlobal was never called.
func Global() *Logger {
	if global == nil {
		global = New(Config{Service: "concierge"})
	}
	return global
}
