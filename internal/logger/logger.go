// Package logger provides the process-wide structured logger used by the content server.
// It wraps a zap SugaredLogger behind printf-style helpers so call sites stay terse.
package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop().Sugar()
)

// Option configures the logger built by Initialize
type Option func(*options)

type options struct {
	level       string
	development bool
}

// WithLevel sets the minimum level (debug, info, warn, error)
func WithLevel(level string) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithDevelopment switches to human readable console output
func WithDevelopment(dev bool) Option {
	return func(o *options) {
		o.development = dev
	}
}

// ParseLevel converts a level name into a zap level.
// Unknown or empty names map to info; the second return reports whether the name was recognised.
func ParseLevel(name string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel, true
	case "info", "":
		return zapcore.InfoLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// Initialize builds the global logger. Output goes to stderr so stdout stays clean
// for commands that print data (query, version --format json).
func Initialize(opts ...Option) error {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	level, known := ParseLevel(o.level)

	var cfg zap.Config
	if o.development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	built, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	Set(built)
	if !known {
		Warnf("Invalid log level %q, using info", o.level)
	}
	return nil
}

// Set replaces the global logger. Tests use it with zaptest/observer loggers.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l.Sugar()
}

// Get returns the current global logger
func Get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Sync flushes buffered log entries
func Sync() {
	_ = Get().Sync()
}

// Debugf logs a formatted message at debug level
func Debugf(format string, args ...any) { Get().Debugf(format, args...) }

// Info logs a message at info level
func Info(msg string) { Get().Info(msg) }

// Infof logs a formatted message at info level
func Infof(format string, args ...any) { Get().Infof(format, args...) }

// Infow logs a message with key-value pairs at info level
func Infow(msg string, keysAndValues ...any) { Get().Infow(msg, keysAndValues...) }

// Debugw logs a message with key-value pairs at debug level
func Debugw(msg string, keysAndValues ...any) { Get().Debugw(msg, keysAndValues...) }

// Warn logs a message at warn level
func Warn(msg string) { Get().Warn(msg) }

// Warnf logs a formatted message at warn level
func Warnf(format string, args ...any) { Get().Warnf(format, args...) }

// Warnw logs a message with key-value pairs at warn level
func Warnw(msg string, keysAndValues ...any) { Get().Warnw(msg, keysAndValues...) }

// Error logs a message at error level
func Error(msg string) { Get().Error(msg) }

// Errorf logs a formatted message at error level
func Errorf(format string, args ...any) { Get().Errorf(format, args...) }

// Errorw logs a message with key-value pairs at error level
func Errorw(msg string, keysAndValues ...any) { Get().Errorw(msg, keysAndValues...) }

// Fatalf logs a formatted message and exits the process
func Fatalf(format string, args ...any) { Get().Fatalf(format, args...) }
