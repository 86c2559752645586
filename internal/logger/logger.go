// Package logger provides leveled logging for dottux.
//
// The logger writes diagnostic output to stderr, separate from the
// user-facing output that goes to stdout. This allows verbose debugging
// without interfering with normal CLI output or JSON formatting. It is
// backed by zap; the package-level API hides zap from callers.
//
// # Log Levels
//
// Four log levels are supported, in order of severity:
//   - Debug: Detailed information for debugging
//   - Info: General operational information
//   - Warn: Warning conditions that don't prevent operation
//   - Error: Error conditions that affect operation
//
// # Initialization
//
//	logger.Init(verbose)      // verbose=true enables Debug level
//	logger.SetFormat("json")  // one JSON object per line, for the panel/watcher
//
// # Usage
//
//	logger.Debug("Scanning %s", dir)
//	logger.Warn("Content directory left behind for %s", domain)
//	logger.InfoFields("reload finished", map[string]interface{}{
//	    "classification": "success",
//	    "duration_ms":    42,
//	})
//
// # Output Format
//
// Console format (default):
//
//	2026-02-03 10:30:45 [INFO] reload finished {"classification": "success", "duration_ms": 42}
//
// JSON format:
//
//	{"level":"info","time":"2026-02-03T10:30:45.000Z","msg":"reload finished","classification":"success","duration_ms":42}
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents a logging severity level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Output formats accepted by SetFormat.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// ParseLevel maps a config value (debug, info, warn, error) to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelWarn, fmt.Errorf("unknown log level: %s", s)
	}
}

// Logger handles leveled logging with thread-safe output.
type Logger struct {
	mu     sync.Mutex
	level  Level
	atom   zap.AtomicLevel
	output io.Writer
	format string
	base   *zap.Logger
}

// Global logger instance.
var std = newLogger()

func newLogger() *Logger {
	l := &Logger{
		level:  LevelWarn, // Default: only warnings and errors
		atom:   zap.NewAtomicLevelAt(zapcore.WarnLevel),
		output: os.Stderr,
		format: FormatConsole,
	}
	l.rebuild()
	return l
}

// rebuild recreates the zap core. Caller holds l.mu (or owns l exclusively).
func (l *Logger) rebuild() {
	var enc zapcore.Encoder
	if l.format == FormatJSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "time"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
		cfg.EncodeLevel = func(lvl zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("[" + lvl.CapitalString() + "]")
		}
		cfg.CallerKey = ""
		cfg.NameKey = ""
		cfg.StacktraceKey = ""
		cfg.ConsoleSeparator = " "
		enc = zapcore.NewConsoleEncoder(cfg)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(l.output)), l.atom)
	l.base = zap.New(core)
}

func (l *Logger) current() *zap.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.base
}

// Init initializes the global logger with the specified verbosity.
// When verbose is true, Debug and Info levels are enabled.
// When verbose is false, only Warn and Error are shown.
func Init(verbose bool) {
	if verbose {
		SetLevel(LevelDebug)
	} else {
		SetLevel(LevelWarn)
	}
}

// SetLevel sets the minimum log level for the global logger.
func SetLevel(level Level) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = level
	std.atom.SetLevel(level.zapLevel())
}

// GetLevel returns the current log level.
func GetLevel() Level {
	std.mu.Lock()
	defer std.mu.Unlock()
	return std.level
}

// SetOutput sets the output destination for the global logger.
// A nil writer restores the default, os.Stderr.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	std.output = w
	std.rebuild()
}

// SetFormat switches between console and JSON output.
func SetFormat(format string) error {
	if format != FormatConsole && format != FormatJSON {
		return fmt.Errorf("unknown log format: %s", format)
	}
	std.mu.Lock()
	defer std.mu.Unlock()
	std.format = format
	std.rebuild()
	return nil
}

// Sync flushes buffered log entries.
func Sync() error {
	return std.current().Sync()
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	z := l.current()
	if ce := z.Check(level.zapLevel(), fmt.Sprintf(format, args...)); ce != nil {
		ce.Write()
	}
}

func (l *Logger) logFields(level Level, msg string, fields map[string]interface{}) {
	z := l.current()
	ce := z.Check(level.zapLevel(), msg)
	if ce == nil {
		return
	}

	// Sort field keys for consistent output
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	zf := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		zf = append(zf, zap.Any(k, fields[k]))
	}
	ce.Write(zf...)
}

// Debug logs a debug message.
// Only shown when verbose mode is enabled.
func Debug(format string, args ...interface{}) {
	std.log(LevelDebug, format, args...)
}

// Info logs an informational message.
// Only shown when verbose mode is enabled.
func Info(format string, args ...interface{}) {
	std.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	std.log(LevelWarn, format, args...)
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	std.log(LevelError, format, args...)
}

// DebugFields logs a debug message with structured fields.
func DebugFields(msg string, fields map[string]interface{}) {
	std.logFields(LevelDebug, msg, fields)
}

// InfoFields logs an informational message with structured fields.
func InfoFields(msg string, fields map[string]interface{}) {
	std.logFields(LevelInfo, msg, fields)
}

// WarnFields logs a warning message with structured fields.
func WarnFields(msg string, fields map[string]interface{}) {
	std.logFields(LevelWarn, msg, fields)
}

// ErrorFields logs an error message with structured fields.
func ErrorFields(msg string, fields map[string]interface{}) {
	std.logFields(LevelError, msg, fields)
}

// LogError logs an error with additional context message.
func LogError(err error, msg string) {
	if err == nil {
		return
	}
	std.log(LevelError, "%s: %v", msg, err)
}
