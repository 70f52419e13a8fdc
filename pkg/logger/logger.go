// Package logger provides a structured JSON logger for the application.
// It outputs machine-readable logs suitable for aggregation systems.
package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents the logging level.
type Level int

// Logging levels in increasing order of severity.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
}

// ParseLevel parses a level name into a Level. Unknown names map to Info.
func ParseLevel(name string) Level {
	switch name {
	case "DEBUG", "debug":
		return LevelDebug
	case "INFO", "info":
		return LevelInfo
	case "WARN", "warn", "WARNING", "warning":
		return LevelWarn
	case "ERROR", "error":
		return LevelError
	case "FATAL", "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// Field represents a structured log field.
type Field struct {
	Key   string
	Value interface{}
}

// Logger is a structured JSON logger.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	minLevel Level
	fields   []Field
}

// New creates a new logger writing to out with the given minimum level.
func New(out io.Writer, minLevel Level) *Logger {
	return &Logger{
		out:      out,
		minLevel: minLevel,
	}
}

// Default creates a logger writing to stdout at Info level.
func Default() *Logger {
	return New(os.Stdout, LevelInfo)
}

// With returns a new logger with the given fields attached to every entry.
func (l *Logger) With(fields ...Field) *Logger {
	combined := make([]Field, 0, len(l.fields)+len(fields))
	combined = append(combined, l.fields...)
	combined = append(combined, fields...)
	return &Logger{
		out:      l.out,
		minLevel: l.minLevel,
		fields:   combined,
	}
}

func (l *Logger) log(level Level, msg string, fields ...Field) {
	if level < l.minLevel {
		return
	}

	entry := make(map[string]interface{}, len(l.fields)+len(fields)+3)
	entry["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = levelNames[level]
	entry["msg"] = msg

	for _, f := range l.fields {
		entry[f.Key] = normalize(f.Value)
	}
	for _, f := range fields {
		entry[f.Key] = normalize(f.Value)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"level":"ERROR","msg":"logger: failed to marshal entry: %v"}`, err))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Write(append(data, '\n'))

	if level == LevelFatal {
		os.Exit(1)
	}
}

// normalize converts field values into JSON-friendly representations.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case error:
		return val.Error()
	case time.Duration:
		return val.String()
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return v
	}
}

// Debug logs a message at Debug level.
func (l *Logger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields...) }

// Info logs a message at Info level.
func (l *Logger) Info(msg string, fields ...Field) { l.log(LevelInfo, msg, fields...) }

// Warn logs a message at Warn level.
func (l *Logger) Warn(msg string, fields ...Field) { l.log(LevelWarn, msg, fields...) }

// Error logs a message at Error level.
func (l *Logger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields...) }

// Fatal logs a message at Fatal level and exits the process.
func (l *Logger) Fatal(msg string, fields ...Field) { l.log(LevelFatal, msg, fields...) }

// ──────────────────────────────────────────────
// Field constructors
// ──────────────────────────────────────────────

// F creates a generic field.
func F(key string, value interface{}) Field { return Field{Key: key, Value: value} }

// String creates a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Int64 creates an int64 field.
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

// Bool creates a bool field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Err creates an error field.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// ──────────────────────────────────────────────
// Context propagation
// ──────────────────────────────────────────────

type ctxKey struct{}

// IntoContext stores the logger in the context.
func IntoContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext extracts the logger from the context, falling back to Default.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return Default()
}

// ──────────────────────────────────────────────
// Domain field helpers
// ──────────────────────────────────────────────

// Nickname creates a student nickname field.
func Nickname(nickname string) Field { return String("nickname", nickname) }

// ScheduleID creates a schedule identifier field.
func ScheduleID(id string) Field { return String("schedule_id", id) }

// DayID creates a school day identifier field.
func DayID(id string) Field { return String("day_id", id) }

// Stage creates a preprocessing stage name field.
func Stage(name string) Field { return String("stage", name) }

// Component creates a component name field.
func Component(name string) Field { return String("component", name) }
