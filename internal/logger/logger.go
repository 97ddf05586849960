// Package logger provides structured diagnostic logging backed by zerolog.
//
// User-facing messages go through the output package; this package is for
// the debug trail (phase transitions, timings, command lines) enabled with
// --verbose.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger provides structured logging with configurable levels.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	WithFields(fields ...Field) Logger
	Component(name string) Logger
}

// Field represents a structured log field.
type Field struct {
	Key   string
	Value any
}

// F is a convenience function for creating fields.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Format selects the log encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Config configures a logger.
type Config struct {
	Level  string // debug, info, warn, error, disabled
	Format Format
	Output io.Writer
}

// DefaultConfig logs warnings and above to stderr in console format.
func DefaultConfig() Config {
	return Config{Level: "warn", Format: FormatConsole, Output: os.Stderr}
}

type zeroLogger struct {
	z zerolog.Logger
}

// New creates a logger from cfg.
func New(cfg Config) (Logger, error) {
	level := zerolog.WarnLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = l
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	switch cfg.Format {
	case "", FormatConsole:
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	case FormatJSON:
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	z := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &zeroLogger{z: z}, nil
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &zeroLogger{z: zerolog.Nop()}
}

func (l *zeroLogger) Debug(msg string, fields ...Field) { l.log(l.z.Debug(), msg, fields) }
func (l *zeroLogger) Info(msg string, fields ...Field)  { l.log(l.z.Info(), msg, fields) }
func (l *zeroLogger) Warn(msg string, fields ...Field)  { l.log(l.z.Warn(), msg, fields) }
func (l *zeroLogger) Error(msg string, fields ...Field) { l.log(l.z.Error(), msg, fields) }

// WithFields returns a child logger carrying fields on every entry.
func (l *zeroLogger) WithFields(fields ...Field) Logger {
	ctx := l.z.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key, fieldValue(f.Value))
	}
	return &zeroLogger{z: ctx.Logger()}
}

// Component returns a child logger tagged with a component name.
func (l *zeroLogger) Component(name string) Logger {
	return &zeroLogger{z: l.z.With().Str("component", name).Logger()}
}

func (l *zeroLogger) log(e *zerolog.Event, msg string, fields []Field) {
	if e == nil {
		return
	}
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			e = e.Str(f.Key, v)
		case int:
			e = e.Int(f.Key, v)
		case bool:
			e = e.Bool(f.Key, v)
		case time.Duration:
			e = e.Dur(f.Key, v)
		case error:
			e = e.AnErr(f.Key, v)
		case fmt.Stringer:
			e = e.Stringer(f.Key, v)
		default:
			e = e.Interface(f.Key, v)
		}
	}
	e.Msg(msg)
}

func fieldValue(v any) any {
	switch t := v.(type) {
	case error:
		return t.Error()
	case fmt.Stringer:
		return t.String()
	}
	return v
}
