package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Level is the minimum severity a logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Field is a single structured logging field.
type Field struct {
	Key   string
	Value interface{}
}

// Logger is a leveled structured logger backed by logrus.
type Logger struct {
	l *logrus.Logger
}

// New creates a logger writing JSON to stderr at the given level.
func New(level Level) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.JSONFormatter{})
	switch level {
	case LevelDebug:
		l.SetLevel(logrus.DebugLevel)
	case LevelWarn:
		l.SetLevel(logrus.WarnLevel)
	case LevelError:
		l.SetLevel(logrus.ErrorLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
	return &Logger{l: l}
}

// ParseLevel maps a level name to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// WithField attaches a single field to a log call.
func WithField(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// WithFields attaches multiple fields to a log call.
func WithFields(fields map[string]interface{}) []Field {
	out := make([]Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, Field{Key: k, Value: v})
	}
	return out
}

func (lg *Logger) entry(fields []interface{}) *logrus.Entry {
	entry := logrus.NewEntry(lg.l)
	for _, f := range fields {
		switch v := f.(type) {
		case Field:
			entry = entry.WithField(v.Key, v.Value)
		case []Field:
			for _, fld := range v {
				entry = entry.WithField(fld.Key, fld.Value)
			}
		}
	}
	return entry
}

func (lg *Logger) Debug(msg string, fields ...interface{}) {
	lg.entry(fields).Debug(msg)
}

func (lg *Logger) Info(msg string, fields ...interface{}) {
	lg.entry(fields).Info(msg)
}

func (lg *Logger) Warn(msg string, fields ...interface{}) {
	lg.entry(fields).Warn(msg)
}

func (lg *Logger) Error(msg string, fields ...interface{}) {
	lg.entry(fields).Error(msg)
}
