
package logger

import (
	"io"
	"log"
	"os"
	"strings"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config value onto a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInfo
}

type Logger struct {
	l     *log.Logger
	level Level
}

func New() *Logger { return NewWithWriter(os.Stderr, LevelInfo) }

func NewWithWriter(w io.Writer, level Level) *Logger {
	return &Logger{l: log.New(w, "", log.LstdFlags), level: level}
}

// Discard returns a logger that drops everything.
func Discard() *Logger { return NewWithWriter(io.Discard, LevelError+1) }

func (l *Logger) logf(level Level, tag, format string, args ...any) {
	if l == nil || level < l.level {
		return
	}
	l.l.Printf("["+tag+"] "+format, args...)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.logf(LevelDebug, "DEBUG", format, args...)
}
func (l *Logger) Infof(format string, args ...any) {
	l.logf(LevelInfo, "INFO", format, args...)
}
func (l *Logger) Warnf(format string, args ...any) {
	l.logf(LevelWarn, "WARN", format, args...)
}
func (l *Logger) Errorf(format string, args ...any) {
	l.logf(LevelError, "ERROR", format, args...)
}
