package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Logger writes one line per event, prefixed with a fixed-width severity tag.
type Logger struct {
	mu    sync.Mutex
	level string
	out   io.Writer
}

func New(level string) *Logger {
	return NewWithWriter(level, os.Stdout)
}

func NewWithWriter(level string, out io.Writer) *Logger {
	return &Logger{
		level: strings.ToLower(level),
		out:   out,
	}
}

func (l *Logger) Notice(msg string, args ...interface{}) {
	l.write("[NOTICE ] ", msg, args...)
}

func (l *Logger) Success(msg string, args ...interface{}) {
	l.write("[SUCCESS] ", msg, args...)
}

func (l *Logger) Warning(msg string, args ...interface{}) {
	l.write("[WARNING] ", msg, args...)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.write("[ ERROR ] ", msg, args...)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	if l.level == "debug" || l.level == "info" {
		l.Notice(msg, args...)
	}
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.level == "debug" {
		l.write("[DEBUG  ] ", msg, args...)
	}
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.Error(msg, args...)
	os.Exit(1)
}

// Printf writes msg without a severity tag.
func (l *Logger) Printf(msg string, args ...interface{}) {
	l.write("", msg, args...)
}

func (l *Logger) write(prefix, msg string, args ...interface{}) {
	line := prefix + fmt.Sprintf(msg, args...)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.out, line)
}
