package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Logger writes component-tagged lines; Debug and Info only when verbose.
type Logger struct {
	component string
	verbose   func() bool
	writer    io.Writer
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// New creates a logger writing to stderr.
func New(component string, verbose bool) *Logger {
	return NewWithCallback(component, func() bool { return verbose })
}

// NewWithCallback creates a logger whose verbosity is read on every call.
func NewWithCallback(component string, verboseCheck func() bool) *Logger {
	return &Logger{
		component: component,
		verbose:   verboseCheck,
		writer:    os.Stderr,
	}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *Logger {
	return &Logger{component: "discard", writer: io.Discard}
}

// WithComponent creates a logger with a specific component name
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		component: component,
		verbose:   l.verbose,
		writer:    l.writer,
	}
}

// WithWriter redirects output, e.g. away from the terminal while a TUI owns it.
func (l *Logger) WithWriter(w io.Writer) *Logger {
	return &Logger{
		component: l.component,
		verbose:   l.verbose,
		writer:    w,
	}
}

func (l *Logger) isVerbose() bool {
	return l.verbose != nil && l.verbose()
}

// Debug logs debug messages (only when verbose=true)
func (l *Logger) Debug(msg string, fields ...Field) {
	if l.isVerbose() {
		l.log("DEBUG", msg, fields)
	}
}

// Info logs informational messages (only when verbose=true)
func (l *Logger) Info(msg string, fields ...Field) {
	if l.isVerbose() {
		l.log("INFO", msg, fields)
	}
}

// Warn logs warning messages (always shown)
func (l *Logger) Warn(msg string, fields ...Field) {
	l.log("WARN", msg, fields)
}

// Error logs error messages (always shown)
func (l *Logger) Error(msg string, fields ...Field) {
	l.log("ERROR", msg, fields)
}

func (l *Logger) log(level, msg string, fields []Field) {
	timestamp := time.Now().Format("15:04:05.000")
	component := l.component
	if component == "" {
		component = "main"
	}

	fieldStrings := make([]string, 0, len(fields))
	for _, field := range fields {
		fieldStrings = append(fieldStrings, fmt.Sprintf("%s=%v", field.Key, field.Value))
	}
	var fieldsStr string
	if len(fieldStrings) > 0 {
		fieldsStr = fmt.Sprintf(" [%s]", strings.Join(fieldStrings, " "))
	}

	line := fmt.Sprintf("[%s] %s [%s] %s%s\n", timestamp, level, component, msg, fieldsStr)
	// nothing useful to do if the log sink itself fails
	_, _ = io.WriteString(l.writer, line)
}

// F builds a field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

func Count(value int) Field {
	return Field{Key: "count", Value: value}
}

func Duration(d time.Duration) Field {
	return Field{Key: "duration", Value: d}
}

func Error(err error) Field {
	return Field{Key: "error", Value: err}
}
