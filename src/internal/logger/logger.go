package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log entry.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var rank = map[Level]int{LevelDebug: 0, LevelInfo: 1, LevelWarn: 2, LevelError: 3}

// ParseLevel maps a level name to a Level, defaulting to INFO.
func ParseLevel(s string) Level {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := rank[l]; ok {
		return l
	}
	return LevelInfo
}

// Entry is one structured log line.
type Entry struct {
	Timestamp string         `json:"timestamp"`
	Level     Level          `json:"level"`
	Message   string         `json:"message"`
	Service   string         `json:"service"`
	RequestID string         `json:"request_id,omitempty"`
	Duration  *int64         `json:"duration_ms,omitempty"`
	Error     *ErrorDetails  `json:"error,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// ErrorDetails describes the error attached to an entry.
type ErrorDetails struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Logger writes JSON lines. Derived loggers share the writer and its lock.
type Logger struct {
	service   string
	requestID string
	min       Level
	out       *syncWriter
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// New creates a logger for service writing to stdout. The minimum level is
// read from LOG_LEVEL.
func New(service string) *Logger {
	return NewWithWriter(service, os.Stdout, ParseLevel(os.Getenv("LOG_LEVEL")))
}

// NewWithWriter creates a logger writing to w at or above min.
func NewWithWriter(service string, w io.Writer, min Level) *Logger {
	return &Logger{service: service, min: min, out: &syncWriter{w: w}}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWithWriter("", io.Discard, LevelError)
}

// WithRequestID returns a copy of l that tags entries with id.
func (l *Logger) WithRequestID(id string) *Logger {
	n := *l
	n.requestID = id
	return &n
}

// WithLevel returns a copy of l with a different minimum level.
func (l *Logger) WithLevel(min Level) *Logger {
	n := *l
	n.min = min
	return &n
}

func (l *Logger) Debug(msg string, fields ...map[string]any) {
	l.log(LevelDebug, msg, nil, nil, fields...)
}

func (l *Logger) Info(msg string, fields ...map[string]any) {
	l.log(LevelInfo, msg, nil, nil, fields...)
}

// InfoWithDuration logs msg with the elapsed time in milliseconds.
func (l *Logger) InfoWithDuration(msg string, d time.Duration, fields ...map[string]any) {
	ms := d.Milliseconds()
	l.log(LevelInfo, msg, &ms, nil, fields...)
}

func (l *Logger) Warn(msg string, fields ...map[string]any) {
	l.log(LevelWarn, msg, nil, nil, fields...)
}

func (l *Logger) Error(msg string, err error, fields ...map[string]any) {
	var details *ErrorDetails
	if err != nil {
		details = &ErrorDetails{Type: fmt.Sprintf("%T", err), Message: err.Error()}
	}
	l.log(LevelError, msg, nil, details, fields...)
}

func (l *Logger) log(level Level, msg string, duration *int64, details *ErrorDetails, fields ...map[string]any) {
	if l == nil || rank[level] < rank[l.min] {
		return
	}
	e := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Message:   msg,
		Service:   l.service,
		RequestID: l.requestID,
		Duration:  duration,
		Error:     details,
	}
	if len(fields) > 0 && fields[0] != nil {
		e.Fields = fields[0]
	}
	b, err := json.Marshal(e)
	if err != nil {
		log.Printf("[%s] %s: %s (json marshal error: %v)", level, l.service, msg, err)
		return
	}
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	_, _ = l.out.w.Write(append(b, '\n'))
}
