// Package notify carries transient, user-facing notifications.
//
// Action-level failures in the state layer are deliberately routed here
// instead of into the controller's error field: a failed row action should
// produce a short-lived notice, not blank out an already-rendered list.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level classifies a notification.
type Level string

// Notification levels.
const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is one transient message shown to the user.
type Notification struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Notifier receives transient notifications. Implementations must be safe
// for concurrent use.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

// Nop discards all notifications.
type Nop struct{}

func (Nop) Success(string) {}
func (Nop) Error(string)   {}
func (Nop) Info(string)    {}

// Memory keeps the most recent notifications in a bounded ring. UIs drain it
// for display; tests assert on it.
type Memory struct {
	mu      sync.Mutex
	max     int
	entries []Notification
}

// NewMemory creates a Memory notifier retaining up to max entries.
// max <= 0 defaults to 100.
func NewMemory(max int) *Memory {
	if max <= 0 {
		max = 100
	}
	return &Memory{max: max}
}

func (m *Memory) Success(message string) { m.add(LevelSuccess, message) }
func (m *Memory) Error(message string)   { m.add(LevelError, message) }
func (m *Memory) Info(message string)    { m.add(LevelInfo, message) }

func (m *Memory) add(level Level, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Notification{
		ID:      uuid.NewString(),
		Level:   level,
		Message: message,
		Time:    time.Now(),
	})
	if len(m.entries) > m.max {
		m.entries = m.entries[len(m.entries)-m.max:]
	}
}

// Snapshot returns a copy of the retained notifications, oldest first.
func (m *Memory) Snapshot() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Notification, len(m.entries))
	copy(out, m.entries)
	return out
}

// Clear drops all retained notifications.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
}

// Log writes notifications to a slog.Logger, for headless runs.
type Log struct {
	Logger *slog.Logger
}

// NewLog creates a Log notifier. A nil logger uses slog.Default.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{Logger: logger}
}

func (l *Log) Success(message string) { l.Logger.Info(message, "level", LevelSuccess) }
func (l *Log) Error(message string)   { l.Logger.Error(message, "level", LevelError) }
func (l *Log) Info(message string)    { l.Logger.Info(message, "level", LevelInfo) }

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Success(message string) {
	for _, n := range m {
		n.Success(message)
	}
}

func (m Multi) Error(message string) {
	for _, n := range m {
		n.Error(message)
	}
}

func (m Multi) Info(message string) {
	for _, n := range m {
		n.Info(message)
	}
}
