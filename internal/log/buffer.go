package log

import (
	"sync"
	"time"
)

// LogEntry represents one captured log line
type LogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// LogBuffer keeps the most recent log entries in a fixed-size ring
type LogBuffer struct {
	mu      sync.Mutex
	entries []LogEntry
	next    int
	full    bool
}

// NewLogBuffer creates a buffer holding up to capacity entries
func NewLogBuffer(capacity int) *LogBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &LogBuffer{
		entries: make([]LogEntry, capacity),
	}
}

// AddEntry appends an entry, evicting the oldest once full
func (b *LogBuffer) AddEntry(entry LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[b.next] = entry
	b.next = (b.next + 1) % len(b.entries)
	if b.next == 0 {
		b.full = true
	}
}

// GetEntries returns the buffered entries, oldest first
func (b *LogBuffer) GetEntries() []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.full {
		out := make([]LogEntry, b.next)
		copy(out, b.entries[:b.next])
		return out
	}
	out := make([]LogEntry, 0, len(b.entries))
	out = append(out, b.entries[b.next:]...)
	out = append(out, b.entries[:b.next]...)
	return out
}

var recentBuffer *LogBuffer
var recentBufferOnce sync.Once

// GetRecentEntries returns the shared buffer of recent warning and error
// entries, creating it if necessary
func GetRecentEntries() *LogBuffer {
	recentBufferOnce.Do(func() {
		recentBuffer = NewLogBuffer(1000)
	})
	return recentBuffer
}

func capture(level, msg string) {
	GetRecentEntries().AddEntry(LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   msg,
	})
}
