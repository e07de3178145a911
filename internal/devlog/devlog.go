// Package devlog is a diagnostic sink the engine writes prompts, raw model
// responses, and errors into. Presentation is up to the caller.
package devlog

import (
	"fmt"
	"sync"
)

// Entry is one recorded key/value pair, in insertion order.
type Entry struct {
	Key   string
	Value string
}

// Log is an append-ordered key→text sink. Safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []Entry
}

// New returns an empty log.
func New() *Log {
	return &Log{}
}

// Set records a value under key. A nil log is a no-op, so callers can pass
// nil when diagnostics are off.
func (l *Log) Set(key, value string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Key: key, Value: value})
}

// Setf records a formatted value under key.
func (l *Log) Setf(key, format string, args ...interface{}) {
	l.Set(key, fmt.Sprintf(format, args...))
}

// Entries returns a copy of all recorded entries in insertion order.
func (l *Log) Entries() []Entry {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Get returns the last value recorded under key.
func (l *Log) Get(key string) (string, bool) {
	if l == nil {
		return "", false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].Key == key {
			return l.entries[i].Value, true
		}
	}
	return "", false
}
