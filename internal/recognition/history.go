package recognition

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultHistorySize is the recent-activity cap; the oldest entry is evicted
// once the ring is full.
const DefaultHistorySize = 10

// History is a bounded, concurrency-safe ring of recent recognition entries.
type History struct {
	mu      sync.RWMutex
	entries []Entry
	cap     int
}

// NewHistory creates a history ring with the given capacity. A non-positive
// capacity falls back to DefaultHistorySize.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{cap: capacity}
}

// Add appends a normalized result and returns the stored entry. When the
// ring is full the oldest entry is evicted.
func (h *History) Add(r Result, source string) Entry {
	entry := Entry{
		ID:     uuid.NewString(),
		Result: r,
		Source: source,
		At:     time.Now().UTC(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, entry)
	if len(h.entries) > h.cap {
		h.entries = h.entries[len(h.entries)-h.cap:]
	}
	return entry
}

// Recent returns entries newest-first.
func (h *History) Recent() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Entry, len(h.entries))
	for i, e := range h.entries {
		out[len(h.entries)-1-i] = e
	}
	return out
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
