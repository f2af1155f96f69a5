// Package logfeed keeps the bounded, newest-first activity feed shown on the
// dashboard.
package logfeed

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dyike/QuantFlow/internal/models"
)

// Subscriber is called for every appended entry, after the feed lock has
// been released.
type Subscriber func(models.LogEntry)

// Feed is a fixed-capacity ring. Once full, each Add overwrites the oldest
// entry.
type Feed struct {
	mu    sync.RWMutex
	buf   []models.LogEntry
	head  int // slot of the next write
	count int

	now  func() time.Time
	subs []Subscriber
}

func New(capacity int) *Feed {
	if capacity <= 0 {
		capacity = 1
	}
	return &Feed{
		buf: make([]models.LogEntry, capacity),
		now: time.Now,
	}
}

// WithClock replaces the timestamp source. Used by tests.
func (f *Feed) WithClock(now func() time.Time) *Feed {
	f.now = now
	return f
}

func (f *Feed) Subscribe(fn Subscriber) {
	f.mu.Lock()
	f.subs = append(f.subs, fn)
	f.mu.Unlock()
}

// Add appends an entry and returns it.
func (f *Feed) Add(category models.LogCategory, message string) models.LogEntry {
	return f.AddFor("", category, message)
}

// AddFor appends an entry tied to an algorithm.
func (f *Feed) AddFor(algorithmID string, category models.LogCategory, message string) models.LogEntry {
	f.mu.Lock()
	entry := models.LogEntry{
		ID:          uuid.New().String()[:8],
		Timestamp:   f.now(),
		Category:    category,
		Message:     message,
		AlgorithmID: algorithmID,
	}
	f.buf[f.head] = entry
	f.head = (f.head + 1) % len(f.buf)
	if f.count < len(f.buf) {
		f.count++
	}
	subs := append([]Subscriber(nil), f.subs...)
	f.mu.Unlock()

	for _, fn := range subs {
		fn(entry)
	}
	return entry
}

func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.count
}

func (f *Feed) Cap() int {
	return len(f.buf)
}

// Entries returns a newest-first copy of the feed.
func (f *Feed) Entries() []models.LogEntry {
	return f.Filter("", "")
}

// Filter returns newest-first entries matching category (empty matches all)
// whose message contains search, ignoring case.
func (f *Feed) Filter(category models.LogCategory, search string) []models.LogEntry {
	search = strings.ToLower(strings.TrimSpace(search))

	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]models.LogEntry, 0, f.count)
	for i := 1; i <= f.count; i++ {
		e := f.buf[(f.head-i+len(f.buf))%len(f.buf)]
		if category != "" && e.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Message), search) {
			continue
		}
		out = append(out, e)
	}
	return out
}
