// Package events delivers journey notifications. The journey core only sees
// Sink, which never blocks and never reports failure; everything behind it
// (queueing, retries, remote sync) is best-effort.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/wordjourney/internal/models"
)

// Sink receives notifications from the journey core. Implementations must
// not block and must swallow their own failures.
type Sink interface {
	Notify(models.Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(models.Event)

func (f SinkFunc) Notify(ev models.Event) { f(ev) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(models.Event) {})

type tee []Sink

// Tee fans each event out to every sink in order.
func Tee(sinks ...Sink) Sink {
	out := make(tee, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (t tee) Notify(ev models.Event) {
	for _, s := range t {
		s.Notify(ev)
	}
}

// Stamper fills in the envelope fields the core leaves empty: id, timestamp,
// learner and session.
type Stamper struct {
	Next      Sink
	LearnerID string
	SessionID string
	Now       func() time.Time
}

func (s Stamper) Notify(ev models.Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		now := time.Now
		if s.Now != nil {
			now = s.Now
		}
		ev.Timestamp = now().UTC()
	}
	if ev.LearnerID == "" {
		ev.LearnerID = s.LearnerID
	}
	if ev.SessionID == "" {
		ev.SessionID = s.SessionID
	}
	s.Next.Notify(ev)
}

// Memory keeps the most recent events in a bounded ring.
type Memory struct {
	mu     sync.RWMutex
	events []models.Event
	next   int
	full   bool
}

// NewMemory returns a ring holding up to capacity events.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = 1000
	}
	return &Memory{events: make([]models.Event, capacity)}
}

func (m *Memory) Notify(ev models.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[m.next] = ev
	m.next = (m.next + 1) % len(m.events)
	if m.next == 0 {
		m.full = true
	}
}

// Events returns the retained events oldest first, filtered by f.
func (m *Memory) Events(f models.EventFilter) []models.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ordered []models.Event
	if m.full {
		ordered = append(ordered, m.events[m.next:]...)
	}
	ordered = append(ordered, m.events[:m.next]...)

	out := make([]models.Event, 0, len(ordered))
	for _, ev := range ordered {
		if Matches(ev, f) {
			out = append(out, ev)
		}
	}
	return out
}

// Len returns the number of retained events.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.full {
		return len(m.events)
	}
	return m.next
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = make([]models.Event, len(m.events))
	m.next = 0
	m.full = false
}

// Matches reports whether ev passes the non-paging parts of f.
func Matches(ev models.Event, f models.EventFilter) bool {
	switch {
	case f.Framework != "" && ev.Framework != f.Framework:
		return false
	case f.WordID != "" && ev.WordID != f.WordID:
		return false
	case f.Name != "" && ev.Name != f.Name:
		return false
	case f.LearnerID != "" && ev.LearnerID != f.LearnerID:
		return false
	case f.Since != nil && ev.Timestamp.Before(*f.Since):
		return false
	}
	return true
}
