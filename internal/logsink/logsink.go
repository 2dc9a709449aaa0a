// Package logsink implements the explicit structured log sink called for by
// the DESIGN NOTES re-architecture of nullboot's ambient log.Print calls:
// every component here takes a *Sink instead of reaching for the log
// package directly, so tests can assert on exactly what was emitted.
package logsink

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

// Event is one structured record pushed to the side channel.
type Event struct {
	Time   time.Time      `json:"time"`
	Kind   string         `json:"kind"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Sink is the structured+human logging boundary threaded through every
// component. The human-readable line goes to the wrapped *log.Logger
// (stderr by default, matching nullboot's log.Print convention); the
// structured Event is also recorded for later inspection (by the CLI
// dispatcher's side channel, or by a test).
type Sink struct {
	mu     sync.Mutex
	logger *log.Logger
	events []Event
}

// New returns a Sink that writes human lines to w via the standard log
// flags, and records structured events in memory.
func New(w io.Writer) *Sink {
	return &Sink{logger: log.New(w, "", log.LstdFlags)}
}

// Printf writes a human-readable line, mirroring nullboot's log.Printf calls.
func (s *Sink) Printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Printf(format, args...)
}

// Event records a structured event and echoes a human line for it.
func (s *Sink) Event(kind string, fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, Event{Time: timeNow(), Kind: kind, Fields: fields})
	s.logger.Printf("%s %s", kind, fmt.Sprint(fields))
}

// Events returns a copy of the structured events recorded so far, the
// primary thing tests assert on per DESIGN NOTES.
func (s *Sink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// timeNow is a package-level var so tests can pin it, same indirection
// idiom reseal.go uses for mockable external calls.
var timeNow = time.Now
