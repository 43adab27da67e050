// Package status carries human-readable state changes from the core to
// whatever is displaying them.
package status

import (
	"sync"
	"time"
)

// Kind identifies what an Event reports.
type Kind string

const (
	KindFormation Kind = "formation"
	KindMode      Kind = "mode"
	KindCommand   Kind = "command"
	KindHands     Kind = "hands"
)

// Event is one status update.
type Event struct {
	Kind  Kind      `json:"kind"`
	Value string    `json:"value"`
	Hands [2]bool   `json:"hands"`
	At    time.Time `json:"at"`
}

// HandsLabel renders per-hand presence flags as "L:ON R:--". Index 0 is
// labelled L for display only.
func HandsLabel(hands [2]bool) string {
	on := func(b bool) string {
		if b {
			return "ON"
		}
		return "--"
	}
	return "L:" + on(hands[0]) + " R:" + on(hands[1])
}

// Sink receives status events. Implementations must not block for long;
// Report is called while the caller holds no core locks.
type Sink interface {
	Report(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Report calls f(e).
func (f SinkFunc) Report(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Fanout forwards every event to each of its sinks in order.
type Fanout struct {
	mu    sync.RWMutex
	sinks []Sink
}

// NewFanout creates a fanout over sinks. Nil sinks are skipped.
func NewFanout(sinks ...Sink) *Fanout {
	f := &Fanout{}
	for _, s := range sinks {
		f.Add(s)
	}
	return f
}

// Add registers another sink.
func (f *Fanout) Add(s Sink) {
	if s == nil {
		return
	}
	f.mu.Lock()
	f.sinks = append(f.sinks, s)
	f.mu.Unlock()
}

// Report implements Sink.
func (f *Fanout) Report(e Event) {
	f.mu.RLock()
	sinks := f.sinks
	f.mu.RUnlock()

	for _, s := range sinks {
		s.Report(e)
	}
}

// Changes passes an event on only when its value differs from the last one
// of the same kind.
type Changes struct {
	next Sink

	mu   sync.Mutex
	last map[Kind]Event
}

// NewChanges wraps next with repeat suppression.
func NewChanges(next Sink) *Changes {
	return &Changes{
		next: next,
		last: make(map[Kind]Event),
	}
}

// Report implements Sink.
func (c *Changes) Report(e Event) {
	c.mu.Lock()
	prev, seen := c.last[e.Kind]
	if seen && prev.Value == e.Value && prev.Hands == e.Hands {
		c.mu.Unlock()
		return
	}
	c.last[e.Kind] = e
	c.mu.Unlock()

	c.next.Report(e)
}

// Last returns the most recent event of kind that passed the filter.
func (c *Changes) Last(kind Kind) (Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.last[kind]
	return e, ok
}
