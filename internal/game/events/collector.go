package events

import "sync"

// Collector is a Subscriber that keeps every event it is interested in.
// It is used for turn summaries and in tests.
type Collector struct {
	id     string
	filter map[string]bool
	mu     sync.Mutex
	events []Event
}

// NewCollector records only the given event types, or all when none are given.
func NewCollector(id string, eventTypes ...string) *Collector {
	c := &Collector{id: id}
	if len(eventTypes) > 0 {
		c.filter = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			c.filter[t] = true
		}
	}
	return c
}

// ID returns the collector's subscriber identifier
func (c *Collector) ID() string { return c.id }

// InterestedIn returns true for every type when no filter was given
func (c *Collector) InterestedIn(eventType string) bool {
	return c.filter == nil || c.filter[eventType]
}

// HandleEvent records the event
func (c *Collector) HandleEvent(e Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

// Events returns a copy of the collected events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Count returns how many events of eventType were collected.
func (c *Collector) Count(eventType string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.Type() == eventType {
			n++
		}
	}
	return n
}

// Reset drops every collected event
func (c *Collector) Reset() {
	c.mu.Lock()
	c.events = nil
	c.mu.Unlock()
}
