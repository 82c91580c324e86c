package events

import (
	"sync"
	"time"
)

// Bus stores recent events and provides incremental reads
type Bus struct {
	lock      sync.RWMutex
	nextSeq   int64
	maxEvents int
	events    []Event
}

// NewBus creates a bounded in-memory event buffer
func NewBus(maxEvents int) *Bus {
	if maxEvents <= 0 {
		maxEvents = 500
	}
	return &Bus{maxEvents: maxEvents, events: make([]Event, 0, maxEvents)}
}

// Notify appends one event and assigns sequence and timestamp
func (b *Bus) Notify(e Event) {
	b.Publish(e)
}

// Publish appends one event and returns it with sequence set
func (b *Bus) Publish(e Event) Event {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.nextSeq++
	e.Seq = b.nextSeq
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	b.events = append(b.events, e)
	if len(b.events) > b.maxEvents {
		trim := len(b.events) - b.maxEvents
		b.events = append([]Event(nil), b.events[trim:]...)
	}
	return e
}

// Since returns events with sequence strictly greater than seq
func (b *Bus) Since(seq int64) []Event {
	b.lock.RLock()
	defer b.lock.RUnlock()

	res := make([]Event, 0)
	for _, e := range b.events {
		if e.Seq > seq {
			res = append(res, e)
		}
	}
	return res
}

// Last returns the sequence of the latest event
func (b *Bus) Last() int64 {
	b.lock.RLock()
	defer b.lock.RUnlock()
	return b.nextSeq
}
