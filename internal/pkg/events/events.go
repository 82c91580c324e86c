package events

import (
	"sync"
	"time"

	"github.com/airenas/audiobook/internal/pkg/status"
)

// Type classifies engine changes
type Type string

const (
	// Document added or removed
	Document Type = "document"
	// Job created or changed
	Job Type = "job"
	// JobRemoved - job dropped from the collection
	JobRemoved Type = "jobRemoved"
	// Settings changed
	Settings Type = "settings"
	// Playback state changed
	Playback Type = "playback"
	// Clear - all documents and jobs dropped
	Clear Type = "clear"
)

// Event describes one engine state change
type Event struct {
	Seq       int64        `json:"seq"`
	Timestamp time.Time    `json:"timestamp"`
	Type      Type         `json:"type"`
	ID        string       `json:"id,omitempty"`
	Stage     status.Stage `json:"stage,omitempty"`
	Progress  int          `json:"progress,omitempty"`
	// Rev is the source revision, increasing in the order changes were made
	Rev int64 `json:"-"`
}

// Notifier receives engine changes
type Notifier interface {
	Notify(e Event)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(e Event)

// Notify calls f(e)
func (f NotifierFunc) Notify(e Event) {
	f(e)
}

// Multi fans out events to several notifiers
type Multi struct {
	lock      sync.RWMutex
	notifiers []Notifier
}

// NewMulti creates fan out notifier
func NewMulti(ns ...Notifier) *Multi {
	return &Multi{notifiers: ns}
}

// Add registers one more notifier
func (m *Multi) Add(n Notifier) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.notifiers = append(m.notifiers, n)
}

// Notify passes the event to all notifiers in registration order
func (m *Multi) Notify(e Event) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	for _, n := range m.notifiers {
		n.Notify(e)
	}
}
