package rabbit

import (
	"sync"

	"github.com/airenas/audiobook/internal/pkg/cmdapp"
	"github.com/airenas/audiobook/internal/pkg/events"
)

// IDPublisher sends job id to the broker
type IDPublisher interface {
	Publish(id string) error
}

// JobNotifier publishes job changes in the background, engine callbacks never wait for the broker
type JobNotifier struct {
	publisher IDPublisher
	ids       chan string
	wg        sync.WaitGroup

	lock   sync.RWMutex
	closed bool
}

// NewJobNotifier starts the publishing worker
func NewJobNotifier(p IDPublisher, buffer int) *JobNotifier {
	if buffer <= 0 {
		buffer = 100
	}
	res := &JobNotifier{publisher: p, ids: make(chan string, buffer)}
	res.wg.Add(1)
	go res.work()
	return res
}

// Notify queues job id, drops it if the queue is full
func (n *JobNotifier) Notify(e events.Event) {
	if e.Type != events.Job && e.Type != events.JobRemoved {
		return
	}
	n.lock.RLock()
	defer n.lock.RUnlock()
	if n.closed {
		return
	}
	select {
	case n.ids <- e.ID:
	default:
		cmdapp.Log.Warnf("Publish queue full, skip %s", e.ID)
	}
}

// Close stops accepting events and waits for queued ones to be sent
func (n *JobNotifier) Close() {
	n.lock.Lock()
	if !n.closed {
		n.closed = true
		close(n.ids)
	}
	n.lock.Unlock()
	n.wg.Wait()
}

func (n *JobNotifier) work() {
	defer n.wg.Done()
	for id := range n.ids {
		cmdapp.LogIf(n.publisher.Publish(id))
	}
	cmdapp.Log.Infof("Stopped publishing worker")
}
