package events

import "sync"

// Ordered drops events that arrive after a newer change of the same object.
// Events without Rev are passed as is.
type Ordered struct {
	lock     sync.Mutex
	next     Notifier
	last     map[string]int64
	clearRev int64
}

// NewOrdered wraps notifier
func NewOrdered(next Notifier) *Ordered {
	return &Ordered{next: next, last: map[string]int64{}}
}

// Notify forwards e unless it is older than an already forwarded change
func (o *Ordered) Notify(e Event) {
	o.lock.Lock()
	defer o.lock.Unlock()

	if e.Rev > 0 {
		if e.Rev < o.clearRev {
			return
		}
		k := key(e)
		if e.Rev <= o.last[k] {
			return
		}
		if e.Type == Clear {
			o.clearRev = e.Rev
			o.last = map[string]int64{}
		}
		o.last[k] = e.Rev
	}
	o.next.Notify(e)
}

func key(e Event) string {
	if e.Type == JobRemoved {
		return string(Job) + ":" + e.ID
	}
	return string(e.Type) + ":" + e.ID
}
