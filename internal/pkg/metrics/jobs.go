package metrics

import (
	"sync"

	"github.com/airenas/audiobook/internal/pkg/events"
	"github.com/airenas/audiobook/internal/pkg/status"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "audiobook_studio"

// JobNotifier converts engine events to job metrics
type JobNotifier struct {
	started  prometheus.Counter
	stages   *prometheus.CounterVec
	finished *prometheus.CounterVec
	active   prometheus.Gauge

	lock sync.Mutex
	last map[string]status.Stage
}

// NewJobNotifier creates and registers job collectors
func NewJobNotifier() (*JobNotifier, error) {
	res := &JobNotifier{last: make(map[string]status.Stage)}
	res.started = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_start",
		Help:      "Jobs start and retry counter",
	})
	res.stages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_stage",
		Help:      "Job stage transitions counter",
	}, []string{"stage"})
	res.finished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_end",
		Help:      "Finished jobs counter",
	}, []string{"result"})
	res.active = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "jobs_active",
		Help:      "Not finished jobs",
	})
	if err := Register(res.started, res.stages, res.finished, res.active); err != nil {
		return nil, errors.Wrap(err, "Can't register job metrics")
	}
	return res, nil
}

// Notify updates collectors
func (n *JobNotifier) Notify(e events.Event) {
	n.lock.Lock()
	defer n.lock.Unlock()

	switch e.Type {
	case events.Job:
		n.onJob(e)
	case events.JobRemoved:
		delete(n.last, e.ID)
	case events.Clear:
		n.last = make(map[string]status.Stage)
	default:
		return
	}
	n.active.Set(float64(len(n.last)))
}

func (n *JobNotifier) onJob(e events.Event) {
	old, ok := n.last[e.ID]
	if ok && old == e.Stage {
		return
	}
	if e.Stage == status.Queued {
		n.started.Inc()
	}
	n.stages.WithLabelValues(e.Stage.String()).Inc()
	if e.Stage.Terminal() {
		n.finished.WithLabelValues(e.Stage.String()).Inc()
		delete(n.last, e.ID)
		return
	}
	n.last[e.ID] = e.Stage
}
