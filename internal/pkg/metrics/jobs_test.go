package metrics

import (
	"testing"

	"github.com/airenas/audiobook/internal/pkg/events"
	"github.com/airenas/audiobook/internal/pkg/status"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(t *testing.T) *JobNotifier {
	t.Helper()
	res, err := NewJobNotifier()
	require.Nil(t, err)
	return res
}

func jobEvent(id string, st status.Stage, p int) events.Event {
	return events.Event{Type: events.Job, ID: id, Stage: st, Progress: p}
}

func TestNewJobNotifier_Reregisters(t *testing.T) {
	newTestNotifier(t)
	_, err := NewJobNotifier()
	assert.Nil(t, err)
}

func TestNotify_Run(t *testing.T) {
	n := newTestNotifier(t)
	n.Notify(jobEvent("1", status.Queued, 0))
	n.Notify(jobEvent("1", status.Uploading, 16))
	n.Notify(jobEvent("1", status.Uploading, 16))
	assert.Equal(t, 1.0, testutil.ToFloat64(n.active))
	n.Notify(jobEvent("1", status.Chunking, 33))
	n.Notify(jobEvent("1", status.Completed, 100))

	assert.Equal(t, 1.0, testutil.ToFloat64(n.started))
	assert.Equal(t, 1.0, testutil.ToFloat64(n.stages.WithLabelValues("uploading")))
	assert.Equal(t, 1.0, testutil.ToFloat64(n.finished.WithLabelValues("completed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(n.finished.WithLabelValues("failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(n.active))
}

func TestNotify_Retry(t *testing.T) {
	n := newTestNotifier(t)
	n.Notify(jobEvent("1", status.Queued, 0))
	n.Notify(jobEvent("1", status.Failed, 0))
	n.Notify(jobEvent("1", status.Queued, 0))
	assert.Equal(t, 2.0, testutil.ToFloat64(n.started))
	assert.Equal(t, 1.0, testutil.ToFloat64(n.finished.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(n.active))
}

func TestNotify_Removed(t *testing.T) {
	n := newTestNotifier(t)
	n.Notify(jobEvent("1", status.Queued, 0))
	n.Notify(jobEvent("2", status.Queued, 0))
	n.Notify(events.Event{Type: events.JobRemoved, ID: "1"})
	assert.Equal(t, 1.0, testutil.ToFloat64(n.active))
	n.Notify(events.Event{Type: events.Clear})
	assert.Equal(t, 0.0, testutil.ToFloat64(n.active))
	n.Notify(events.Event{Type: events.Settings})
	assert.Equal(t, 0.0, testutil.ToFloat64(n.active))
}
