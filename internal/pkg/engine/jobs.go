package engine

import (
	"github.com/airenas/audiobook/internal/pkg/events"
	"github.com/airenas/audiobook/internal/pkg/status"
)

// CancelledByUser is the error of a cancelled job
const CancelledByUser = "Cancelled by user"

// StartJob creates a queued job for the document and schedules its run.
// Returns false if the document is unknown.
func (e *Engine) StartJob(documentID string) (string, bool) {
	e.lock.Lock()
	d := e.findDocumentNoSync(documentID)
	if d == nil {
		e.lock.Unlock()
		return "", false
	}
	j := &Job{ID: e.newID(), DocumentID: d.ID, DocumentName: d.Name, Stage: status.Queued}
	e.jobs = append(e.jobs, j)
	e.startTaskNoSync(j.ID)
	ev := e.jobEventNoSync(j)
	e.lock.Unlock()

	e.notify(ev)
	return j.ID, true
}

// CancelJob fails a running job, terminal or unknown jobs are not changed
func (e *Engine) CancelJob(id string) bool {
	e.lock.Lock()
	j := e.findJobNoSync(id)
	if j == nil || j.Stage.Terminal() {
		e.lock.Unlock()
		return false
	}
	j.Stage = status.Failed
	j.Error = CancelledByUser
	e.cancelTaskNoSync(id)
	ev := e.jobEventNoSync(j)
	e.lock.Unlock()

	e.notify(ev)
	return true
}

// RetryJob resets the job to queued and runs it again under the same id
func (e *Engine) RetryJob(id string) bool {
	e.lock.Lock()
	j := e.findJobNoSync(id)
	if j == nil {
		e.lock.Unlock()
		return false
	}
	*j = Job{ID: j.ID, DocumentID: j.DocumentID, DocumentName: j.DocumentName, Stage: status.Queued}
	e.startTaskNoSync(j.ID)
	ev := e.jobEventNoSync(j)
	e.lock.Unlock()

	e.notify(ev)
	return true
}

// RemoveJob drops the job in any stage
func (e *Engine) RemoveJob(id string) bool {
	e.lock.Lock()
	found := false
	for i, j := range e.jobs {
		if j.ID == id {
			e.jobs = append(e.jobs[:i], e.jobs[i+1:]...)
			found = true
			break
		}
	}
	e.cancelTaskNoSync(id)
	ev := e.eventNoSync(events.JobRemoved, id)
	e.lock.Unlock()

	if found {
		e.notify(ev)
	}
	return found
}

// ClearAll drops all documents and jobs and stops playback
func (e *Engine) ClearAll() {
	e.lock.Lock()
	e.cancelAllTasksNoSync()
	e.docs = nil
	e.jobs = nil
	e.playback = Playback{PlaybackRate: e.playback.PlaybackRate}
	ev := e.eventNoSync(events.Clear, "")
	e.lock.Unlock()

	e.notify(ev)
}

// Jobs returns jobs in creation order
func (e *Engine) Jobs() []Job {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.jobsNoSync()
}

// Job returns one job copy
func (e *Engine) Job(id string) (Job, bool) {
	e.lock.Lock()
	defer e.lock.Unlock()
	if j := e.findJobNoSync(id); j != nil {
		return *j, true
	}
	return Job{}, false
}

func (e *Engine) jobsNoSync() []Job {
	res := make([]Job, 0, len(e.jobs))
	for _, j := range e.jobs {
		res = append(res, *j)
	}
	return res
}

func (e *Engine) findJobNoSync(id string) *Job {
	for _, j := range e.jobs {
		if j.ID == id {
			return j
		}
	}
	return nil
}
