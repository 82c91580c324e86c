package engine

import (
	"fmt"
	"time"

	"github.com/airenas/audiobook/internal/pkg/progress"
	"github.com/airenas/audiobook/internal/pkg/schedule"
	"github.com/airenas/audiobook/internal/pkg/status"
	"github.com/pkg/errors"
)

// DefaultIntervals is the count of progress updates inside one step
const DefaultIntervals = 5

// Step is one entry of the driver table
type Step struct {
	Stage     status.Stage
	Substatus string
	Duration  time.Duration
}

// DefaultSteps returns the simulated processing pipeline
func DefaultSteps() []Step {
	return []Step{
		{Stage: status.Uploading, Substatus: "Uploading file...", Duration: time.Second},
		{Stage: status.Chunking, Substatus: "Breaking into chapters...", Duration: 2 * time.Second},
		{Stage: status.Synthesizing, Substatus: "Converting to speech...", Duration: 8 * time.Second},
		{Stage: status.Merging, Substatus: "Combining audio files...", Duration: 2 * time.Second},
		{Stage: status.Packaging, Substatus: "Final processing...", Duration: time.Second},
		{Stage: status.Completed, Substatus: "Ready for download!"},
	}
}

func validateSteps(steps []Step) error {
	if len(steps) == 0 {
		return errors.New("No steps")
	}
	for i, s := range steps {
		if s.Duration < 0 {
			return errors.Errorf("Wrong duration %v for %s", s.Duration, s.Stage)
		}
		last := i == len(steps)-1
		if last != (s.Stage == status.Completed) {
			return errors.Errorf("Step %s at %d: completed must be the only last step", s.Stage, i)
		}
		if s.Stage == status.Queued || s.Stage == status.Failed {
			return errors.Errorf("Wrong step %s", s.Stage)
		}
	}
	return nil
}

// task is one driver run of a job
type task struct {
	jobID     string
	cancelled bool
	timer     schedule.Timer
}

func (e *Engine) startTaskNoSync(jobID string) {
	e.cancelTaskNoSync(jobID)
	t := &task{jobID: jobID}
	e.tasks[jobID] = t
	t.timer = e.scheduler.AfterFunc(0, func() { e.enterStep(t, 0) })
}

func (e *Engine) cancelTaskNoSync(jobID string) {
	t, ok := e.tasks[jobID]
	if !ok {
		return
	}
	t.cancelled = true
	if t.timer != nil {
		t.timer.Stop()
	}
	delete(e.tasks, jobID)
}

func (e *Engine) cancelAllTasksNoSync() {
	for id := range e.tasks {
		e.cancelTaskNoSync(id)
	}
}

func (e *Engine) aliveNoSync(t *task) (*Job, bool) {
	if t.cancelled || e.tasks[t.jobID] != t {
		return nil, false
	}
	j := e.findJobNoSync(t.jobID)
	if j == nil || j.Stage.Terminal() {
		return nil, false
	}
	return j, true
}

func (e *Engine) enterStep(t *task, i int) {
	e.lock.Lock()
	j, ok := e.aliveNoSync(t)
	if !ok {
		e.lock.Unlock()
		return
	}
	st := e.steps[i]
	j.Stage = st.Stage
	j.Substatus = st.Substatus
	if st.Stage == status.Completed {
		j.Progress = 100
		j.ETA = ""
		j.AudioURL = fmt.Sprintf("/audio/demo-%s.mp3", j.ID)
		j.DownloadURL = fmt.Sprintf("/downloads/%s.%s", j.ID, e.settings.Output.Format)
		j.Duration = ResultDuration
		delete(e.tasks, t.jobID)
		ev := e.jobEventNoSync(j)
		e.lock.Unlock()
		e.notify(ev)
		return
	}
	total := len(e.steps)
	j.Progress = progress.Forward(j.Progress, progress.Coarse(i, total))
	j.ETA = progress.ETA(i, total)
	ev := e.jobEventNoSync(j)
	e.lock.Unlock()

	e.notify(ev)
	e.waitStep(t, i, 0)
}

func (e *Engine) waitStep(t *task, i, done int) {
	d := e.steps[i].Duration
	if d <= 0 || done >= e.intervals {
		e.enterStep(t, i+1)
		return
	}
	e.lock.Lock()
	defer e.lock.Unlock()
	if _, ok := e.aliveNoSync(t); !ok {
		return
	}
	t.timer = e.scheduler.AfterFunc(d/time.Duration(e.intervals), func() { e.tick(t, i, done+1) })
}

func (e *Engine) tick(t *task, i, done int) {
	e.lock.Lock()
	j, ok := e.aliveNoSync(t)
	if !ok {
		e.lock.Unlock()
		return
	}
	j.Progress = progress.Forward(j.Progress, progress.Fine(i, done, e.intervals, len(e.steps)))
	ev := e.jobEventNoSync(j)
	e.lock.Unlock()

	e.notify(ev)
	e.waitStep(t, i, done)
}
