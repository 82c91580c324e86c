package engine

import (
	"github.com/airenas/audiobook/internal/pkg/events"
	"github.com/airenas/audiobook/internal/pkg/status"
)

const (
	minPlaybackRate = 0.5
	maxPlaybackRate = 2.0
)

// Playback is the state of the single audio player
type Playback struct {
	CurrentJobID string  `json:"currentJobId,omitempty"`
	IsPlaying    bool    `json:"isPlaying"`
	CurrentTime  float64 `json:"currentTime"`
	Duration     float64 `json:"duration"`
	PlaybackRate float64 `json:"playbackRate"`
}

// Playback returns player state copy
func (e *Engine) Playback() Playback {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.playback
}

// Play starts playing a completed job, returns false if the job has no audio
func (e *Engine) Play(jobID string) bool {
	e.lock.Lock()
	j := e.findJobNoSync(jobID)
	if j == nil || j.Stage != status.Completed || j.AudioURL == "" {
		e.lock.Unlock()
		return false
	}
	if e.playback.CurrentJobID != jobID {
		e.playback.CurrentJobID = jobID
		e.playback.CurrentTime = 0
	}
	e.playback.Duration = float64(j.Duration)
	e.playback.IsPlaying = true
	ev := e.eventNoSync(events.Playback, jobID)
	e.lock.Unlock()

	e.notify(ev)
	return true
}

// Pause stops playing, the target is kept
func (e *Engine) Pause() {
	e.updatePlayback(func(p *Playback) { p.IsPlaying = false })
}

// SeekTo moves current time into [0, duration]
func (e *Engine) SeekTo(t float64) {
	e.updatePlayback(func(p *Playback) { p.CurrentTime = clamp(t, 0, p.Duration) })
}

// SetPlaybackRate sets speed in [0.5, 2.0]
func (e *Engine) SetPlaybackRate(r float64) {
	e.updatePlayback(func(p *Playback) { p.PlaybackRate = clamp(r, minPlaybackRate, maxPlaybackRate) })
}

// AdvancePlayback moves playing audio by one second, pauses at the end.
// Returns current state.
func (e *Engine) AdvancePlayback() Playback {
	e.lock.Lock()
	p := &e.playback
	if !p.IsPlaying || e.findJobNoSync(p.CurrentJobID) == nil {
		res := *p
		e.lock.Unlock()
		return res
	}
	if p.CurrentTime+1 >= p.Duration {
		p.IsPlaying = false
	} else {
		p.CurrentTime++
	}
	res := *p
	ev := e.eventNoSync(events.Playback, p.CurrentJobID)
	e.lock.Unlock()

	e.notify(ev)
	return res
}

func (e *Engine) updatePlayback(f func(p *Playback)) {
	e.lock.Lock()
	f(&e.playback)
	ev := e.eventNoSync(events.Playback, e.playback.CurrentJobID)
	e.lock.Unlock()

	e.notify(ev)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
