package studio

import (
	"sync"
	"testing"
	"time"

	"github.com/airenas/audiobook/internal/pkg/engine"
	"github.com/stretchr/testify/assert"
)

type playerMock struct {
	lock  sync.Mutex
	rate  float64
	calls int
}

func (p *playerMock) Playback() engine.Playback {
	p.lock.Lock()
	defer p.lock.Unlock()
	return engine.Playback{PlaybackRate: p.rate}
}

func (p *playerMock) AdvancePlayback() engine.Playback {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.calls++
	return engine.Playback{PlaybackRate: p.rate}
}

func (p *playerMock) count() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.calls
}

func TestPlaybackTimer_Stops(t *testing.T) {
	p := &playerMock{rate: 1}
	d := newPlaybackTimerData(p)

	startPlaybackTimer(d)

	go close(d.qChan)
	<-d.workWaitChan
	assert.Equal(t, 0, p.count())
}

func TestPlaybackTimer_Ticks(t *testing.T) {
	p := &playerMock{rate: 1}
	d := newPlaybackTimerData(p)
	d.tick = 5 * time.Millisecond

	startPlaybackTimer(d)

	time.Sleep(50 * time.Millisecond)
	go close(d.qChan)
	<-d.workWaitChan
	assert.True(t, p.count() >= 3, "calls %d", p.count())
}

func TestNextTick(t *testing.T) {
	assert.Equal(t, time.Second, nextTick(time.Second, engine.Playback{PlaybackRate: 1}))
	assert.Equal(t, 500*time.Millisecond, nextTick(time.Second, engine.Playback{PlaybackRate: 2}))
	assert.Equal(t, 2*time.Second, nextTick(time.Second, engine.Playback{PlaybackRate: 0.5}))
	assert.Equal(t, time.Second, nextTick(time.Second, engine.Playback{}))
}

func TestPlaybackTimer_Engine(t *testing.T) {
	e, err := engine.NewEngine()
	assert.Nil(t, err)
	d := newPlaybackTimerData(e)
	d.tick = time.Millisecond
	startPlaybackTimer(d)
	time.Sleep(10 * time.Millisecond)
	close(d.qChan)
	<-d.workWaitChan
	assert.False(t, e.Playback().IsPlaying)
}
