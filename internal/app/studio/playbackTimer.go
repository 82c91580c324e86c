package studio

import (
	"time"

	"github.com/airenas/audiobook/internal/pkg/cmdapp"
	"github.com/airenas/audiobook/internal/pkg/engine"
)

// Player advances playback time
type Player interface {
	Playback() engine.Playback
	AdvancePlayback() engine.Playback
}

type playbackTimerData struct {
	tick         time.Duration
	player       Player
	qChan        chan struct{}
	workWaitChan chan struct{}
}

func newPlaybackTimerData(p Player) *playbackTimerData {
	return &playbackTimerData{tick: time.Second, player: p, qChan: make(chan struct{}),
		workWaitChan: make(chan struct{})}
}

func startPlaybackTimer(data *playbackTimerData) {
	cmdapp.Log.Infof("Starting playback timer every %v / rate", data.tick)
	go playbackLoop(data)
}

func playbackLoop(data *playbackTimerData) {
	timer := time.NewTimer(nextTick(data.tick, data.player.Playback()))
mainloop:
	for {
		select {
		case <-timer.C:
			p := data.player.AdvancePlayback()
			timer.Reset(nextTick(data.tick, p))
		case <-data.qChan:
			timer.Stop()
			break mainloop
		}
	}
	cmdapp.Log.Infof("Stopped playback timer")
	close(data.workWaitChan)
}

func nextTick(tick time.Duration, p engine.Playback) time.Duration {
	if p.PlaybackRate <= 0 {
		return tick
	}
	return time.Duration(float64(tick) / p.PlaybackRate)
}
