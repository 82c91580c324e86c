package engine

import (
	"sync"
	"time"

	"github.com/airenas/audiobook/internal/pkg/estimate"
	"github.com/airenas/audiobook/internal/pkg/events"
	"github.com/airenas/audiobook/internal/pkg/schedule"
	"github.com/airenas/audiobook/internal/pkg/settings"
	"github.com/airenas/audiobook/internal/pkg/status"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ResultDuration is the nominal length in seconds of a simulated audiobook
const ResultDuration = 1800

// Document is a unit of input content
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Type      string    `json:"type"`
	Pages     int       `json:"pages,omitempty"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FileInput is an accepted raw file
type FileInput struct {
	Name string
	Size int64
	Type string
}

// Job is one audiobook generation attempt for a document
type Job struct {
	ID           string       `json:"id"`
	DocumentID   string       `json:"documentId"`
	DocumentName string       `json:"documentName"`
	Stage        status.Stage `json:"status"`
	Progress     int          `json:"progress"`
	Substatus    string       `json:"substatus,omitempty"`
	ETA          string       `json:"eta,omitempty"`
	Error        string       `json:"error,omitempty"`
	AudioURL     string       `json:"audioUrl,omitempty"`
	DownloadURL  string       `json:"downloadUrl,omitempty"`
	Duration     int          `json:"duration,omitempty"`
}

// Snapshot is a copy of the whole engine state
type Snapshot struct {
	Documents []Document        `json:"files"`
	Jobs      []Job             `json:"jobs"`
	Settings  settings.Settings `json:"settings"`
	Playback  Playback          `json:"audio"`
}

// PageCounter guesses page count of an uploaded file, 0 means unknown
type PageCounter func(in FileInput) int

// Engine owns documents, jobs, settings and playback state.
// All state is guarded by one lock, notifications are sent after it is released.
// Each event carries the revision of its change, stale ones are not delivered.
type Engine struct {
	lock sync.Mutex

	docs     []*Document
	jobs     []*Job
	settings settings.Settings
	playback Playback
	tasks    map[string]*task
	rev      int64

	steps     []Step
	intervals int

	scheduler   schedule.Scheduler
	notifier    events.Notifier
	estimator   estimate.Estimator
	pageCounter PageCounter
	newID       func() string
}

// Option configures engine
type Option func(*Engine)

// WithScheduler sets timer source for the stage driver
func WithScheduler(s schedule.Scheduler) Option {
	return func(e *Engine) { e.scheduler = s }
}

// WithNotifier sets change observer
func WithNotifier(n events.Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithEstimator sets time and cost strategy
func WithEstimator(es estimate.Estimator) Option {
	return func(e *Engine) { e.estimator = es }
}

// WithSteps sets driver step table
func WithSteps(steps []Step) Option {
	return func(e *Engine) { e.steps = steps }
}

// WithIntervals sets count of progress updates inside a step
func WithIntervals(n int) Option {
	return func(e *Engine) { e.intervals = n }
}

// WithPageCounter sets page guessing for uploaded files
func WithPageCounter(pc PageCounter) Option {
	return func(e *Engine) { e.pageCounter = pc }
}

// WithSettings sets initial settings
func WithSettings(s settings.Settings) Option {
	return func(e *Engine) { e.settings = s.Copy() }
}

// WithIDGenerator sets id source for documents and jobs
func WithIDGenerator(f func() string) Option {
	return func(e *Engine) { e.newID = f }
}

// NewEngine creates engine, defaults: wall clock, 5 intervals, default steps and settings
func NewEngine(opts ...Option) (*Engine, error) {
	res := &Engine{
		settings:    settings.Default(),
		playback:    Playback{PlaybackRate: 1.0},
		tasks:       make(map[string]*task),
		steps:       DefaultSteps(),
		intervals:   DefaultIntervals,
		scheduler:   schedule.NewClock(),
		notifier:    events.NotifierFunc(func(events.Event) {}),
		estimator:   estimate.Default(),
		pageCounter: func(FileInput) int { return 0 },
		newID:       func() string { return uuid.New().String() },
	}
	for _, o := range opts {
		o(res)
	}
	if err := validateSteps(res.steps); err != nil {
		return nil, err
	}
	if res.intervals <= 0 {
		return nil, errors.Errorf("Wrong intervals count %d", res.intervals)
	}
	if res.scheduler == nil {
		return nil, errors.New("No scheduler")
	}
	if res.notifier == nil {
		return nil, errors.New("No notifier")
	}
	if res.estimator == nil {
		return nil, errors.New("No estimator")
	}
	if res.pageCounter == nil {
		return nil, errors.New("No page counter")
	}
	res.notifier = events.NewOrdered(res.notifier)
	return res, nil
}

// Snapshot returns copy of the full state
func (e *Engine) Snapshot() Snapshot {
	e.lock.Lock()
	defer e.lock.Unlock()
	return Snapshot{Documents: e.documentsNoSync(), Jobs: e.jobsNoSync(),
		Settings: e.settings.Copy(), Playback: e.playback}
}

// Settings returns current settings copy
func (e *Engine) Settings() settings.Settings {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.settings.Copy()
}

// UpdateVoice merges partial voice change, invalid result is rejected as a whole
func (e *Engine) UpdateVoice(u settings.VoiceUpdate) (settings.Settings, error) {
	return e.updateSettings(func(s *settings.Settings) { s.Voice = s.Voice.Apply(u) })
}

// UpdateOutput merges partial output change
func (e *Engine) UpdateOutput(u settings.OutputUpdate) (settings.Settings, error) {
	return e.updateSettings(func(s *settings.Settings) { s.Output = s.Output.Apply(u) })
}

// UpdateAdvanced merges partial advanced change
func (e *Engine) UpdateAdvanced(u settings.AdvancedUpdate) (settings.Settings, error) {
	return e.updateSettings(func(s *settings.Settings) { s.Advanced = s.Advanced.Apply(u) })
}

func (e *Engine) updateSettings(f func(s *settings.Settings)) (settings.Settings, error) {
	e.lock.Lock()
	ns := e.settings.Copy()
	f(&ns)
	if err := ns.Validate(); err != nil {
		e.lock.Unlock()
		return settings.Settings{}, errors.Wrap(err, "Wrong settings")
	}
	e.settings = ns
	ev := e.eventNoSync(events.Settings, "")
	e.lock.Unlock()

	e.notify(ev)
	return ns.Copy(), nil
}

// Estimate returns time and cost for current documents
func (e *Engine) Estimate() estimate.Result {
	e.lock.Lock()
	pages := make([]int, 0, len(e.docs))
	for _, d := range e.docs {
		pages = append(pages, d.Pages)
	}
	s := e.settings.Copy()
	e.lock.Unlock()
	return e.estimator.Estimate(pages, s)
}

func (e *Engine) eventNoSync(t events.Type, id string) events.Event {
	e.rev++
	return events.Event{Type: t, ID: id, Timestamp: e.scheduler.Now(), Rev: e.rev}
}

func (e *Engine) jobEventNoSync(j *Job) events.Event {
	res := e.eventNoSync(events.Job, j.ID)
	res.Stage = j.Stage
	res.Progress = j.Progress
	return res
}

func (e *Engine) notify(evs ...events.Event) {
	for _, ev := range evs {
		e.notifier.Notify(ev)
	}
}
