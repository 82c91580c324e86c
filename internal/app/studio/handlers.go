package studio

import (
	"net/http"
	"strconv"

	"github.com/airenas/audiobook/internal/pkg/cmdapp"
	"github.com/airenas/audiobook/internal/pkg/events"
	"github.com/airenas/audiobook/internal/pkg/settings"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

type startInput struct {
	DocumentID string `json:"documentId"`
}

type startResult struct {
	ID string `json:"id"`
}

func (data *ServiceData) startJob(w http.ResponseWriter, r *http.Request) {
	var in startInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.DocumentID == "" {
		http.Error(w, "No documentId", http.StatusBadRequest)
		return
	}
	id, ok := data.Engine.StartJob(in.DocumentID)
	if !ok {
		http.Error(w, "No document "+in.DocumentID, http.StatusNotFound)
		return
	}
	cmdapp.Log.Infof("Started job %s for %s", id, in.DocumentID)
	writeJSON(w, startResult{ID: id})
}

func (data *ServiceData) startAllJobs(w http.ResponseWriter, r *http.Request) {
	res := make([]startResult, 0)
	for _, d := range data.Engine.Documents() {
		if id, ok := data.Engine.StartJob(d.ID); ok {
			res = append(res, startResult{ID: id})
		}
	}
	cmdapp.Log.Infof("Started %d jobs", len(res))
	writeJSON(w, res)
}

func (data *ServiceData) jobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, data.Engine.Jobs())
}

func (data *ServiceData) job(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	j, ok := data.Engine.Job(id)
	if !ok {
		http.Error(w, "No job "+id, http.StatusNotFound)
		return
	}
	writeJSON(w, j)
}

// cancel and retry of known jobs answer with the job even when nothing changed
func (data *ServiceData) cancelJob(w http.ResponseWriter, r *http.Request) {
	data.jobCommand(w, r, data.Engine.CancelJob)
}

func (data *ServiceData) retryJob(w http.ResponseWriter, r *http.Request) {
	data.jobCommand(w, r, data.Engine.RetryJob)
}

func (data *ServiceData) jobCommand(w http.ResponseWriter, r *http.Request, f func(id string) bool) {
	id := mux.Vars(r)["id"]
	if _, ok := data.Engine.Job(id); !ok {
		http.Error(w, "No job "+id, http.StatusNotFound)
		return
	}
	f(id)
	j, ok := data.Engine.Job(id)
	if !ok {
		http.Error(w, "No job "+id, http.StatusNotFound)
		return
	}
	writeJSON(w, j)
}

func (data *ServiceData) removeJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !data.Engine.RemoveJob(id) {
		http.Error(w, "No job "+id, http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (data *ServiceData) clear(w http.ResponseWriter, r *http.Request) {
	data.Engine.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}

func (data *ServiceData) estimate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, data.Engine.Estimate())
}

func (data *ServiceData) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, data.Engine.Snapshot())
}

func (data *ServiceData) settings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, data.Engine.Settings())
}

func (data *ServiceData) updateVoice(w http.ResponseWriter, r *http.Request) {
	var in settings.VoiceUpdate
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := data.checkVoice(in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data.writeSettings(w, func() (settings.Settings, error) { return data.Engine.UpdateVoice(in) })
}

func (data *ServiceData) checkVoice(in settings.VoiceUpdate) error {
	if data.Catalog == nil {
		return nil
	}
	if in.VoiceID != nil && !data.Catalog.HasVoice(*in.VoiceID) {
		return errors.Errorf("Unknown voice '%s'", *in.VoiceID)
	}
	if in.Language != nil && !data.Catalog.HasLanguage(*in.Language) {
		return errors.Errorf("Unknown language '%s'", *in.Language)
	}
	return nil
}

func (data *ServiceData) updateOutput(w http.ResponseWriter, r *http.Request) {
	var in settings.OutputUpdate
	if !decodeJSON(w, r, &in) {
		return
	}
	data.writeSettings(w, func() (settings.Settings, error) { return data.Engine.UpdateOutput(in) })
}

func (data *ServiceData) updateAdvanced(w http.ResponseWriter, r *http.Request) {
	var in settings.AdvancedUpdate
	if !decodeJSON(w, r, &in) {
		return
	}
	data.writeSettings(w, func() (settings.Settings, error) { return data.Engine.UpdateAdvanced(in) })
}

func (data *ServiceData) writeSettings(w http.ResponseWriter, f func() (settings.Settings, error)) {
	res, err := f()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}
	writeJSON(w, res)
}

type playInput struct {
	JobID string `json:"jobId"`
}

type seekInput struct {
	Time *float64 `json:"time"`
}

type rateInput struct {
	Rate *float64 `json:"rate"`
}

func (data *ServiceData) playback(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, data.Engine.Playback())
}

func (data *ServiceData) play(w http.ResponseWriter, r *http.Request) {
	var in playInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if !data.Engine.Play(in.JobID) {
		http.Error(w, "No audio for job "+in.JobID, http.StatusConflict)
		return
	}
	writeJSON(w, data.Engine.Playback())
}

func (data *ServiceData) pause(w http.ResponseWriter, r *http.Request) {
	data.Engine.Pause()
	writeJSON(w, data.Engine.Playback())
}

func (data *ServiceData) seek(w http.ResponseWriter, r *http.Request) {
	var in seekInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Time == nil {
		http.Error(w, "No time", http.StatusBadRequest)
		return
	}
	data.Engine.SeekTo(*in.Time)
	writeJSON(w, data.Engine.Playback())
}

func (data *ServiceData) rate(w http.ResponseWriter, r *http.Request) {
	var in rateInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Rate == nil {
		http.Error(w, "No rate", http.StatusBadRequest)
		return
	}
	data.Engine.SetPlaybackRate(*in.Rate)
	writeJSON(w, data.Engine.Playback())
}

func (data *ServiceData) voices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, data.Catalog.Voices())
}

func (data *ServiceData) languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, data.Catalog.Languages())
}

type eventsResult struct {
	Last   int64          `json:"last"`
	Events []events.Event `json:"events"`
}

func (data *ServiceData) events(w http.ResponseWriter, r *http.Request) {
	var since int64
	if s := r.URL.Query().Get("since"); s != "" {
		var err error
		since, err = strconv.ParseInt(s, 10, 64)
		if err != nil || since < 0 {
			http.Error(w, "Wrong since", http.StatusBadRequest)
			return
		}
	}
	res := eventsResult{Last: data.Bus.Last(), Events: data.Bus.Since(since)}
	if l := len(res.Events); l > 0 {
		res.Last = res.Events[l-1].Seq
	}
	writeJSON(w, res)
}
