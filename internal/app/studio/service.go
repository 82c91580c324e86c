package studio

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/airenas/audiobook/internal/pkg/cmdapp"
	"github.com/airenas/audiobook/internal/pkg/engine"
	"github.com/airenas/audiobook/internal/pkg/events"
	"github.com/airenas/audiobook/internal/pkg/metrics"
	"github.com/airenas/audiobook/internal/pkg/voices"
	"github.com/facebookgo/grace/gracehttp"
	"github.com/gorilla/mux"
	"github.com/heptiolabs/healthcheck"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type serviceMetric struct {
	responseDur *prometheus.HistogramVec
	uploadSize  prometheus.ObserverVec
}

// ServiceData keeps data required for service work
type ServiceData struct {
	Engine  *engine.Engine
	Catalog *voices.Catalog
	Bus     *events.Bus
	Hub     *Hub

	Port    int
	health  healthcheck.Handler
	metrics serviceMetric
}

// StartWebServer starts the HTTP service and listens for the requests
func StartWebServer(data *ServiceData) error {
	cmdapp.Log.Infof("Starting HTTP service at %d", data.Port)
	r := NewRouter(data)

	portStr := strconv.Itoa(data.Port)
	srv := http.Server{
		Addr:              ":" + portStr,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       180 * time.Second,
		Handler:           r,
	}

	w := cmdapp.Log.Writer()
	defer w.Close()
	l := log.New(w, "", 0)
	gracehttp.SetLogger(l)

	return gracehttp.Serve(&srv)
}

// NewRouter creates the router for HTTP service
func NewRouter(data *ServiceData) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	handle := func(method, path, name string, h http.Handler) {
		if data.metrics.responseDur != nil {
			h = promhttp.InstrumentHandlerDuration(
				data.metrics.responseDur.MustCurryWith(prometheus.Labels{"handler": name}), h)
		}
		router.Methods(method).Path(path).Handler(h)
	}
	var uh http.Handler = uploadHandler{data: data}
	if data.metrics.uploadSize != nil {
		uh = promhttp.InstrumentHandlerRequestSize(data.metrics.uploadSize, uh)
	}
	handle("POST", "/documents", "upload", uh)
	handle("POST", "/documents/text", "text", textHandler{data: data})
	handle("GET", "/documents", "documents", http.HandlerFunc(data.documents))
	handle("DELETE", "/documents/{id}", "document_delete", http.HandlerFunc(data.removeDocument))

	handle("POST", "/jobs", "job_start", http.HandlerFunc(data.startJob))
	handle("POST", "/jobs/all", "job_start_all", http.HandlerFunc(data.startAllJobs))
	handle("GET", "/jobs", "jobs", http.HandlerFunc(data.jobs))
	handle("GET", "/jobs/{id}", "job", http.HandlerFunc(data.job))
	handle("POST", "/jobs/{id}/cancel", "job_cancel", http.HandlerFunc(data.cancelJob))
	handle("POST", "/jobs/{id}/retry", "job_retry", http.HandlerFunc(data.retryJob))
	handle("DELETE", "/jobs/{id}", "job_delete", http.HandlerFunc(data.removeJob))
	handle("POST", "/clear", "clear", http.HandlerFunc(data.clear))
	handle("GET", "/estimate", "estimate", http.HandlerFunc(data.estimate))
	handle("GET", "/state", "state", http.HandlerFunc(data.state))

	handle("GET", "/settings", "settings", http.HandlerFunc(data.settings))
	handle("PATCH", "/settings/voice", "settings_voice", http.HandlerFunc(data.updateVoice))
	handle("PATCH", "/settings/output", "settings_output", http.HandlerFunc(data.updateOutput))
	handle("PATCH", "/settings/advanced", "settings_advanced", http.HandlerFunc(data.updateAdvanced))

	handle("GET", "/playback", "playback", http.HandlerFunc(data.playback))
	handle("POST", "/playback/play", "play", http.HandlerFunc(data.play))
	handle("POST", "/playback/pause", "pause", http.HandlerFunc(data.pause))
	handle("POST", "/playback/seek", "seek", http.HandlerFunc(data.seek))
	handle("POST", "/playback/rate", "rate", http.HandlerFunc(data.rate))

	handle("GET", "/voices", "voices", http.HandlerFunc(data.voices))
	handle("GET", "/languages", "languages", http.HandlerFunc(data.languages))
	handle("GET", "/events", "events", http.HandlerFunc(data.events))
	if data.Hub != nil {
		router.Handle("/subscribe", websocketHandler{hub: data.Hub})
	}

	router.Methods("GET").Path("/metrics").Handler(promhttp.Handler())
	if data.health != nil {
		router.Methods("GET").Path("/live").HandlerFunc(data.health.LiveEndpoint)
		router.Methods("GET").Path("/ready").HandlerFunc(data.health.ReadyEndpoint)
	}
	return router
}

func initMetrics(data *ServiceData) error {
	namespace := "audiobook_studio"
	data.metrics.responseDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_durations_seconds",
			Help:      "Request latency distributions.",
		}, []string{"handler", "method"})
	uploadSize := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      "upload_request_size_bytes",
			Help:      "Upload request size in bytes."}, nil)
	data.metrics.uploadSize = uploadSize
	return metrics.Register(data.metrics.responseDur, uploadSize)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(v)
	if err != nil {
		http.Error(w, "Can not prepare result", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		http.Error(w, "Can't decode input", http.StatusBadRequest)
		cmdapp.Log.Error(errors.Wrap(err, "Can't decode input"))
		return false
	}
	return true
}
