package studio

import (
	"math/rand"
	"time"

	"github.com/airenas/audiobook/internal/pkg/cmdapp"
	"github.com/airenas/audiobook/internal/pkg/engine"
	"github.com/airenas/audiobook/internal/pkg/estimate"
	"github.com/airenas/audiobook/internal/pkg/events"
	"github.com/airenas/audiobook/internal/pkg/metrics"
	"github.com/airenas/audiobook/internal/pkg/rabbit"
	"github.com/airenas/audiobook/internal/pkg/settings"
	"github.com/airenas/audiobook/internal/pkg/voices"
	"github.com/heptiolabs/healthcheck"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "studioService",
	Short: "Audiobook Studio Service",
	Long:  `HTTP server to manage simulated document to audiobook conversion jobs`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	rootCmd.PersistentFlags().Int32P("port", "", 8000, "Default service port")
	cmdapp.Config.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	cmdapp.Config.SetDefault("port", 8080)
	cmdapp.Config.SetDefault("stages.intervals", engine.DefaultIntervals)
	cmdapp.Config.SetDefault("estimate.minutesPerPage", 2)
	cmdapp.Config.SetDefault("estimate.costPerPage", 0.05)
	cmdapp.Config.SetDefault("events.buffer", 500)
	cmdapp.Config.SetDefault("messageServer.exchange", "AudiobookJobChanged")
}

// Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting studioService")
	data := ServiceData{}
	data.health = healthcheck.NewHandler()
	data.health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(1000))
	err := initMetrics(&data)
	cmdapp.CheckOrPanic(err, "Can't init metrics")

	data.Bus = events.NewBus(cmdapp.Config.GetInt("events.buffer"))
	notifier := events.NewMulti(data.Bus)
	jm, err := metrics.NewJobNotifier()
	cmdapp.CheckOrPanic(err, "Can't init job metrics")
	notifier.Add(jm)

	if cmdapp.Config.GetString("messageServer.url") != "" {
		provider, err := rabbit.NewChannelProvider()
		cmdapp.CheckOrPanic(err, "Can't init rabbit channel")
		defer provider.Close()
		data.health.AddReadinessCheck("rabbit", healthcheck.Async(provider.Healthy, 10*time.Second))
		publisher, err := rabbit.NewPublisher(provider, cmdapp.Config.GetString("messageServer.exchange"))
		cmdapp.CheckOrPanic(err, "Can't init publisher")
		rn := rabbit.NewJobNotifier(publisher, 0)
		defer rn.Close()
		notifier.Add(rn)
	} else {
		cmdapp.Log.Info("No messageServer.url, job events are not published")
	}

	data.Catalog, err = initCatalog(cmdapp.Config.GetString("voices.path"))
	cmdapp.CheckOrPanic(err, "Can't init voices")

	steps, err := initSteps(cmdapp.Config)
	cmdapp.CheckOrPanic(err, "Can't init stages")
	est, err := estimate.NewLinear()
	cmdapp.CheckOrPanic(err, "Can't init estimator")
	st, err := settings.Load(cmdapp.Config)
	cmdapp.CheckOrPanic(err, "Can't init settings")

	data.Engine, err = engine.NewEngine(engine.WithNotifier(notifier), engine.WithSteps(steps),
		engine.WithIntervals(cmdapp.Config.GetInt("stages.intervals")), engine.WithEstimator(est),
		engine.WithSettings(st), engine.WithPageCounter(mockPageCounter()))
	cmdapp.CheckOrPanic(err, "Can't init engine")

	data.Hub = NewHub(data.Engine)
	notifier.Add(data.Hub)

	ptd := newPlaybackTimerData(data.Engine)
	startPlaybackTimer(ptd)
	defer func() {
		close(ptd.qChan)
		<-ptd.workWaitChan
	}()

	data.Port = cmdapp.Config.GetInt("port")
	err = StartWebServer(&data)
	cmdapp.CheckOrPanic(err, "Can't start web server")
}

func initCatalog(path string) (*voices.Catalog, error) {
	if path == "" {
		cmdapp.Log.Info("No voices.path, using built in voices")
		return voices.Default(), nil
	}
	return voices.NewFileCatalog(path)
}

var stageKeys = map[string]bool{"uploading": true, "chunking": true, "synthesizing": true,
	"merging": true, "packaging": true}

// initSteps returns default steps with durations overridden by stages.<name>.duration
func initSteps(c *viper.Viper) ([]engine.Step, error) {
	res := engine.DefaultSteps()
	for i, s := range res {
		name := s.Stage.String()
		if !stageKeys[name] {
			continue
		}
		key := "stages." + name + ".duration"
		if !c.IsSet(key) {
			continue
		}
		d := c.GetDuration(key)
		if d < 0 {
			return nil, errors.Errorf("Wrong %s: %v", key, d)
		}
		res[i].Duration = d
	}
	return res, nil
}

// mockPageCounter guesses 50-349 pages, files are not parsed
func mockPageCounter() engine.PageCounter {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return func(engine.FileInput) int {
		return 50 + rnd.Intn(300)
	}
}
