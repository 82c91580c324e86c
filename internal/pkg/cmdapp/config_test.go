package cmdapp

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "test",
		Long:  `test`,
		Run:   run}
}

func run(cmd *cobra.Command, args []string) {
	Log.Info("Starting test service")
}

func TestReadEnvironmentVariable(t *testing.T) {
	t.Setenv("STAGES_INTERVALS", "7")
	InitApplication(newRootCmd())

	assert.Equal(t, 7, Config.GetInt("stages.intervals"))
}

func TestReadConfig(t *testing.T) {
	initAppFromTempFile(t, "messageServer:\n     url: olia\n")

	assert.Equal(t, "olia", Config.GetString("messageServer.url"))
}

func TestEnvBeatsConfig(t *testing.T) {
	t.Setenv("MESSAGESERVER_URL", "xxxx")
	initAppFromTempFile(t, "messageServer:\n     url: olia\n")

	assert.Equal(t, "xxxx", Config.GetString("messageServer.url"))
}

func TestDefaultLogger(t *testing.T) {
	initDefaultLevel()
	initAppFromTempFile(t, "")

	assert.Equal(t, "info", Log.GetLevel().String())
}

func TestLoggerInitFromConfig(t *testing.T) {
	initDefaultLevel()
	initAppFromTempFile(t, "logger:\n    level: trace\n")

	assert.Equal(t, "trace", Log.GetLevel().String())
}

func TestCheckOrPanic(t *testing.T) {
	assert.NotPanics(t, func() { CheckOrPanic(nil, "msg") })
	assert.Panics(t, func() { CheckOrPanic(os.ErrNotExist, "msg") })
	assert.Panics(t, func() { CheckOrPanic(os.ErrNotExist, "") })
}

func initAppFromTempFile(t *testing.T, data string) {
	f, err := os.CreateTemp("", "test.*.yml")
	require.Nil(t, err)
	_, err = f.WriteString(data)
	require.Nil(t, err)
	f.Sync()
	f.Close()

	defer os.Remove(f.Name())

	rootCmd := newRootCmd()
	InitApplication(rootCmd)
	configFile = f.Name()
	rootCmd.SetArgs([]string{})
	require.Nil(t, rootCmd.Execute())
}

func initDefaultLevel() {
	Log.SetLevel(logrus.ErrorLevel)
}
