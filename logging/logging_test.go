package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/fwdcurve/config"
	"github.com/meenmo/fwdcurve/logging"
)

func TestSetupWritesRotatingFile(t *testing.T) {
	dir := t.TempDir()
	closer, err := logging.Setup(config.Logging{Level: "debug", FilePath: dir}, "curvebuild")
	require.NoError(t, err)
	t.Cleanup(func() {
		closer.Close()
		logrus.SetOutput(os.Stderr)
	})

	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	logrus.WithField("pillar", "2030-01-17").Info("node solved")

	data, err := os.ReadFile(filepath.Join(dir, "curvebuild", "curvebuild.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "node solved")
	assert.Contains(t, string(data), "pillar=2030-01-17")
}

func TestSetupFallsBackToInfo(t *testing.T) {
	closer, err := logging.Setup(config.Logging{Level: "chatty"}, "curvebuild")
	require.NoError(t, err)
	t.Cleanup(func() {
		closer.Close()
		logrus.SetOutput(os.Stderr)
	})
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())

	_, err = logging.Setup(config.Logging{}, "")
	assert.Error(t, err)
}
