package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	SetOutput(buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLogLevel("INFO")
	})
	return buf
}

func TestSetLogLevel_FiltersBelowThreshold(t *testing.T) {
	buf := captureOutput(t)

	SetLogLevel("warn")
	Debugf("debug %d", 1)
	Infof("info %d", 2)
	Warnf("warn %d", 3)
	Errorf("error %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info 2")
	assert.Contains(t, out, "[WARN] warn 3")
	assert.Contains(t, out, "[ERROR] error 4")
	assert.Equal(t, LevelWarn, CurrentLevel())
}

func TestSetLogLevel_UnknownFallsBackToInfo(t *testing.T) {
	buf := captureOutput(t)

	SetLogLevel("verbose")
	assert.Equal(t, LevelInfo, CurrentLevel())
	assert.Contains(t, buf.String(), "Unknown log level 'verbose'")
}

func TestLineFormatter_Layout(t *testing.T) {
	buf := captureOutput(t)

	SetLogLevel("DEBUG")
	Debugf("hello")

	line := buf.String()
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3} \[DEBUG\] hello\n$`, line)
}

func TestEnableFileOutput(t *testing.T) {
	captureOutput(t)
	dir := filepath.Join(t.TempDir(), "logs")

	closer, err := EnableFileOutput(dir, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	Infof("persisted to file")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}
