package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesJSONToFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(LogConfig{
		Level:   "debug",
		Format:  "json",
		Output:  "file",
		LogPath: dir,
		AppFile: "app.log",
		MaxSize: 1,
	}))
	t.Cleanup(func() { app = nil })

	assert.Equal(t, logrus.DebugLevel, Log().GetLevel())
	WithCollection("orders").Warn("dropping malformed order")

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"collection":"orders"`)
	assert.Contains(t, string(data), `"level":"warning"`)
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	require.NoError(t, Init(LogConfig{Level: "loud"}))
	t.Cleanup(func() { app = nil })
	assert.Equal(t, logrus.InfoLevel, Log().GetLevel())
}
