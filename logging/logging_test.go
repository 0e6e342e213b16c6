package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEmptyPathDiscards(t *testing.T) {
	log, err := New("debug", "console", "")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.ErrorLevel))
}

func TestJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blueprint.log")
	log, err := New("info", "json", path)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("palette reloaded", zap.Int("types", 6))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "palette reloaded", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.EqualValues(t, 6, entry["types"])
}

func TestConsoleLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blueprint.log")
	log, err := New("warn", "console", path)
	require.NoError(t, err)

	log.Info("quiet")
	log.Warn("loud")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "quiet")
	assert.Contains(t, string(data), "loud")
}

func TestInvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.log")
	_, err := New("loud", "json", path)
	assert.Error(t, err)
	_, err = New("info", "xml", path)
	assert.Error(t, err)
}
