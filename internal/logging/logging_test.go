package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purity/internal/config"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "purity.log")
	logger, err := New(config.LoggingConfig{Level: "info", File: path})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("Saved favorite")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Saved favorite", entry["msg"])
	assert.Equal(t, "info", entry["level"])
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "loud"})
	assert.ErrorContains(t, err, "invalid log level")
}

func TestForTUI_DefaultsToPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tui.log")
	logger, err := ForTUI(config.LoggingConfig{}, path)
	require.NoError(t, err)
	logger.Warn("falling back")
	require.NoError(t, logger.Sync())

	assert.FileExists(t, path)
}

func TestVerbose(t *testing.T) {
	assert.Equal(t, "debug", Verbose(config.LoggingConfig{Level: "warn"}).Level)
}
