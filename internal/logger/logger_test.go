package logger_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/renewd/internal/logger"
)

func TestNew_WritesJSONToRotatedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	log, err := logger.New(logger.Options{Dir: dir, Level: slog.LevelInfo})
	require.NoError(t, err)

	log.Info("engine started", "tick_interval", "1h")

	data, err := os.ReadFile(filepath.Join(dir, "renewd.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"engine started"`)
	assert.Contains(t, string(data), `"tick_interval":"1h"`)
}

func TestNew_LevelFiltering(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	log, err := logger.New(logger.Options{Dir: dir, Level: slog.LevelWarn})
	require.NoError(t, err)

	log.Debug("noisy detail")
	log.Warn("worth keeping")

	data, err := os.ReadFile(filepath.Join(dir, "renewd.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "noisy detail")
	assert.Contains(t, string(data), "worth keeping")
}
