package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/selimozcann/linktracer/internal/config"
)

func TestJSONLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger, err := New(config.LoggerConfig{Level: "debug", Format: "json", ServiceName: "linktracer"}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Named("trace").Debug("hop", zap.String("url", "https://a.example"))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "linktracer.trace", entry["logger"])
	assert.Equal(t, "https://a.example", entry["url"])
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger, err := New(config.LoggerConfig{Level: "warn", Format: "console"}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestInvalidLevel(t *testing.T) {
	t.Parallel()
	_, err := New(config.LoggerConfig{Level: "loud"}, zapcore.AddSync(&bytes.Buffer{}))
	assert.Error(t, err)
}

func TestFileOutput(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "linktracer.log")
	logger, err := New(config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1}, zapcore.AddSync(&bytes.Buffer{}))
	require.NoError(t, err)

	logger.Info("written to file")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"msg":"written to file"`), string(data))
}
