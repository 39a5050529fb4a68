package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestMultiHandlerFansOut(t *testing.T) {
	var debugBuf, errorBuf bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&errorBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	)).With("component", "test")

	logger.Debug("loading model")
	logger.Error("model missing")

	assert.Contains(t, debugBuf.String(), "loading model")
	assert.Contains(t, debugBuf.String(), "model missing")
	assert.NotContains(t, errorBuf.String(), "loading model")
	assert.Contains(t, errorBuf.String(), "component=test")
}

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, closer, err := New("info", path)
	require.NoError(t, err)
	logger.Info("server starting", "addr", ":8080")
	logger.Debug("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "server starting", entry["msg"])
	assert.Equal(t, ":8080", entry["addr"])
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, _, err := New("loud", "")
	assert.Error(t, err)
}
