package logging_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruminaider/vselect/internal/logging"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"loud":    slog.LevelInfo,
	}
	for raw, want := range tests {
		assert.Equal(t, want, logging.ParseLevel(raw), raw)
	}
}

func TestLevelChangesAtRuntime(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(&buf, slog.LevelInfo)

	l.Debug("hidden")
	assert.Zero(t, buf.Len())

	l.SetRawLevel("debug")
	assert.Equal(t, slog.LevelDebug, l.Level())
	l.With("component", "recycler").Debug("shown", "rows", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "recycler", rec["component"])
	assert.EqualValues(t, 3, rec["rows"])
}

func TestOpenWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "vselect.log")
	l, err := logging.Open(path, "info")
	require.NoError(t, err)
	l.Info("hello")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestOpenWithoutPathDiscards(t *testing.T) {
	l, err := logging.Open("", "debug")
	require.NoError(t, err)
	l.Error("dropped")
	assert.NoError(t, l.Close())
}
