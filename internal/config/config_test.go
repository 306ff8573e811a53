package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ruminaider/vselect/internal/config"
	"github.com/ruminaider/vselect/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	t.Run("full format", func(t *testing.T) {
		input := []byte(`multiple: true
overscan: 8
debounce_ms: 40
height: 20
locale: fr
search:
  mode: fuzzy
  match_group_label: true
remote:
  url: http://localhost:8080/search
  param: term
log:
  level: debug
  file: /tmp/vselect.log
`)
		cfg, err := config.Parse(input)
		require.NoError(t, err)
		assert.True(t, cfg.Multiple)
		assert.Equal(t, 8, cfg.Overscan)
		assert.Equal(t, 40*time.Millisecond, cfg.Debounce())
		assert.Equal(t, 20, cfg.Height)
		assert.Equal(t, "fr", cfg.Locale)
		assert.Equal(t, search.Options{Mode: search.ModeFuzzy, MatchGroupLabel: true}, cfg.SearchOptions())
		assert.Equal(t, "term", cfg.Remote.Param)
		assert.Equal(t, 10*time.Second, cfg.Timeout())
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("empty config gets defaults", func(t *testing.T) {
		cfg, err := config.Parse([]byte(``))
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
		assert.Equal(t, config.DefaultOverscan, cfg.Overscan)
		assert.Equal(t, "substring", cfg.Search.Mode)
		assert.Equal(t, "q", cfg.Remote.Param)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := config.Parse([]byte(`{{{`))
		assert.Error(t, err)
	})
}

func TestNormalizeClamps(t *testing.T) {
	cfg := config.Normalize(config.Config{Overscan: 10000, DebounceMS: -5, Search: config.Search{Mode: "bogus"}})
	assert.Equal(t, 200, cfg.Overscan)
	assert.Zero(t, cfg.Debounce())
	assert.Equal(t, "substring", cfg.Search.Mode)
}

func TestParseTOML(t *testing.T) {
	input := []byte(`multiple = true
height = 7

[search]
mode = "fuzzy"

[remote]
url = "http://example.test"
`)
	cfg, err := config.ParseTOML(input)
	require.NoError(t, err)
	assert.True(t, cfg.Multiple)
	assert.Equal(t, 7, cfg.Height)
	assert.Equal(t, "fuzzy", cfg.Search.Mode)
	assert.Equal(t, "http://example.test", cfg.Remote.URL)

	_, err = config.ParseTOML([]byte(`height = `))
	assert.Error(t, err)
}

func TestMarshalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Multiple = true
	cfg.Remote.URL = "http://example.test"

	data, err := config.Marshal(cfg)
	require.NoError(t, err)
	parsed, err := config.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, parsed)

	data, err = config.MarshalTOML(cfg)
	require.NoError(t, err)
	parsed, err = config.ParseTOML(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, parsed)
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	cfg.Height = 30
	for _, name := range []string{"nested/config.yaml", "config.toml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, config.Save(path, cfg))
		got, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, 30, got.Height, name)
	}

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("height: [\n"), 0o644))
	_, err = config.Load(bad)
	assert.Error(t, err)
}
