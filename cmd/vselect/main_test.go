package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruminaider/vselect/internal/config"
	"github.com/ruminaider/vselect/internal/item"
	"github.com/ruminaider/vselect/internal/source"
)

func TestParseItems(t *testing.T) {
	t.Run("json list", func(t *testing.T) {
		ds, err := parseItems([]byte(`[{"value": "1", "text": "one"}]`), formatAuto)
		require.NoError(t, err)
		require.Len(t, ds, 1)
		assert.Equal(t, "one", ds[0].Text)
	})

	t.Run("yaml document", func(t *testing.T) {
		ds, err := parseItems([]byte("items:\n  - value: a\n    text: Alpha\n"), formatAuto)
		require.NoError(t, err)
		require.Len(t, ds, 1)
		assert.Equal(t, "Alpha", ds[0].Text)
	})

	t.Run("plain lines", func(t *testing.T) {
		ds, err := parseItems([]byte("red\n\n green \nblue\n"), formatLines)
		require.NoError(t, err)
		require.Len(t, ds, 3)
		assert.Equal(t, source.Descriptor{Value: "green", Text: "green"}, ds[1])
	})

	t.Run("auto falls back to lines", func(t *testing.T) {
		ds, err := parseItems([]byte("just: some: text\nmore text\n"), formatAuto)
		require.NoError(t, err)
		assert.Len(t, ds, 2)
	})

	t.Run("empty input", func(t *testing.T) {
		ds, err := parseItems([]byte("  \n"), formatAuto)
		require.NoError(t, err)
		assert.Empty(t, ds)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := parseItems(nil, "xml")
		assert.Error(t, err)
	})
}

func TestReadItemsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0o644))

	ds, err := readItems(path, nil, formatAuto)
	require.NoError(t, err)
	assert.Len(t, ds, 2)

	ds, err = readItems("-", strings.NewReader("x\n"), formatLines)
	require.NoError(t, err)
	assert.Len(t, ds, 1)

	_, err = readItems(filepath.Join(dir, "missing.json"), nil, formatAuto)
	assert.Error(t, err)
}

func TestSnapshotReloaderMatchesFirstLoad(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "list.txt")
	require.NoError(t, os.WriteFile(list, []byte("a\nb\n"), 0o644))

	ds, err := snapshotReloader(formatAuto)(list)
	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.Equal(t, "b", ds[1].OptionText())

	bare := filepath.Join(dir, "snapshot")
	require.NoError(t, os.WriteFile(bare, []byte("- value: x\n  text: Ex\n"), 0o644))
	ds, err = snapshotReloader(formatYAML)(bare)
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, "Ex", ds[0].Text)
}

func TestWriteSelection(t *testing.T) {
	g := item.NewGroup("Fruit")
	a := item.NewOption("a", "Apple")
	g.Add(a)
	sel := []*item.Option{a, item.NewOption("k", "Kiwi")}

	var buf bytes.Buffer
	require.NoError(t, writeSelection(&buf, sel, outputLines))
	assert.Equal(t, "a\nk\n", buf.String())

	buf.Reset()
	require.NoError(t, writeSelection(&buf, sel, outputJSON))
	var out []source.Descriptor
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "Fruit", out[0].Group)
	assert.Equal(t, "Kiwi", out[1].Text)

	assert.Error(t, writeSelection(&buf, sel, "csv"))
}

func TestBuildReport(t *testing.T) {
	ds := make([]source.Descriptor, 500)
	for i := range ds {
		ds[i] = source.Descriptor{Value: fmt.Sprint(i), Text: fmt.Sprintf("item %d", i)}
	}

	rep, err := buildReport(ds, config.Config{Height: 10, Overscan: 2}, "item 4")
	require.NoError(t, err)
	// "item 4" plus "item 40".."item 49" plus "item 400".."item 499"
	assert.Equal(t, 111, rep.Visible)
	assert.Equal(t, 500, rep.Total)
	assert.Equal(t, 111, rep.Height)
	assert.LessOrEqual(t, rep.Live, 10+2)
	assert.Equal(t, "item 4", rep.Rendered[0])

	var buf bytes.Buffer
	require.NoError(t, rep.write(&buf, false))
	assert.Contains(t, buf.String(), "111 of 500 options visible")

	buf.Reset()
	require.NoError(t, rep.write(&buf, true))
	assert.Contains(t, buf.String(), `"visible": 111`)
}

func TestValidateHeight(t *testing.T) {
	assert.NoError(t, validateHeight("12"))
	assert.Error(t, validateHeight("0"))
	assert.Error(t, validateHeight("tall"))
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "vselect "+version+"\n", buf.String())
}

func TestStatsCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`- label: Fruit
  options:
    - {value: a, text: Apple}
    - {value: b, text: Banana}
- {value: c, text: Grape}
`), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"stats", path, "--query", "ap", "--config", filepath.Join(dir, "none.yaml")})
	require.NoError(t, rootCmd.Execute())

	got := out.String()
	assert.Contains(t, got, "2 of 3 options visible (1 groups)")
	assert.Contains(t, got, "[Fruit]")
	assert.Contains(t, got, "Apple")
	assert.Contains(t, got, "Grape")
	assert.NotContains(t, got, "Banana")
}
