package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/ruminaider/vselect/cmd/vselect/tui"
	"github.com/ruminaider/vselect/internal/config"
	"github.com/ruminaider/vselect/internal/item"
	"github.com/ruminaider/vselect/internal/paths"
	"github.com/ruminaider/vselect/internal/source"
)

// Input formats accepted by --format.
const (
	formatAuto  = "auto"
	formatYAML  = "yaml"
	formatJSON  = "json"
	formatLines = "lines"
)

// Output formats accepted by --output.
const (
	outputLines = "lines"
	outputJSON  = "json"
)

// parseItems decodes data. Auto detects JSON by its leading bracket, then
// tries YAML, and falls back to one option per line.
func parseItems(data []byte, format string) ([]source.Descriptor, error) {
	switch strings.ToLower(format) {
	case formatJSON:
		return source.ParseJSON(data)
	case formatYAML:
		return source.ParseYAML(data)
	case formatLines:
		return parseLines(data), nil
	case formatAuto, "":
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' || trimmed[0] == '{' {
		return source.ParseJSON(data)
	}
	if ds, err := source.ParseYAML(data); err == nil && len(ds) > 0 {
		return ds, nil
	}
	return parseLines(data), nil
}

func parseLines(data []byte) []source.Descriptor {
	var ds []source.Descriptor
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		ds = append(ds, source.Descriptor{Value: line, Text: line})
	}
	return ds
}

// readItems loads path, or r when path is empty or "-".
func readItems(path string, r io.Reader, format string) ([]source.Descriptor, error) {
	if path != "" && path != "-" {
		if format == formatAuto || format == "" {
			switch strings.ToLower(filepath.Ext(path)) {
			case ".json", ".yaml", ".yml":
				return source.LoadFile(path)
			}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return parseItems(data, format)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return parseItems(data, format)
}

// snapshotReloader re-reads a watched file the same way the first load did.
func snapshotReloader(format string) tui.Reloader {
	return func(path string) ([]source.Descriptor, error) {
		return readItems(path, nil, format)
	}
}

// loadConfig reads --config, or ~/.vselect/config.yaml.
func loadConfig(path string) (config.Config, error) {
	return config.Load(paths.Resolve(path, paths.ConfigFile()))
}

// writeSelection prints the picked options.
func writeSelection(w io.Writer, sel []*item.Option, output string) error {
	switch output {
	case outputJSON:
		out := make([]source.Descriptor, len(sel))
		for i, o := range sel {
			out[i] = source.Descriptor{Value: o.Value(), Text: o.RawText(), Selected: true}
			if g := o.Group(); g != nil {
				out[i].Group = g.Label()
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case outputLines, "":
		for _, o := range sel {
			if _, err := fmt.Fprintln(w, o.Value()); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
