// Package search filters options locally and fetches remote results with
// request cancellation.
package search

import (
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ruminaider/vselect/internal/item"
)

// Mode selects the local matching strategy.
type Mode string

const (
	ModeSubstring Mode = "substring"
	ModeFuzzy     Mode = "fuzzy"
)

// ParseMode maps a config string to a Mode, defaulting to substring.
func ParseMode(s string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(s))) == ModeFuzzy {
		return ModeFuzzy
	}
	return ModeSubstring
}

// Options tunes Filter.
type Options struct {
	Mode Mode
	// MatchGroupLabel shows every child of a group whose label matches.
	MatchGroupLabel bool
}

// Fold lowercases s and strips combining marks, so "Crème" matches "creme".
func Fold(s string) string {
	return newFolder().fold(s)
}

// folder holds one accent-stripping chain and caser. Not safe for
// concurrent use.
type folder struct {
	strip transform.Transformer
	lower cases.Caser
}

func newFolder() *folder {
	return &folder{
		strip: transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		lower: cases.Fold(),
	}
}

func (f *folder) fold(s string) string {
	out, _, err := transform.String(f.strip, s)
	if err != nil {
		out = s
	}
	return f.lower.String(out)
}

// Filter sets each option's visible flag for query and returns how many
// options are visible. An empty query shows everything.
func Filter(items []item.Item, query string, opts Options) int {
	f := newFolder()
	q := f.fold(strings.TrimSpace(query))
	flat := item.Flatten(items)
	if q == "" {
		for _, o := range flat {
			o.SetVisible(true)
		}
		return len(flat)
	}

	match := make(map[*item.Option]bool, len(flat))
	switch opts.Mode {
	case ModeFuzzy:
		texts := make([]string, len(flat))
		for i, o := range flat {
			texts[i] = f.fold(o.Text())
		}
		for _, m := range fuzzy.Find(q, texts) {
			match[flat[m.Index]] = true
		}
	default:
		for _, o := range flat {
			if strings.Contains(f.fold(o.Text()), q) {
				match[o] = true
			}
		}
	}

	if opts.MatchGroupLabel {
		for _, it := range items {
			g, ok := it.(*item.Group)
			if !ok || !labelMatches(f.fold(g.Label()), q, opts.Mode) {
				continue
			}
			for _, o := range g.Items() {
				match[o] = true
			}
		}
	}

	n := 0
	for _, o := range flat {
		o.SetVisible(match[o])
		if match[o] {
			n++
		}
	}
	return n
}

func labelMatches(l, q string, mode Mode) bool {
	if mode == ModeFuzzy {
		return len(fuzzy.Find(q, []string{l})) > 0
	}
	return strings.Contains(l, q)
}
