package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/ruminaider/vselect/internal/adapter"
	"github.com/ruminaider/vselect/internal/locale"
)

// StatusBar renders the bottom row with visibility counts, the last notice
// and keyboard shortcuts.
type StatusBar struct {
	loc      *locale.Localizer
	multiple bool
	stats    adapter.VisibilityStats
	selected int
	notice   string
	isError  bool
	width    int
}

// NewStatusBar creates a status bar for a single or multi picker.
func NewStatusBar(loc *locale.Localizer, multiple bool) StatusBar {
	return StatusBar{loc: loc, multiple: multiple}
}

// SetWidth sets the available width for rendering.
func (s *StatusBar) SetWidth(w int) {
	s.width = w
}

// Update refreshes the counts.
func (s *StatusBar) Update(stats adapter.VisibilityStats, selected int) {
	s.stats = stats
	s.selected = selected
}

// Notice replaces the transient message. An empty message clears it.
func (s *StatusBar) Notice(msg string, isError bool) {
	s.notice = msg
	s.isError = isError
}

// View renders the status bar.
func (s StatusBar) View() string {
	left := s.loc.T(locale.VisibleCount, map[string]any{
		"Visible": s.stats.VisibleCount,
		"Total":   s.stats.TotalCount,
	})
	if s.multiple {
		left += " · " + s.loc.N(locale.SelectedCount, s.selected)
	}
	if s.notice != "" {
		n := s.notice
		if s.isError {
			n = ErrorStyle.Render(n)
		}
		left += " · " + n
	}

	help := locale.Help
	if s.multiple {
		help = locale.HelpMulti
	}
	right := StatusBarKeyStyle.Render(s.loc.T(help, nil))

	gap := s.width - 2 - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	content := left + strings.Repeat(" ", gap) + right
	if s.width > 2 {
		content = ansi.Truncate(content, s.width-2, "")
	}
	return StatusBarStyle.Width(s.width).Render(content)
}
