package tui

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Catppuccin Mocha palette.
var flavor = catppuccin.Mocha

var (
	colorSurface0 = lipgloss.Color(flavor.Surface0().Hex)
	colorSurface1 = lipgloss.Color(flavor.Surface1().Hex)
	colorText     = lipgloss.Color(flavor.Text().Hex)
	colorSubtext0 = lipgloss.Color(flavor.Subtext0().Hex)
	colorBlue     = lipgloss.Color(flavor.Blue().Hex)
	colorRed      = lipgloss.Color(flavor.Red().Hex)
	colorYellow   = lipgloss.Color(flavor.Yellow().Hex)
	colorOverlay0 = lipgloss.Color(flavor.Overlay0().Hex)
)

// Search box styles.
var (
	// PromptStyle is the "> " in front of the query.
	PromptStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	// PlaceholderStyle is used for the empty-query hint.
	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(colorOverlay0)

	// SeparatorStyle is the rule under the search box.
	SeparatorStyle = lipgloss.NewStyle().
			Foreground(colorSurface1)
)

// List styles.
var (
	// EmptyStyle renders the no-results line.
	EmptyStyle = lipgloss.NewStyle().
			Foreground(colorOverlay0).
			Italic(true).
			PaddingLeft(2)

	// ErrorStyle renders remote failures in the status bar.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Background(colorSurface0)
)

// Status bar styles.
var (
	// StatusBarStyle is the base style for the bottom status bar.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorSurface0).
			Padding(0, 1)

	// StatusBarKeyStyle highlights keyboard shortcuts in the status bar.
	StatusBarKeyStyle = lipgloss.NewStyle().
				Foreground(colorYellow).
				Background(colorSurface0).
				Bold(true)

	// StatusBarTextStyle is plain status bar text.
	StatusBarTextStyle = lipgloss.NewStyle().
				Foreground(colorText).
				Background(colorSurface0)
)
