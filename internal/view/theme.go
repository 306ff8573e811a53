// Package view holds the recyclable row views the recycler binds to items.
package view

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Catppuccin Mocha palette.
var flavor = catppuccin.Mocha

var (
	colorText     = lipgloss.Color(flavor.Text().Hex)
	colorBlue     = lipgloss.Color(flavor.Blue().Hex)
	colorGreen    = lipgloss.Color(flavor.Green().Hex)
	colorMauve    = lipgloss.Color(flavor.Mauve().Hex)
	colorOverlay0 = lipgloss.Color(flavor.Overlay0().Hex)
	colorSurface1 = lipgloss.Color(flavor.Surface1().Hex)
)

// Theme is the set of styles row views render with.
type Theme struct {
	// Header is used for group header rows.
	Header lipgloss.Style
	// Cursor marks the highlighted row.
	Cursor lipgloss.Style
	// Current is the label style of the highlighted row.
	Current lipgloss.Style
	// Selected is used for checked boxes and the single-select marker.
	Selected lipgloss.Style
	// Unselected is used for empty boxes.
	Unselected lipgloss.Style
	// Dim is used for descriptions and disabled rows.
	Dim lipgloss.Style
	// Disabled is used for labels of disabled options.
	Disabled lipgloss.Style
}

// DefaultTheme returns the Mocha-based theme.
func DefaultTheme() *Theme {
	return &Theme{
		Header: lipgloss.NewStyle().
			Foreground(colorMauve).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true),
		Current: lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorSurface1).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Foreground(colorGreen),
		Unselected: lipgloss.NewStyle().
			Foreground(colorText),
		Dim: lipgloss.NewStyle().
			Foreground(colorOverlay0),
		Disabled: lipgloss.NewStyle().
			Foreground(colorOverlay0).
			Strikethrough(true),
	}
}
