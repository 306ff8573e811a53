package view

import "github.com/ruminaider/vselect/internal/item"

// Row is what a host needs from any live row view.
type Row interface {
	Kind() item.Kind
	Measure(width int) int
	Render(width int) []string
	Shown() bool
}

var (
	_ Row             = (*OptionView)(nil)
	_ Row             = (*GroupView)(nil)
	_ item.OptionView = (*OptionView)(nil)
	_ item.GroupView  = (*GroupView)(nil)
)
