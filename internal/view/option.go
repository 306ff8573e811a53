package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/ruminaider/vselect/internal/item"
)

// Dataset attributes an option view understands.
const (
	DataImage       = "image"
	DataAlign       = "align"
	DataDescription = "description"
)

// OptionView renders one option row. It is recycled across options: Bind
// attaches it to an option and Reset detaches it again.
type OptionView struct {
	theme    *Theme
	multiple bool

	option      *item.Option
	label       string
	image       string
	align       lipgloss.Position
	description string
	indent      bool

	selected    bool
	visible     bool
	highlighted bool
	disabled    bool
	suppressed  bool

	onClick func(*item.Option)
	onHover func(*item.Option)
}

// NewOptionView creates an unbound option view.
func NewOptionView(theme *Theme, multiple bool) *OptionView {
	if theme == nil {
		theme = DefaultTheme()
	}
	return &OptionView{theme: theme, multiple: multiple, align: lipgloss.Left}
}

// Kind implements recycler.Holder.
func (v *OptionView) Kind() item.Kind { return item.KindOption }

// Bind writes o's content into the view and attaches it to o, which pushes the
// current state flags.
func (v *OptionView) Bind(o *item.Option) {
	if v.option != nil && v.option != o && v.option.View() == item.OptionView(v) {
		v.option.Unbind()
	}
	v.option = o
	v.label = o.Text()
	v.image = o.Data(DataImage)
	v.description = item.SanitizeText(o.Data(DataDescription))
	v.indent = o.Group() != nil
	switch o.Data(DataAlign) {
	case "right":
		v.align = lipgloss.Right
	case "center":
		v.align = lipgloss.Center
	default:
		v.align = lipgloss.Left
	}
	o.Bind(v)
}

// Reset detaches the view from its option and clears the content.
func (v *OptionView) Reset() {
	if v.option != nil && v.option.View() == item.OptionView(v) {
		v.option.Unbind()
	}
	v.option = nil
	v.label, v.image, v.description = "", "", ""
	v.indent = false
	v.align = lipgloss.Left
	v.selected, v.visible, v.highlighted, v.disabled, v.suppressed = false, false, false, false, false
}

// Option returns the bound option, or nil.
func (v *OptionView) Option() *item.Option { return v.option }

// OnClick sets the activation handler. It receives whichever option is bound
// when the click happens.
func (v *OptionView) OnClick(fn func(*item.Option)) { v.onClick = fn }

// OnHover sets the hover handler.
func (v *OptionView) OnHover(fn func(*item.Option)) { v.onHover = fn }

// Click activates the bound option.
func (v *OptionView) Click() {
	if v.option == nil || v.onClick == nil || !v.Shown() {
		return
	}
	v.onClick(v.option)
}

// Hover reports the pointer entering the row.
func (v *OptionView) Hover() {
	if v.option == nil || v.onHover == nil || !v.Shown() {
		return
	}
	v.onHover(v.option)
}

func (v *OptionView) SetSelected(b bool)    { v.selected = b }
func (v *OptionView) SetVisible(b bool)     { v.visible = b }
func (v *OptionView) SetHighlighted(b bool) { v.highlighted = b }
func (v *OptionView) SetDisabled(b bool)    { v.disabled = b }
func (v *OptionView) SetSuppressed(b bool)  { v.suppressed = b }

func (v *OptionView) Selected() bool    { return v.selected }
func (v *OptionView) Highlighted() bool { return v.highlighted }
func (v *OptionView) Disabled() bool    { return v.disabled }
func (v *OptionView) Suppressed() bool  { return v.suppressed }
func (v *OptionView) Label() string     { return v.label }

// Shown reports whether the row displays at all.
func (v *OptionView) Shown() bool { return v.visible && !v.suppressed }

func (v *OptionView) prefixWidth() int {
	w := 2 // cursor
	if v.indent {
		w += 2
	}
	if v.multiple {
		w += 4 // "[x] "
	} else {
		w += 2 // "● "
	}
	if v.image != "" {
		w += runewidth.StringWidth(v.image) + 1
	}
	return w
}

func (v *OptionView) contentWidth(width int) int {
	cw := width - v.prefixWidth()
	if cw < 1 {
		cw = 1
	}
	return cw
}

// Measure implements recycler.Holder. A non-positive width yields 0, which the
// recycler treats as a failed measurement.
func (v *OptionView) Measure(width int) int {
	if width <= 0 || v.option == nil {
		return 0
	}
	cw := v.contentWidth(width)
	n := len(wrap(v.label, cw))
	if v.description != "" {
		n += len(wrap(v.description, cw))
	}
	return n
}

// Render returns exactly Measure(width) lines.
func (v *OptionView) Render(width int) []string {
	if width <= 0 || v.option == nil {
		return nil
	}
	t := v.theme
	cw := v.contentWidth(width)
	pad := strings.Repeat(" ", v.prefixWidth())

	var prefix strings.Builder
	if v.highlighted {
		prefix.WriteString(t.Cursor.Render(">"))
		prefix.WriteByte(' ')
	} else {
		prefix.WriteString("  ")
	}
	if v.indent {
		prefix.WriteString("  ")
	}
	prefix.WriteString(v.marker())
	prefix.WriteByte(' ')
	if v.image != "" {
		prefix.WriteString(v.image)
		prefix.WriteByte(' ')
	}

	labelStyle := lipgloss.NewStyle()
	switch {
	case v.disabled:
		labelStyle = t.Disabled
	case v.highlighted:
		labelStyle = t.Current
	}
	labelStyle = labelStyle.Width(cw).Align(v.align)

	var out []string
	for i, line := range wrap(v.label, cw) {
		lead := pad
		if i == 0 {
			lead = prefix.String()
		}
		out = append(out, ansi.Truncate(lead+labelStyle.Render(line), width, ""))
	}
	if v.description != "" {
		for _, line := range wrap(v.description, cw) {
			out = append(out, ansi.Truncate(pad+t.Dim.Render(line), width, ""))
		}
	}
	return out
}

func (v *OptionView) marker() string {
	t := v.theme
	if v.multiple {
		switch {
		case v.disabled && v.selected:
			return t.Dim.Render("[x]")
		case v.disabled:
			return t.Dim.Render("[-]")
		case v.selected:
			return t.Selected.Render("[x]")
		default:
			return t.Unselected.Render("[ ]")
		}
	}
	if v.selected {
		return t.Selected.Render("●")
	}
	return " "
}
