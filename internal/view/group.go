package view

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"

	"github.com/ruminaider/vselect/internal/item"
)

// GroupView renders a group header row.
type GroupView struct {
	theme *Theme

	group     *item.Group
	label     string
	collapsed bool
	visible   bool

	onToggle func(*item.Group)
}

// NewGroupView creates an unbound header view.
func NewGroupView(theme *Theme) *GroupView {
	if theme == nil {
		theme = DefaultTheme()
	}
	return &GroupView{theme: theme}
}

// Kind implements recycler.Holder.
func (v *GroupView) Kind() item.Kind { return item.KindGroup }

// Bind writes the header text and attaches the view to g.
func (v *GroupView) Bind(g *item.Group) {
	if v.group != nil && v.group != g && v.group.View() == item.GroupView(v) {
		v.group.Unbind()
	}
	v.group = g
	v.label = item.SanitizeText(g.Label())
	g.Bind(v)
}

// Reset detaches the view from its group.
func (v *GroupView) Reset() {
	if v.group != nil && v.group.View() == item.GroupView(v) {
		v.group.Unbind()
	}
	v.group = nil
	v.label = ""
	v.collapsed, v.visible = false, false
}

// Group returns the bound group, or nil.
func (v *GroupView) Group() *item.Group { return v.group }

// OnToggle sets the collapse-toggle handler.
func (v *GroupView) OnToggle(fn func(*item.Group)) { v.onToggle = fn }

// Toggle asks the handler to flip the bound group.
func (v *GroupView) Toggle() {
	if v.group == nil || v.onToggle == nil {
		return
	}
	v.onToggle(v.group)
}

func (v *GroupView) SetCollapsed(b bool) { v.collapsed = b }
func (v *GroupView) SetVisible(b bool)   { v.visible = b }

func (v *GroupView) Collapsed() bool { return v.collapsed }
func (v *GroupView) Shown() bool     { return v.visible }
func (v *GroupView) Label() string   { return v.label }

// Measure implements recycler.Holder. Headers are one line.
func (v *GroupView) Measure(width int) int {
	if width <= 0 || v.group == nil {
		return 0
	}
	return 1
}

// Render returns the header line, e.g. "── ▾ Fruits (3) ──".
func (v *GroupView) Render(width int) []string {
	if width <= 0 || v.group == nil {
		return nil
	}
	arrow := "▾"
	if v.collapsed {
		arrow = "▸"
	}
	line := fmt.Sprintf("── %s %s (%d) ──", arrow, v.label, v.group.VisibleCount())
	return []string{ansi.Truncate(v.theme.Header.Render(line), width, "…")}
}
