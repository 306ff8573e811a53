package adapter

import (
	"github.com/ruminaider/vselect/internal/item"
	"github.com/ruminaider/vselect/internal/recycler"
)

func (a *Adapter) onOptionSync(e item.SelectEvent) {
	o := e.Option
	if a.multiple || !a.member(o) {
		return
	}
	if !e.Selected {
		if a.selected == o {
			a.selected = nil
		}
		return
	}
	prev := a.selected
	if prev != nil && prev != o && prev.Selected() {
		prev.SyncSelected(false)
	}
	a.selected = o
}

func (a *Adapter) onOptionSelect(e item.SelectEvent) {
	if a.skip || !a.member(e.Option) {
		return
	}
	if a.batching {
		a.batch = append(a.batch, e.Option)
		return
	}
	a.onSelection.Fire(SelectionEvent{Options: []*item.Option{e.Option}})
}

func (a *Adapter) onOptionHighlight(o *item.Option) {
	if !a.member(o) {
		return
	}
	if o.Highlighted() {
		prev := a.highlighted
		a.highlighted = o
		if prev != nil && prev != o {
			prev.SetHighlighted(false)
		}
		if !a.skip {
			a.onHighlight.Fire(HighlightEvent{Option: o, Index: a.FlatIndex(o)})
		}
		return
	}
	if a.highlighted == o {
		a.highlighted = nil
		if !a.skip {
			a.onHighlight.Fire(HighlightEvent{Index: -1})
		}
	}
}

func (a *Adapter) onGroupCollapse(e item.CollapseEvent) {
	if _, ok := a.rowIndex[e.Group]; !ok || a.destroyed {
		return
	}
	if h := a.highlighted; e.Collapsed && h != nil && h.Group() == e.Group {
		h.SetHighlighted(false)
	}
	a.refresh()
	if !a.skip {
		a.onCollapsed.Fire(e)
	}
}

// Activate applies a click to o. Single mode deselects every other option
// before selecting o; multi mode toggles o. Disabled options ignore it.
func (a *Adapter) Activate(o *item.Option) {
	if a.destroyed || o == nil || !a.member(o) || o.Disabled() {
		return
	}
	a.batching = true
	a.batch = a.batch[:0]
	if a.multiple {
		o.SetSelected(!o.Selected())
	} else if !o.Selected() {
		if prev := a.selected; prev != nil && prev != o {
			prev.SetSelected(false)
		}
		for _, x := range a.flat {
			if x != o && x.Selected() {
				x.SetSelected(false)
			}
		}
		o.SetSelected(true)
	}
	a.batching = false
	if len(a.batch) > 0 && !a.skip {
		changed := append([]*item.Option(nil), a.batch...)
		a.onSelection.Fire(SelectionEvent{Options: changed})
	}
	a.batch = a.batch[:0]
}

// Navigate moves the cursor dir steps among navigable options, wrapping at
// both ends. Without a current highlight it lands on the first option going
// forward and the last going back. No-op when nothing is visible.
func (a *Adapter) Navigate(dir int) {
	if a.destroyed || dir == 0 {
		return
	}
	vis := a.navigableOptions()
	n := len(vis)
	if n == 0 {
		return
	}
	cur := -1
	for i, o := range vis {
		if o == a.highlighted {
			cur = i
			break
		}
	}
	var next int
	switch {
	case cur < 0 && dir > 0:
		next = 0
	case cur < 0:
		next = n - 1
	default:
		next = ((cur+dir)%n + n) % n
	}
	a.highlight(vis[next], true)
}

// SetHighlight clears the cursor, then highlights the first navigable option
// at or after flat index. It does not wrap: when nothing qualifies up to the
// end no option is highlighted. It returns the highlighted option.
func (a *Adapter) SetHighlight(index int, scroll bool) *item.Option {
	if a.destroyed {
		return nil
	}
	a.clearHighlight()
	if index < 0 {
		index = 0
	}
	for i := index; i < len(a.flat); i++ {
		if o := a.flat[i]; navigable(o) {
			a.highlight(o, scroll)
			return o
		}
	}
	return nil
}

// ResetHighlight puts the cursor on the selected option when it is
// navigable, otherwise on the first navigable option.
func (a *Adapter) ResetHighlight() {
	if a.destroyed {
		return
	}
	if o := a.SelectedItem(); o != nil && navigable(o) {
		a.clearHighlight()
		a.highlight(o, true)
		return
	}
	a.SetHighlight(0, true)
}

// Highlighted returns the option under the cursor, or nil.
func (a *Adapter) Highlighted() *item.Option { return a.highlighted }

// SelectHighlighted activates the highlighted option if it is navigable.
func (a *Adapter) SelectHighlighted() {
	o := a.highlighted
	if o == nil || !navigable(o) {
		return
	}
	a.Activate(o)
}

// SelectedItem returns the selected option: the tracked one in single mode,
// the first in display order in multi mode.
func (a *Adapter) SelectedItem() *item.Option {
	if o := a.selected; !a.multiple && o != nil && a.member(o) && o.Selected() {
		return o
	}
	for _, o := range a.flat {
		if o.Selected() {
			return o
		}
	}
	return nil
}

// SelectedItems returns every selected option in display order.
func (a *Adapter) SelectedItems() []*item.Option {
	var out []*item.Option
	for _, o := range a.flat {
		if o.Selected() {
			out = append(out, o)
		}
	}
	return out
}

// CheckAll sets every visible, enabled option to v in multi mode and emits
// one selection event for the batch. It returns how many options changed.
func (a *Adapter) CheckAll(v bool) int {
	if a.destroyed || !a.multiple {
		return 0
	}
	var changed []*item.Option
	for _, o := range a.flat {
		if !o.Visible() || o.Disabled() || o.Selected() == v {
			continue
		}
		o.SyncSelected(v)
		changed = append(changed, o)
	}
	if len(changed) > 0 && !a.skip {
		a.onSelection.Fire(SelectionEvent{Options: changed})
	}
	return len(changed)
}

// SyncFromSource re-derives the tracked selection from the model flags. In
// single mode the last selected option in display order wins, however
// recently its flag was set, and the others are cleared silently.
func (a *Adapter) SyncFromSource() {
	if a.destroyed {
		return
	}
	if a.multiple {
		a.selected = nil
		return
	}
	var last *item.Option
	for _, o := range a.flat {
		if o.Selected() {
			last = o
		}
	}
	a.selected = last
	for _, o := range a.flat {
		if o != last && o.Selected() {
			o.SyncSelected(false)
		}
	}
}

func (a *Adapter) navigableOptions() []*item.Option {
	out := make([]*item.Option, 0, len(a.flat))
	for _, o := range a.flat {
		if navigable(o) {
			out = append(out, o)
		}
	}
	return out
}

func (a *Adapter) clearHighlight() {
	if h := a.highlighted; h != nil {
		h.SetHighlighted(false)
	}
	a.highlighted = nil
}

func (a *Adapter) highlight(o *item.Option, scroll bool) {
	o.SetHighlighted(true)
	if scroll {
		a.scrollTo(o)
	}
}

// scrollTo brings o into view. An option without a live view is virtualized
// out, so the recycler renders it first.
func (a *Adapter) scrollTo(o *item.Option) {
	if a.renderer == nil {
		return
	}
	row, ok := a.rowIndex[o]
	if !ok {
		return
	}
	if _, live := a.renderer.Holder(o); !live {
		a.log.Debug("adapter ensure rendered", "row", row, "value", o.Value())
	}
	if err := a.renderer.EnsureRendered(row, recycler.EnsureOptions{ScrollIntoView: true}); err != nil {
		a.log.Debug("adapter scroll skipped", "row", row, "error", err)
	}
}
