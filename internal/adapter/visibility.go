package adapter

import "github.com/ruminaider/vselect/internal/item"

// VisibilityStats counts the flat list. It is never cached.
func (a *Adapter) VisibilityStats() VisibilityStats {
	s := VisibilityStats{TotalCount: len(a.flat)}
	for _, o := range a.flat {
		if o.Visible() {
			s.VisibleCount++
		}
	}
	s.HasVisible = s.VisibleCount > 0
	s.IsEmpty = s.TotalCount == 0
	return s
}

// FlushVisibility delivers a pending visibility notification now.
func (a *Adapter) FlushVisibility() {
	if a.destroyed {
		return
	}
	a.debounce.Flush()
}

// VisibilityPending reports whether a notification is waiting on the
// debouncer.
func (a *Adapter) VisibilityPending() bool { return a.debounce.Pending() }

func (a *Adapter) onOptionVisible(o *item.Option) {
	if a.destroyed || !a.member(o) {
		return
	}
	a.debounce.Trigger(a.flushVisibility)
}

// flushVisibility runs once per burst of visibility flips: one layout pass
// and one notification.
func (a *Adapter) flushVisibility() {
	if a.destroyed {
		return
	}
	a.refresh()
	if !a.skip {
		a.onVisibility.Fire(a.VisibilityStats())
	}
}

func (a *Adapter) refresh() {
	if a.renderer == nil {
		return
	}
	if err := a.renderer.Refresh(true); err != nil {
		a.log.Debug("adapter refresh skipped", "error", err)
	}
}
