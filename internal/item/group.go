package item

// CollapseEvent describes a collapse toggle on a group.
type CollapseEvent struct {
	Group     *Group
	Collapsed bool
}

// Group is a collapsible header that owns its options.
type Group struct {
	label     string
	collapsed bool
	items     []*Option
	position  int

	view      GroupView
	isInit    bool
	destroyed bool

	onCollapse Listeners[CollapseEvent]
}

// NewGroup creates an expanded, empty group.
func NewGroup(label string) *Group {
	return &Group{label: label}
}

func (g *Group) isItem() {}

// Kind implements Item.
func (g *Group) Kind() Kind { return KindGroup }

// Key returns the label.
func (g *Group) Key() string { return g.label }

func (g *Group) Label() string    { return g.label }
func (g *Group) Position() int    { return g.position }
func (g *Group) Collapsed() bool  { return g.collapsed }
func (g *Group) Destroyed() bool  { return g.destroyed }
func (g *Group) Items() []*Option { return g.items }

// SetPosition records the group's index in the top-level list.
func (g *Group) SetPosition(p int) { g.position = p }

// SetLabel renames the group.
func (g *Group) SetLabel(label string) { g.label = label }

// Add appends o as a child and points its back-reference here.
func (g *Group) Add(o *Option) {
	if g.destroyed || o == nil {
		return
	}
	o.group = g
	o.position = len(g.items)
	g.items = append(g.items, o)
}

// SetItems replaces the children. Options dropped from the group keep their
// state but lose the back-reference.
func (g *Group) SetItems(items []*Option) {
	items = append([]*Option(nil), items...)
	for _, o := range g.items {
		if o.group == g {
			o.group = nil
		}
	}
	g.items = nil
	for _, o := range items {
		g.Add(o)
	}
}

// Remove detaches o from the group. Positions of later children shift down.
func (g *Group) Remove(o *Option) {
	for i, c := range g.items {
		if c != o {
			continue
		}
		g.items = append(g.items[:i:i], g.items[i+1:]...)
		if o.group == g {
			o.group = nil
		}
		for j := i; j < len(g.items); j++ {
			g.items[j].position = j
		}
		return
	}
}

// VisibleCount returns how many children pass the current filter.
func (g *Group) VisibleCount() int {
	n := 0
	for _, o := range g.items {
		if o.visible {
			n++
		}
	}
	return n
}

// HasVisible reports whether any child passes the current filter.
func (g *Group) HasVisible() bool {
	for _, o := range g.items {
		if o.visible {
			return true
		}
	}
	return false
}

// SetCollapsed collapses or expands the group. Children's bound views are
// suppressed for display; their visible flags are left alone.
func (g *Group) SetCollapsed(v bool) {
	if g.destroyed || g.collapsed == v {
		return
	}
	g.collapsed = v
	if g.view != nil {
		g.view.SetCollapsed(v)
	}
	for _, o := range g.items {
		if o.view != nil {
			o.view.SetSuppressed(v)
		}
	}
	g.onCollapse.Fire(CollapseEvent{Group: g, Collapsed: v})
}

// ToggleCollapse flips the collapsed state.
func (g *Group) ToggleCollapse() {
	g.SetCollapsed(!g.collapsed)
}

// OnCollapse registers a collapse listener.
func (g *Group) OnCollapse(fn func(CollapseEvent)) func() { return g.onCollapse.Add(fn) }

func (g *Group) IsInit() bool { return g.isInit }
func (g *Group) MarkInit()    { g.isInit = true }

// View returns the bound view, or nil.
func (g *Group) View() GroupView { return g.view }

// Bind attaches a header view and pushes the current state into it.
func (g *Group) Bind(v GroupView) {
	if g.destroyed {
		return
	}
	g.view = v
	if v == nil {
		return
	}
	v.SetCollapsed(g.collapsed)
	v.SetVisible(g.HasVisible())
}

// Unbind detaches the header view.
func (g *Group) Unbind() {
	g.view = nil
}

// Destroy destroys the group and every child it still owns. Safe to call
// repeatedly.
func (g *Group) Destroy() {
	if g.destroyed {
		return
	}
	g.destroyed = true
	for _, o := range g.items {
		if o.group == g {
			o.Destroy()
		}
	}
	g.items = nil
	g.view = nil
	g.onCollapse.Clear()
}
