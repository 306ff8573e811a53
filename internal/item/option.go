package item

// SelectEvent describes a selection write on an option.
type SelectEvent struct {
	Option   *Option
	Selected bool
}

// Option is one selectable leaf.
type Option struct {
	value    string
	text     string // sanitized, used for display and search
	rawText  string // as supplied by the source
	data     map[string]string
	position int
	group    *Group

	selected    bool
	visible     bool
	highlighted bool
	disabled    bool

	view      OptionView
	isInit    bool
	destroyed bool

	onSelect     Listeners[SelectEvent] // external: user-visible changes
	onSelectSync Listeners[SelectEvent] // internal: bookkeeping only
	onVisible    Listeners[*Option]
	onHighlight  Listeners[*Option]
}

// NewOption creates a visible, unselected option.
func NewOption(value, text string) *Option {
	return &Option{
		value:   value,
		text:    SanitizeText(text),
		rawText: text,
		visible: true,
	}
}

func (o *Option) isItem() {}

// Kind implements Item.
func (o *Option) Kind() Kind { return KindOption }

// Key returns value::text.
func (o *Option) Key() string { return OptionKey(o.value, o.rawText) }

func (o *Option) Value() string   { return o.value }
func (o *Option) Text() string    { return o.text }
func (o *Option) RawText() string { return o.rawText }
func (o *Option) Position() int   { return o.position }
func (o *Option) Group() *Group   { return o.group }

// SetPosition records the option's index within its list or group.
func (o *Option) SetPosition(p int) { o.position = p }

// Data returns a dataset attribute, or "" when absent.
func (o *Option) Data(key string) string {
	return o.data[key]
}

// SetData replaces the dataset attributes.
func (o *Option) SetData(data map[string]string) {
	if len(data) == 0 {
		o.data = nil
		return
	}
	o.data = make(map[string]string, len(data))
	for k, v := range data {
		o.data[k] = v
	}
}

// SetText updates value and label in place, keeping the instance identity.
func (o *Option) SetText(value, text string) {
	o.value = value
	o.rawText = text
	o.text = SanitizeText(text)
}

func (o *Option) Selected() bool    { return o.selected }
func (o *Option) Visible() bool     { return o.visible }
func (o *Option) Highlighted() bool { return o.highlighted }
func (o *Option) Disabled() bool    { return o.disabled }
func (o *Option) Destroyed() bool   { return o.destroyed }

// SetSelected writes the selection and notifies both the internal and the
// external registries. Use it for changes the user should observe.
func (o *Option) SetSelected(v bool) {
	if o.destroyed {
		return
	}
	o.SyncSelected(v)
	o.onSelect.Fire(SelectEvent{Option: o, Selected: v})
}

// SyncSelected writes the selection, syncs the bound view and notifies only
// the internal registry. Programmatic restores and bulk selection use it so no
// outer change event cascades.
func (o *Option) SyncSelected(v bool) {
	if o.destroyed {
		return
	}
	o.selected = v
	if o.view != nil {
		o.view.SetSelected(v)
	}
	o.onSelectSync.Fire(SelectEvent{Option: o, Selected: v})
}

// SetVisible sets the filter visibility. Writing the current value is a no-op.
func (o *Option) SetVisible(v bool) {
	if o.destroyed || o.visible == v {
		return
	}
	o.visible = v
	if o.view != nil {
		o.view.SetVisible(v)
	}
	o.onVisible.Fire(o)
}

// SetHighlighted moves the navigation cursor on or off this option.
func (o *Option) SetHighlighted(v bool) {
	if o.destroyed || o.highlighted == v {
		return
	}
	o.highlighted = v
	if o.view != nil {
		o.view.SetHighlighted(v)
	}
	o.onHighlight.Fire(o)
}

// SetDisabled marks the option as not activatable.
func (o *Option) SetDisabled(v bool) {
	if o.destroyed {
		return
	}
	o.disabled = v
	if o.view != nil {
		o.view.SetDisabled(v)
	}
}

// OnSelect registers an external selection listener.
func (o *Option) OnSelect(fn func(SelectEvent)) func() { return o.onSelect.Add(fn) }

// OnSelectSync registers an internal selection listener. It also fires for
// SetSelected since both channels share the stored flag.
func (o *Option) OnSelectSync(fn func(SelectEvent)) func() { return o.onSelectSync.Add(fn) }

// OnVisible registers a visibility listener.
func (o *Option) OnVisible(fn func(*Option)) func() { return o.onVisible.Add(fn) }

// OnHighlight registers a highlight listener.
func (o *Option) OnHighlight(fn func(*Option)) func() { return o.onHighlight.Add(fn) }

// IsInit reports whether listeners have been wired for this model.
func (o *Option) IsInit() bool { return o.isInit }

// MarkInit records that listeners are wired.
func (o *Option) MarkInit() { o.isInit = true }

// View returns the bound view, or nil.
func (o *Option) View() OptionView { return o.view }

// Bind attaches a view and pushes the current state into it. A view is owned
// by at most one option; the caller unbinds the previous owner first.
func (o *Option) Bind(v OptionView) {
	if o.destroyed {
		return
	}
	o.view = v
	if v == nil {
		return
	}
	v.SetSelected(o.selected)
	v.SetVisible(o.visible)
	v.SetHighlighted(o.highlighted)
	v.SetDisabled(o.disabled)
	v.SetSuppressed(o.group != nil && o.group.collapsed)
}

// Unbind detaches the current view.
func (o *Option) Unbind() {
	o.view = nil
}

// Destroy releases listeners and the view handle. Safe to call repeatedly.
func (o *Option) Destroy() {
	if o.destroyed {
		return
	}
	o.destroyed = true
	o.view = nil
	o.group = nil
	o.highlighted = false
	o.onSelect.Clear()
	o.onSelectSync.Clear()
	o.onVisible.Clear()
	o.onHighlight.Clear()
}
