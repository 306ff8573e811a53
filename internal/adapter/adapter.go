// Package adapter owns the canonical item list and maps it onto recyclable
// views. It derives the flat option list and the row projection the recycler
// windows over, tracks selection and the highlight cursor, and aggregates
// visibility.
package adapter

import (
	"io"
	"log/slog"
	"time"

	"github.com/ruminaider/vselect/internal/item"
	"github.com/ruminaider/vselect/internal/recycler"
	"github.com/ruminaider/vselect/internal/schedule"
	"github.com/ruminaider/vselect/internal/view"
)

// EventItems is the change-event name SetItems emits.
const EventItems = "items"

// Renderer is the part of the recycler the adapter drives.
type Renderer interface {
	Holder(row item.Item) (recycler.Holder, bool)
	EnsureRendered(index int, opts recycler.EnsureOptions) error
	Refresh(isUpdate bool) error
}

// Options configures an Adapter.
type Options struct {
	Multiple bool
	Theme    *view.Theme
	// Scheduler drives the visibility debouncer. Nil uses a manual scheduler,
	// so notifications only go out on FlushVisibility.
	Scheduler schedule.Scheduler
	Debounce  time.Duration
	Logger    *slog.Logger
}

// HighlightEvent reports the cursor moving. Index is the flat index, or -1
// when the highlight was cleared.
type HighlightEvent struct {
	Option *item.Option
	Index  int
}

// SelectionEvent reports one user-visible selection change. Options lists
// every option whose flag changed.
type SelectionEvent struct {
	Options []*item.Option
}

// VisibilityStats is derived from the flat list on every call.
type VisibilityStats struct {
	VisibleCount int
	TotalCount   int
	HasVisible   bool
	IsEmpty      bool
}

// Adapter implements recycler.Adapter over a mixed group/option list.
type Adapter struct {
	multiple bool
	theme    *view.Theme
	log      *slog.Logger

	items     []item.Item
	flat      []*item.Option
	groups    []*item.Group
	rows      []item.Item
	flatIndex map[*item.Option]int
	rowIndex  map[item.Item]int

	selected    *item.Option
	highlighted *item.Option

	renderer Renderer
	debounce *schedule.Debouncer
	cancels  map[item.Item][]func()

	skip      bool
	batching  bool
	batch     []*item.Option
	destroyed bool

	onHighlight  item.Listeners[HighlightEvent]
	onCollapsed  item.Listeners[item.CollapseEvent]
	onSelection  item.Listeners[SelectionEvent]
	onVisibility item.Listeners[VisibilityStats]
	onChanging   item.Listeners[string]
	onChanged    item.Listeners[string]
}

// New creates an empty adapter.
func New(opts Options) *Adapter {
	if opts.Scheduler == nil {
		opts.Scheduler = schedule.NewManual()
	}
	if opts.Theme == nil {
		opts.Theme = view.DefaultTheme()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Adapter{
		multiple:  opts.Multiple,
		theme:     opts.Theme,
		log:       opts.Logger,
		debounce:  schedule.NewDebouncer(opts.Scheduler, opts.Debounce),
		flatIndex: make(map[*item.Option]int),
		rowIndex:  make(map[item.Item]int),
		cancels:   make(map[item.Item][]func()),
	}
}

// AttachRenderer connects the recycler used for scroll and refresh requests.
func (a *Adapter) AttachRenderer(r Renderer) { a.renderer = r }

func (a *Adapter) Multiple() bool              { return a.multiple }
func (a *Adapter) Destroyed() bool             { return a.destroyed }
func (a *Adapter) Items() []item.Item          { return a.items }
func (a *Adapter) FlatOptions() []*item.Option { return a.flat }
func (a *Adapter) Groups() []*item.Group       { return a.groups }

// FlatIndex returns o's index in the flat list, or -1.
func (a *Adapter) FlatIndex(o *item.Option) int {
	if i, ok := a.flatIndex[o]; ok {
		return i
	}
	return -1
}

// RowIndex returns it's row index in the recycler projection, or -1.
func (a *Adapter) RowIndex(it item.Item) int {
	if i, ok := a.rowIndex[it]; ok {
		return i
	}
	return -1
}

// SetItems replaces the list and emits changing/changed around the swap.
func (a *Adapter) SetItems(items []item.Item) {
	if a.destroyed {
		return
	}
	a.TriggerChanging(EventItems)
	a.UpdateData(items)
	a.TriggerChanged(EventItems)
}

// UpdateData replaces the list without emitting change events.
func (a *Adapter) UpdateData(items []item.Item) {
	if a.destroyed {
		return
	}
	a.items = append([]item.Item(nil), items...)
	a.rebuild()
}

// rebuild derives flat, groups and rows from items and adopts new models.
func (a *Adapter) rebuild() {
	a.flat = nil
	a.groups = nil
	a.rows = nil
	a.flatIndex = make(map[*item.Option]int, len(a.flatIndex))
	a.rowIndex = make(map[item.Item]int, len(a.rowIndex))

	addOption := func(o *item.Option) {
		a.flatIndex[o] = len(a.flat)
		a.flat = append(a.flat, o)
		a.rowIndex[o] = len(a.rows)
		a.rows = append(a.rows, o)
		a.watchOption(o)
	}
	for pos, it := range a.items {
		switch v := it.(type) {
		case *item.Group:
			v.SetPosition(pos)
			a.groups = append(a.groups, v)
			a.rowIndex[v] = len(a.rows)
			a.rows = append(a.rows, v)
			a.watchGroup(v)
			for i, o := range v.Items() {
				o.SetPosition(i)
				addOption(o)
			}
		case *item.Option:
			v.SetPosition(pos)
			addOption(v)
		}
	}

	for it, cancels := range a.cancels {
		if _, ok := a.rowIndex[it]; ok {
			continue
		}
		if destroyedItem(it) {
			for _, c := range cancels {
				c()
			}
			delete(a.cancels, it)
		}
	}
	if a.selected != nil && !a.member(a.selected) {
		a.selected = nil
	}
	if a.highlighted != nil && !a.member(a.highlighted) {
		a.highlighted = nil
	}
}

func destroyedItem(it item.Item) bool {
	switch v := it.(type) {
	case *item.Option:
		return v.Destroyed()
	case *item.Group:
		return v.Destroyed()
	}
	return false
}

func (a *Adapter) member(o *item.Option) bool {
	_, ok := a.flatIndex[o]
	return ok && !o.Destroyed()
}

// watchOption wires the adapter's listeners on first adoption only.
func (a *Adapter) watchOption(o *item.Option) {
	if o.IsInit() {
		return
	}
	o.MarkInit()
	a.cancels[o] = append(a.cancels[o],
		o.OnSelectSync(a.onOptionSync),
		o.OnSelect(a.onOptionSelect),
		o.OnVisible(a.onOptionVisible),
		o.OnHighlight(a.onOptionHighlight),
	)
}

func (a *Adapter) watchGroup(g *item.Group) {
	if g.IsInit() {
		return
	}
	g.MarkInit()
	a.cancels[g] = append(a.cancels[g], g.OnCollapse(a.onGroupCollapse))
}

// Len implements recycler.Adapter.
func (a *Adapter) Len() int { return len(a.rows) }

// Row implements recycler.Adapter.
func (a *Adapter) Row(i int) item.Item { return a.rows[i] }

// Hidden implements recycler.Adapter. Filtered options, children of
// collapsed groups and groups without visible children take no space.
func (a *Adapter) Hidden(i int) bool {
	switch v := a.rows[i].(type) {
	case *item.Option:
		return !navigable(v)
	case *item.Group:
		return !v.HasVisible()
	}
	return true
}

// navigable reports options the cursor may land on.
func navigable(o *item.Option) bool {
	if !o.Visible() {
		return false
	}
	g := o.Group()
	return g == nil || !g.Collapsed()
}

// ViewHolder implements recycler.Adapter. Each call constructs a fresh view
// with its interaction handlers attached once.
func (a *Adapter) ViewHolder(_ recycler.Container, kind item.Kind) recycler.Holder {
	switch kind {
	case item.KindGroup:
		v := view.NewGroupView(a.theme)
		v.OnToggle(a.toggleGroup)
		return v
	default:
		v := view.NewOptionView(a.theme, a.multiple)
		v.OnClick(a.Activate)
		v.OnHover(func(o *item.Option) {
			if i := a.FlatIndex(o); i >= 0 {
				a.SetHighlight(i, false)
			}
		})
		return v
	}
}

// OnViewHolder implements recycler.Adapter.
func (a *Adapter) OnViewHolder(row item.Item, h recycler.Holder, position int) {
	switch v := row.(type) {
	case *item.Option:
		ov, ok := h.(*view.OptionView)
		if !ok {
			a.log.Error("adapter bind: holder kind mismatch", "row", position, "kind", h.Kind().String())
			return
		}
		ov.Bind(v)
	case *item.Group:
		gv, ok := h.(*view.GroupView)
		if !ok {
			a.log.Error("adapter bind: holder kind mismatch", "row", position, "kind", h.Kind().String())
			return
		}
		gv.Bind(v)
	}
}

// OnViewRecycled implements recycler.Adapter.
func (a *Adapter) OnViewRecycled(_ item.Item, h recycler.Holder) {
	switch v := h.(type) {
	case *view.OptionView:
		v.Reset()
	case *view.GroupView:
		v.Reset()
	}
}

func (a *Adapter) toggleGroup(g *item.Group) {
	if a.destroyed {
		return
	}
	g.ToggleCollapse()
}

// SkipEvent suppresses adapter-level events while on.
func (a *Adapter) SkipEvent(skip bool) { a.skip = skip }

// Skipping reports whether events are suppressed.
func (a *Adapter) Skipping() bool { return a.skip }

// TriggerChanging emits a changing event named name.
func (a *Adapter) TriggerChanging(name string) {
	if a.skip || a.destroyed {
		return
	}
	a.onChanging.Fire(name)
}

// TriggerChanged emits a changed event named name.
func (a *Adapter) TriggerChanged(name string) {
	if a.skip || a.destroyed {
		return
	}
	a.onChanged.Fire(name)
}

func (a *Adapter) OnHighlightChange(fn func(HighlightEvent)) func() { return a.onHighlight.Add(fn) }
func (a *Adapter) OnCollapsedChange(fn func(item.CollapseEvent)) func() {
	return a.onCollapsed.Add(fn)
}
func (a *Adapter) OnSelectionChange(fn func(SelectionEvent)) func() { return a.onSelection.Add(fn) }
func (a *Adapter) OnVisibilityChanged(fn func(VisibilityStats)) func() {
	return a.onVisibility.Add(fn)
}
func (a *Adapter) OnChanging(fn func(string)) func() { return a.onChanging.Add(fn) }
func (a *Adapter) OnChanged(fn func(string)) func()  { return a.onChanged.Add(fn) }

// Destroy stops the debouncer and drops every listener the adapter wired.
// Models are left to their owner. Safe to call repeatedly.
func (a *Adapter) Destroy() {
	if a.destroyed {
		return
	}
	a.destroyed = true
	a.debounce.Stop()
	for _, cancels := range a.cancels {
		for _, c := range cancels {
			c()
		}
	}
	a.cancels = nil
	a.items, a.flat, a.groups, a.rows = nil, nil, nil, nil
	a.flatIndex = map[*item.Option]int{}
	a.rowIndex = map[item.Item]int{}
	a.selected, a.highlighted = nil, nil
	a.renderer = nil
	a.onHighlight.Clear()
	a.onCollapsed.Clear()
	a.onSelection.Clear()
	a.onVisibility.Clear()
	a.onChanging.Clear()
	a.onChanged.Clear()
}
