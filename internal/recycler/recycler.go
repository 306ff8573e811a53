// Package recycler renders a bounded window over a large row list. It keeps
// row heights in a Fenwick tree for O(log n) offset lookups and recycles view
// instances through a per-kind pool, so the number of live views depends on
// the viewport, not on the dataset size.
package recycler

import (
	"errors"
	"io"
	"log/slog"
	"sort"

	"github.com/ruminaider/vselect/internal/item"
)

// Sentinel errors.
var (
	// ErrDestroyed is returned by lifecycle calls on a destroyed recycler.
	ErrDestroyed = errors.New("recycler: destroyed")
	// ErrOutOfRange is returned when a row index does not exist.
	ErrOutOfRange = errors.New("recycler: index out of range")
	// ErrHidden is returned when a row occupies no space and cannot be shown.
	ErrHidden = errors.New("recycler: row is hidden")
)

const (
	DefaultOverscan       = 4
	DefaultEstimateHeight = 1
)

// Container is the scrollable host. Offsets and heights are in lines.
type Container interface {
	ScrollTop() int
	SetScrollTop(top int)
	ViewportHeight() int
	ViewportWidth() int
	// SetPadding reports the space taken by rows before and after the
	// rendered window so the host can keep scrollbar proportions.
	SetPadding(top, bottom int)
}

// Holder is a recyclable view instance.
type Holder interface {
	Kind() item.Kind
	// Measure returns the row height for width. Values <= 0 are treated as a
	// failed measurement.
	Measure(width int) int
}

// Adapter maps rows to views.
type Adapter interface {
	Len() int
	Row(i int) item.Item
	// Hidden reports rows that take no space (filtered out or collapsed).
	Hidden(i int) bool
	// ViewHolder constructs a new view for kind. It must not reuse views.
	ViewHolder(c Container, kind item.Kind) Holder
	// OnViewHolder binds row to h, which may be a recycled view.
	OnViewHolder(row item.Item, h Holder, position int)
	// OnViewRecycled unbinds row from h before h returns to the pool.
	OnViewRecycled(row item.Item, h Holder)
}

// Options configures a Recycler.
type Options struct {
	Overscan       int
	EstimateHeight int
	Logger         *slog.Logger
}

// EnsureOptions tunes EnsureRendered.
type EnsureOptions struct {
	ScrollIntoView bool
}

// Slot is one rendered row.
type Slot struct {
	Index  int
	Offset int
	Height int
	Row    item.Item
	Holder Holder
}

type slot struct {
	index  int
	holder Holder
}

// Recycler virtualizes an Adapter inside a Container.
type Recycler struct {
	container Container
	adapter   Adapter
	overscan  int
	estimate  int
	log       *slog.Logger

	rows     []item.Item
	index    map[item.Item]int
	heights  *fenwick
	shown    *fenwick
	measured map[item.Item]int

	live        map[item.Item]*slot
	pool        map[item.Kind][]Holder
	constructed int

	start, end   int
	pinned       item.Item
	pinnedScroll bool
	rebindAll    bool

	suspended         bool
	pending           bool
	pendingStructural bool
	destroyed         bool
}

// New creates a recycler for container. Call SetAdapter to start rendering.
func New(container Container, opts Options) *Recycler {
	if opts.Overscan < 0 {
		opts.Overscan = 0
	}
	if opts.EstimateHeight <= 0 {
		opts.EstimateHeight = DefaultEstimateHeight
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Recycler{
		container: container,
		overscan:  opts.Overscan,
		estimate:  opts.EstimateHeight,
		log:       opts.Logger,
		index:     make(map[item.Item]int),
		heights:   newFenwick(0),
		shown:     newFenwick(0),
		measured:  make(map[item.Item]int),
		live:      make(map[item.Item]*slot),
		pool:      make(map[item.Kind][]Holder),
	}
}

// SetAdapter drops every view and renders a from the top.
func (r *Recycler) SetAdapter(a Adapter) error {
	if r.destroyed {
		return ErrDestroyed
	}
	r.Clear()
	r.adapter = a
	return r.Refresh(false)
}

// Refresh recomputes rows and the render window. isUpdate=true marks a
// content update: the scroll anchor and views of surviving rows are kept.
// isUpdate=false marks a structural replace: scroll resets and all views
// return to the pool.
func (r *Recycler) Refresh(isUpdate bool) error {
	if r.destroyed {
		return ErrDestroyed
	}
	if r.suspended {
		r.pending = true
		r.pendingStructural = r.pendingStructural || !isUpdate
		return nil
	}
	if r.adapter == nil || r.container == nil {
		return nil
	}

	var anchor item.Item
	delta := 0
	if isUpdate && len(r.rows) > 0 {
		top := r.container.ScrollTop()
		if i := r.heights.search(top); i < len(r.rows) {
			anchor = r.rows[i]
			delta = top - r.heights.prefix(i)
		}
	}

	if !isUpdate {
		r.releaseAll()
		r.measured = make(map[item.Item]int)
	}
	r.sync()

	switch {
	case !isUpdate:
		r.container.SetScrollTop(0)
	case anchor != nil:
		if j, ok := r.index[anchor]; ok && r.shown.get(j) > 0 {
			if h := r.heights.get(j); delta >= h {
				delta = h - 1
			}
			r.container.SetScrollTop(r.heights.prefix(j) + delta)
		}
	}
	r.clampScroll()
	r.rebindAll = isUpdate
	r.layout()
	r.log.Debug("recycler refresh",
		"update", isUpdate,
		"rows", len(r.rows),
		"window_start", r.start,
		"window_end", r.end,
		"live", len(r.live))
	return nil
}

// Remeasure discards measured heights, e.g. after the container width
// changed, and refreshes in place.
func (r *Recycler) Remeasure() error {
	if r.destroyed {
		return ErrDestroyed
	}
	r.measured = make(map[item.Item]int)
	return r.Refresh(true)
}

// EnsureRendered forces row index into the window. With ScrollIntoView the
// viewport moves the minimum distance needed to show the whole row.
func (r *Recycler) EnsureRendered(index int, opts EnsureOptions) error {
	if r.destroyed {
		return ErrDestroyed
	}
	if index < 0 || index >= len(r.rows) {
		return ErrOutOfRange
	}
	if r.shown.get(index) == 0 {
		return ErrHidden
	}
	r.pinned = r.rows[index]
	if r.suspended {
		// Resolved by the refresh Resume runs.
		r.pinnedScroll = opts.ScrollIntoView
		r.pending = true
		return nil
	}
	r.layout()
	if opts.ScrollIntoView {
		r.scrollIntoView(index)
		r.pinned = nil
		r.layout()
	}
	return nil
}

// ScrollBy moves the viewport by delta lines.
func (r *Recycler) ScrollBy(delta int) error {
	if r.container == nil {
		return nil
	}
	return r.ScrollTo(r.container.ScrollTop() + delta)
}

// ScrollTo moves the viewport top to line top.
func (r *Recycler) ScrollTo(top int) error {
	if r.destroyed {
		return ErrDestroyed
	}
	if r.container == nil {
		return nil
	}
	r.container.SetScrollTop(top)
	r.clampScroll()
	r.pinned = nil
	if r.suspended {
		r.pending = true
		return nil
	}
	r.layout()
	return nil
}

// Suspend pauses window recomputation. Refresh calls made while suspended
// collapse into one refresh on Resume.
func (r *Recycler) Suspend() {
	r.suspended = true
}

// Resume re-enables recomputation and runs any pending refresh.
func (r *Recycler) Resume() error {
	if r.destroyed {
		return ErrDestroyed
	}
	r.suspended = false
	if !r.pending {
		return nil
	}
	structural := r.pendingStructural
	r.pending = false
	r.pendingStructural = false
	if err := r.Refresh(!structural); err != nil {
		return err
	}
	if r.pinned != nil && r.pinnedScroll {
		r.pinnedScroll = false
		if j, ok := r.index[r.pinned]; ok {
			r.scrollIntoView(j)
		}
		r.pinned = nil
		r.layout()
	}
	return nil
}

// Clear unbinds every view and forgets all rows. Pooled views are discarded.
func (r *Recycler) Clear() {
	r.releaseAll()
	r.pool = make(map[item.Kind][]Holder)
	r.rows = nil
	r.index = make(map[item.Item]int)
	r.measured = make(map[item.Item]int)
	r.heights.reset(nil)
	r.shown.reset(nil)
	r.start, r.end = 0, 0
	r.pinned = nil
	if r.container != nil {
		r.container.SetPadding(0, 0)
	}
}

// Destroy releases everything. Later calls are no-ops or return ErrDestroyed.
func (r *Recycler) Destroy() {
	if r.destroyed {
		return
	}
	r.Clear()
	r.adapter = nil
	r.destroyed = true
}

// Window returns the rendered rows in display order.
func (r *Recycler) Window() []Slot {
	out := make([]Slot, 0, len(r.live))
	for row, s := range r.live {
		out = append(out, Slot{
			Index:  s.index,
			Offset: r.heights.prefix(s.index),
			Height: r.heights.get(s.index),
			Row:    row,
			Holder: s.holder,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Holder returns the live view for row, if it is rendered.
func (r *Recycler) Holder(row item.Item) (Holder, bool) {
	s, ok := r.live[row]
	if !ok {
		return nil, false
	}
	return s.holder, true
}

func (r *Recycler) LiveCount() int   { return len(r.live) }
func (r *Recycler) Constructed() int { return r.constructed }
func (r *Recycler) TotalHeight() int { return r.heights.total() }
func (r *Recycler) RowCount() int    { return len(r.rows) }
func (r *Recycler) Suspended() bool  { return r.suspended }
func (r *Recycler) Destroyed() bool  { return r.destroyed }

// Range returns the row window [start, end).
func (r *Recycler) Range() (start, end int) { return r.start, r.end }

// Offset returns the line offset of row index.
func (r *Recycler) Offset(index int) int { return r.heights.prefix(index) }

// IndexAt returns the row containing line offset y, or -1.
func (r *Recycler) IndexAt(y int) int {
	i := r.heights.search(y)
	if i >= len(r.rows) {
		return -1
	}
	return i
}

// sync snapshots the adapter rows and rebuilds both trees.
func (r *Recycler) sync() {
	n := r.adapter.Len()
	rows := make([]item.Item, n)
	index := make(map[item.Item]int, n)
	heights := make([]int, n)
	shown := make([]int, n)
	measured := make(map[item.Item]int, len(r.measured))
	for i := 0; i < n; i++ {
		row := r.adapter.Row(i)
		rows[i] = row
		index[row] = i
		if h, ok := r.measured[row]; ok {
			measured[row] = h
		}
		if r.adapter.Hidden(i) {
			continue
		}
		h := measured[row]
		if h <= 0 {
			h = r.estimate
		}
		heights[i] = h
		shown[i] = 1
	}
	r.rows = rows
	r.index = index
	r.measured = measured
	r.heights.reset(heights)
	r.shown.reset(shown)

	for row, s := range r.live {
		j, ok := index[row]
		if !ok || shown[j] == 0 {
			r.release(row, s)
			continue
		}
		s.index = j
	}
	if r.pinned != nil {
		if j, ok := index[r.pinned]; !ok || shown[j] == 0 {
			r.pinned = nil
		}
	}
}

// window computes [start, end) from the scroll position, extending by
// overscan shown rows on each side.
func (r *Recycler) window() (int, int) {
	n := len(r.rows)
	count := r.shown.total()
	if n == 0 || count == 0 {
		return 0, 0
	}
	top := r.container.ScrollTop()
	vh := r.container.ViewportHeight()
	if vh < 1 {
		vh = 1
	}
	first := r.heights.search(top)
	if first >= n {
		first = r.shown.search(count - 1)
	}
	last := r.heights.search(top + vh - 1)
	if last >= n {
		last = r.shown.search(count - 1)
	}

	startRank := r.shown.prefix(first) - r.overscan
	if startRank < 0 {
		startRank = 0
	}
	endRank := r.shown.prefix(last+1) + r.overscan
	if endRank > count {
		endRank = count
	}
	return r.shown.search(startRank), r.shown.search(endRank-1) + 1
}

// layout binds the current window, re-running while measurements move it.
func (r *Recycler) layout() {
	if r.adapter == nil || r.container == nil {
		return
	}
	for pass := 0; pass < 3; pass++ {
		start, end := r.window()
		changed := r.bind(start, end)
		r.start, r.end = start, end
		if !changed {
			break
		}
		r.clampScroll()
	}
	r.rebindAll = false
	top := r.heights.prefix(r.start)
	bottom := r.heights.total() - r.heights.prefix(r.end)
	r.container.SetPadding(top, bottom)
}

// bind releases views leaving [start, end) before acquiring views for rows
// entering it, so the pool is drained before anything is constructed. It
// reports whether any height changed.
func (r *Recycler) bind(start, end int) bool {
	for row, s := range r.live {
		if (s.index < start || s.index >= end) && row != r.pinned {
			r.release(row, s)
		}
	}

	changed := false
	width := r.container.ViewportWidth()
	visit := func(i int) {
		if r.shown.get(i) == 0 {
			return
		}
		row := r.rows[i]
		s, ok := r.live[row]
		switch {
		case !ok:
			s = &slot{index: i, holder: r.acquire(row.Kind())}
			r.live[row] = s
		case r.rebindAll || s.index != i:
			s.index = i
		default:
			return
		}
		r.adapter.OnViewHolder(row, s.holder, i)
		if r.measure(i, row, s.holder, width) {
			changed = true
		}
	}
	for i := start; i < end; i++ {
		visit(i)
	}
	if r.pinned != nil {
		if j, ok := r.index[r.pinned]; ok && (j < start || j >= end) {
			visit(j)
		}
	}
	return changed
}

func (r *Recycler) measure(i int, row item.Item, h Holder, width int) bool {
	height := h.Measure(width)
	if height <= 0 {
		r.log.Debug("recycler measure fallback", "index", i, "measured", height, "estimate", r.estimate)
		height = r.estimate
	}
	r.measured[row] = height
	if r.heights.get(i) == height {
		return false
	}
	r.heights.set(i, height)
	return true
}

func (r *Recycler) acquire(kind item.Kind) Holder {
	if free := r.pool[kind]; len(free) > 0 {
		h := free[len(free)-1]
		r.pool[kind] = free[:len(free)-1]
		return h
	}
	r.constructed++
	return r.adapter.ViewHolder(r.container, kind)
}

func (r *Recycler) release(row item.Item, s *slot) {
	if r.adapter != nil {
		r.adapter.OnViewRecycled(row, s.holder)
	}
	delete(r.live, row)
	kind := s.holder.Kind()
	r.pool[kind] = append(r.pool[kind], s.holder)
}

func (r *Recycler) releaseAll() {
	for row, s := range r.live {
		r.release(row, s)
	}
}

func (r *Recycler) scrollIntoView(index int) {
	top := r.container.ScrollTop()
	vh := r.container.ViewportHeight()
	off := r.heights.prefix(index)
	h := r.heights.get(index)
	switch {
	case off < top:
		r.container.SetScrollTop(off)
	case off+h > top+vh:
		r.container.SetScrollTop(off + h - vh)
	}
	r.clampScroll()
}

func (r *Recycler) clampScroll() {
	if r.container == nil {
		return
	}
	maxTop := r.heights.total() - r.container.ViewportHeight()
	if maxTop < 0 {
		maxTop = 0
	}
	top := r.container.ScrollTop()
	switch {
	case top < 0:
		r.container.SetScrollTop(0)
	case top > maxTop:
		r.container.SetScrollTop(maxTop)
	}
}
