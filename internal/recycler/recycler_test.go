package recycler

import (
	"fmt"
	"testing"

	"github.com/ruminaider/vselect/internal/item"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContainer struct {
	top, height, width int
	padTop, padBottom  int
}

func (c *fakeContainer) ScrollTop() int          { return c.top }
func (c *fakeContainer) SetScrollTop(top int)    { c.top = top }
func (c *fakeContainer) ViewportHeight() int     { return c.height }
func (c *fakeContainer) ViewportWidth() int      { return c.width }
func (c *fakeContainer) SetPadding(top, bot int) { c.padTop, c.padBottom = top, bot }

type fakeHolder struct {
	kind   item.Kind
	id     int
	height int
	bound  item.Item
}

func (h *fakeHolder) Kind() item.Kind { return h.kind }
func (h *fakeHolder) Measure(int) int { return h.height }

type fakeAdapter struct {
	rows     []item.Item
	hidden   map[int]bool
	heightOf func(item.Item) int
	made     int
	binds    int
	recycled int
}

func newFakeAdapter(n int) *fakeAdapter {
	a := &fakeAdapter{hidden: map[int]bool{}}
	for i := 0; i < n; i++ {
		a.rows = append(a.rows, item.NewOption(fmt.Sprint(i), fmt.Sprintf("row %d", i)))
	}
	return a
}

func (a *fakeAdapter) Len() int            { return len(a.rows) }
func (a *fakeAdapter) Row(i int) item.Item { return a.rows[i] }
func (a *fakeAdapter) Hidden(i int) bool   { return a.hidden[i] }
func (a *fakeAdapter) ViewHolder(_ Container, k item.Kind) Holder {
	a.made++
	return &fakeHolder{kind: k, id: a.made, height: 1}
}
func (a *fakeAdapter) OnViewHolder(row item.Item, h Holder, _ int) {
	a.binds++
	fh := h.(*fakeHolder)
	fh.bound = row
	if a.heightOf != nil {
		fh.height = a.heightOf(row)
	}
}
func (a *fakeAdapter) OnViewRecycled(_ item.Item, h Holder) {
	a.recycled++
	h.(*fakeHolder).bound = nil
}

func setup(t *testing.T, n, height, overscan int) (*Recycler, *fakeAdapter, *fakeContainer) {
	t.Helper()
	c := &fakeContainer{height: height, width: 40}
	a := newFakeAdapter(n)
	r := New(c, Options{Overscan: overscan, EstimateHeight: 1})
	require.NoError(t, r.SetAdapter(a))
	return r, a, c
}

func TestLiveViewsBoundedByWindow(t *testing.T) {
	for _, n := range []int{10, 10000} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			const height, overscan = 8, 3
			r, a, _ := setup(t, n, height, overscan)
			bound := height + 1 + 2*overscan

			for top := 0; top < r.TotalHeight(); top += 7 {
				require.NoError(t, r.ScrollTo(top))
				assert.LessOrEqual(t, r.LiveCount(), bound)
			}
			assert.LessOrEqual(t, a.made, bound, "constructed views must not grow with the dataset")
			assert.Equal(t, a.made, r.Constructed())
		})
	}
}

func TestWindowAndPadding(t *testing.T) {
	r, _, c := setup(t, 100, 10, 2)
	start, end := r.Range()
	assert.Equal(t, 0, start)
	assert.Equal(t, 12, end)
	assert.Equal(t, 0, c.padTop)
	assert.Equal(t, 88, c.padBottom)

	require.NoError(t, r.ScrollTo(50))
	start, end = r.Range()
	assert.Equal(t, 48, start)
	assert.Equal(t, 62, end)
	assert.Equal(t, 48, c.padTop)
	assert.Equal(t, 38, c.padBottom)

	require.NoError(t, r.ScrollTo(1000))
	assert.Equal(t, 90, c.top, "scroll clamps to the last page")
}

func TestHiddenRowsTakeNoSpaceOrViews(t *testing.T) {
	c := &fakeContainer{height: 5, width: 40}
	a := newFakeAdapter(20)
	for i := 0; i < 20; i++ {
		if i%2 == 1 {
			a.hidden[i] = true
		}
	}
	r := New(c, Options{Overscan: 0})
	require.NoError(t, r.SetAdapter(a))

	assert.Equal(t, 10, r.TotalHeight())
	for _, s := range r.Window() {
		assert.Equal(t, 0, s.Index%2, "hidden rows never get a view")
	}
	assert.Equal(t, 5, r.LiveCount())
}

func TestDynamicHeightsAndFallback(t *testing.T) {
	c := &fakeContainer{height: 6, width: 40}
	a := newFakeAdapter(10)
	a.heightOf = func(row item.Item) int {
		switch row.(*item.Option).Value() {
		case "0":
			return 3
		case "1":
			return 0 // failed measurement
		}
		return 1
	}
	r := New(c, Options{Overscan: 0, EstimateHeight: 2})
	require.NoError(t, r.SetAdapter(a))

	slots := r.Window()
	require.NotEmpty(t, slots)
	assert.Equal(t, 3, slots[0].Height)
	assert.Equal(t, 2, slots[1].Height, "zero measurement falls back to the estimate")
	assert.Equal(t, 3, slots[1].Offset)
	assert.Equal(t, 1, r.IndexAt(4))
}

func TestRecyclingReusesViews(t *testing.T) {
	r, a, _ := setup(t, 1000, 5, 0)
	made := a.made
	require.NoError(t, r.ScrollTo(500))
	assert.Equal(t, made, a.made)
	assert.Greater(t, a.recycled, 0)
	for _, s := range r.Window() {
		assert.Same(t, s.Row, s.Holder.(*fakeHolder).bound)
	}
}

func TestRefreshUpdateKeepsAnchorAndViews(t *testing.T) {
	r, a, c := setup(t, 100, 10, 0)
	require.NoError(t, r.ScrollTo(40))
	anchor := a.rows[40]
	h, ok := r.Holder(anchor)
	require.True(t, ok)

	// Insert five rows ahead of the anchor.
	var extra []item.Item
	for i := 0; i < 5; i++ {
		extra = append(extra, item.NewOption(fmt.Sprint("new", i), "new"))
	}
	a.rows = append(extra, a.rows...)
	require.NoError(t, r.Refresh(true))

	assert.Equal(t, 45, c.top)
	h2, ok := r.Holder(anchor)
	require.True(t, ok)
	assert.Same(t, h, h2, "surviving rows keep their view")

	require.NoError(t, r.Refresh(false))
	assert.Equal(t, 0, c.top)
}

func TestEnsureRendered(t *testing.T) {
	r, _, c := setup(t, 200, 10, 1)

	require.NoError(t, r.EnsureRendered(150, EnsureOptions{}))
	assert.Equal(t, 0, c.top)
	_, ok := r.Holder(r.rows[150])
	assert.True(t, ok, "pinned row is rendered without scrolling")

	require.NoError(t, r.EnsureRendered(150, EnsureOptions{ScrollIntoView: true}))
	assert.Equal(t, 141, c.top)

	require.NoError(t, r.EnsureRendered(3, EnsureOptions{ScrollIntoView: true}))
	assert.Equal(t, 3, c.top)

	assert.ErrorIs(t, r.EnsureRendered(500, EnsureOptions{}), ErrOutOfRange)
}

func TestSuspendResume(t *testing.T) {
	r, a, _ := setup(t, 50, 10, 0)
	binds := a.binds
	r.Suspend()
	require.NoError(t, r.Refresh(true))
	require.NoError(t, r.Refresh(false))
	assert.Equal(t, binds, a.binds, "no work while suspended")

	require.NoError(t, r.Resume())
	assert.Greater(t, a.binds, binds)
}

func TestDestroyIsIdempotent(t *testing.T) {
	r, a, _ := setup(t, 20, 5, 0)
	r.Destroy()
	r.Destroy()
	assert.Equal(t, 0, r.LiveCount())
	assert.Equal(t, a.made, a.recycled)
	assert.ErrorIs(t, r.Refresh(true), ErrDestroyed)
	assert.ErrorIs(t, r.SetAdapter(a), ErrDestroyed)
}
