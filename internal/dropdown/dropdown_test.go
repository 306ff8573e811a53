package dropdown_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruminaider/vselect/internal/dropdown"
	"github.com/ruminaider/vselect/internal/search"
	"github.com/ruminaider/vselect/internal/source"
	"github.com/ruminaider/vselect/internal/view"
)

type container struct {
	top, height, width int
	padTop, padBottom  int
}

func (c *container) ScrollTop() int          { return c.top }
func (c *container) SetScrollTop(top int)    { c.top = top }
func (c *container) ViewportHeight() int     { return c.height }
func (c *container) ViewportWidth() int      { return c.width }
func (c *container) SetPadding(top, bot int) { c.padTop, c.padBottom = top, bot }

func numbered(n int) []source.Descriptor {
	ds := make([]source.Descriptor, n)
	for i := range ds {
		ds[i] = source.Descriptor{Value: fmt.Sprint(i), Text: fmt.Sprintf("item %d", i)}
	}
	return ds
}

func TestSearchThenClick(t *testing.T) {
	c := &container{height: 10, width: 40}
	d := dropdown.New(c, dropdown.Options{})
	require.NoError(t, d.Load([]source.Descriptor{
		{Value: "1", Text: "Apple"},
		{Value: "2", Text: "Banana"},
		{Value: "3", Text: "Cherry"},
	}))
	require.NoError(t, d.Open())

	assert.Equal(t, 1, d.Search("ban"))
	win := d.Recycler().Window()
	require.Len(t, win, 1)

	ov := win[0].Holder.(*view.OptionView)
	assert.Equal(t, "Banana", ov.Label())
	ov.Click()

	got := d.Adapter().SelectedItem()
	require.NotNil(t, got)
	assert.Equal(t, "2", got.Value())
	assert.Equal(t, []string{"2"}, d.Values())
}

func TestLoadNestedGroupOptions(t *testing.T) {
	c := &container{height: 10, width: 40}
	d := dropdown.New(c, dropdown.Options{})
	require.NoError(t, d.Load([]source.Descriptor{
		{Label: "Fruit", Options: []source.Descriptor{
			{Value: "a", Text: "Apple"},
			{Value: "b", Text: "Banana"},
		}},
	}))

	stats := d.Adapter().VisibilityStats()
	assert.Equal(t, 2, stats.TotalCount)
	assert.Equal(t, 2, stats.VisibleCount)
	require.Len(t, d.Adapter().Groups(), 1)
	assert.Len(t, d.Adapter().Groups()[0].Items(), 2)
}

func TestClosedDropdownDefersRendering(t *testing.T) {
	c := &container{height: 5, width: 40}
	d := dropdown.New(c, dropdown.Options{Overscan: 1})
	require.NoError(t, d.Load(numbered(50)))
	assert.Zero(t, d.Recycler().LiveCount(), "nothing renders while closed")

	require.NoError(t, d.Open())
	assert.True(t, d.IsOpen())
	assert.Equal(t, 6, d.Recycler().LiveCount())
	assert.Equal(t, "0", d.Adapter().Highlighted().Value())

	d.Close()
	assert.True(t, d.Recycler().Suspended())
}

func TestUpdateKeepsScrollAnchor(t *testing.T) {
	c := &container{height: 10, width: 40}
	d := dropdown.New(c, dropdown.Options{Overscan: 2})
	ds := numbered(1000)
	require.NoError(t, d.Load(ds))
	require.NoError(t, d.Open())
	require.NoError(t, d.Recycler().ScrollTo(500))

	anchor := d.Adapter().FlatOptions()[500]
	h, ok := d.Recycler().Holder(anchor)
	require.True(t, ok)

	next := append([]source.Descriptor(nil), ds...)
	next[500].Text = "item 500 (edited)"
	next = append(next, source.Descriptor{Value: "new", Text: "new"})
	changed, err := d.Update(next)
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Equal(t, 500, c.top)
	assert.Same(t, anchor, d.Adapter().FlatOptions()[500])
	h2, ok := d.Recycler().Holder(anchor)
	require.True(t, ok)
	assert.Same(t, h, h2)
	assert.Equal(t, "item 500 (edited)", h2.(*view.OptionView).Label())

	changed, err = d.Update(next)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestUpdateReappliesQuery(t *testing.T) {
	c := &container{height: 10, width: 40}
	d := dropdown.New(c, dropdown.Options{})
	require.NoError(t, d.Load([]source.Descriptor{{Value: "1", Text: "Apple"}}))
	require.NoError(t, d.Open())
	d.Search("an")
	assert.False(t, d.Adapter().VisibilityStats().HasVisible)

	_, err := d.Update([]source.Descriptor{{Value: "1", Text: "Apple"}, {Value: "2", Text: "Banana"}})
	require.NoError(t, err)
	st := d.Adapter().VisibilityStats()
	assert.Equal(t, 1, st.VisibleCount)
	assert.Equal(t, 2, st.TotalCount)
}

func TestApplyRemote(t *testing.T) {
	c := &container{height: 10, width: 40}
	d := dropdown.New(c, dropdown.Options{Search: search.Options{Mode: search.ModeFuzzy}})
	require.NoError(t, d.Load(numbered(3)))
	require.NoError(t, d.Open())
	before := d.Adapter().FlatOptions()

	require.NoError(t, d.ApplyRemote(search.Result{Success: false, Message: "timeout"}))
	assert.Equal(t, before, d.Adapter().FlatOptions(), "failures leave the list alone")

	require.NoError(t, d.ApplyRemote(search.Result{Success: true, Items: []source.Descriptor{
		{Value: "0", Text: "item 0"},
		{Value: "9", Text: "remote"},
	}}))
	flat := d.Adapter().FlatOptions()
	require.Len(t, flat, 2)
	assert.Same(t, before[0], flat[0])
	assert.True(t, before[1].Destroyed())
	assert.Same(t, flat[0], d.Adapter().Highlighted())
}

func TestMultipleSelectValues(t *testing.T) {
	c := &container{height: 10, width: 40}
	d := dropdown.New(c, dropdown.Options{Multiple: true})
	require.NoError(t, d.Load(numbered(4)))
	require.NoError(t, d.Open())
	assert.Equal(t, 4, d.Adapter().CheckAll(true))
	assert.Equal(t, []string{"0", "1", "2", "3"}, d.Values())
}

func TestDestroy(t *testing.T) {
	c := &container{height: 10, width: 40}
	d := dropdown.New(c, dropdown.Options{})
	require.NoError(t, d.Load(numbered(3)))
	require.NoError(t, d.Open())
	opt := d.Adapter().FlatOptions()[0]

	d.Destroy()
	d.Destroy()
	assert.True(t, opt.Destroyed())
	assert.Zero(t, d.Recycler().LiveCount())
	assert.ErrorIs(t, d.Load(nil), dropdown.ErrDestroyed)
	assert.ErrorIs(t, d.Open(), dropdown.ErrDestroyed)
	assert.Zero(t, d.Search("x"))
}
