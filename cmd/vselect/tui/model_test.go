package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruminaider/vselect/internal/config"
	"github.com/ruminaider/vselect/internal/locale"
	"github.com/ruminaider/vselect/internal/search"
	"github.com/ruminaider/vselect/internal/source"
)

func sendKey(m tea.Model, key string) tea.Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return updated
}

func sendSpecialKey(m tea.Model, key tea.KeyType) (tea.Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: key})
}

func typeText(m tea.Model, s string) tea.Model {
	for _, r := range s {
		m = sendKey(m, string(r))
	}
	return m
}

func fruits() []source.Descriptor {
	return []source.Descriptor{
		{Value: "1", Text: "Apple"},
		{Value: "2", Text: "Banana"},
		{Value: "3", Text: "Cherry"},
	}
}

func numbered(n int) []source.Descriptor {
	ds := make([]source.Descriptor, n)
	for i := range ds {
		ds[i] = source.Descriptor{Value: fmt.Sprint(i), Text: fmt.Sprintf("item %d", i)}
	}
	return ds
}

func newTestModel(t *testing.T, cfg config.Config, items []source.Descriptor) Model {
	t.Helper()
	loc, err := locale.New("en")
	require.NoError(t, err)
	m, err := NewModel(Options{Config: cfg, Locale: loc, Items: items, Width: 40})
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func plain(m tea.Model) string {
	return ansi.Strip(m.View())
}

func TestModel_TypingFiltersLocally(t *testing.T) {
	var model tea.Model = newTestModel(t, config.Config{}, fruits())

	model = typeText(model, "ban")
	view := plain(model)
	assert.Contains(t, view, "Banana")
	assert.NotContains(t, view, "Apple")
	assert.Contains(t, view, "1 of 3 shown")

	model, cmd := sendSpecialKey(model, tea.KeyEnter)
	m := model.(Model)
	assert.True(t, m.Done)
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"2"}, m.Values())
}

func TestModel_NavigateThenEnter(t *testing.T) {
	var model tea.Model = newTestModel(t, config.Config{}, fruits())

	model, _ = sendSpecialKey(model, tea.KeyDown)
	model, _ = sendSpecialKey(model, tea.KeyDown)
	model, _ = sendSpecialKey(model, tea.KeyUp)
	model, _ = sendSpecialKey(model, tea.KeyEnter)
	m := model.(Model)
	assert.True(t, m.Done)
	assert.Equal(t, []string{"2"}, m.Values())
}

func TestModel_EscCancels(t *testing.T) {
	var model tea.Model = newTestModel(t, config.Config{}, fruits())
	model, cmd := sendSpecialKey(model, tea.KeyEsc)
	m := model.(Model)
	assert.True(t, m.Canceled)
	assert.False(t, m.Done)
	require.NotNil(t, cmd)
	assert.Empty(t, m.Values())
}

func TestModel_MultiToggleAndCheckAll(t *testing.T) {
	var model tea.Model = newTestModel(t, config.Config{Multiple: true}, fruits())

	model, _ = sendSpecialKey(model, tea.KeySpace)
	assert.Equal(t, []string{"1"}, model.(Model).Values())
	assert.Contains(t, plain(model), "1 item selected")

	model, _ = sendSpecialKey(model, tea.KeyTab)
	assert.Equal(t, []string{"1", "2", "3"}, model.(Model).Values())

	model, _ = sendSpecialKey(model, tea.KeyTab)
	assert.Empty(t, model.(Model).Values())

	model, _ = sendSpecialKey(model, tea.KeyEnter)
	assert.True(t, model.(Model).Done, "enter confirms even with nothing checked")
}

func TestModel_RendersOnlyTheWindow(t *testing.T) {
	var model tea.Model = newTestModel(t, config.Config{Height: 5}, numbered(1000))
	m := model.(Model)
	assert.LessOrEqual(t, m.Dropdown().Recycler().LiveCount(), 5+2*config.DefaultOverscan)

	view := plain(model)
	assert.Contains(t, view, "item 0")
	assert.Contains(t, view, "item 4")
	assert.NotContains(t, view, "item 5")
	assert.Contains(t, view, "1000 of 1000 shown")

	model, _ = model.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	m = model.(Model)
	assert.Equal(t, 3, m.vp.ScrollTop())
	view = plain(model)
	assert.Contains(t, view, "item 3")
	assert.NotContains(t, view, "item 2")
}

func TestModel_ClickSelects(t *testing.T) {
	var model tea.Model = newTestModel(t, config.Config{}, fruits())
	model, cmd := model.Update(tea.MouseMsg{
		X: 4, Y: listTop + 2,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionPress,
	})
	m := model.(Model)
	assert.True(t, m.Done)
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"3"}, m.Values())
}

func TestModel_ClickOutsideListIsIgnored(t *testing.T) {
	var model tea.Model = newTestModel(t, config.Config{}, fruits())
	model, cmd := model.Update(tea.MouseMsg{Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Nil(t, cmd)
	assert.False(t, model.(Model).Done)
}

func TestModel_CollapseGroup(t *testing.T) {
	var model tea.Model = newTestModel(t, config.Config{}, []source.Descriptor{
		{Label: "Fruit", Options: []source.Descriptor{{Value: "a", Text: "Apple"}, {Value: "b", Text: "Banana"}}},
		{Label: "Veg", Options: []source.Descriptor{{Value: "c", Text: "Carrot"}}},
	})
	assert.Contains(t, plain(model), "Apple")

	model, _ = sendSpecialKey(model, tea.KeyLeft)
	m := model.(Model)
	assert.True(t, m.Dropdown().Adapter().Groups()[0].Collapsed())
	view := plain(model)
	assert.NotContains(t, view, "Apple")
	assert.Contains(t, view, "Fruit")
	assert.Contains(t, view, "Carrot")
}

func TestModel_NoResults(t *testing.T) {
	var model tea.Model = newTestModel(t, config.Config{}, fruits())
	model = typeText(model, "zzz")
	assert.Contains(t, plain(model), "No results")

	empty := newTestModel(t, config.Config{}, nil)
	assert.Contains(t, plain(empty), "Nothing to choose from")
}

func TestModel_Resize(t *testing.T) {
	var model tea.Model = newTestModel(t, config.Config{Height: 12}, numbered(100))
	model, _ = model.Update(tea.WindowSizeMsg{Width: 60, Height: 8})
	m := model.(Model)
	assert.Equal(t, 5, m.vp.ViewportHeight())
	assert.Equal(t, 60, m.vp.ViewportWidth())
	assert.Equal(t, 8, strings.Count(m.View(), "\n")+1)

	model, _ = model.Update(tea.WindowSizeMsg{Width: 60, Height: 100})
	assert.Equal(t, 12, model.(Model).vp.ViewportHeight())
}

func TestModel_TaskMsgRunsCallback(t *testing.T) {
	var model tea.Model = newTestModel(t, config.Config{}, fruits())
	ran := false
	_, cmd := model.Update(TaskMsg{Fn: func() { ran = true }})
	assert.True(t, ran)
	assert.NotNil(t, cmd, "the pump re-arms")
}

type staticFetcher map[string][]source.Descriptor

func (f staticFetcher) Fetch(_ context.Context, q string) ([]source.Descriptor, error) {
	if ds, ok := f[q]; ok {
		return ds, nil
	}
	return nil, fmt.Errorf("no results for %q", q)
}

func TestModel_RemoteSearch(t *testing.T) {
	ctrl := search.NewController(staticFetcher{
		"or": {{Value: "o", Text: "Orange"}, {Value: "1", Text: "Apple"}},
	}, nil)
	loc, err := locale.New("en")
	require.NoError(t, err)
	m, err := NewModel(Options{Locale: loc, Items: fruits(), Remote: ctrl})
	require.NoError(t, err)
	defer m.Close()
	before := m.Dropdown().Adapter().FlatOptions()[0]

	stale := remoteSearch(ctrl, "or")().(RemoteMsg)
	fresh := remoteSearch(ctrl, "or")().(RemoteMsg)

	var model tea.Model = m
	model, _ = model.Update(stale)
	assert.Len(t, model.(Model).Dropdown().Adapter().FlatOptions(), 3, "stale responses are dropped")

	model, _ = model.Update(fresh)
	flat := model.(Model).Dropdown().Adapter().FlatOptions()
	require.Len(t, flat, 2)
	assert.Equal(t, "Orange", flat[0].Text())
	assert.Same(t, before, flat[1], "matching options are reused")

	failed := remoteSearch(ctrl, "nothing")().(RemoteMsg)
	model, _ = model.Update(failed)
	assert.Len(t, model.(Model).Dropdown().Adapter().FlatOptions(), 2)
	assert.Contains(t, plain(model), "Search failed")
}

func TestModel_SnapshotReload(t *testing.T) {
	var model tea.Model = newTestModel(t, config.Config{}, fruits())
	model, _ = model.Update(SnapshotMsg{Path: "snap.yaml", Items: append(fruits(), source.Descriptor{Value: "4", Text: "Date"})})
	m := model.(Model)
	assert.Len(t, m.Dropdown().Adapter().FlatOptions(), 4)
	assert.Contains(t, plain(model), "Reloaded snap.yaml")

	model, _ = model.Update(SnapshotMsg{Path: "snap.yaml", Err: fmt.Errorf("bad yaml")})
	assert.Len(t, model.(Model).Dropdown().Adapter().FlatOptions(), 4)
	assert.Contains(t, plain(model), "bad yaml")
}

func TestWaitSnapshotUsesReloader(t *testing.T) {
	changed := make(chan struct{}, 1)
	done := make(chan struct{})
	var got string
	cmd := waitSnapshot(changed, "list.txt", func(path string) ([]source.Descriptor, error) {
		got = path
		return fruits(), nil
	}, done)

	changed <- struct{}{}
	msg := cmd().(SnapshotMsg)
	assert.Equal(t, "list.txt", got)
	assert.Equal(t, "list.txt", msg.Path)
	assert.NoError(t, msg.Err)
	assert.Len(t, msg.Items, 3)

	close(done)
	assert.Nil(t, waitSnapshot(changed, "list.txt", source.LoadFile, done)())
}
