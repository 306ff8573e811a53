// Package tui hosts the virtualized select in a bubbletea program.
package tui

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ruminaider/vselect/internal/adapter"
	"github.com/ruminaider/vselect/internal/config"
	"github.com/ruminaider/vselect/internal/dropdown"
	"github.com/ruminaider/vselect/internal/item"
	"github.com/ruminaider/vselect/internal/locale"
	"github.com/ruminaider/vselect/internal/logging"
	"github.com/ruminaider/vselect/internal/recycler"
	"github.com/ruminaider/vselect/internal/schedule"
	"github.com/ruminaider/vselect/internal/search"
	"github.com/ruminaider/vselect/internal/source"
	"github.com/ruminaider/vselect/internal/view"
	"github.com/ruminaider/vselect/internal/watcher"
)

// listTop is the screen row of the first list line: the search box and its
// rule sit above it.
const listTop = 2

// DefaultWidth is used until the first WindowSizeMsg arrives.
const DefaultWidth = 80

// Options configures a Model.
type Options struct {
	Config  config.Config
	Locale  *locale.Localizer
	Logger  *slog.Logger
	Items   []source.Descriptor
	Remote  *search.Controller // nil keeps search local
	Watcher *watcher.Watcher   // nil disables live reload
	Reload  Reloader           // nil reads by file extension
	Width   int
}

// Model is the picker program.
type Model struct {
	dd     *dropdown.Dropdown
	vp     *Viewport
	input  textinput.Model
	status *StatusBar
	loc    *locale.Localizer
	log    *slog.Logger

	remote *search.Controller
	watch  *watcher.Watcher
	reload Reloader
	timers *schedule.Realtime
	tasks  chan func()
	done   chan struct{}
	close  *sync.Once

	multiple  bool
	maxHeight int
	query     string

	Done     bool // confirmed with a selection
	Canceled bool // left with esc or ctrl+c
}

// NewModel builds the dropdown, loads opts.Items and opens it.
func NewModel(opts Options) (Model, error) {
	cfg := config.Normalize(opts.Config)
	if opts.Logger == nil {
		opts.Logger = logging.Discard().Logger
	}
	if opts.Locale == nil {
		loc, err := locale.New(cfg.Locale)
		if err != nil {
			return Model{}, err
		}
		opts.Locale = loc
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Reload == nil {
		opts.Reload = source.LoadFile
	}

	m := Model{
		vp:        NewViewport(opts.Width, cfg.Height),
		loc:       opts.Locale,
		log:       opts.Logger,
		remote:    opts.Remote,
		watch:     opts.Watcher,
		reload:    opts.Reload,
		tasks:     make(chan func()),
		done:      make(chan struct{}),
		close:     &sync.Once{},
		multiple:  cfg.Multiple,
		maxHeight: cfg.Height,
	}
	done := m.done
	tasks := m.tasks
	m.timers = schedule.NewRealtime(func(fn func()) {
		select {
		case tasks <- fn:
		case <-done:
		}
	})

	m.dd = dropdown.New(m.vp, dropdown.Options{
		Multiple:       cfg.Multiple,
		Overscan:       cfg.Overscan,
		EstimateHeight: cfg.EstimateHeight,
		Debounce:       cfg.Debounce(),
		Search:         cfg.SearchOptions(),
		Scheduler:      m.timers,
		Logger:         opts.Logger,
	})

	sb := NewStatusBar(opts.Locale, cfg.Multiple)
	sb.SetWidth(opts.Width)
	status := &sb
	m.status = status
	a := m.dd.Adapter()
	a.OnVisibilityChanged(func(st adapter.VisibilityStats) {
		status.Update(st, len(a.SelectedItems()))
	})
	a.OnSelectionChange(func(adapter.SelectionEvent) {
		status.Update(a.VisibilityStats(), len(a.SelectedItems()))
	})

	if err := m.dd.Load(opts.Items); err != nil {
		return Model{}, err
	}
	if err := m.dd.Open(); err != nil {
		return Model{}, err
	}
	m.syncStatus()

	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = PromptStyle
	ti.PlaceholderStyle = PlaceholderStyle
	ti.Placeholder = opts.Locale.T(locale.SearchPlaceholder, nil)
	ti.Width = opts.Width - 4
	ti.Focus()
	m.input = ti
	return m, nil
}

// Init starts the cursor blink and the background pumps.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, waitTask(m.tasks, m.done)}
	if m.watch != nil {
		cmds = append(cmds, m.waitSnapshot())
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case TaskMsg:
		if msg.Fn != nil {
			msg.Fn()
		}
		return m, waitTask(m.tasks, m.done)

	case RemoteMsg:
		m.applyRemote(msg.Response)
		return m, nil

	case SnapshotMsg:
		m.applySnapshot(msg)
		if m.watch == nil {
			return m, nil
		}
		return m, m.waitSnapshot()

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		if next, cmd, handled := m.updateKey(msg); handled {
			return next, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.query {
		m.query = v
		if qcmd := m.search(v); qcmd != nil {
			cmd = tea.Batch(cmd, qcmd)
		}
	}
	return m, cmd
}

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	a := m.dd.Adapter()
	switch msg.String() {
	case "ctrl+c", "esc":
		m.Canceled = true
		return m, tea.Quit, true
	case "up", "ctrl+p":
		a.Navigate(-1)
	case "down", "ctrl+n":
		a.Navigate(1)
	case "pgup":
		_ = m.dd.Recycler().ScrollBy(-m.vp.height)
	case "pgdown":
		_ = m.dd.Recycler().ScrollBy(m.vp.height)
	case "left":
		m.collapseCurrent(true)
	case "right":
		m.collapseCurrent(false)
	case "enter":
		if !m.multiple {
			a.SelectHighlighted()
			if a.SelectedItem() == nil {
				return m, nil, true
			}
		}
		m.Done = true
		return m, tea.Quit, true
	case " ":
		if !m.multiple {
			return m, nil, false
		}
		a.SelectHighlighted()
	case "tab", "ctrl+a":
		if !m.multiple {
			return m, nil, true
		}
		a.CheckAll(!m.allChecked())
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		_ = m.dd.Recycler().ScrollBy(-3)
		return m, nil
	case tea.MouseButtonWheelDown:
		_ = m.dd.Recycler().ScrollBy(3)
		return m, nil
	}

	h := m.holderAt(msg.Y)
	if h == nil {
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionMotion:
		if ov, ok := h.(*view.OptionView); ok {
			ov.Hover()
		}
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		switch v := h.(type) {
		case *view.OptionView:
			v.Click()
			if !m.multiple && m.dd.Adapter().SelectedItem() != nil {
				m.Done = true
				return m, tea.Quit
			}
		case *view.GroupView:
			v.Toggle()
		}
	}
	return m, nil
}

// holderAt resolves a screen row to the live view drawn there.
func (m Model) holderAt(y int) recycler.Holder {
	y -= listTop
	if y < 0 || y >= m.vp.height {
		return nil
	}
	r := m.dd.Recycler()
	idx := r.IndexAt(m.vp.top + y)
	if idx < 0 {
		return nil
	}
	for _, s := range r.Window() {
		if s.Index == idx {
			return s.Holder
		}
	}
	return nil
}

func (m Model) collapseCurrent(collapsed bool) {
	o := m.dd.Adapter().Highlighted()
	if o == nil || o.Group() == nil {
		return
	}
	o.Group().SetCollapsed(collapsed)
}

func (m Model) allChecked() bool {
	for _, o := range m.dd.Adapter().FlatOptions() {
		if o.Visible() && !o.Disabled() && !o.Selected() {
			return false
		}
	}
	return true
}

func (m Model) search(q string) tea.Cmd {
	if m.remote != nil {
		m.status.Notice(m.loc.T(locale.Searching, nil), false)
		return remoteSearch(m.remote, q)
	}
	m.dd.Search(q)
	return nil
}

func (m Model) applyRemote(r search.Response) {
	if m.remote == nil || !m.remote.Accept(r.Seq) {
		return
	}
	if !r.Result.Success {
		m.status.Notice(m.loc.T(locale.RemoteFailed, map[string]any{"Message": r.Result.Message}), true)
		return
	}
	if err := m.dd.ApplyRemote(r.Result); err != nil {
		m.log.Error("applying remote result", "error", err)
		return
	}
	m.syncStatus()
	m.status.Notice("", false)
}

func (m Model) applySnapshot(msg SnapshotMsg) {
	if msg.Err != nil {
		m.log.Warn("reloading snapshot", "path", msg.Path, "error", msg.Err)
		m.status.Notice(msg.Err.Error(), true)
		return
	}
	changed, err := m.dd.Update(msg.Items)
	if err != nil {
		m.log.Error("updating from snapshot", "path", msg.Path, "error", err)
		return
	}
	if changed {
		m.syncStatus()
		m.status.Notice(m.loc.T(locale.Reloaded, map[string]any{"Path": msg.Path}), false)
	}
}

func (m Model) waitSnapshot() tea.Cmd {
	return waitSnapshot(m.watch.Changed(), m.watch.Path(), m.reload, m.done)
}

// syncStatus recounts after pushes that may not flip any visibility.
func (m Model) syncStatus() {
	a := m.dd.Adapter()
	m.status.Update(a.VisibilityStats(), len(a.SelectedItems()))
}

func (m *Model) resize(width, height int) {
	listH := height - listTop - 1
	if listH > m.maxHeight {
		listH = m.maxHeight
	}
	if listH < 1 {
		listH = 1
	}
	widthChanged := m.vp.Resize(width, listH)
	m.input.Width = width - 4
	m.status.SetWidth(width)
	r := m.dd.Recycler()
	if widthChanged {
		_ = r.Remeasure()
		return
	}
	_ = r.Refresh(true)
}

// View renders the search box, the visible window and the status bar.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(SeparatorStyle.Render(strings.Repeat("─", m.vp.width)))
	b.WriteString("\n")
	b.WriteString(strings.Join(m.listLines(), "\n"))
	b.WriteString("\n")
	b.WriteString(m.status.View())
	return b.String()
}

// listLines draws every live view at its offset relative to the scroll top.
func (m Model) listLines() []string {
	lines := make([]string, m.vp.height)
	st := m.dd.Adapter().VisibilityStats()
	if !st.HasVisible {
		id := locale.NoResults
		if st.IsEmpty {
			id = locale.Empty
		}
		lines[0] = EmptyStyle.Render(m.loc.T(id, nil))
		return lines
	}
	for _, s := range m.dd.Recycler().Window() {
		row, ok := s.Holder.(view.Row)
		if !ok || !row.Shown() {
			continue
		}
		for i, l := range row.Render(m.vp.width) {
			y := s.Offset + i - m.vp.top
			if y >= 0 && y < len(lines) {
				lines[y] = l
			}
		}
	}
	return lines
}

// Dropdown exposes the underlying component.
func (m Model) Dropdown() *dropdown.Dropdown { return m.dd }

// Selected returns the chosen options in display order.
func (m Model) Selected() []*item.Option { return m.dd.Selected() }

// Values returns the chosen values in display order.
func (m Model) Values() []string { return m.dd.Values() }

// Close stops timers, pumps and any remote search. Safe to call repeatedly.
func (m Model) Close() {
	m.close.Do(func() {
		close(m.done)
		m.timers.Stop()
		if m.remote != nil {
			m.remote.Cancel()
		}
	})
}
