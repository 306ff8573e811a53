package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ruminaider/vselect/internal/search"
	"github.com/ruminaider/vselect/internal/source"
)

// TaskMsg carries a deferred callback posted by the realtime scheduler. It
// must run on the Update goroutine.
type TaskMsg struct{ Fn func() }

// RemoteMsg delivers a finished remote search.
type RemoteMsg struct{ Response search.Response }

// SnapshotMsg delivers a re-read of the watched snapshot file.
type SnapshotMsg struct {
	Path  string
	Items []source.Descriptor
	Err   error
}

// waitTask blocks until the scheduler posts a callback.
func waitTask(tasks <-chan func(), done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-tasks:
			return TaskMsg{Fn: fn}
		case <-done:
			return nil
		}
	}
}

// remoteSearch cancels the search in flight and starts one for query.
func remoteSearch(c *search.Controller, query string) tea.Cmd {
	ctx, seq := c.Begin(context.Background())
	return func() tea.Msg {
		return RemoteMsg{Response: c.Run(ctx, seq, query)}
	}
}

// Reloader re-reads the snapshot at path.
type Reloader func(path string) ([]source.Descriptor, error)

// waitSnapshot blocks until changed fires, then reloads path.
func waitSnapshot(changed <-chan struct{}, path string, reload Reloader, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-changed:
		case <-done:
			return nil
		}
		items, err := reload(path)
		return SnapshotMsg{Path: path, Items: items, Err: err}
	}
}
