// Package dropdown wires the adapter, recycler, model manager and search into
// one select component for a scroll container.
package dropdown

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/ruminaider/vselect/internal/adapter"
	"github.com/ruminaider/vselect/internal/item"
	"github.com/ruminaider/vselect/internal/model"
	"github.com/ruminaider/vselect/internal/recycler"
	"github.com/ruminaider/vselect/internal/schedule"
	"github.com/ruminaider/vselect/internal/search"
	"github.com/ruminaider/vselect/internal/source"
	"github.com/ruminaider/vselect/internal/view"
)

// ErrDestroyed is returned by calls on a destroyed dropdown.
var ErrDestroyed = errors.New("dropdown: destroyed")

// Options configures a Dropdown.
type Options struct {
	Multiple       bool
	Overscan       int
	EstimateHeight int
	Debounce       time.Duration
	Search         search.Options
	Scheduler      schedule.Scheduler
	Theme          *view.Theme
	Logger         *slog.Logger
}

// Dropdown is the composed select.
type Dropdown struct {
	adapter  *adapter.Adapter
	recycler *recycler.Recycler
	manager  *model.Manager
	search   search.Options
	log      *slog.Logger

	query     string
	remote    bool
	open      bool
	destroyed bool
}

// New builds a dropdown rendering into c. It starts closed with rendering
// suspended; Open resumes it.
func New(c recycler.Container, opts Options) *Dropdown {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Overscan == 0 {
		opts.Overscan = recycler.DefaultOverscan
	}
	a := adapter.New(adapter.Options{
		Multiple:  opts.Multiple,
		Theme:     opts.Theme,
		Scheduler: opts.Scheduler,
		Debounce:  opts.Debounce,
		Logger:    opts.Logger,
	})
	r := recycler.New(c, recycler.Options{
		Overscan:       opts.Overscan,
		EstimateHeight: opts.EstimateHeight,
		Logger:         opts.Logger,
	})
	a.AttachRenderer(r)
	_ = r.SetAdapter(a)
	r.Suspend()

	return &Dropdown{
		adapter:  a,
		recycler: r,
		manager:  model.New(a, r, opts.Logger),
		search:   opts.Search,
		log:      opts.Logger,
	}
}

func (d *Dropdown) Adapter() *adapter.Adapter    { return d.adapter }
func (d *Dropdown) Recycler() *recycler.Recycler { return d.recycler }
func (d *Dropdown) Manager() *model.Manager      { return d.manager }
func (d *Dropdown) IsOpen() bool                 { return d.open }
func (d *Dropdown) Query() string                { return d.query }
func (d *Dropdown) Destroyed() bool              { return d.destroyed }

// Load cold-builds from ds.
func (d *Dropdown) Load(ds []source.Descriptor) error {
	if d.destroyed {
		return ErrDestroyed
	}
	return d.batch(func() error {
		return d.manager.Load(ds)
	})
}

// Update reconciles ds into the current models and reapplies the active
// local query. It reports whether the snapshot differed.
func (d *Dropdown) Update(ds []source.Descriptor) (bool, error) {
	if d.destroyed {
		return false, ErrDestroyed
	}
	var changed bool
	err := d.batch(func() error {
		var err error
		changed, err = d.manager.Update(ds)
		return err
	})
	return changed, err
}

// batch runs fn with rendering suspended so the push and the refilter share
// one layout pass.
func (d *Dropdown) batch(fn func() error) error {
	wasSuspended := d.recycler.Suspended()
	d.recycler.Suspend()
	err := fn()
	if err == nil && !d.remote {
		search.Filter(d.adapter.Items(), d.query, d.search)
	}
	d.adapter.FlushVisibility()
	if wasSuspended {
		return err
	}
	if rerr := d.recycler.Resume(); err == nil {
		err = rerr
	}
	return err
}

// Open resumes rendering and places the cursor.
func (d *Dropdown) Open() error {
	if d.destroyed {
		return ErrDestroyed
	}
	d.open = true
	if err := d.recycler.Resume(); err != nil {
		return err
	}
	d.adapter.ResetHighlight()
	return nil
}

// Close suspends rendering.
func (d *Dropdown) Close() {
	if d.destroyed {
		return
	}
	d.open = false
	d.recycler.Suspend()
}

// Search filters locally and moves the cursor to the first match. It
// returns the number of visible options.
func (d *Dropdown) Search(query string) int {
	if d.destroyed {
		return 0
	}
	d.query = query
	d.remote = false
	n := search.Filter(d.adapter.Items(), query, d.search)
	d.adapter.FlushVisibility()
	d.adapter.SetHighlight(0, true)
	return n
}

// ApplyRemote pushes a remote result. A failed result changes nothing.
func (d *Dropdown) ApplyRemote(r search.Result) error {
	if d.destroyed {
		return ErrDestroyed
	}
	if !r.Success {
		d.log.Info("remote search result rejected", "message", r.Message)
		return nil
	}
	d.remote = true
	d.query = ""
	for _, o := range d.adapter.FlatOptions() {
		o.SetVisible(true)
	}
	if _, err := d.Update(r.Items); err != nil {
		return err
	}
	d.adapter.SetHighlight(0, true)
	return nil
}

// Selected returns the selected options in display order.
func (d *Dropdown) Selected() []*item.Option {
	return d.adapter.SelectedItems()
}

// Values returns the selected values in display order.
func (d *Dropdown) Values() []string {
	sel := d.adapter.SelectedItems()
	out := make([]string, len(sel))
	for i, o := range sel {
		out[i] = o.Value()
	}
	return out
}

// Destroy tears everything down. Safe to call repeatedly.
func (d *Dropdown) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	d.open = false
	d.manager.Destroy()
	d.adapter.Destroy()
	d.recycler.Destroy()
}
