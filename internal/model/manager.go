// Package model builds item models from descriptor snapshots and reconciles
// later snapshots into the existing models, keeping instance identity so
// views, selection and scroll position survive content refreshes.
package model

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/ruminaider/vselect/internal/item"
	"github.com/ruminaider/vselect/internal/source"
)

// Event names passed to TriggerChanging/TriggerChanged.
const (
	EventReplace = "replace"
	EventUpdate  = "update"
)

// ErrDestroyed is returned by lifecycle calls on a destroyed manager.
var ErrDestroyed = errors.New("model: manager destroyed")

// Target receives the reconciled list. *adapter.Adapter implements it.
type Target interface {
	UpdateData(items []item.Item)
	SyncFromSource()
	SkipEvent(skip bool)
	TriggerChanging(name string)
	TriggerChanged(name string)
}

// Refresher re-renders after a push. *recycler.Recycler implements it.
type Refresher interface {
	Refresh(isUpdate bool) error
}

// Resources exposes the handles a manager drives.
type Resources struct {
	Items    []item.Item
	Target   Target
	Renderer Refresher
}

// Stats counts model churn across the manager's life.
type Stats struct {
	Created   int
	Destroyed int
	Reused    int
	Skipped   int
	Malformed int
}

// Manager owns the model list.
type Manager struct {
	target   Target
	renderer Refresher
	log      *slog.Logger

	items       []item.Item
	fingerprint uint64
	hasPrint    bool
	loaded      bool
	srcSelected map[string]bool

	stats     Stats
	destroyed bool
}

// New creates a manager pushing into target and renderer. Either may be nil.
func New(target Target, renderer Refresher, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		target:      target,
		renderer:    renderer,
		log:         logger,
		srcSelected: make(map[string]bool),
	}
}

// Fingerprint digests a snapshot. Equal snapshots give equal digests.
func Fingerprint(ds []source.Descriptor) (uint64, error) {
	return hashstructure.Hash(ds, hashstructure.FormatV2, nil)
}

// CreateModelResources builds fresh models. A group descriptor opens a
// group; options tagged with an open group's label join it and every other
// option stays standalone. Malformed entries are skipped.
func (m *Manager) CreateModelResources(ds []source.Descriptor) []item.Item {
	var out []item.Item
	groups := make(map[string]*item.Group)
	var open *item.Group
	for i, d := range ds {
		if !m.valid(i, d) {
			continue
		}
		if d.ResolvedKind() == source.KindGroup {
			g, ok := groups[d.Label]
			if !ok {
				g = item.NewGroup(d.Label)
				groups[d.Label] = g
				out = append(out, g)
				m.stats.Created++
			}
			open = g
			continue
		}
		o := newOption(d)
		m.stats.Created++
		if g := owner(open, groups, d); g != nil {
			g.Add(o)
		} else {
			out = append(out, o)
		}
	}
	return out
}

// owner returns the group an option descriptor joins: the open group when
// the tag matches it, otherwise an earlier group with that label.
func owner(open *item.Group, groups map[string]*item.Group, d source.Descriptor) *item.Group {
	if d.Group == "" {
		return nil
	}
	if open != nil && open.Label() == d.Group {
		return open
	}
	return groups[d.Group]
}

func newOption(d source.Descriptor) *item.Option {
	o := item.NewOption(d.OptionValue(), d.OptionText())
	o.SetData(d.Data)
	o.SetDisabled(d.Disabled)
	if d.Selected {
		o.SyncSelected(true)
	}
	return o
}

func (m *Manager) valid(i int, d source.Descriptor) bool {
	if err := d.Validate(); err != nil {
		m.stats.Malformed++
		m.log.Warn("skipping descriptor", "index", i, "error", err)
		return false
	}
	return true
}

// Load cold-builds from ds, dropping any previous models, and renders from
// the top. Groups with nested Options are flattened first.
func (m *Manager) Load(ds []source.Descriptor) error {
	if m.destroyed {
		return ErrDestroyed
	}
	ds = source.Normalize(ds)
	fp, err := Fingerprint(ds)
	if err != nil {
		return fmt.Errorf("fingerprinting snapshot: %w", err)
	}
	m.destroyItems()
	m.items = m.CreateModelResources(ds)
	m.fingerprint, m.hasPrint = fp, true
	m.rememberSelected(ds)
	m.loaded = false
	return m.push()
}

// Replace is Load wrapped in changing/changed events.
func (m *Manager) Replace(ds []source.Descriptor) error {
	if m.destroyed {
		return ErrDestroyed
	}
	m.TriggerChanging(EventReplace)
	if err := m.Load(ds); err != nil {
		return err
	}
	m.TriggerChanged(EventReplace)
	return nil
}

// Update reconciles ds into the current models. It reports whether any work
// was done; an unchanged fingerprint skips the pass entirely.
func (m *Manager) Update(ds []source.Descriptor) (bool, error) {
	if m.destroyed {
		return false, ErrDestroyed
	}
	ds = source.Normalize(ds)
	fp, err := Fingerprint(ds)
	if err != nil {
		return false, fmt.Errorf("fingerprinting snapshot: %w", err)
	}
	if m.hasPrint && fp == m.fingerprint {
		m.stats.Skipped++
		m.log.Debug("snapshot unchanged", "fingerprint", fp)
		return false, nil
	}

	r := newReconciler(m)
	m.items = r.run(ds)
	m.fingerprint, m.hasPrint = fp, true
	m.rememberSelected(ds)
	m.log.Debug("snapshot reconciled",
		"created", r.created,
		"destroyed", r.destroyed,
		"reused", r.reused,
		"items", len(m.items))
	return true, m.push()
}

// push hands the list to the target and refreshes. The first push after a
// load resets scroll; later pushes keep the anchor.
func (m *Manager) push() error {
	if m.target != nil {
		m.target.UpdateData(m.items)
		m.target.SyncFromSource()
	}
	isUpdate := m.loaded
	m.loaded = true
	if m.renderer == nil {
		return nil
	}
	if err := m.renderer.Refresh(isUpdate); err != nil {
		return fmt.Errorf("refreshing after push: %w", err)
	}
	return nil
}

func (m *Manager) rememberSelected(ds []source.Descriptor) {
	m.srcSelected = make(map[string]bool, len(ds))
	for _, d := range ds {
		if d.ResolvedKind() == source.KindOption {
			m.srcSelected[item.OptionKey(d.OptionValue(), d.OptionText())] = d.Selected
		}
	}
}

// Resources returns the current handles.
func (m *Manager) Resources() Resources {
	return Resources{Items: m.items, Target: m.target, Renderer: m.renderer}
}

// Items returns the current top-level models.
func (m *Manager) Items() []item.Item { return m.items }

// Loaded reports whether a snapshot has been pushed.
func (m *Manager) Loaded() bool { return m.loaded }

// Stats returns the churn counters.
func (m *Manager) Stats() Stats { return m.stats }

// SkipEvent toggles event suppression on the target.
func (m *Manager) SkipEvent(skip bool) {
	if m.target != nil {
		m.target.SkipEvent(skip)
	}
}

func (m *Manager) TriggerChanging(name string) {
	if m.target != nil && !m.destroyed {
		m.target.TriggerChanging(name)
	}
}

func (m *Manager) TriggerChanged(name string) {
	if m.target != nil && !m.destroyed {
		m.target.TriggerChanged(name)
	}
}

// Destroy destroys every model. Safe to call repeatedly.
func (m *Manager) Destroy() {
	if m.destroyed {
		return
	}
	m.destroyItems()
	m.destroyed = true
	m.target = nil
	m.renderer = nil
}

// Destroyed reports whether Destroy ran.
func (m *Manager) Destroyed() bool { return m.destroyed }

func (m *Manager) destroyItems() {
	for _, it := range m.items {
		switch v := it.(type) {
		case *item.Group:
			m.stats.Destroyed += 1 + len(v.Items())
			v.Destroy()
		case *item.Option:
			m.stats.Destroyed++
			v.Destroy()
		}
	}
	m.items = nil
}
