package model

import (
	"github.com/ruminaider/vselect/internal/item"
	"github.com/ruminaider/vselect/internal/source"
)

// reconciler runs one Update pass. Old models are indexed by key; each new
// descriptor claims at most one old model, and whatever is left unclaimed is
// destroyed.
type reconciler struct {
	m *Manager

	groups  map[string]*item.Group
	exact   map[string]*item.Option
	byValue map[string][]*item.Option
	claimed map[item.Item]bool
	oldOpts []*item.Option
	oldGrps []*item.Group

	created, destroyed, reused int
}

func newReconciler(m *Manager) *reconciler {
	r := &reconciler{
		m:       m,
		groups:  make(map[string]*item.Group),
		exact:   make(map[string]*item.Option),
		byValue: make(map[string][]*item.Option),
		claimed: make(map[item.Item]bool),
	}
	for _, it := range m.items {
		switch v := it.(type) {
		case *item.Group:
			r.oldGrps = append(r.oldGrps, v)
			if _, dup := r.groups[v.Label()]; !dup {
				r.groups[v.Label()] = v
			}
			for _, o := range v.Items() {
				r.index(o)
			}
		case *item.Option:
			r.index(v)
		}
	}
	return r
}

func (r *reconciler) index(o *item.Option) {
	r.oldOpts = append(r.oldOpts, o)
	if _, dup := r.exact[o.Key()]; !dup {
		r.exact[o.Key()] = o
	}
	r.byValue[o.Value()] = append(r.byValue[o.Value()], o)
}

func (r *reconciler) run(ds []source.Descriptor) []item.Item {
	var out []item.Item
	children := make(map[*item.Group][]*item.Option)
	seen := make(map[string]*item.Group)
	var order []*item.Group
	var open *item.Group

	for i, d := range ds {
		if !r.m.valid(i, d) {
			continue
		}
		if d.ResolvedKind() == source.KindGroup {
			g, ok := seen[d.Label]
			if !ok {
				g = r.group(d.Label)
				seen[d.Label] = g
				order = append(order, g)
				out = append(out, g)
			}
			open = g
			continue
		}
		o := r.option(d)
		if g := owner(open, seen, d); g != nil {
			children[g] = append(children[g], o)
			continue
		}
		if g := o.Group(); g != nil {
			g.Remove(o)
		}
		out = append(out, o)
	}

	for _, g := range order {
		g.SetItems(children[g])
	}
	for _, o := range r.oldOpts {
		if !r.claimed[o] && !o.Destroyed() {
			o.Destroy()
			r.destroyed++
		}
	}
	for _, g := range r.oldGrps {
		if !r.claimed[g] && !g.Destroyed() {
			g.Destroy()
			r.destroyed++
		}
	}

	r.m.stats.Created += r.created
	r.m.stats.Destroyed += r.destroyed
	r.m.stats.Reused += r.reused
	return out
}

func (r *reconciler) group(label string) *item.Group {
	if g, ok := r.groups[label]; ok && !r.claimed[g] {
		r.claimed[g] = true
		r.reused++
		return g
	}
	r.created++
	return item.NewGroup(label)
}

// option claims an old option by value::text, then by value alone so a
// relabelled option keeps its instance.
func (r *reconciler) option(d source.Descriptor) *item.Option {
	value, text := d.OptionValue(), d.OptionText()
	o := r.exact[item.OptionKey(value, text)]
	if o == nil || r.claimed[o] {
		o = nil
		for _, c := range r.byValue[value] {
			if !r.claimed[c] {
				o = c
				break
			}
		}
	}
	if o == nil {
		r.created++
		return newOption(d)
	}

	r.claimed[o] = true
	r.reused++
	prevKey := o.Key()
	if o.Value() != value || o.RawText() != text {
		o.SetText(value, text)
	}
	o.SetData(d.Data)
	o.SetDisabled(d.Disabled)
	// Only a change in the source flag overrides what the user did in the UI.
	if prev, had := r.m.srcSelected[prevKey]; !had || prev != d.Selected {
		if o.Selected() != d.Selected {
			o.SyncSelected(d.Selected)
		}
	}
	return o
}
