package item

// Listeners is an ordered callback registry. Callbacks fire in registration
// order; the returned cancel func removes a single registration and may be
// called any number of times.
type Listeners[T any] struct {
	next int
	ids  []int
	fns  map[int]func(T)
}

// Add registers fn and returns a func that removes it.
func (l *Listeners[T]) Add(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	if l.fns == nil {
		l.fns = make(map[int]func(T))
	}
	id := l.next
	l.next++
	l.ids = append(l.ids, id)
	l.fns[id] = fn
	return func() { l.remove(id) }
}

// Fire invokes every registered callback with v. Callbacks added during Fire
// first run on the next call; a callback removed during Fire is skipped if it
// has not run yet.
func (l *Listeners[T]) Fire(v T) {
	if len(l.ids) == 0 {
		return
	}
	ids := append([]int(nil), l.ids...)
	for _, id := range ids {
		if fn, ok := l.fns[id]; ok {
			fn(v)
		}
	}
}

// Len returns the number of registered callbacks.
func (l *Listeners[T]) Len() int {
	return len(l.ids)
}

// Clear drops every registration.
func (l *Listeners[T]) Clear() {
	l.ids = nil
	l.fns = nil
}

func (l *Listeners[T]) remove(id int) {
	if _, ok := l.fns[id]; !ok {
		return
	}
	delete(l.fns, id)
	for i, v := range l.ids {
		if v == id {
			l.ids = append(l.ids[:i], l.ids[i+1:]...)
			break
		}
	}
}
