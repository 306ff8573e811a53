// Package schedule provides event-loop deferral: timers whose callbacks run on
// the owner's loop, and per-owner debouncers built on them.
package schedule

import (
	"sort"
	"time"

	"go.uber.org/atomic"
)

// Scheduler runs fn after d. The returned func cancels the pending call; it is
// safe to call after the callback has already run.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// Realtime is a Scheduler backed by wall-clock timers. Callbacks are handed to
// post instead of running on the timer goroutine, so a UI loop can execute them
// on its own thread.
type Realtime struct {
	post    func(func())
	stopped atomic.Bool
}

// NewRealtime returns a Realtime that delivers callbacks through post. A nil
// post runs callbacks directly on the timer goroutine.
func NewRealtime(post func(func())) *Realtime {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &Realtime{post: post}
}

// AfterFunc implements Scheduler.
func (r *Realtime) AfterFunc(d time.Duration, fn func()) func() {
	if r.stopped.Load() {
		return func() {}
	}
	var cancelled atomic.Bool
	t := time.AfterFunc(d, func() {
		if cancelled.Load() || r.stopped.Load() {
			return
		}
		r.post(func() {
			if !cancelled.Load() {
				fn()
			}
		})
	})
	return func() {
		cancelled.Store(true)
		t.Stop()
	}
}

// Stop prevents any further callbacks from being delivered.
func (r *Realtime) Stop() {
	r.stopped.Store(true)
}

// Manual is a deterministic Scheduler driven by Advance. It is meant for tests
// and headless runs where nothing should happen behind the caller's back.
type Manual struct {
	now     time.Duration
	seq     int
	pending []*manualTask
}

type manualTask struct {
	at        time.Duration
	seq       int
	fn        func()
	cancelled bool
}

// NewManual returns a Manual with its clock at zero.
func NewManual() *Manual {
	return &Manual{}
}

// AfterFunc implements Scheduler.
func (m *Manual) AfterFunc(d time.Duration, fn func()) func() {
	t := &manualTask{at: m.now + d, seq: m.seq, fn: fn}
	m.seq++
	m.pending = append(m.pending, t)
	return func() { t.cancelled = true }
}

// Advance moves the clock forward and runs every task that comes due, in due
// order. Tasks scheduled by callbacks run too if they fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		m.now = t.at
		t.fn()
	}
	m.now = target
}

// Pending returns the number of scheduled, uncancelled tasks.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Now returns the virtual clock.
func (m *Manual) Now() time.Duration { return m.now }

func (m *Manual) nextDue(target time.Duration) *manualTask {
	live := m.pending[:0]
	for _, t := range m.pending {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	m.pending = live
	if len(m.pending) == 0 {
		return nil
	}
	sort.SliceStable(m.pending, func(i, j int) bool {
		if m.pending[i].at != m.pending[j].at {
			return m.pending[i].at < m.pending[j].at
		}
		return m.pending[i].seq < m.pending[j].seq
	})
	t := m.pending[0]
	if t.at > target {
		return nil
	}
	m.pending = m.pending[1:]
	return t
}
