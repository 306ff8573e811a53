package schedule

import "time"

// DefaultDelay is the coalescing window used when none is configured.
const DefaultDelay = 50 * time.Millisecond

// Debouncer coalesces bursts of Trigger calls into one callback that runs
// delay after the last trigger. It is owned by a single component and torn
// down with it; it is not safe for concurrent use.
type Debouncer struct {
	sched   Scheduler
	delay   time.Duration
	cancel  func()
	fn      func()
	stopped bool
}

// NewDebouncer returns a debouncer on sched. A non-positive delay uses
// DefaultDelay.
func NewDebouncer(sched Scheduler, delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{sched: sched, delay: delay}
}

// Trigger (re)arms the timer. The most recent fn wins.
func (d *Debouncer) Trigger(fn func()) {
	if d.stopped {
		return
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.fn = fn
	d.cancel = d.sched.AfterFunc(d.delay, d.fire)
}

// Pending reports whether a callback is armed.
func (d *Debouncer) Pending() bool {
	return d.fn != nil
}

// Flush runs the pending callback now, if any.
func (d *Debouncer) Flush() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.fire()
}

// Stop cancels any pending callback and disables the debouncer. Safe to call
// repeatedly.
func (d *Debouncer) Stop() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.fn = nil
	d.stopped = true
}

func (d *Debouncer) fire() {
	fn := d.fn
	d.fn = nil
	d.cancel = nil
	if fn != nil && !d.stopped {
		fn()
	}
}
