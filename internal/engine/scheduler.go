package engine

import (
	"sort"
	"time"
)

// Pending is a scheduled callback that can be cancelled. A cancelled or
// resolved Pending never runs its callback again.
type Pending struct {
	name string
	done bool
	stop func()
}

// NewPending creates a pending operation. stop releases host resources and
// runs once, on Cancel or on Resolve.
func NewPending(name string, stop func()) *Pending {
	return &Pending{name: name, stop: stop}
}

func (p *Pending) Name() string { return p.name }

// Active reports whether the callback may still run.
func (p *Pending) Active() bool {
	return p != nil && !p.done
}

// Cancel stops the operation. Safe on nil and safe to repeat.
func (p *Pending) Cancel() {
	if p == nil || p.done {
		return
	}
	p.done = true
	if p.stop != nil {
		p.stop()
	}
}

// Tick runs fn if the operation is still active. Used for repeating timers.
func (p *Pending) Tick(fn func()) {
	if p.Active() {
		fn()
	}
}

// Resolve runs fn once if the operation is still active, then retires it.
func (p *Pending) Resolve(fn func()) {
	if !p.Active() {
		return
	}
	p.done = true
	fn()
	if p.stop != nil {
		p.stop()
	}
}

// Scheduler is the host event loop's timer facility. Every callback runs on
// the single UI thread.
type Scheduler interface {
	// Every runs fn at a fixed interval until cancelled.
	Every(interval time.Duration, fn func()) *Pending
	// Defer runs fn once on a later turn of the event loop, after any
	// host side-channel events already queued have been delivered.
	Defer(name string, fn func()) *Pending
}

type manualTimer struct {
	p        *Pending
	interval time.Duration
	next     time.Duration
	fn       func()
}

type manualTask struct {
	p  *Pending
	fn func()
}

// ManualScheduler is a Scheduler whose clock only moves when told to.
// Headless rendering and tests drive it with Flush and Advance.
type ManualScheduler struct {
	now    time.Duration
	timers []*manualTimer
	tasks  []*manualTask
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (m *ManualScheduler) Every(interval time.Duration, fn func()) *Pending {
	if interval <= 0 {
		interval = time.Millisecond
	}
	t := &manualTimer{interval: interval, next: m.now + interval, fn: fn}
	t.p = NewPending("every", nil)
	m.timers = append(m.timers, t)
	return t.p
}

func (m *ManualScheduler) Defer(name string, fn func()) *Pending {
	task := &manualTask{p: NewPending(name, nil), fn: fn}
	m.tasks = append(m.tasks, task)
	return task.p
}

// Flush runs deferred callbacks, including ones queued while flushing, and
// returns how many ran.
func (m *ManualScheduler) Flush() int {
	ran := 0
	for len(m.tasks) > 0 {
		task := m.tasks[0]
		m.tasks = m.tasks[1:]
		if task.p.Active() {
			ran++
		}
		task.p.Resolve(task.fn)
	}
	return ran
}

// Advance flushes deferred work, then moves the clock forward by d firing
// every interval that falls due, in time order.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.Flush()
	end := m.now + d
	for {
		m.prune()
		due := m.nextDue(end)
		if due == nil {
			break
		}
		m.now = due.next
		due.next += due.interval
		due.p.Tick(due.fn)
		m.Flush()
	}
	m.now = end
}

// Now returns the scheduler's clock.
func (m *ManualScheduler) Now() time.Duration { return m.now }

// Active counts timers and deferred callbacks that can still fire.
func (m *ManualScheduler) Active() int {
	n := 0
	for _, t := range m.timers {
		if t.p.Active() {
			n++
		}
	}
	for _, task := range m.tasks {
		if task.p.Active() {
			n++
		}
	}
	return n
}

func (m *ManualScheduler) nextDue(end time.Duration) *manualTimer {
	var due []*manualTimer
	for _, t := range m.timers {
		if t.p.Active() && t.next <= end {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].next < due[j].next })
	return due[0]
}

func (m *ManualScheduler) prune() {
	live := m.timers[:0]
	for _, t := range m.timers {
		if t.p.Active() {
			live = append(live, t)
		}
	}
	m.timers = live
}
