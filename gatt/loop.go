package gatt

import "time"

type task struct {
	f    func()
	done chan struct{}
}

type recurring struct {
	period time.Duration
	f      func() bool
}

// A Loop is a single-threaded cooperative scheduler. Inbound bus calls,
// timer ticks and the asynchronous registration reply are all dispatched
// as loop tasks, one at a time, so the object tree needs no locking.
type Loop struct {
	tasks  chan task
	stop   chan error
	done   chan struct{}
	timers []recurring
}

// NewLoop creates a Loop. Nothing runs until Run is called.
func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan task),
		stop:  make(chan error, 1),
		done:  make(chan struct{}),
	}
}

// Run arms the recurring tasks registered with Every and dispatches
// tasks serially until Stop is called, then returns the error passed to
// Stop. Each task runs to completion before the next one is taken.
func (l *Loop) Run() error {
	defer close(l.done)
	for _, r := range l.timers {
		go l.tick(r)
	}
	for {
		select {
		case err := <-l.stop:
			return err
		case t := <-l.tasks:
			t.f()
			close(t.done)
		}
	}
}

// Stop makes Run return err. Only the first call has any effect.
func (l *Loop) Stop(err error) {
	select {
	case l.stop <- err:
	default:
	}
}

// Do runs f on the loop, waits for it to complete and reports whether it
// ran. If the loop has already stopped, Do returns false without
// running f.
func (l *Loop) Do(f func()) bool {
	t := task{f: f, done: make(chan struct{})}
	select {
	case l.tasks <- t:
		select {
		case <-t.done:
			return true
		case <-l.done:
			return false
		}
	case <-l.done:
		return false
	}
}

// Every registers a recurring task: once per period d, f runs on the
// loop, starting when Run is called. The task stays armed for as long as
// f returns true; it is disarmed when f returns false or the loop stops.
// Every must be called before Run, while the tree is still being built.
func (l *Loop) Every(d time.Duration, f func() bool) {
	l.timers = append(l.timers, recurring{period: d, f: f})
}

func (l *Loop) tick(r recurring) {
	t := time.NewTicker(r.period)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			again := false
			if !l.Do(func() { again = r.f() }) {
				return
			}
			if !again {
				return
			}
		case <-l.done:
			return
		}
	}
}
