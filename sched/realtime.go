/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package sched

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/named-data/ndnd/std/types/priority_queue"
)

// RealTime runs callbacks on wall-clock time.
// Every callback executes on the goroutine that called Run, so state touched only
// from callbacks and Post needs no further locking.
//
// Pending callbacks are kept in deadline slots behind a single clock timer, so
// callbacks run in deadline order and callbacks sharing a deadline run in the
// order they were scheduled.
type RealTime struct {
	clock clock.Clock
	start time.Time
	tasks chan func()
	done  chan struct{}
	stop  sync.Once

	mutex sync.Mutex
	queue priority_queue.Queue[*timeSlot, time.Duration]
	slots map[time.Duration]*timeSlot
	// driver timer armed for timerAt; timerSeq discards firings of replaced timers
	timer    *clock.Timer
	timerAt  time.Duration
	timerSeq uint64
	// a drain is waiting in tasks
	draining bool
}

// NewRealTime creates a wall-clock scheduler on clk; nil selects the system clock.
// queueSize bounds the number of posted callbacks waiting for the run loop.
func NewRealTime(clk clock.Clock, queueSize int) *RealTime {
	if clk == nil {
		clk = clock.New()
	}
	return &RealTime{
		clock: clk,
		start: clk.Now(),
		tasks: make(chan func(), max(queueSize, 1)),
		done:  make(chan struct{}),
		queue: priority_queue.New[*timeSlot, time.Duration](),
		slots: make(map[time.Duration]*timeSlot),
	}
}

func (r *RealTime) String() string {
	return "realtime"
}

// Now returns the wall-clock time elapsed since the scheduler was created.
func (r *RealTime) Now() time.Duration {
	return r.clock.Since(r.start)
}

// Schedule runs fn on the run loop after delay.
func (r *RealTime) Schedule(delay time.Duration, fn func()) {
	r.ScheduleAt(r.Now()+max(delay, 0), fn)
}

// ScheduleAt runs fn on the run loop once Now() reaches at.
// It may be called from any goroutine.
func (r *RealTime) ScheduleAt(at time.Duration, fn func()) {
	r.mutex.Lock()
	slot := r.slots[at]
	if slot == nil {
		slot = &timeSlot{at: at}
		r.slots[at] = slot
		r.queue.Push(slot, at)
	}
	slot.fns = append(slot.fns, fn)
	drain := r.rearm(r.Now())
	r.mutex.Unlock()

	if drain {
		r.send(r.drain)
	}
}

// rearm makes sure the earliest slot will be drained. It reports whether a
// drain must be sent to the run loop now. Called with mutex held.
func (r *RealTime) rearm(now time.Duration) bool {
	if r.queue.Len() == 0 {
		return false
	}
	next := r.queue.PeekPriority()
	if next <= now {
		if r.draining {
			return false
		}
		r.draining = true
		return true
	}
	if r.timer != nil && r.timerAt <= next {
		return false
	}

	if r.timer != nil {
		r.timer.Stop()
	}
	r.timerSeq++
	seq := r.timerSeq
	r.timerAt = next
	r.timer = r.clock.AfterFunc(next-now, func() { r.onTimer(seq) })
	return false
}

func (r *RealTime) onTimer(seq uint64) {
	r.mutex.Lock()
	if seq == r.timerSeq {
		r.timer = nil
	}
	drain := !r.draining
	r.draining = true
	r.mutex.Unlock()

	if drain {
		r.send(r.drain)
	}
}

// drain runs every due callback on the run loop.
func (r *RealTime) drain() {
	r.mutex.Lock()
	r.draining = false
	now := r.Now()
	var due []func()
	for r.queue.Len() > 0 && r.queue.PeekPriority() <= now {
		slot := r.queue.Pop()
		delete(r.slots, slot.at)
		due = append(due, slot.fns...)
	}
	drain := r.rearm(now)
	r.mutex.Unlock()

	if drain {
		r.send(r.drain)
	}
	for _, fn := range due {
		fn()
	}
}

// send posts fn without blocking the caller, which may be the run loop itself.
func (r *RealTime) send(fn func()) {
	select {
	case r.tasks <- fn:
	default:
		go r.Post(fn)
	}
}

// Post runs fn on the run loop as soon as possible. It may be called from any goroutine.
// Once Run has returned, fn is dropped.
func (r *RealTime) Post(fn func()) {
	select {
	case r.tasks <- fn:
	case <-r.done:
	}
}

// Run executes posted and scheduled callbacks until ctx is cancelled.
// A scheduler runs at most once: after Run returns, pending callbacks are abandoned.
func (r *RealTime) Run(ctx context.Context) error {
	defer r.stop.Do(func() {
		close(r.done)
		r.mutex.Lock()
		if r.timer != nil {
			r.timer.Stop()
			r.timer = nil
		}
		r.mutex.Unlock()
	})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-r.tasks:
			fn()
		}
	}
}
