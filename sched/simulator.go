/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package sched

import (
	"time"

	"github.com/named-data/ndnd/std/types/priority_queue"
)

// timeSlot holds the callbacks due at one instant, in scheduling order.
type timeSlot struct {
	at  time.Duration
	fns []func()
}

// Simulator is a single-threaded discrete-event scheduler with a virtual clock.
// The zero value is not usable; call NewSimulator.
type Simulator struct {
	now   time.Duration
	queue priority_queue.Queue[*timeSlot, time.Duration]
	slots map[time.Duration]*timeSlot
	count int
}

// NewSimulator creates a simulator whose clock starts at zero.
func NewSimulator() *Simulator {
	return &Simulator{
		queue: priority_queue.New[*timeSlot, time.Duration](),
		slots: make(map[time.Duration]*timeSlot),
	}
}

func (s *Simulator) String() string {
	return "simulator"
}

// Now returns the current virtual time.
func (s *Simulator) Now() time.Duration {
	return s.now
}

// Schedule runs fn at Now()+delay.
func (s *Simulator) Schedule(delay time.Duration, fn func()) {
	s.ScheduleAt(s.now+max(delay, 0), fn)
}

// ScheduleAt runs fn at the absolute virtual time at, or now if at is in the past.
func (s *Simulator) ScheduleAt(at time.Duration, fn func()) {
	at = max(at, s.now)
	slot := s.slots[at]
	if slot == nil {
		slot = &timeSlot{at: at}
		s.slots[at] = slot
		s.queue.Push(slot, at)
	}
	slot.fns = append(slot.fns, fn)
	s.count++
}

// Pending returns the number of callbacks not yet run.
func (s *Simulator) Pending() int {
	return s.count
}

// Step advances the clock to the earliest pending instant and runs every callback due then,
// including callbacks scheduled for that instant while it runs.
// It returns false when nothing is pending.
func (s *Simulator) Step() bool {
	if s.queue.Len() == 0 {
		return false
	}
	slot := s.queue.Pop()
	delete(s.slots, slot.at)
	s.now = slot.at

	// a callback may append to a new slot for the same instant; it is popped next
	for _, fn := range slot.fns {
		s.count--
		fn()
	}
	return true
}

// Run executes callbacks until none are pending.
func (s *Simulator) Run() {
	for s.Step() {
	}
}

// RunUntil executes every callback due at or before t, then sets the clock to t.
func (s *Simulator) RunUntil(t time.Duration) {
	for s.queue.Len() > 0 && s.queue.PeekPriority() <= t {
		s.Step()
	}
	s.now = max(s.now, t)
}
