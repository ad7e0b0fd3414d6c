/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"time"

	"github.com/named-data/flatfw/sched"
)

// DelayQueue serializes items through a fixed number of virtual servers.
// Each server holds one item for its service time, then takes the oldest queued item.
// All methods must be called from the scheduler's timeline.
type DelayQueue[T any] struct {
	sched       sched.Scheduler
	servers     int
	busy        int
	queue       []T
	serviceTime func(T) time.Duration
	dequeue     func(T)
	// bumped by Reset; completions of an older generation are discarded
	generation uint64
}

// NewDelayQueue creates a delay queue with the given number of servers.
// serviceTime computes how long an item occupies a server and dequeue is
// called when the item's service completes.
func NewDelayQueue[T any](
	sched sched.Scheduler,
	servers int,
	serviceTime func(T) time.Duration,
	dequeue func(T),
) *DelayQueue[T] {
	if servers < 1 {
		panic("DelayQueue needs at least one server")
	}
	return &DelayQueue[T]{
		sched:       sched,
		servers:     servers,
		serviceTime: serviceTime,
		dequeue:     dequeue,
	}
}

// PushBack admits an item. It never blocks: the item either starts service on an idle
// server or waits at the tail of the queue.
func (q *DelayQueue[T]) PushBack(item T) {
	if q.busy < q.servers {
		q.startService(item)
		return
	}
	q.queue = append(q.queue, item)
}

func (q *DelayQueue[T]) startService(item T) {
	q.busy++
	generation := q.generation
	q.sched.Schedule(q.serviceTime(item), func() {
		q.completeService(generation, item)
	})
}

func (q *DelayQueue[T]) completeService(generation uint64, item T) {
	if generation != q.generation {
		return
	}

	// The server picks up its next item before the completed one is handed out,
	// so anything pushed from dequeue lands behind the existing queue.
	q.busy--
	if len(q.queue) > 0 {
		next := q.queue[0]
		var zero T
		q.queue[0] = zero
		q.queue = q.queue[1:]
		q.startService(next)
	}

	q.dequeue(item)
}

// Len returns the number of items waiting for a server.
func (q *DelayQueue[T]) Len() int {
	return len(q.queue)
}

// Busy returns the number of servers currently in service.
func (q *DelayQueue[T]) Busy() int {
	return q.busy
}

// Servers returns the number of servers.
func (q *DelayQueue[T]) Servers() int {
	return q.servers
}

// Reset drops all queued items and abandons items in service.
func (q *DelayQueue[T]) Reset() {
	q.generation++
	q.busy = 0
	q.queue = nil
}
