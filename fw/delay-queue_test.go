package fw_test

import (
	"testing"
	"time"

	"github.com/named-data/flatfw/fw"
	"github.com/named-data/flatfw/sched"
	"github.com/stretchr/testify/assert"
)

type job struct {
	id      int
	service time.Duration
}

type completion struct {
	id int
	at time.Duration
}

func newJobQueue(sim *sched.Simulator, servers int) (*fw.DelayQueue[job], *[]completion) {
	done := &[]completion{}
	q := fw.NewDelayQueue(sim, servers,
		func(j job) time.Duration { return j.service },
		func(j job) { *done = append(*done, completion{j.id, sim.Now()}) })
	return q, done
}

func TestDelayQueueSingleServer(t *testing.T) {
	sim := sched.NewSimulator()
	q, done := newJobQueue(sim, 1)

	// two back-to-back arrivals, then one that finds the queue idle
	sim.ScheduleAt(0, func() { q.PushBack(job{1, time.Second}) })
	sim.ScheduleAt(500*time.Millisecond, func() { q.PushBack(job{2, time.Second}) })
	sim.ScheduleAt(5*time.Second, func() { q.PushBack(job{3, 2 * time.Second}) })
	sim.Run()

	assert.Equal(t, []completion{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 7 * time.Second},
	}, *done)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.Busy())
}

func TestDelayQueueFifoUnderSaturation(t *testing.T) {
	sim := sched.NewSimulator()
	q, done := newJobQueue(sim, 1)

	for i := 1; i <= 5; i++ {
		q.PushBack(job{i, time.Duration(6-i) * time.Millisecond})
	}
	assert.Equal(t, 1, q.Busy())
	assert.Equal(t, 4, q.Len())
	sim.Run()

	// shorter service does not let a later item overtake
	assert.Equal(t, []completion{
		{1, 5 * time.Millisecond},
		{2, 9 * time.Millisecond},
		{3, 12 * time.Millisecond},
		{4, 14 * time.Millisecond},
		{5, 15 * time.Millisecond},
	}, *done)
}

func TestDelayQueueParallelServers(t *testing.T) {
	sim := sched.NewSimulator()
	q, done := newJobQueue(sim, 2)

	q.PushBack(job{1, time.Second})
	q.PushBack(job{2, time.Second})
	q.PushBack(job{3, time.Second})
	assert.Equal(t, 2, q.Servers())
	assert.Equal(t, 2, q.Busy())
	assert.Equal(t, 1, q.Len())
	sim.Run()

	assert.Equal(t, []completion{
		{1, time.Second},
		{2, time.Second},
		{3, 2 * time.Second},
	}, *done)
}

func TestDelayQueuePushFromDequeue(t *testing.T) {
	sim := sched.NewSimulator()
	var order []int
	var q *fw.DelayQueue[int]
	q = fw.NewDelayQueue(sim, 1,
		func(int) time.Duration { return time.Second },
		func(i int) {
			order = append(order, i)
			if i == 1 {
				q.PushBack(10)
			}
		})

	q.PushBack(1)
	q.PushBack(2)
	sim.Run()
	assert.Equal(t, []int{1, 2, 10}, order)
	assert.Equal(t, 3*time.Second, sim.Now())
}

func TestDelayQueueReset(t *testing.T) {
	sim := sched.NewSimulator()
	q, done := newJobQueue(sim, 1)

	q.PushBack(job{1, time.Second})
	q.PushBack(job{2, time.Second})
	q.Reset()
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.Busy())

	q.PushBack(job{3, 3 * time.Second})
	sim.Run()
	assert.Equal(t, []completion{{3, 3 * time.Second}}, *done)
}

func TestDelayQueueNeedsServer(t *testing.T) {
	assert.Panics(t, func() {
		fw.NewDelayQueue(sched.NewSimulator(), 0,
			func(int) time.Duration { return 0 }, func(int) {})
	})
}
