package sched_test

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/named-data/flatfw/sched"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealTime(t *testing.T) {
	mock := clock.NewMock()
	rt := sched.NewRealTime(mock, 16)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- rt.Run(ctx) }()

	fired := make(chan time.Duration, 4)
	rt.Schedule(time.Second, func() { fired <- rt.Now() })
	rt.Schedule(0, func() { fired <- rt.Now() })

	select {
	case at := <-fired:
		assert.Equal(t, time.Duration(0), at)
	case <-time.After(time.Second):
		require.FailNow(t, "immediate callback did not run")
	}

	mock.Add(time.Second)
	select {
	case at := <-fired:
		assert.Equal(t, time.Second, at)
	case <-time.After(time.Second):
		require.FailNow(t, "timer callback did not run")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRealTimeSameInstantOrder(t *testing.T) {
	mock := clock.NewMock()
	rt := sched.NewRealTime(mock, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rt.Run(ctx)

	order := make(chan int, 101)
	for i := 0; i < 100; i++ {
		rt.ScheduleAt(time.Second, func() { order <- i })
	}
	rt.ScheduleAt(500*time.Millisecond, func() { order <- -1 })

	next := func() int {
		select {
		case i := <-order:
			return i
		case <-time.After(time.Second):
			require.FailNow(t, "callback did not run")
			return 0
		}
	}

	mock.Add(500 * time.Millisecond)
	assert.Equal(t, -1, next())

	mock.Add(500 * time.Millisecond)
	for i := 0; i < 100; i++ {
		require.Equal(t, i, next())
	}
}

func TestRealTimePostAfterRun(t *testing.T) {
	rt := sched.NewRealTime(clock.NewMock(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, rt.Run(ctx), context.Canceled)

	posted := make(chan struct{})
	go func() {
		for i := 0; i < 8; i++ {
			rt.Post(func() {})
		}
		rt.Schedule(0, func() {})
		close(posted)
	}()

	select {
	case <-posted:
	case <-time.After(time.Second):
		require.FailNow(t, "Post blocked after Run returned")
	}
}
