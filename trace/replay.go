/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package trace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/named-data/flatfw/core"
	"github.com/named-data/flatfw/defn"
	"github.com/named-data/flatfw/face"
	"github.com/named-data/flatfw/fw"
	"github.com/named-data/flatfw/sched"
	"github.com/named-data/flatfw/table"
	"go.uber.org/multierr"
)

// idlePollInterval is how often a paced replay checks for a drained forwarder
// once the last event has fired.
const idlePollInterval = 10 * time.Millisecond

// Result summarizes a replay.
type Result struct {
	Decisions int
	Counters  defn.FwCounters
	Routes    []defn.FibEntry
}

// runner holds the forwarder and tables built for one replay.
type runner struct {
	sched     sched.Scheduler
	fib       table.Fib
	conns     *face.Table
	forwarder *fw.Forwarder
	steps     []step
	result    Result
	// unresolved connections are collected rather than aborting the run
	err error
}

func newRunner(t *Trace, config *core.Config, w io.Writer, s sched.Scheduler, opts []fw.Option) (*runner, error) {
	routeNames, steps, err := t.compile()
	if err != nil {
		return nil, err
	}

	fib, err := table.NewFib(config.Tables.Fib.Algorithm)
	if err != nil {
		return nil, err
	}
	conns := face.NewTable()
	for _, c := range t.Connections {
		if defn.ConnId(c.Id) == defn.ConnIdLocalHost {
			return nil, fmt.Errorf("connection id %d is reserved for the local host", c.Id)
		}
		conns.Add(face.NewConn(defn.ConnId(c.Id), c.URI))
	}
	for i, r := range t.Routes {
		if !fib.AddRoute(defn.ConnId(r.Conn), routeNames[i]) {
			return nil, fmt.Errorf("route %s -> %d was not installed", r.Name, r.Conn)
		}
	}

	r := &runner{sched: s, fib: fib, conns: conns, steps: steps}
	handler := fw.DecisionFunc(func(pkt *defn.Packet, ingress defn.Connection, rerr defn.RoutingError, egress []defn.Connection) {
		r.result.Decisions++
		out := "drop"
		if len(egress) > 0 {
			out = egress[0].ConnId().String()
		}
		fmt.Fprintf(w, "%-14s %-14s %-24s ingress=%-4d error=%-12s egress=%s\n",
			s.Now(), pkt.Type, pkt.Name, ingress.ConnId(), rerr, out)
	})
	r.forwarder = fw.NewForwarder(config.FwConfig(), fib, conns, s,
		append([]fw.Option{fw.WithDecisionHandler(handler)}, opts...)...)
	return r, nil
}

func (r *runner) lookup(i int, id uint64) defn.Connection {
	conn := r.conns.Get(defn.ConnId(id))
	if conn == nil {
		r.err = multierr.Append(r.err, fmt.Errorf("event %d: unknown connection %d", i, id))
	}
	return conn
}

// fire applies step i of the trace.
func (r *runner) fire(i int) {
	s := r.steps[i]
	switch s.Action {
	case ActionInput, ActionOutput:
		ingress := r.lookup(i, s.Ingress)
		if ingress == nil {
			return
		}
		pkt := &defn.Packet{Type: s.pktType, Name: s.name, Length: s.Length}
		if s.Action == ActionInput {
			r.forwarder.RouteInput(pkt, ingress)
			return
		}
		var egress defn.Connection
		if s.Egress != nil {
			if egress = r.lookup(i, *s.Egress); egress == nil {
				return
			}
		}
		r.forwarder.RouteOutput(pkt, ingress, egress)
	case ActionAddRoute:
		r.fib.AddRoute(defn.ConnId(s.Conn), s.name)
	case ActionRemoveRoute:
		r.fib.RemoveRoute(defn.ConnId(s.Conn), s.name)
	case ActionTeardown:
		r.conns.Remove(defn.ConnId(s.Conn))
	}
}

func (r *runner) finish() (*Result, error) {
	core.Log.Info(nil, "Replay finished", "scheduler", r.sched, "time", r.sched.Now(), "decisions", r.result.Decisions)
	r.forwarder.Close()
	r.result.Counters = r.forwarder.Counters()
	r.result.Routes = r.fib.Routes()
	return &r.result, r.err
}

// Replay runs the trace through a forwarder built from config on a simulated
// clock and writes one line per routing decision to w.
func Replay(t *Trace, config *core.Config, w io.Writer, opts ...fw.Option) (*Result, error) {
	sim := sched.NewSimulator()
	r, err := newRunner(t, config, w, sim, opts)
	if err != nil {
		return nil, err
	}
	for i, s := range r.steps {
		sim.ScheduleAt(s.At, func() { r.fire(i) })
	}
	sim.Run()
	return r.finish()
}

// Pace runs the trace like Replay, but events fire on clk's wall-clock time.
// Events sharing a time fire in trace order. It returns once the last event has
// fired and the forwarder has drained, or when ctx is done; a run stopped by
// ctx still reports what was decided so far.
func Pace(ctx context.Context, t *Trace, config *core.Config, w io.Writer, clk clock.Clock, opts ...fw.Option) (*Result, error) {
	rt := sched.NewRealTime(clk, 1024)
	r, err := newRunner(t, config, w, rt, opts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var last time.Duration
	for i, s := range r.steps {
		rt.ScheduleAt(s.At, func() { r.fire(i) })
		last = max(last, s.At)
	}
	var poll func()
	poll = func() {
		if r.forwarder.Idle() {
			cancel()
			return
		}
		rt.Schedule(idlePollInterval, poll)
	}
	rt.ScheduleAt(last+idlePollInterval, poll)

	err = rt.Run(ctx)
	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	return r.finish()
}
