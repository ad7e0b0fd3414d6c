/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/named-data/flatfw/core"
	"github.com/named-data/flatfw/defn"
	"github.com/named-data/flatfw/sched"
	"github.com/named-data/flatfw/table"
	enc "github.com/named-data/ndnd/std/encoding"
	"github.com/named-data/ndnd/std/types/optional"
)

// DecisionHandler receives the routing decision of every packet.
// egress is empty when the packet is dropped and holds one connection otherwise.
type DecisionHandler interface {
	OnDecision(pkt *defn.Packet, ingress defn.Connection, rerr defn.RoutingError, egress []defn.Connection)
}

// DecisionFunc adapts a function to DecisionHandler.
type DecisionFunc func(pkt *defn.Packet, ingress defn.Connection, rerr defn.RoutingError, egress []defn.Connection)

// OnDecision calls f.
func (f DecisionFunc) OnDecision(pkt *defn.Packet, ingress defn.Connection, rerr defn.RoutingError, egress []defn.Connection) {
	f(pkt, ingress, rerr, egress)
}

// Option configures a Forwarder.
type Option func(*Forwarder)

// WithDecisionHandler sets the handler decisions are delivered to.
func WithDecisionHandler(h DecisionHandler) Option {
	return func(f *Forwarder) { f.handler = h }
}

// WithMetrics publishes forwarder activity on m.
func WithMetrics(m *Metrics) Option {
	return func(f *Forwarder) { f.metrics = m }
}

// Forwarder is a single-path forwarder over an exact-match FIB.
// Every packet first waits in an input delay queue that models processing cost,
// then is routed and the decision is handed to the DecisionHandler.
//
// The forwarder is not safe for concurrent use: all calls must come from the
// scheduler's timeline (see sched.RealTime.Post).
type Forwarder struct {
	cfg        core.FwConfig
	fib        table.Fib
	conns      defn.ConnectionRegistry
	sched      sched.Scheduler
	inputQueue *DelayQueue[*workItem]
	handler    DecisionHandler
	metrics    *Metrics
	counters   defn.FwCounters
}

// NewForwarder creates a forwarder. cfg.LayerDelayServers must be at least 1.
func NewForwarder(
	cfg core.FwConfig,
	fib table.Fib,
	conns defn.ConnectionRegistry,
	sched sched.Scheduler,
	opts ...Option,
) *Forwarder {
	f := &Forwarder{
		cfg:   cfg,
		fib:   fib,
		conns: conns,
		sched: sched,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.inputQueue = NewDelayQueue(sched, cfg.LayerDelayServers, f.serviceTime, f.serviceInputQueue)

	core.Log.Debug(f, "Created forwarder",
		"constant", cfg.LayerDelayConstant, "slope", cfg.LayerDelaySlope, "servers", cfg.LayerDelayServers)
	return f
}

func (f *Forwarder) String() string {
	return "flat-fw"
}

// SetDecisionHandler replaces the decision handler.
func (f *Forwarder) SetDecisionHandler(h DecisionHandler) {
	f.handler = h
}

// Fib returns the forwarding table.
func (f *Forwarder) Fib() table.Fib {
	return f.fib
}

// Counters returns a snapshot of the forwarding counters.
func (f *Forwarder) Counters() defn.FwCounters {
	return f.counters
}

// QueueLength returns the number of packets waiting for a server.
func (f *Forwarder) QueueLength() int {
	return f.inputQueue.Len()
}

// Idle reports whether no packet is queued or in service.
func (f *Forwarder) Idle() bool {
	return f.inputQueue.Len() == 0 && f.inputQueue.Busy() == 0
}

// RouteOutput admits a locally originated packet. If egress is not nil it
// overrides the FIB for this packet; a typed nil counts as no override.
func (f *Forwarder) RouteOutput(pkt *defn.Packet, ingress defn.Connection, egress defn.Connection) {
	core.Log.Trace(f, "RouteOutput", "packet", pkt, "ingress", ingress, "egress", egress)
	if isNilConnection(egress) {
		egress = nil
	}
	f.enqueue(pkt, ingress, egress)
}

// isNilConnection reports whether c is nil or an interface holding a nil pointer.
func isNilConnection(c defn.Connection) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// RouteInput admits a packet received from the network.
func (f *Forwarder) RouteInput(pkt *defn.Packet, ingress defn.Connection) {
	core.Log.Trace(f, "RouteInput", "packet", pkt, "ingress", ingress)
	f.enqueue(pkt, ingress, nil)
}

func (f *Forwarder) enqueue(pkt *defn.Packet, ingress defn.Connection, egress defn.Connection) {
	if isNilConnection(ingress) {
		panic("packet admitted without an ingress connection")
	}

	switch pkt.Type {
	case defn.PacketTypeInterest:
		f.counters.NInInterests++
	case defn.PacketTypeContentObject:
		f.counters.NInContentObjects++
	}
	f.metrics.received(pkt.Type)

	f.inputQueue.PushBack(&workItem{
		packet:         pkt,
		ingress:        ingress,
		egressOverride: egress,
		arrival:        f.sched.Now(),
	})
	f.metrics.queueLength(f.inputQueue.Len())
}

func (f *Forwarder) serviceTime(item *workItem) time.Duration {
	return f.cfg.LayerDelayConstant + f.cfg.LayerDelaySlope*time.Duration(item.packet.Length)
}

// serviceInputQueue routes an item whose service time has elapsed and delivers the decision.
func (f *Forwarder) serviceInputQueue(item *workItem) {
	egress, result := f.innerReceive(item)

	if item.egressOverride != nil {
		core.Log.Debug(f, "User has overridden FIB lookup", "name", item.packet.Name, "egress", item.egressOverride)
		item.routeError = defn.RoutingErrorNoError
		egress = item.egressOverride
		result = outcomeOverridden
	}

	if egress != nil {
		item.egress = []defn.Connection{egress}
	} else {
		item.egress = []defn.Connection{}
	}
	f.count(result)
	f.metrics.decided(result, (f.sched.Now() - item.arrival).Seconds())
	f.metrics.queueLength(f.inputQueue.Len())

	core.Log.Debug(f, "Routed packet",
		"packet", item.packet, "ingress", item.ingress.ConnId(), "outcome", result, "destinations", len(item.egress))

	if f.handler != nil {
		f.handler.OnDecision(item.packet, item.ingress, item.routeError, item.egress)
	}
}

func (f *Forwarder) count(result outcome) {
	switch result {
	case outcomeForwarded:
		f.counters.NForwarded++
	case outcomeOverridden:
		f.counters.NOverridden++
	case outcomeNoRoute:
		f.counters.NNoRoute++
	case outcomeLoop:
		f.counters.NLoopDrops++
	case outcomeStale:
		f.counters.NStaleDrops++
	case outcomeUnsupported:
		f.counters.NUnsupported++
	}
}

// innerReceive dispatches on the packet type and sets the item's routing error.
func (f *Forwarder) innerReceive(item *workItem) (defn.Connection, outcome) {
	var egress defn.Connection
	var result outcome
	switch item.packet.Type {
	case defn.PacketTypeInterest:
		egress, result = f.forwardInterest(item.packet, item.ingress)
	case defn.PacketTypeContentObject:
		egress, result = f.forwardContentObject(item.packet, item.ingress)
	default:
		panic(fmt.Sprintf("unsupported packet type %s", item.packet.Type))
	}

	if egress != nil {
		item.routeError = defn.RoutingErrorNoError
	} else if result == outcomeUnsupported {
		item.routeError = defn.RoutingErrorNotSupported
	} else {
		item.routeError = defn.RoutingErrorNoRoute
	}
	return egress, result
}

func (f *Forwarder) forwardInterest(pkt *defn.Packet, ingress defn.Connection) (defn.Connection, outcome) {
	connId, ok := f.fib.Lookup(pkt.Name).Get()
	if !ok {
		core.Log.Debug(f, "No route in FIB", "name", pkt.Name)
		return nil, outcomeNoRoute
	}

	if connId == ingress.ConnId() {
		core.Log.Debug(f, "Egress is same as ingress, no route", "name", pkt.Name, "connid", connId)
		return nil, outcomeLoop
	}

	conn := f.conns.GetConnection(connId)
	if conn == nil {
		core.Log.Info(f, "Could not resolve connection", "name", pkt.Name, "connid", connId)
		return nil, outcomeStale
	}

	core.Log.Trace(f, "Route found", "name", pkt.Name, "connid", connId)
	return conn, outcomeForwarded
}

// forwardContentObject never routes: content objects need a pending interest table,
// which this forwarder does not have.
func (f *Forwarder) forwardContentObject(pkt *defn.Packet, ingress defn.Connection) (defn.Connection, outcome) {
	core.Log.Debug(f, "Content object forwarding not supported", "name", pkt.Name, "ingress", ingress.ConnId())
	return nil, outcomeUnsupported
}

// AddRoute routes name to conn. See table.Fib.AddRoute.
func (f *Forwarder) AddRoute(conn defn.Connection, name enc.Name) bool {
	return f.fib.AddRoute(conn.ConnId(), name)
}

// RemoveRoute removes the route of name if it points to conn.
func (f *Forwarder) RemoveRoute(conn defn.Connection, name enc.Name) bool {
	return f.fib.RemoveRoute(conn.ConnId(), name)
}

// AddRouteSet adds every route of the set; it reports whether any was added.
func (f *Forwarder) AddRouteSet(routes defn.RouteSet) bool {
	return table.AddRouteSet(f.fib, routes)
}

// RemoveRouteSet removes every route of the set; it reports whether any was removed.
func (f *Forwarder) RemoveRouteSet(routes defn.RouteSet) bool {
	return table.RemoveRouteSet(f.fib, routes)
}

// Lookup returns the connection id routed for exactly name.
func (f *Forwarder) Lookup(name enc.Name) optional.Optional[defn.ConnId] {
	return f.fib.Lookup(name)
}

// PrintForwardingTable is not supported by this forwarder.
func (f *Forwarder) PrintForwardingTable(w io.Writer) error {
	fmt.Fprintln(w, "flat forwarder does not support printing the forwarding table")
	return defn.ErrNotSupported
}

// PrintForwardingStatistics is not supported by this forwarder.
func (f *Forwarder) PrintForwardingStatistics(w io.Writer) error {
	fmt.Fprintln(w, "flat forwarder does not support printing statistics")
	return defn.ErrNotSupported
}

// Close abandons every packet still in the input queue.
func (f *Forwarder) Close() {
	f.inputQueue.Reset()
	f.metrics.queueLength(0)
	core.Log.Debug(f, "Closed forwarder")
}
