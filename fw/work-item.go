/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"time"

	"github.com/named-data/flatfw/defn"
)

// workItem is one packet awaiting or undergoing service in the input queue.
type workItem struct {
	packet  *defn.Packet
	ingress defn.Connection
	// set when the caller pinned the egress connection
	egressOverride defn.Connection
	arrival        time.Duration

	// decision, filled in when service completes
	egress     []defn.Connection
	routeError defn.RoutingError
}

type outcome int

const (
	outcomeForwarded outcome = iota
	outcomeOverridden
	outcomeNoRoute
	outcomeLoop
	outcomeStale
	outcomeUnsupported
)

func (o outcome) String() string {
	switch o {
	case outcomeForwarded:
		return "forwarded"
	case outcomeOverridden:
		return "overridden"
	case outcomeNoRoute:
		return "no_route"
	case outcomeLoop:
		return "loop"
	case outcomeStale:
		return "stale"
	case outcomeUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}
