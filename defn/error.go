/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package defn

import "errors"

// RoutingError is the routing error code delivered with every decision.
type RoutingError int

const (
	RoutingErrorNoError RoutingError = iota
	// RoutingErrorNoRoute covers FIB misses, loop avoidance and stale connections.
	RoutingErrorNoRoute
	// RoutingErrorNotSupported is returned for packet kinds this forwarder cannot route yet.
	RoutingErrorNotSupported
)

func (e RoutingError) String() string {
	switch e {
	case RoutingErrorNoError:
		return "NoError"
	case RoutingErrorNoRoute:
		return "NoRoute"
	case RoutingErrorNotSupported:
		return "NotSupported"
	default:
		return "Unknown"
	}
}

var (
	ErrNotSupported      = errors.New("not supported")
	ErrUnknownPacketType = errors.New("unknown packet type")
)
