/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"fmt"

	"github.com/named-data/flatfw/defn"
	enc "github.com/named-data/ndnd/std/encoding"
	"github.com/named-data/ndnd/std/types/optional"
)

// Fib is an exact-match forwarding table holding one outbound connection per name.
// Implementations are safe for concurrent use.
type Fib interface {
	// AddRoute inserts name -> id. It returns false, leaving the table unchanged,
	// if name already has an entry or id is the local-host id.
	AddRoute(id defn.ConnId, name enc.Name) bool
	// RemoveRoute removes the entry for name if its connection equals id.
	RemoveRoute(id defn.ConnId, name enc.Name) bool
	// Lookup returns the connection stored for exactly name.
	Lookup(name enc.Name) optional.Optional[defn.ConnId]
	// Routes returns a snapshot of all entries sorted by name.
	Routes() []defn.FibEntry
	// Len returns the number of entries.
	Len() int
}

// NewFib creates an empty FIB using the named algorithm.
func NewFib(algorithm string) (Fib, error) {
	switch algorithm {
	case "nametree":
		return NewFibNameTree(), nil
	case "hashtable":
		return NewFibHashTable(), nil
	default:
		return nil, fmt.Errorf("unknown FIB table algorithm %q", algorithm)
	}
}

// AddRouteSet adds every route of the set and reports whether at least one was inserted.
// Routes that are rejected do not prevent the others from being applied.
func AddRouteSet(fib Fib, routes defn.RouteSet) bool {
	added := false
	for _, r := range routes {
		added = fib.AddRoute(r.Connection.ConnId(), r.Prefix) || added
	}
	return added
}

// RemoveRouteSet removes every route of the set and reports whether at least one was removed.
func RemoveRouteSet(fib Fib, routes defn.RouteSet) bool {
	removed := false
	for _, r := range routes {
		removed = fib.RemoveRoute(r.Connection.ConnId(), r.Prefix) || removed
	}
	return removed
}
