package defn

import enc "github.com/named-data/ndnd/std/encoding"

// Route is a single (connection, prefix) pair of a route set.
type Route struct {
	Connection Connection
	Prefix     enc.Name
}

// RouteSet is a batch of routes applied by the bulk route calls.
type RouteSet []Route

// FibEntry is a snapshot of one FIB entry.
type FibEntry struct {
	Name   enc.Name
	ConnId ConnId
}
