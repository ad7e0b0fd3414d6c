/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package defn

import "strconv"

// ConnId identifies a connection for the lifetime of its adjacency.
type ConnId uint64

// ConnIdLocalHost is the reserved id of the local-host pseudo-connection.
// It can never be the target of a FIB entry.
const ConnIdLocalHost ConnId = 0

// String returns the id in decimal.
func (id ConnId) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Connection is a network-layer neighbor adjacency or the local host.
type Connection interface {
	String() string
	ConnId() ConnId
}

// ConnectionRegistry resolves connection ids to live connections.
// GetConnection returns nil once the connection has been torn down.
type ConnectionRegistry interface {
	GetConnection(id ConnId) Connection
}
