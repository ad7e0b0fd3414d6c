/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"sync"
	"sync/atomic"

	"github.com/named-data/flatfw/core"
	"github.com/named-data/flatfw/defn"
	"golang.org/x/exp/slices"
)

// LocalHostURI is the remote URI of the local-host pseudo-connection.
const LocalHostURI = "internal://"

// Table holds all connections known to the forwarder.
type Table struct {
	conns      sync.Map
	nextConnId atomic.Uint64
}

// NewTable creates a connection table holding only the local-host connection.
func NewTable() *Table {
	t := &Table{}
	t.nextConnId.Store(uint64(defn.ConnIdLocalHost) + 1)
	t.conns.Store(defn.ConnIdLocalHost, defn.Connection(NewConn(defn.ConnIdLocalHost, LocalHostURI)))
	return t
}

func (t *Table) String() string {
	return "conn-table"
}

// NextConnId allocates an unused connection id.
func (t *Table) NextConnId() defn.ConnId {
	for {
		id := defn.ConnId(t.nextConnId.Add(1) - 1)
		if _, ok := t.conns.Load(id); !ok {
			return id
		}
	}
}

// Add adds a connection under its own id, replacing any previous one.
func (t *Table) Add(conn defn.Connection) {
	t.conns.Store(conn.ConnId(), conn)
	core.Log.Debug(t, "Registered connection", "connid", conn.ConnId())
}

// Get gets the connection with the specified id (if any).
func (t *Table) Get(id defn.ConnId) defn.Connection {
	conn, ok := t.conns.Load(id)
	if ok {
		return conn.(defn.Connection)
	}
	return nil
}

// GetConnection implements defn.ConnectionRegistry.
func (t *Table) GetConnection(id defn.ConnId) defn.Connection {
	return t.Get(id)
}

// LocalHost returns the local-host pseudo-connection.
func (t *Table) LocalHost() defn.Connection {
	return t.Get(defn.ConnIdLocalHost)
}

// GetAll returns all connections ordered by id.
func (t *Table) GetAll() []defn.Connection {
	conns := make([]defn.Connection, 0)
	t.conns.Range(func(_, conn any) bool {
		conns = append(conns, conn.(defn.Connection))
		return true
	})
	slices.SortFunc(conns, func(a, b defn.Connection) int {
		switch {
		case a.ConnId() < b.ConnId():
			return -1
		case a.ConnId() > b.ConnId():
			return 1
		}
		return 0
	})
	return conns
}

// Remove tears down a connection. Routes pointing to it become stale.
// The local-host connection cannot be removed.
func (t *Table) Remove(id defn.ConnId) {
	if id == defn.ConnIdLocalHost {
		return
	}
	t.conns.Delete(id)
	core.Log.Info(t, "Unregistered connection", "connid", id)
}
