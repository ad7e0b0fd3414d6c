/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"fmt"

	"github.com/named-data/flatfw/defn"
)

// Conn is a connection known to the forwarder by id and remote URI.
type Conn struct {
	id        defn.ConnId
	remoteURI string
}

// NewConn creates a connection value.
func NewConn(id defn.ConnId, remoteURI string) *Conn {
	return &Conn{id: id, remoteURI: remoteURI}
}

func (c *Conn) String() string {
	return fmt.Sprintf("conn (connid=%d remote=%s)", c.id, c.remoteURI)
}

// ConnId returns the id of the connection.
func (c *Conn) ConnId() defn.ConnId {
	return c.id
}

// RemoteURI returns the remote URI of the connection.
func (c *Conn) RemoteURI() string {
	return c.remoteURI
}
