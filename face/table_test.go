package face_test

import (
	"testing"

	"github.com/named-data/flatfw/defn"
	"github.com/named-data/flatfw/face"
	"github.com/stretchr/testify/assert"
)

func TestTable(t *testing.T) {
	table := face.NewTable()

	local := table.LocalHost()
	assert.NotNil(t, local)
	assert.Equal(t, defn.ConnIdLocalHost, local.ConnId())

	id := table.NextConnId()
	assert.NotEqual(t, defn.ConnIdLocalHost, id)
	table.Add(face.NewConn(id, "udp4://192.0.2.1:6363"))
	table.Add(face.NewConn(5, "udp4://192.0.2.5:6363"))

	conn := table.GetConnection(5)
	assert.NotNil(t, conn)
	assert.Equal(t, "udp4://192.0.2.5:6363", conn.(*face.Conn).RemoteURI())
	assert.Nil(t, table.GetConnection(42))

	all := table.GetAll()
	assert.Len(t, all, 3)
	assert.Equal(t, defn.ConnIdLocalHost, all[0].ConnId())
	assert.Equal(t, defn.ConnId(5), all[2].ConnId())

	table.Remove(5)
	assert.Nil(t, table.GetConnection(5))

	table.Remove(defn.ConnIdLocalHost)
	assert.NotNil(t, table.LocalHost())
}

func TestNextConnIdSkipsUsed(t *testing.T) {
	table := face.NewTable()
	table.Add(face.NewConn(1, "test://1"))
	table.Add(face.NewConn(2, "test://2"))

	assert.Equal(t, defn.ConnId(3), table.NextConnId())
	assert.Equal(t, defn.ConnId(4), table.NextConnId())
}
