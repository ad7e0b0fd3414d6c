package table

import (
	"testing"

	"github.com/named-data/flatfw/defn"
	enc "github.com/named-data/ndnd/std/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFibHashTableCollisions(t *testing.T) {
	fib := NewFibHashTable()
	fib.hash = func(enc.Name) uint64 { return 7 }

	names := make([]enc.Name, 3)
	for i, s := range []string{"/a", "/b", "/c"} {
		n, err := enc.NameFromStr(s)
		require.NoError(t, err)
		names[i] = n
		require.True(t, fib.AddRoute(defn.ConnId(i+1), n))
	}
	require.Len(t, fib.buckets, 1)
	require.Len(t, fib.buckets[7], 3)
	assert.False(t, fib.AddRoute(9, names[1]))

	for i, n := range names {
		id, ok := fib.Lookup(n).Get()
		require.True(t, ok)
		assert.Equal(t, defn.ConnId(i+1), id)
	}

	// removing from the middle of a chain keeps its neighbours
	assert.False(t, fib.RemoveRoute(3, names[1]))
	assert.True(t, fib.RemoveRoute(2, names[1]))
	assert.Len(t, fib.buckets[7], 2)
	assert.False(t, fib.Lookup(names[1]).IsSet())
	assert.Equal(t, defn.ConnId(1), fib.Lookup(names[0]).Unwrap())
	assert.Equal(t, defn.ConnId(3), fib.Lookup(names[2]).Unwrap())
	assert.Equal(t, []defn.FibEntry{
		{Name: names[0], ConnId: 1},
		{Name: names[2], ConnId: 3},
	}, fib.Routes())

	assert.True(t, fib.RemoveRoute(1, names[0]))
	assert.True(t, fib.RemoveRoute(3, names[2]))
	assert.Empty(t, fib.buckets)
	assert.Equal(t, 0, fib.Len())
}
