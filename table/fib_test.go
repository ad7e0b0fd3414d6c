package table_test

import (
	"fmt"
	"testing"

	"github.com/named-data/flatfw/defn"
	"github.com/named-data/flatfw/face"
	"github.com/named-data/flatfw/table"
	enc "github.com/named-data/ndnd/std/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func name(s string) enc.Name {
	n, err := enc.NameFromStr(s)
	if err != nil {
		panic(err)
	}
	return n
}

// forEachFib runs f against every FIB algorithm.
func forEachFib(t *testing.T, f func(t *testing.T, fib table.Fib)) {
	for _, algo := range []string{"nametree", "hashtable"} {
		t.Run(algo, func(t *testing.T) {
			fib, err := table.NewFib(algo)
			require.NoError(t, err)
			f(t, fib)
		})
	}
}

func TestNewFibUnknown(t *testing.T) {
	_, err := table.NewFib("trie")
	assert.Error(t, err)
}

func TestLookupAbsent(t *testing.T) {
	forEachFib(t, func(t *testing.T, fib table.Fib) {
		assert.False(t, fib.Lookup(name("/a")).IsSet())
		assert.False(t, fib.Lookup(name("/")).IsSet())
		assert.Equal(t, 0, fib.Len())
	})
}

func TestAddRouteAndLookup(t *testing.T) {
	forEachFib(t, func(t *testing.T, fib table.Fib) {
		assert.True(t, fib.AddRoute(2, name("/a/b")))
		id, ok := fib.Lookup(name("/a/b")).Get()
		assert.True(t, ok)
		assert.Equal(t, defn.ConnId(2), id)

		// exact match only
		assert.False(t, fib.Lookup(name("/a")).IsSet())
		assert.False(t, fib.Lookup(name("/a/b/c")).IsSet())

		// a duplicate name is rejected and the table is unchanged
		assert.False(t, fib.AddRoute(3, name("/a/b")))
		assert.False(t, fib.AddRoute(2, name("/a/b")))
		assert.Equal(t, defn.ConnId(2), fib.Lookup(name("/a/b")).Unwrap())
		assert.Equal(t, 1, fib.Len())

		// a shorter name is a distinct entry
		assert.True(t, fib.AddRoute(3, name("/a")))
		assert.Equal(t, defn.ConnId(3), fib.Lookup(name("/a")).Unwrap())
		assert.Equal(t, defn.ConnId(2), fib.Lookup(name("/a/b")).Unwrap())
		assert.Equal(t, 2, fib.Len())
	})
}

func TestAddRouteLocalHost(t *testing.T) {
	forEachFib(t, func(t *testing.T, fib table.Fib) {
		assert.False(t, fib.AddRoute(defn.ConnIdLocalHost, name("/x")))
		assert.False(t, fib.Lookup(name("/x")).IsSet())
		assert.Equal(t, 0, fib.Len())
	})
}

func TestRemoveRoute(t *testing.T) {
	forEachFib(t, func(t *testing.T, fib table.Fib) {
		require.True(t, fib.AddRoute(5, name("/x")))

		// mismatched connection leaves the entry intact
		assert.False(t, fib.RemoveRoute(7, name("/x")))
		assert.Equal(t, defn.ConnId(5), fib.Lookup(name("/x")).Unwrap())

		// absent name
		assert.False(t, fib.RemoveRoute(5, name("/y")))

		assert.True(t, fib.RemoveRoute(5, name("/x")))
		assert.False(t, fib.Lookup(name("/x")).IsSet())
		assert.False(t, fib.RemoveRoute(5, name("/x")))
		assert.Equal(t, 0, fib.Len())

		// the name can be installed again by another connection
		assert.True(t, fib.AddRoute(7, name("/x")))
		assert.Equal(t, defn.ConnId(7), fib.Lookup(name("/x")).Unwrap())
	})
}

func TestRemoveInteriorKeepsDescendants(t *testing.T) {
	forEachFib(t, func(t *testing.T, fib table.Fib) {
		require.True(t, fib.AddRoute(1, name("/a")))
		require.True(t, fib.AddRoute(2, name("/a/b/c")))

		assert.True(t, fib.RemoveRoute(1, name("/a")))
		assert.False(t, fib.Lookup(name("/a")).IsSet())
		assert.Equal(t, defn.ConnId(2), fib.Lookup(name("/a/b/c")).Unwrap())

		assert.True(t, fib.RemoveRoute(2, name("/a/b/c")))
		assert.Empty(t, fib.Routes())
	})
}

func TestRoutesSorted(t *testing.T) {
	forEachFib(t, func(t *testing.T, fib table.Fib) {
		for i, s := range []string{"/c", "/a/b", "/b", "/a", "/a/a"} {
			require.True(t, fib.AddRoute(defn.ConnId(i+1), name(s)))
		}

		routes := fib.Routes()
		require.Len(t, routes, 5)
		for i := 1; i < len(routes); i++ {
			assert.Negative(t, routes[i-1].Name.Compare(routes[i].Name))
		}
		assert.True(t, routes[0].Name.Equal(name("/a")))
		assert.Equal(t, defn.ConnId(4), routes[0].ConnId)
	})
}

func TestRouteSet(t *testing.T) {
	forEachFib(t, func(t *testing.T, fib table.Fib) {
		c2 := face.NewConn(2, "test://2")
		local := face.NewConn(defn.ConnIdLocalHost, "internal://")

		set := defn.RouteSet{
			{Connection: c2, Prefix: name("/a")},
			{Connection: local, Prefix: name("/b")},
			{Connection: c2, Prefix: name("/c")},
		}
		require.True(t, fib.AddRoute(9, name("/c")))

		// partial application: only /a is inserted
		assert.True(t, table.AddRouteSet(fib, set))
		assert.Equal(t, defn.ConnId(2), fib.Lookup(name("/a")).Unwrap())
		assert.False(t, fib.Lookup(name("/b")).IsSet())
		assert.Equal(t, defn.ConnId(9), fib.Lookup(name("/c")).Unwrap())

		// nothing new to add
		assert.False(t, table.AddRouteSet(fib, set))

		assert.True(t, table.RemoveRouteSet(fib, set))
		assert.False(t, fib.Lookup(name("/a")).IsSet())
		assert.Equal(t, defn.ConnId(9), fib.Lookup(name("/c")).Unwrap())
		assert.False(t, table.RemoveRouteSet(fib, set))
	})
}

func TestManyRoutes(t *testing.T) {
	forEachFib(t, func(t *testing.T, fib table.Fib) {
		const n = 500
		for i := 0; i < n; i++ {
			require.True(t, fib.AddRoute(defn.ConnId(i%7+1), name(fmt.Sprintf("/acm/icn/%04d", i))))
		}
		assert.Equal(t, n, fib.Len())

		for i := 0; i < n; i++ {
			id, ok := fib.Lookup(name(fmt.Sprintf("/acm/icn/%04d", i))).Get()
			require.True(t, ok)
			assert.Equal(t, defn.ConnId(i%7+1), id)
		}
		for i := 0; i < n; i += 2 {
			require.True(t, fib.RemoveRoute(defn.ConnId(i%7+1), name(fmt.Sprintf("/acm/icn/%04d", i))))
		}
		assert.Equal(t, n/2, fib.Len())
		assert.False(t, fib.Lookup(name("/acm/icn/0000")).IsSet())
		assert.True(t, fib.Lookup(name("/acm/icn/0001")).IsSet())
	})
}
