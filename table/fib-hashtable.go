/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"sync"

	"github.com/cespare/xxhash"
	"github.com/named-data/flatfw/core"
	"github.com/named-data/flatfw/defn"
	enc "github.com/named-data/ndnd/std/encoding"
	"github.com/named-data/ndnd/std/types/optional"
	"golang.org/x/exp/slices"
)

type fibHashEntry struct {
	name   enc.Name
	connId defn.ConnId
}

// FibHashTable is a FIB stored in buckets keyed by the hash of the encoded name.
type FibHashTable struct {
	// hash of name TLV -> colliding entries
	buckets map[uint64][]*fibHashEntry
	size    int
	hash    func(enc.Name) uint64

	mutex sync.RWMutex
}

// NewFibHashTable creates an empty hash table FIB.
func NewFibHashTable() *FibHashTable {
	return &FibHashTable{
		buckets: make(map[uint64][]*fibHashEntry),
		hash:    hashName,
	}
}

func (f *FibHashTable) String() string {
	return "fib-hashtable"
}

func hashName(name enc.Name) uint64 {
	return xxhash.Sum64(name.Bytes())
}

func (f *FibHashTable) find(hash uint64, name enc.Name) (*fibHashEntry, int) {
	for i, entry := range f.buckets[hash] {
		if entry.name.Equal(name) {
			return entry, i
		}
	}
	return nil, -1
}

// AddRoute inserts name -> id unless name is present or id is the local host.
func (f *FibHashTable) AddRoute(id defn.ConnId, name enc.Name) bool {
	if id == defn.ConnIdLocalHost {
		core.Log.Debug(f, "Refused route to local host", "name", name)
		return false
	}

	hash := f.hash(name)

	f.mutex.Lock()
	defer f.mutex.Unlock()

	if entry, _ := f.find(hash, name); entry != nil {
		core.Log.Warn(f, "Name already exists in FIB", "name", name, "connid", entry.connId, "rejected", id)
		return false
	}
	f.buckets[hash] = append(f.buckets[hash], &fibHashEntry{name: name.Clone(), connId: id})
	f.size++

	core.Log.Info(f, "AddRoute", "connid", id, "name", name)
	return true
}

// RemoveRoute removes the entry for name if it points to id.
func (f *FibHashTable) RemoveRoute(id defn.ConnId, name enc.Name) bool {
	hash := f.hash(name)

	f.mutex.Lock()
	defer f.mutex.Unlock()

	entry, i := f.find(hash, name)
	if entry == nil || entry.connId != id {
		core.Log.Debug(f, "RemoveRoute did not match", "connid", id, "name", name)
		return false
	}
	if bucket := slices.Delete(f.buckets[hash], i, i+1); len(bucket) > 0 {
		f.buckets[hash] = bucket
	} else {
		delete(f.buckets, hash)
	}
	f.size--

	core.Log.Info(f, "RemoveRoute", "connid", id, "name", name)
	return true
}

// Lookup returns the connection stored for exactly name.
func (f *FibHashTable) Lookup(name enc.Name) optional.Optional[defn.ConnId] {
	hash := f.hash(name)

	f.mutex.RLock()
	defer f.mutex.RUnlock()

	if entry, _ := f.find(hash, name); entry != nil {
		return optional.Some(entry.connId)
	}
	return optional.None[defn.ConnId]()
}

// Routes returns all entries sorted by name.
func (f *FibHashTable) Routes() []defn.FibEntry {
	f.mutex.RLock()
	routes := make([]defn.FibEntry, 0, f.size)
	for _, bucket := range f.buckets {
		for _, entry := range bucket {
			routes = append(routes, defn.FibEntry{Name: entry.name, ConnId: entry.connId})
		}
	}
	f.mutex.RUnlock()

	slices.SortFunc(routes, func(a, b defn.FibEntry) int {
		return a.Name.Compare(b.Name)
	})
	return routes
}

// Len returns the number of routes.
func (f *FibHashTable) Len() int {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return f.size
}
