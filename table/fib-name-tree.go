/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"sync"

	"github.com/named-data/flatfw/core"
	"github.com/named-data/flatfw/defn"
	enc "github.com/named-data/ndnd/std/encoding"
	"github.com/named-data/ndnd/std/types/optional"
	"golang.org/x/exp/slices"
)

type fibNameTreeEntry struct {
	component enc.Component
	name      enc.Name
	depth     int
	parent    *fibNameTreeEntry
	// children sorted by component order
	children []*fibNameTreeEntry

	hasRoute bool
	connId   defn.ConnId
}

// FibNameTree is a FIB stored as a tree of name components.
// Siblings are kept in component order, so every step of a walk is a binary search.
type FibNameTree struct {
	root *fibNameTreeEntry
	size int

	// mutex used to serialize route mutations against lookups
	mutex sync.RWMutex
}

// NewFibNameTree creates an empty name tree FIB.
func NewFibNameTree() *FibNameTree {
	return &FibNameTree{
		root: &fibNameTreeEntry{name: enc.Name{}},
	}
}

func (f *FibNameTree) String() string {
	return "fib-nametree"
}

func compareEntryComponent(e *fibNameTreeEntry, c enc.Component) int {
	return e.component.Compare(c)
}

// findChild returns the child holding component c and its position,
// or nil and the insertion position.
func (e *fibNameTreeEntry) findChild(c enc.Component) (*fibNameTreeEntry, int) {
	i, found := slices.BinarySearchFunc(e.children, c, compareEntryComponent)
	if found {
		return e.children[i], i
	}
	return nil, i
}

// findExactMatchEntry returns the node for exactly name, or nil.
func (f *FibNameTree) findExactMatchEntry(name enc.Name) *fibNameTreeEntry {
	entry := f.root
	for _, c := range name {
		entry, _ = entry.findChild(c)
		if entry == nil {
			return nil
		}
	}
	return entry
}

// fillTreeToPrefix adds nodes to the tree for any missing components of name.
func (f *FibNameTree) fillTreeToPrefix(name enc.Name) *fibNameTreeEntry {
	entry := f.root
	for depth, c := range name {
		child, i := entry.findChild(c)
		if child == nil {
			component := c.Clone()
			child = &fibNameTreeEntry{
				component: component,
				name:      entry.name.Append(component),
				depth:     depth + 1,
				parent:    entry,
			}
			entry.children = slices.Insert(entry.children, i, child)
		}
		entry = child
	}
	return entry
}

// pruneIfEmpty removes nodes that no longer carry a route or children.
func (e *fibNameTreeEntry) pruneIfEmpty() {
	for entry := e; entry.parent != nil && len(entry.children) == 0 && !entry.hasRoute; entry = entry.parent {
		if child, i := entry.parent.findChild(entry.component); child == entry {
			entry.parent.children = slices.Delete(entry.parent.children, i, i+1)
		}
	}
}

// AddRoute inserts name -> id unless name is present or id is the local host.
func (f *FibNameTree) AddRoute(id defn.ConnId, name enc.Name) bool {
	if id == defn.ConnIdLocalHost {
		core.Log.Debug(f, "Refused route to local host", "name", name)
		return false
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	entry := f.fillTreeToPrefix(name)
	if entry.hasRoute {
		core.Log.Warn(f, "Name already exists in FIB", "name", name, "connid", entry.connId, "rejected", id)
		return false
	}
	entry.hasRoute = true
	entry.connId = id
	f.size++

	core.Log.Info(f, "AddRoute", "connid", id, "name", name)
	return true
}

// RemoveRoute removes the entry for name if it points to id.
func (f *FibNameTree) RemoveRoute(id defn.ConnId, name enc.Name) bool {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	entry := f.findExactMatchEntry(name)
	if entry == nil || !entry.hasRoute || entry.connId != id {
		core.Log.Debug(f, "RemoveRoute did not match", "connid", id, "name", name)
		return false
	}
	entry.hasRoute = false
	entry.connId = 0
	f.size--
	entry.pruneIfEmpty()

	core.Log.Info(f, "RemoveRoute", "connid", id, "name", name)
	return true
}

// Lookup returns the connection stored for exactly name.
func (f *FibNameTree) Lookup(name enc.Name) optional.Optional[defn.ConnId] {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	if entry := f.findExactMatchEntry(name); entry != nil && entry.hasRoute {
		return optional.Some(entry.connId)
	}
	return optional.None[defn.ConnId]()
}

// Routes returns all entries in name order.
func (f *FibNameTree) Routes() []defn.FibEntry {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	routes := make([]defn.FibEntry, 0, f.size)
	// pre-order walk over sorted children yields the name order
	var walk func(entry *fibNameTreeEntry)
	walk = func(entry *fibNameTreeEntry) {
		if entry.hasRoute {
			routes = append(routes, defn.FibEntry{Name: entry.name, ConnId: entry.connId})
		}
		for _, child := range entry.children {
			walk(child)
		}
	}
	walk(f.root)
	return routes
}

// Len returns the number of routes.
func (f *FibNameTree) Len() int {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return f.size
}
