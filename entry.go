// entry.go: the Entry wrapper around a stored Node (spec.md §3, I5, I6).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nodestore

// Entry is the table-internal record wrapping a Node. The node is embedded
// by reference (via the Node interface) rather than inline, since Go has no
// flexible-array-member idiom; see DESIGN.md for why a back-pointer on
// NodeHeader replaces open62541's container_of trick.
//
// refCount and deleted are mutated only by callers holding the external
// service lock (spec.md §5) — get/release/remove/replace/iterate. A
// signal-context reader never touches them; it only dereferences the
// node fields, which are written once before the entry is published into a
// slot and never mutated afterwards (copy-on-write replace swaps in a new
// Entry instead).
type Entry struct {
	nodeIdHash uint32
	orig       *Entry // the entry this was copied from, compared but never dereferenced
	refCount   int32
	deleted    bool
	node       Node
}

// newEntry allocates an Entry sized to the node class (spec.md §4.B). The
// returned Entry is unpublished: no slot references it yet.
func newEntry(class NodeClass) *Entry {
	n := newNodeForClass(class)
	if n == nil {
		return nil
	}
	e := &Entry{node: n}
	n.Header().entry = e
	return e
}

// free detaches the Entry from its node by clearing the node's back-pointer.
// The node reference itself is kept, so a signal-context reader that loaded
// this Entry before its slot was tombstoned or swapped still sees a non-nil,
// fully initialized node. Safe on entries not yet published into any slot.
func (e *Entry) free() {
	if e == nil {
		return
	}
	if e.node != nil {
		e.node.Header().entry = nil
	}
}

// cleanup frees the entry if it is both deleted and unreferenced (spec.md
// I5). Must be called with the service lock held.
func (e *Entry) cleanup() {
	if e.deleted && e.refCount == 0 {
		e.free()
	}
}

// entryOf recovers the Entry owning a borrowed Node. Equivalent to the
// original's container_of(ptr, UA_NodeMapEntry, node), expressed as a field
// lookup instead of pointer arithmetic.
func entryOf(n Node) *Entry {
	if n == nil {
		return nil
	}
	return n.Header().entry
}
