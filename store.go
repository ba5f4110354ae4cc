// store.go: the Store handle and the ten nodestore operations of spec.md
// §4.D, wired atop the Table of table.go.
//
// Grounded on open62541's ua_nodestore_hashmap.c for the operation bodies
// (UA_NodeMap_insertNode's auto-id loop and pre-grow-then-lookup ordering,
// UA_NodeMap_replaceNode's orig staleness check, UA_NodeMap_iterate's
// refcount-around-visitor discipline) and on agilira-balios's config-driven
// constructor / metrics-at-every-operation shape for NewStore itself.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nodestore

import "sync"

// Store is the nodestore handle: a Table plus the ambient ports every
// operation reports through. All mutating operations serialize on mu, the
// external service lock of spec.md §5; Store itself satisfies ServiceLock
// so a ChangeDetector can release/reacquire it around a local callback.
type Store struct {
	mu sync.Mutex

	table *Table

	logger  Logger
	clock   TimeProvider
	metrics MetricsCollector
}

// NewStore constructs a Store from cfg, normalizing it via Validate first.
func NewStore(cfg Config) *Store {
	_ = cfg.Validate()
	return &Store{
		table:   newTable(cfg.InitialTableSize),
		logger:  cfg.Logger,
		clock:   cfg.TimeProvider,
		metrics: cfg.MetricsCollector,
	}
}

// Lock and Unlock make Store a ServiceLock, so a ChangeDetector can release the
// same lock the store's own operations serialize on around a local
// monitored-item callback (spec.md §4.F, §6).
func (s *Store) Lock()   { s.mu.Lock() }
func (s *Store) Unlock() { s.mu.Unlock() }

// NewNode allocates an unowned, uninserted node of the given class
// (spec.md §4.D). The caller must either InsertNode or DeleteNode it.
func (s *Store) NewNode(class NodeClass) (Node, error) {
	e := newEntry(class)
	if e == nil {
		return nil, NewErrInvalidNodeClass(class)
	}
	return e.node, nil
}

// DeleteNode frees a node obtained from NewNode that was never inserted.
// Precondition: n is not reachable via the table.
func (s *Store) DeleteNode(n Node) {
	if n == nil {
		return
	}
	entryOf(n).free()
}

// InsertNode publishes n into the table under n's NodeId, or — if the id
// is the numeric-zero sentinel — assigns a fresh numeric id first (spec.md
// §4.D). On success it returns the id actually used. On any failure, n is
// freed before returning.
func (s *Store) InsertNode(n Node) (NodeId, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.clock.Now()
	e := entryOf(n)
	if e == nil {
		return NodeId{}, NewErrInternal("insertNode", "node not owned by this store")
	}

	oldSize := s.table.size
	if err := s.table.maybeGrow(); err != nil {
		e.free()
		return NodeId{}, err
	}
	if s.table.size != oldSize {
		s.metrics.RecordResize(oldSize, s.table.size)
	}

	hdr := n.Header()
	var id NodeId
	var err error
	if hdr.NodeId.IsNumericZero() {
		id, err = s.assignNumericId(hdr.NodeId.NamespaceIndex)
	} else {
		id = hdr.NodeId
	}
	if err != nil {
		e.free()
		return NodeId{}, err
	}
	hdr.NodeId = id

	h := id.Hash()
	idx, ok := s.table.findFreeSlot(h, id)
	if !ok {
		e.free()
		return NodeId{}, NewErrNodeIdExists(id)
	}

	e.nodeIdHash = h
	old := s.table.slots[idx].load()
	if !s.table.slots[idx].ptr.CompareAndSwap(old, e) {
		e.free()
		return NodeId{}, NewErrInternal("insertNode", "slot CAS conflict: concurrent modification detected")
	}
	s.table.count++

	s.metrics.RecordInsertNode(s.clock.Now() - start)
	s.logger.Debug("node inserted", "nodeId", id.String())
	return id, nil
}

// assignNumericId implements the open62541 auto-id search: starting at
// 50000+size+1, stepping by 1+((count+1) mod (size-2)), scanning identifier
// space until a free slot is found (spec.md §4.D). Must be called with mu
// held.
func (s *Store) assignNumericId(ns uint16) (NodeId, error) {
	size := s.table.size
	startId := uint32(50000) + size + 1
	step := uint32(1)
	if size > 2 {
		step = 1 + ((s.table.count + 1) % (size - 2))
	}

	candidate := startId
	for i := uint32(0); i < size; i++ {
		id := NewNumericNodeId(ns, candidate)
		if _, ok := s.table.findOccupiedSlot(id.Hash(), id); !ok {
			return id, nil
		}
		candidate += step
	}
	return NodeId{}, NewErrNodeIdExists(NewNumericNodeId(ns, startId))
}

// GetNode finds the occupied slot for id, increments its refcount, and
// returns a borrowed node. The caller must ReleaseNode it (spec.md §4.D).
func (s *Store) GetNode(id NodeId) (Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.clock.Now()
	idx, ok := s.table.findOccupiedSlot(id.Hash(), id)
	if !ok {
		s.metrics.RecordGetNode(s.clock.Now()-start, false)
		return nil, false
	}
	e := s.table.slots[idx].load()
	e.refCount++
	s.metrics.RecordGetNode(s.clock.Now()-start, true)
	return e.node, true
}

// ReleaseNode decrements the refcount of n's owning Entry and reclaims it
// if deleted and now unreferenced. Tolerates a nil input.
func (s *Store) ReleaseNode(n Node) {
	if n == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entryOf(n)
	if e == nil {
		return
	}
	if e.refCount > 0 {
		e.refCount--
	}
	e.cleanup()
}

// GetNodeCopy finds id's entry, deep-copies its node into a freshly
// allocated Entry, records the source Entry in the copy's orig field, and
// returns the writable copy. The copy is not in the table (spec.md §4.D).
func (s *Store) GetNodeCopy(id NodeId) (Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.table.findOccupiedSlot(id.Hash(), id)
	if !ok {
		return nil, NewErrNodeIdUnknown(id)
	}
	src := s.table.slots[idx].load()

	clone := src.node.clone()
	ce := &Entry{
		nodeIdHash: src.nodeIdHash,
		orig:       src,
		node:       clone,
	}
	clone.Header().entry = ce
	return clone, nil
}

// ReplaceNode publishes a copy obtained from GetNodeCopy in place of the
// Entry it was copied from, verifying the copy is still fresh (spec.md
// §4.D, P6). On any failure the copy is freed, unless it is the Entry
// currently stored for its id (a copy already published by an earlier
// ReplaceNode), which is left in place.
func (s *Store) ReplaceNode(n Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ce := entryOf(n)
	if ce == nil || ce.orig == nil {
		return NewErrInternal("replaceNode", "node was not obtained from GetNodeCopy")
	}

	id := n.Header().NodeId
	idx, ok := s.table.findOccupiedSlot(id.Hash(), id)
	if !ok {
		ce.free()
		return NewErrNodeIdUnknown(id)
	}

	cur := s.table.slots[idx].load()
	if cur != ce.orig {
		// A copy already published by an earlier ReplaceNode is the stored
		// Entry itself and must stay intact.
		if cur != ce {
			ce.free()
		}
		return NewErrInternal("replaceNode", "stale copy: slot no longer holds orig")
	}

	ce.nodeIdHash = cur.nodeIdHash
	if !s.table.slots[idx].ptr.CompareAndSwap(cur, ce) {
		ce.free()
		return NewErrInternal("replaceNode", "slot CAS conflict: concurrent modification detected")
	}

	cur.deleted = true
	cur.cleanup()

	s.logger.Debug("node replaced", "nodeId", id.String())
	return nil
}

// RemoveNode tombstones id's slot, marks the Entry deleted, decrements
// count, and runs the shrink check (spec.md §4.D).
func (s *Store) RemoveNode(id NodeId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.clock.Now()
	idx, ok := s.table.findOccupiedSlot(id.Hash(), id)
	if !ok {
		return NewErrNodeIdUnknown(id)
	}
	e := s.table.slots[idx].load()
	if !s.table.slots[idx].ptr.CompareAndSwap(e, tombstone) {
		return NewErrInternal("removeNode", "slot CAS conflict: concurrent modification detected")
	}
	e.deleted = true
	s.table.count--
	e.cleanup()

	oldSize := s.table.size
	s.table.maybeShrink()
	if s.table.size != oldSize {
		s.metrics.RecordResize(oldSize, s.table.size)
	}
	s.metrics.RecordRemoveNode(s.clock.Now() - start)
	s.logger.Debug("node removed", "nodeId", id.String())
	return nil
}

// NodeVisitor is called once per occupied slot during Iterate. It must not
// call back into a mutating Store operation: Iterate holds mu for its
// entire walk, so a reentrant mutating call would deadlock (spec.md §4.D's
// open question, resolved against allowing nested mutation).
type NodeVisitor func(n Node) bool

// Iterate calls visitor once for every occupied slot, holding each Entry's
// refcount up for the duration of its call (spec.md §4.D). Stops early if
// visitor returns false.
func (s *Store) Iterate(visitor NodeVisitor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.table.slots {
		e := s.table.slots[i].load()
		if e == nil || e == tombstone {
			continue
		}
		e.refCount++
		cont := visitor(e.node)
		e.refCount--
		e.cleanup()
		if !cont {
			return
		}
	}
}

// Clear frees every occupied Entry, empties its slot, and sets the count to
// zero. The table size and any tombstones are left as they are. Intended
// for shutdown or test teardown.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.table.slots {
		e := s.table.slots[i].load()
		if e == nil || e == tombstone {
			continue
		}
		e.free()
		if !s.table.slots[i].ptr.CompareAndSwap(e, nil) {
			s.logger.Warn("clear: slot CAS conflict", "index", i)
		}
	}
	s.table.count = 0
}

// Len returns the current occupied-slot count.
func (s *Store) Len() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.count
}
