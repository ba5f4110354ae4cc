// table.go: the open-addressed, double-hashed hash table core with
// atomic slot publication (spec.md §4.C).
//
// Grounded almost verbatim on open62541's ua_nodestore_hashmap.c — the
// prime ladder, double-hashing step, findFreeSlot/findOccupiedSlot probe,
// and resize thresholds are the same algorithm, carried into Go idiom: a
// per-slot atomic.Pointer[Entry] CAS stands in for UA_atomic_cmpxchg, and
// the "publish only after the Entry is fully initialized" discipline
// mirrors agilira-balios's SeqLock entries (populateEntry writes every
// field before the final atomic.StoreInt32 that marks the slot valid).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nodestore

import "sync/atomic"

// primes is the size ladder every Table size is drawn from (spec.md §4.C).
// Each is roughly double the previous, so the (size-2) step stays coprime
// with the table size and a full probe cycle visits every slot exactly
// once (I4).
var primes = [...]uint32{
	7, 13, 31, 61, 127, 251,
	509, 1021, 2039, 4093, 8191, 16381,
	32749, 65521, 131071, 262139, 524287, 1048573,
	2097143, 4194301, 8388593, 16777213, 33554393, 67108859,
	134217689, 268435399, 536870909, 1073741789, 2147483647, 4294967291,
}

// minTableSize is the smallest table size a fresh Store starts with,
// mirroring UA_NODEMAP_MINSIZE.
const minTableSize = 64

// higherPrimeIndex returns the index of the smallest prime >= n.
func higherPrimeIndex(n uint32) int {
	lo, hi := 0, len(primes)
	for lo != hi {
		mid := lo + (hi-lo)/2
		if n > primes[mid] {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func mod(h, size uint32) uint32  { return h % size }
func mod2(h, size uint32) uint32 { return 1 + (h % (size - 2)) }

// slot is one atomic table cell. nil means Empty; the process-wide
// tombstone sentinel means Tombstone; any other value is Occupied.
type slot struct {
	ptr atomic.Pointer[Entry]
}

// tombstone is a sentinel *Entry distinct from any real Entry allocation.
// It is never dereferenced — only compared — matching open62541's
// UA_NODEMAP_TOMBSTONE pointer trick without relying on a magic address.
var tombstone = &Entry{}

func (s *slot) load() *Entry { return s.ptr.Load() }

func (s *slot) isEmpty() bool {
	e := s.load()
	return e == nil
}

func (s *slot) isTombstone() bool {
	return s.load() == tombstone
}

func (s *slot) isOccupied() bool {
	e := s.load()
	return e != nil && e != tombstone
}

// Table is the open-addressed hash table mapping NodeId to *Entry
// (spec.md §3). Table fields (slots, size, count) are mutated only by a
// single writer holding the external service lock; individual slots are
// published via atomic CAS so a signal-context reader can snapshot them
// without a lock, per spec.md §5.
type Table struct {
	slots     []slot
	size      uint32
	count     uint32
	sizeIndex int
}

// newTable allocates a fresh table sized to at least minSize.
func newTable(minSize uint32) *Table {
	if minSize == 0 {
		minSize = minTableSize
	}
	idx := higherPrimeIndex(minSize)
	size := primes[idx]
	return &Table{
		slots:     make([]slot, size),
		size:      size,
		sizeIndex: idx,
	}
}

// findFreeSlot walks the probe sequence for id (hash h). It returns the
// index of a slot that may receive an insert, or ok=false if an occupied
// slot with a matching id already exists (duplicate) — spec.md §4.C.
func (t *Table) findFreeSlot(h uint32, id NodeId) (idx int, ok bool) {
	size := t.size
	start := mod(h, size)
	step := mod2(h, size)

	candidate := -1
	i := start
	for {
		e := t.slots[i].load()
		switch e {
		case nil:
			if candidate >= 0 {
				return candidate, true
			}
			return int(i), true
		case tombstone:
			if candidate < 0 {
				candidate = int(i)
			}
		default:
			if e.nodeIdHash == h && e.node.Header().NodeId.Equal(id) {
				return -1, false
			}
		}
		i = (i + step) % size
		if i == start {
			break
		}
	}
	if candidate >= 0 {
		return candidate, true
	}
	return -1, false
}

// findOccupiedSlot walks the probe sequence for id and returns the index
// of the matching occupied slot, or ok=false if no such slot is found.
func (t *Table) findOccupiedSlot(h uint32, id NodeId) (idx int, ok bool) {
	size := t.size
	start := mod(h, size)
	step := mod2(h, size)

	i := start
	for {
		e := t.slots[i].load()
		if e != nil && e != tombstone {
			if e.nodeIdHash == h && e.node.Header().NodeId.Equal(id) {
				return int(i), true
			}
		} else if e == nil {
			return -1, false
		}
		i = (i + step) % size
		if i == start {
			break
		}
	}
	return -1, false
}

// needsGrow reports whether inserting one more entry would push the table
// past the 75%-load threshold, i.e. it looks at the prospective count, not
// the current one — I1 requires the resize to have already run by the time
// an insert would cross 4·count ≥ 3·size, so the check must fire on the
// insert that would cross it, not the one after (spec.md §4.C).
func (t *Table) needsGrow() bool {
	return 4*(t.count+1) >= 3*t.size
}

// needsShrink reports whether the table is sparse enough (and big enough)
// to warrant shrinking.
func (t *Table) needsShrink() bool {
	return 8*t.count < t.size && t.size > 32
}

// rehash reallocates the slot array to the smallest prime >= target,
// re-inserting only occupied slots (Entry pointers are moved, never
// copied — I6). Returns an error if the ladder is exhausted.
func (t *Table) rehash(target uint32) error {
	idx := higherPrimeIndex(target)
	if idx >= len(primes) {
		return errResize("node identifier space exhausted: no larger table size available")
	}
	newSize := primes[idx]
	newSlots := make([]slot, newSize)

	for i := range t.slots {
		e := t.slots[i].load()
		if e == nil || e == tombstone {
			continue
		}
		pos, ok := findFreeSlotIn(newSlots, newSize, e.nodeIdHash, e.node.Header().NodeId)
		if !ok {
			// Cannot happen: the new table is sized to hold count entries
			// at <=50% load, so a free slot always exists.
			return errResize("internal error: no free slot during rehash")
		}
		// newSlots is not yet reachable from any reader — it is swapped into
		// t.slots only once this loop finishes — so a plain release Store is
		// sufficient here; CAS is for slots a signal-context reader can
		// already see.
		newSlots[pos].ptr.Store(e)
	}

	t.slots = newSlots
	t.size = newSize
	t.sizeIndex = idx
	return nil
}

// findFreeSlotIn is findFreeSlot against an external slot array, used by
// rehash before the Table's own slots field has been swapped in.
func findFreeSlotIn(slots []slot, size uint32, h uint32, id NodeId) (int, bool) {
	start := mod(h, size)
	step := mod2(h, size)
	i := start
	for {
		e := slots[i].load()
		if e == nil {
			return int(i), true
		}
		i = (i + step) % size
		if i == start {
			break
		}
	}
	return -1, false
}

// maybeGrow runs the grow check and rehash before an insert's slot lookup,
// per spec.md §4.D ("If a rehash is triggered (I1), it runs before the
// slot lookup").
func (t *Table) maybeGrow() error {
	if !t.needsGrow() {
		return nil
	}
	return t.rehash(2 * t.count)
}

// maybeShrink runs the shrink check after a remove. A failed shrink is
// non-fatal — the table continues at its current size (spec.md §4.C).
func (t *Table) maybeShrink() {
	if !t.needsShrink() {
		return
	}
	_ = t.rehash(2 * t.count)
}
