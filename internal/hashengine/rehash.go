package hashengine

import "github.com/Voskan/hashkernel/internal/objrt"

// growTo replaces the bucket arrays with freshly sized ones of at least
// newCapacity buckets, reinserting every occupied element (spec.md §4.2
// "Rehash"). It halts the process on request to shrink below the current
// count (spec.md §7 "Capacity-shrink-below-count").
func (t *Table) growTo(newCapacity int) {
	if newCapacity < t.count {
		objrt.Halt("capacity-shrink-below-count")
	}
	if newCapacity == 0 {
		newCapacity = capacityAtLeast(t.family, 1)
	}

	oldStates := t.states
	oldKeys := t.keys
	oldValues := t.values
	oldCounts := t.counts

	t.states = make([]bucketState, newCapacity)
	t.values = make([]uintptr, newCapacity)
	if t.flags.HasKeys() {
		t.keys = make([]uintptr, newCapacity)
	}
	if t.flags.HasCounts() {
		t.counts = make([]uintptr, newCapacity)
	}

	for i, st := range oldStates {
		if st != bucketOccupied {
			continue
		}
		var key uintptr
		if t.flags.IndirectKeys() {
			key = t.indirectKeyFast(oldValues[i])
		} else if t.flags.HasKeys() {
			key = oldKeys[i]
		} else {
			key = oldValues[i]
		}
		count := uintptr(1)
		if t.flags.HasCounts() {
			count = oldCounts[i]
		}
		t.reinsert(key, oldValues[i], count)
	}
	// The old arrays become unreachable here and are reclaimed by the Go
	// garbage collector; spec.md §4.2's "old array is freed after the move
	// completes" maps directly onto that (see spec.md §9 "Tracing-allocator
	// coupling" -- no manual free step is needed in this target language).
}

// reinsert places an already-unique (key, value, count) tuple into the
// current (freshly grown) arrays without any equality checking: rehashing
// moves existing, already-deduplicated entries, so the first empty bucket
// along the probe chain is always correct (spec.md §4.2 "Rehash": "Counts
// (bag) and keys (dictionary) move with their slot").
func (t *Table) reinsert(key, value, count uintptr) {
	capacity := len(t.states)
	hash := t.hashKeyFast(key)
	idx := t.startBucket(hash)
	step := t.probeStep(hash)
	for t.states[idx] != bucketEmpty {
		idx = (idx + step) % capacity
	}
	t.states[idx] = bucketOccupied
	if t.flags.HasKeys() {
		t.keys[idx] = key
	}
	t.values[idx] = value
	if t.flags.HasCounts() {
		t.counts[idx] = count
	}
}

// growIfNeeded rehashes to the next schedule capacity when occupancy would
// exceed the load-factor bound after adding one more element (spec.md §4.2
// "Growth is triggered when occupancy exceeds a load-factor bound").
func (t *Table) growIfNeeded() {
	if !exceedsLoadFactor(t.count+1, len(t.states), t.flags.AggressiveGrowth()) {
		return
	}
	next := capacityAtLeast(t.family, len(t.states)+1)
	t.growTo(next)
}
