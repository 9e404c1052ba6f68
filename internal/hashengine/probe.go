package hashengine

import "github.com/Voskan/hashkernel/internal/callback"

// probeStep returns the stride added to the bucket index on each iteration
// of the probe chain, per the ProbeFamily chosen at creation (spec.md §4.2).
func (t *Table) probeStep(hash uintptr) int {
	capacity := len(t.states)
	switch t.family {
	case DoubleHashing:
		step := int(1 + (hash>>3)%uintptr(capacity-1))
		if step <= 0 {
			step = 1
		}
		return step
	default: // LinearHashing, ExponentialHashing both use a linear stride of 1
		return 1
	}
}

func (t *Table) startBucket(hash uintptr) int {
	return int(hash % uintptr(len(t.states)))
}

// keyAt returns the logical key stored at bucket idx, accounting for
// indirect-keys dictionaries (where the key is derived from the value) and
// set/bag shapes (where the value array doubles as the key array).
func (t *Table) keyAt(idx int) callback.Slot {
	if t.flags.IndirectKeys() {
		return t.indirectKeyFast(t.values[idx])
	}
	if t.flags.HasKeys() {
		return t.keys[idx]
	}
	return t.values[idx]
}

// probeResult is the outcome of walking a probe chain for a target key.
type probeResult struct {
	idx          int  // index of the matching bucket, or the best insertion point
	found        bool // true if an occupied bucket with an equal key was found
	insertAt     int  // first deleted-or-empty bucket seen (valid when !found)
	insertAtKind bucketState
}

// probe walks the deterministic probe chain for targetKey (spec.md §4.2):
// "A lookup ends on the first empty bucket; deleted buckets are skipped. An
// insert takes the first deleted or empty bucket along the probe chain,
// preferring deleted if seen before the matching key is confirmed absent."
func (t *Table) probe(targetKey callback.Slot) probeResult {
	capacity := len(t.states)
	if capacity == 0 {
		return probeResult{insertAt: -1}
	}
	hash := t.hashKeyFast(targetKey)
	idx := t.startBucket(hash)
	step := t.probeStep(hash)

	firstFree := -1
	firstFreeKind := bucketEmpty

	for i := 0; i < capacity; i++ {
		switch t.states[idx] {
		case bucketEmpty:
			if firstFree < 0 {
				firstFree = idx
				firstFreeKind = bucketEmpty
			}
			return probeResult{idx: idx, found: false, insertAt: firstFree, insertAtKind: firstFreeKind}
		case bucketDeleted:
			if firstFree < 0 {
				firstFree = idx
				firstFreeKind = bucketDeleted
			}
		case bucketOccupied:
			if t.equateKeysFast(t.keyAt(idx), targetKey) {
				return probeResult{idx: idx, found: true}
			}
		}
		idx = (idx + step) % capacity
	}
	// Table is completely full of occupied/deleted buckets with no match:
	// should not happen given the load-factor bound, but report the best
	// insertion point found rather than looping forever.
	return probeResult{insertAt: firstFree, insertAtKind: firstFreeKind}
}
