package hashengine

import "github.com/Voskan/hashkernel/internal/callback"

// Bucket is the probe result spec.md §4.2's Find operation returns: a bucket
// index plus the key/value/count observed there.
type Bucket struct {
	Index int
	Key    callback.Slot
	Value  callback.Slot
	Count  uintptr
	Found  bool
}

func (t *Table) bucketAt(idx int, found bool) Bucket {
	if !found {
		return Bucket{Index: -1}
	}
	b := Bucket{Index: idx, Found: true, Value: t.values[idx], Count: 1}
	if t.flags.HasKeys() {
		b.Key = t.keys[idx]
	} else {
		b.Key = t.values[idx]
	}
	if t.flags.HasCounts() {
		b.Count = t.counts[idx]
	}
	return b
}

// Find returns the probe result for key (spec.md §4.2 "Find").
func (t *Table) Find(key callback.Slot) Bucket {
	res := t.probe(key)
	return t.bucketAt(res.idx, res.found)
}

// CountOfKey returns 0 if key is absent, else the bucket's count (spec.md
// §4.2 "Count-of-key").
func (t *Table) CountOfKey(key callback.Slot) uintptr {
	res := t.probe(key)
	if !res.found {
		return 0
	}
	if t.flags.HasCounts() {
		return t.counts[res.idx]
	}
	return 1
}

// CountOfValue linearly scans every occupied bucket and sums the
// multiplicity of every one whose value equates to the argument: for a
// bag that is the bucket's count, for dictionary/set each matching bucket
// contributes 1 (spec.md §4.2 "Count-of-value").
func (t *Table) CountOfValue(value callback.Slot) int {
	n := 0
	for i, st := range t.states {
		if st != bucketOccupied || !t.equateValuesFast(t.values[i], value) {
			continue
		}
		if t.flags.HasCounts() {
			n += int(t.counts[i])
		} else {
			n++
		}
	}
	return n
}

// Add inserts key/value if key is absent; if present in a dictionary or set
// it is a no-op, and in a bag its count is incremented. Returns whether a
// new key was introduced (spec.md §4.2 "Add").
func (t *Table) Add(key, value callback.Slot) bool {
	if !t.ensureMutable("Add") {
		return false
	}
	res := t.probe(key)
	if res.found {
		if t.flags.HasCounts() {
			t.counts[res.idx]++
			t.count++
		}
		return false
	}

	t.growIfNeeded()
	res = t.probe(key) // arrays may have moved during growth
	t.insertNew(res.insertAt, key, value)
	return true
}

// insertNew writes a brand-new element at idx, retaining key/value through
// the callback table first (spec.md §4.2 "Eviction semantics" governs the
// overwrite case; a fresh insert has nothing to release).
func (t *Table) insertNew(idx int, key, value callback.Slot) {
	rk, rv := t.retainPair(key, value, t.flags.HasKeys())
	t.states[idx] = bucketOccupied
	if t.flags.HasKeys() {
		t.keys[idx] = rk
	}
	t.values[idx] = rv
	if t.flags.HasCounts() {
		t.counts[idx] = 1
	}
	t.count++
}

// Set inserts key/value if absent; if present, replaces the value
// (dictionary) or replaces the key object (set, bag), releasing the
// outgoing element first (spec.md §4.2 "Set").
func (t *Table) Set(key, value callback.Slot) {
	if !t.ensureMutable("Set") {
		return
	}
	res := t.probe(key)
	if res.found {
		t.replaceAt(res.idx, key, value)
		return
	}
	t.growIfNeeded()
	res = t.probe(key)
	t.insertNew(res.insertAt, key, value)
}

// replaceAt implements the "present" branch shared by Set and Replace:
// release the outgoing element, then write the new one (spec.md §4.2
// "Eviction semantics": "the engine first releases the outgoing element via
// the callback table, then writes the new element").
func (t *Table) replaceAt(idx int, key, value callback.Slot) {
	if t.flags.HasKeys() {
		// Dictionary: only the value is being replaced; the key object
		// itself is untouched.
		t.releasePair(0, t.values[idx], false)
		_, rv := t.retainPair(0, value, false)
		t.values[idx] = rv
		return
	}
	// Set/bag: the key object itself is replaced (spec.md §9 Open Question 1
	// notes the source admits either reading here; hashkernel always
	// releases-then-retains, even when the incoming key equates to the
	// existing one, matching the simpler and more common CFSetReplaceValue
	// behavior).
	t.releasePair(0, t.values[idx], false)
	_, rv := t.retainPair(0, key, false)
	t.values[idx] = rv
}

// Replace replaces key's value/key object only if key is already present;
// otherwise it is a no-op (spec.md §4.2 "Replace").
func (t *Table) Replace(key, value callback.Slot) {
	if !t.ensureMutable("Replace") {
		return
	}
	res := t.probe(key)
	if !res.found {
		return
	}
	t.replaceAt(res.idx, key, value)
}

// Remove evicts key (set/dictionary) or decrements its count, evicting only
// once the count reaches zero (bag). Returns the prior count, 0 if key was
// absent (spec.md §4.2 "Remove(key)").
func (t *Table) Remove(key callback.Slot) uintptr {
	if !t.ensureMutable("Remove") {
		return 0
	}
	res := t.probe(key)
	if !res.found {
		return 0
	}
	idx := res.idx
	var prior uintptr = 1
	if t.flags.HasCounts() {
		prior = t.counts[idx]
	}
	if t.flags.HasCounts() && prior > 1 {
		t.counts[idx] = prior - 1
		t.count--
		return prior
	}
	t.evict(idx)
	return prior
}

func (t *Table) evict(idx int) {
	t.releasePair(t.keyRaw(idx), t.values[idx], t.flags.HasKeys())
	t.states[idx] = bucketDeleted
	if t.flags.HasKeys() {
		t.keys[idx] = 0
	}
	t.values[idx] = 0
	if t.flags.HasCounts() {
		t.count -= t.counts[idx]
		t.counts[idx] = 0
	} else {
		t.count--
	}
}

func (t *Table) keyRaw(idx int) callback.Slot {
	if t.flags.HasKeys() {
		return t.keys[idx]
	}
	return 0
}

// RemoveAll releases every element through the callback table and marks
// every bucket empty (spec.md §4.2 "Remove-all").
func (t *Table) RemoveAll() {
	if !t.ensureMutable("RemoveAll") {
		return
	}
	for i, st := range t.states {
		if st != bucketOccupied {
			if st == bucketDeleted {
				t.states[i] = bucketEmpty
			}
			continue
		}
		t.releasePair(t.keyRaw(i), t.values[i], t.flags.HasKeys())
		t.states[i] = bucketEmpty
		if t.flags.HasKeys() {
			t.keys[i] = 0
		}
		t.values[i] = 0
		if t.flags.HasCounts() {
			t.counts[i] = 0
		}
	}
	t.count = 0
}

// AddIntAndIncrement is CFBasicHashAddIntValueAndInc's equivalent for
// integer-keyed bags: bump-or-create-with-count-1. It is Add with the value
// used as its own key, so a new element is retained through the callback
// table like any other insert (a no-op for a table built without callbacks).
func (t *Table) AddIntAndIncrement(intValue uintptr) bool {
	return t.Add(intValue, intValue)
}

// RemoveIntAndDecrement mirrors AddIntAndIncrement for removal.
func (t *Table) RemoveIntAndDecrement(intValue uintptr) uintptr {
	return t.Remove(intValue)
}

// Apply enumerates occupied buckets in bucket-index order, invoking fn once
// per element -- and, for a bag, fn is invoked Count times per bucket
// (spec.md §9 Open Question 2, resolved by following original_source's
// CFBasicHashApply, which does the former). fn returns false to stop
// enumeration early. The table must not be mutated while Apply is running
// (spec.md §4.2 "Apply").
func (t *Table) Apply(fn func(Bucket) bool) {
	t.ApplyRange(0, len(t.states), fn)
}

// ApplyRange is CFBasicHashApplyIndexed: restrict enumeration to the bucket
// index range [start, start+length).
func (t *Table) ApplyRange(start, length int, fn func(Bucket) bool) {
	end := start + length
	if end > len(t.states) {
		end = len(t.states)
	}
	for i := start; i < end; i++ {
		if t.states[i] != bucketOccupied {
			continue
		}
		b := t.bucketAt(i, true)
		reps := 1
		if t.flags.HasCounts() {
			reps = int(t.counts[i])
		}
		for r := 0; r < reps; r++ {
			if !fn(b) {
				return
			}
		}
	}
}

// GetElements bulk-copies keys and values into caller-provided arrays,
// stopping once either array is full (spec.md §4.2 "Get-elements"). It
// returns the number of elements written. hashkernel has no tracing
// garbage collector to run a write barrier through (spec.md §9
// "Tracing-allocator coupling" reduces that concern to plain ownership), so
// this is a direct copy.
func (t *Table) GetElements(outKeys, outValues []callback.Slot) int {
	limit := len(outValues)
	if t.flags.HasKeys() && len(outKeys) < limit {
		limit = len(outKeys)
	}
	n := 0
	t.Apply(func(b Bucket) bool {
		if n >= limit {
			return false
		}
		if t.flags.HasKeys() && outKeys != nil {
			outKeys[n] = b.Key
		}
		outValues[n] = b.Value
		n++
		return true
	})
	return n
}

// MakeImmutable performs the one-way mutable->immutable transition (spec.md
// §4.2 "Make-immutable"); thereafter every mutating method above becomes a
// logged no-op via ensureMutable.
func (t *Table) MakeImmutable() {
	t.Header.MakeImmutable()
}

// Copy produces an immutable deep structural copy: every element is
// retained through the (possibly freshly-cloned) callback table, and the
// new table's buckets mirror the source's physical layout -- including bag
// counts -- rather than flattening multiplicities (spec.md §4.2 "Copy").
func (t *Table) Copy() *Table {
	c := newRawLike(t)
	for i, st := range t.states {
		if st != bucketOccupied {
			continue
		}
		var key callback.Slot
		if c.flags.HasKeys() {
			key = t.keys[i]
		} else {
			key = t.values[i]
		}
		rk, rv := c.retainPair(key, t.values[i], c.flags.HasKeys())
		idx := c.firstEmptyFor(rk)
		c.states[idx] = bucketOccupied
		if c.flags.HasKeys() {
			c.keys[idx] = rk
		}
		c.values[idx] = rv
		if c.flags.HasCounts() {
			c.counts[idx] = t.counts[i]
			c.count += int(t.counts[i])
		} else {
			c.count++
		}
	}
	c.MakeImmutable()
	return c
}

func (t *Table) firstEmptyFor(key callback.Slot) int {
	capacity := len(t.states)
	hash := t.hashKeyFast(key)
	idx := t.startBucket(hash)
	step := t.probeStep(hash)
	for t.states[idx] != bucketEmpty {
		idx = (idx + step) % capacity
	}
	return idx
}

// newRawLike allocates a fresh mutable Table with the same shape, family and
// capacity as src, and a callback table produced by src's copy hook (spec.md
// §4.3 "Copy/free hooks": "the callback table's copy hook is invoked to
// supply the copy's table -- either returning the shared static table (fast
// path) or allocating a fresh copy").
func newRawLike(src *Table) *Table {
	capacity := len(src.states)
	if capacity == 0 {
		capacity = 1
	}
	c := New(src.flags, src.family, src.cb.Copy(), capacity)
	if c.cb == src.cb {
		// Same callback table (the shared Standard table on the fast path):
		// keep the source's per-field special bits so the copy retains and
		// releases exactly the fields the source does.
		c.specialBits = src.specialBits
	}
	return c
}
