// Package callback implements the per-element callback table shared by every
// shape the hash engine serves (spec.md §4.3): twelve function pointers for
// key/value retain, release, equality, hashing and description, plus the
// copy/free hooks invoked when an engine instance is itself copied or torn
// down. This is CFBasicHashCallbacks (original_source/CFBasicHash.h)
// reshaped into Go closures instead of a C vtable.
package callback

// Slot is a machine-word-sized opaque element: a dictionary key, a
// dictionary/set/bag value, or (for indirect-key dictionaries) the value a
// key is derived from. Exactly as spec.md §6 describes, the caller owns the
// interpretation; the Table only ever moves Slots around and asks the
// Callbacks to retain/release/compare/hash/describe them.
type Slot = uintptr

// Table is the twelve-function callback vector (spec.md §4.3 "Callback
// table"). A nil field behaves as the null-callback convention in spec.md
// §6: elements stored raw, compared and hashed by identity, never retained.
type Table struct {
	CopyCallbacks        func(cb *Table) *Table
	FreeCallbacks        func(cb *Table)
	RetainValue          func(v Slot) Slot
	RetainKey            func(k Slot) Slot
	ReleaseValue         func(v Slot)
	ReleaseKey           func(k Slot)
	EquateValues         func(collValue, probe Slot) bool
	EquateKeys           func(collKey, probe Slot) bool
	HashKey              func(k Slot) uintptr
	GetIndirectKey       func(collValue Slot) Slot
	CopyValueDescription func(v Slot) string
	CopyKeyDescription   func(k Slot) string

	// Context holds the user-supplied functions that back the fields above
	// when the standard fast path does not apply (spec.md §4.3 "slow
	// path"). It exists so that CopyCallbacks/FreeCallbacks have somewhere
	// to clone/release captured state; ordinary callers never touch it.
	Context []any
}

func identityEquate(a, b Slot) bool { return a == b }
func identityHash(k Slot) uintptr   { return k }

// retainKey and the other lower-case helpers below run the callback for
// their field, falling back to identity semantics when cb is nil or the
// field itself is nil -- the "null callback
// table parameter is equivalent to a table with all-null function pointers"
// rule from spec.md §6.
func (cb *Table) retainKey(k Slot) Slot {
	if cb == nil || cb.RetainKey == nil {
		return k
	}
	return cb.RetainKey(k)
}

func (cb *Table) retainValue(v Slot) Slot {
	if cb == nil || cb.RetainValue == nil {
		return v
	}
	return cb.RetainValue(v)
}

func (cb *Table) releaseKey(k Slot) {
	if cb == nil || cb.ReleaseKey == nil {
		return
	}
	cb.ReleaseKey(k)
}

func (cb *Table) releaseValue(v Slot) {
	if cb == nil || cb.ReleaseValue == nil {
		return
	}
	cb.ReleaseValue(v)
}

func (cb *Table) equateKeys(collKey, probe Slot) bool {
	if cb == nil || cb.EquateKeys == nil {
		return identityEquate(collKey, probe)
	}
	return cb.EquateKeys(collKey, probe)
}

func (cb *Table) equateValues(collValue, probe Slot) bool {
	if cb == nil || cb.EquateValues == nil {
		return identityEquate(collValue, probe)
	}
	return cb.EquateValues(collValue, probe)
}

func (cb *Table) hashKey(k Slot) uintptr {
	if cb == nil || cb.HashKey == nil {
		return identityHash(k)
	}
	return cb.HashKey(k)
}

func (cb *Table) indirectKey(collValue Slot) Slot {
	if cb == nil || cb.GetIndirectKey == nil {
		return collValue
	}
	return cb.GetIndirectKey(collValue)
}

// RetainKey, RetainValue, ReleaseKey, ReleaseValue, EquateKeys, EquateValues,
// HashKey and IndirectKey are the exported, nil-safe entry points the hash
// engine calls through; they apply the null-callback fallback described
// above so engine code never has to special-case a nil *Table.
func (cb *Table) Retain(k, v Slot, hasKeys bool) (Slot, Slot) {
	if hasKeys {
		return cb.retainKey(k), cb.retainValue(v)
	}
	return k, cb.retainValue(v)
}

func (cb *Table) ReleaseKeyValue(k, v Slot, hasKeys bool) {
	if hasKeys {
		cb.releaseKey(k)
	}
	cb.releaseValue(v)
}

func (cb *Table) EquateKeys(a, b Slot) bool   { return cb.equateKeys(a, b) }
func (cb *Table) EquateValues(a, b Slot) bool { return cb.equateValues(a, b) }
func (cb *Table) HashKey(k Slot) uintptr      { return cb.hashKey(k) }
func (cb *Table) IndirectKey(v Slot) Slot     { return cb.indirectKey(v) }

// RetainKeyOnly, RetainValueOnly, ReleaseKeyOnly and ReleaseValueOnly expose
// the nil-safe per-field operations individually, for callers (the hash
// engine's special-bits fast path, see internal/hashengine) that need to
// suppress one side of a pair without touching the other -- e.g. the
// standard-callback fast path records which fields were specifically absent
// at creation time and must skip exactly those, not the table's nil-safe
// default for a field the caller actually did supply.
func (cb *Table) RetainKeyOnly(k Slot) Slot    { return cb.retainKey(k) }
func (cb *Table) RetainValueOnly(v Slot) Slot  { return cb.retainValue(v) }
func (cb *Table) ReleaseKeyOnly(k Slot)        { cb.releaseKey(k) }
func (cb *Table) ReleaseValueOnly(v Slot)      { cb.releaseValue(v) }

// DescribeKey and DescribeValue return a best-effort
// description, falling back to a hex dump of the raw slot when no callback
// is supplied.
func (cb *Table) DescribeKey(k Slot) string {
	if cb == nil || cb.CopyKeyDescription == nil {
		return hexSlot(k)
	}
	return cb.CopyKeyDescription(k)
}

func (cb *Table) DescribeValue(v Slot) string {
	if cb == nil || cb.CopyValueDescription == nil {
		return hexSlot(v)
	}
	return cb.CopyValueDescription(v)
}

func hexSlot(s Slot) string {
	const digits = "0123456789abcdef"
	if s == 0 {
		return "0x0"
	}
	buf := make([]byte, 0, 18)
	buf = append(buf, '0', 'x')
	started := false
	for shift := 60; shift >= 0; shift -= 4 {
		nibble := (s >> uint(shift)) & 0xf
		if nibble != 0 {
			started = true
		}
		if started {
			buf = append(buf, digits[nibble])
		}
	}
	return string(buf)
}

// Copy invokes CopyCallbacks if present (the slow path's way of producing an
// independent callback table for a structural copy); otherwise it returns cb
// unchanged, which is correct for the shared static fast-path table (spec.md
// §4.3 "Copy/free hooks").
func (cb *Table) Copy() *Table {
	if cb == nil || cb.CopyCallbacks == nil {
		return cb
	}
	return cb.CopyCallbacks(cb)
}

// Free invokes FreeCallbacks if present, mirroring Copy.
func (cb *Table) Free() {
	if cb == nil || cb.FreeCallbacks == nil {
		return
	}
	cb.FreeCallbacks(cb)
}
