package hashengine

import "github.com/Voskan/hashkernel/internal/callback"

// This file is the one place the engine consults t.specialBits: spec.md §4.1's
// "standard-callback fast path" installs the shared Standard table for any
// construction whose callbacks were absent (including the nil case, spec.md
// §6's "null callback table"), but Standard's functions assume every Slot is
// a genuine retained object -- they are only safe to call for the fields the
// caller actually supplied. specialBits records, per field, which ones were
// absent at Resolve time; every retain/release/equate/hash/indirect-key call
// in ops.go, probe.go and rehash.go goes through the wrappers below instead
// of the raw *callback.Table, so a suppressed field degrades to the raw /
// identity behavior spec.md §6 promises rather than dereferencing an integer
// as a pointer.

func (t *Table) retainPair(key, value callback.Slot, hasKeys bool) (callback.Slot, callback.Slot) {
	rv := value
	if t.specialBits&callback.BitRetainValueNull == 0 {
		rv = t.cb.RetainValueOnly(value)
	}
	if !hasKeys {
		return key, rv
	}
	rk := key
	if t.specialBits&callback.BitRetainKeyNull == 0 {
		rk = t.cb.RetainKeyOnly(key)
	}
	return rk, rv
}

func (t *Table) releasePair(key, value callback.Slot, hasKeys bool) {
	if hasKeys && t.specialBits&callback.BitReleaseKeyNull == 0 {
		t.cb.ReleaseKeyOnly(key)
	}
	if t.specialBits&callback.BitReleaseValueNull == 0 {
		t.cb.ReleaseValueOnly(value)
	}
}

func (t *Table) equateKeysFast(a, b callback.Slot) bool {
	if t.specialBits&callback.BitEquateKeysNull != 0 {
		return a == b
	}
	return t.cb.EquateKeys(a, b)
}

func (t *Table) equateValuesFast(a, b callback.Slot) bool {
	if t.specialBits&callback.BitEquateValuesNull != 0 {
		return a == b
	}
	return t.cb.EquateValues(a, b)
}

func (t *Table) hashKeyFast(k callback.Slot) uintptr {
	if t.specialBits&callback.BitHashKeyNull != 0 {
		return k
	}
	return t.cb.HashKey(k)
}

func (t *Table) indirectKeyFast(v callback.Slot) callback.Slot {
	if t.specialBits&callback.BitIndirectKeyNull != 0 {
		return v
	}
	return t.cb.IndirectKey(v)
}
