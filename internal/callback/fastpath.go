package callback

import "reflect"

// SpecialBits is the 16-bit word spec.md's glossary defines: "a 16-bit word
// in the hash table that records per-callback null-suppression flags used by
// the standard fast path." Each bit says "this slot's callback was absent at
// creation time (not merely equal to the default)", letting the installed
// Standard functions short-circuit trivial cases (e.g. an absent ReleaseKey
// means integer keys, so release is skipped entirely) without re-deciding on
// every call.
type SpecialBits uint16

const (
	BitRetainKeyNull SpecialBits = 1 << iota
	BitRetainValueNull
	BitReleaseKeyNull
	BitReleaseValueNull
	BitEquateKeysNull
	BitEquateValuesNull
	BitHashKeyNull
	BitDescribeKeyNull
	BitDescribeValueNull
	BitIndirectKeyNull
)

func funcAddr(f any) uintptr {
	v := reflect.ValueOf(f)
	if !v.IsValid() || v.IsNil() {
		return 0
	}
	return v.Pointer()
}

// fieldIsNilOrDefault reports whether the user-supplied callback is either
// absent or the identical function as the Standard table's corresponding
// slot, and whether it was specifically absent (for special-bits purposes).
func fieldIsNilOrDefault(user, standard any) (fastPathOK, wasNil bool) {
	uAddr := funcAddr(user)
	if uAddr == 0 {
		return true, true
	}
	return uAddr == funcAddr(standard), false
}

// Resolve implements spec.md §4.1/§4.3's "standard-callback fast path": at
// creation time, if every supplied callback is either absent (null) or
// equal to the well-known object-type default (Standard), the engine
// installs Standard instead of cloning user, and records which fields were
// absent as SpecialBits. A nil user table trivially qualifies (every field
// absent): per spec.md §6 a null callback table is "equivalent to a table
// with all-null function pointers" -- raw storage, identity compare,
// identity hash -- which is exactly what SpecialBits signals to the callers
// that consult it, even though the engine installs the Standard table object
// for a uniform code path.
//
// When user does not fit the fast path, Resolve returns a private copy of
// it (invoking its CopyCallbacks hook if present) so later mutation of the
// caller's struct cannot retroactively change engine behavior -- the "slow
// path" per-instance callback table.
func Resolve(user *Table) (*Table, SpecialBits) {
	if user == nil {
		return Standard, allNullBits()
	}

	var bits SpecialBits
	fast := true
	consider := func(u, s any, bit SpecialBits) {
		ok, wasNil := fieldIsNilOrDefault(u, s)
		if wasNil {
			bits |= bit
		}
		if !ok {
			fast = false
		}
	}
	consider(user.RetainKey, Standard.RetainKey, BitRetainKeyNull)
	consider(user.RetainValue, Standard.RetainValue, BitRetainValueNull)
	consider(user.ReleaseKey, Standard.ReleaseKey, BitReleaseKeyNull)
	consider(user.ReleaseValue, Standard.ReleaseValue, BitReleaseValueNull)
	consider(user.EquateKeys, Standard.EquateKeys, BitEquateKeysNull)
	consider(user.EquateValues, Standard.EquateValues, BitEquateValuesNull)
	consider(user.HashKey, Standard.HashKey, BitHashKeyNull)
	consider(user.CopyKeyDescription, Standard.CopyKeyDescription, BitDescribeKeyNull)
	consider(user.CopyValueDescription, Standard.CopyValueDescription, BitDescribeValueNull)
	consider(user.GetIndirectKey, Standard.GetIndirectKey, BitIndirectKeyNull)

	if fast {
		return Standard, bits
	}
	return user.Copy(), 0
}

func allNullBits() SpecialBits {
	return BitRetainKeyNull | BitRetainValueNull | BitReleaseKeyNull | BitReleaseValueNull |
		BitEquateKeysNull | BitEquateValuesNull | BitHashKeyNull | BitDescribeKeyNull |
		BitDescribeValueNull | BitIndirectKeyNull
}
