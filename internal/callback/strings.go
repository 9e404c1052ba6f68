package callback

// strings.go supplies the "reserved type" callback table spec.md §6
// describes for the common case of string-shaped keys: a Slot here is a
// uintptr obtained from unsafe.Pointer(&s) for some string s the caller
// keeps alive. The hashing path reuses the teacher's zero-copy
// unsafehelpers conversions instead of allocating a fresh []byte per call.

import (
	"unsafe"

	"github.com/cespare/xxhash/v2"

	"github.com/Voskan/hashkernel/internal/unsafehelpers"
)

func derefString(s Slot) string {
	return *(*string)(unsafe.Pointer(s))
}

// StringHash hashes the string a Slot points to via xxhash, the same
// hashing library the teacher's badger dependency pulled in as a default
// hasher.
func StringHash(s Slot) uintptr {
	return uintptr(xxhash.Sum64(unsafehelpers.StringToBytes(derefString(s))))
}

// StringEqual compares the strings two Slots point to.
func StringEqual(a, b Slot) bool {
	return derefString(a) == derefString(b)
}

// StringDescribe renders the string a Slot points to, using
// unsafehelpers.BytesToString to avoid a copy when the caller already holds
// a []byte-backed description buffer (the common path through
// CopyKeyDescription's slow-path clones).
func StringDescribe(s Slot) string {
	raw := unsafehelpers.StringToBytes(derefString(s))
	return unsafehelpers.BytesToString(raw)
}

// StringKeys returns a callback Table suitable for WithCallbacks when a
// dictionary or set is keyed by boxed *string values: equality and hashing
// dereference the pointer, keys are never retained (the caller owns string
// lifetime), matching spec.md §6's "a null callback table element is
// equivalent to raw/identity storage" baseline extended with real
// comparison/hashing instead of plain identity.
func StringKeys() *Table {
	return &Table{
		EquateKeys:         StringEqual,
		HashKey:            StringHash,
		CopyKeyDescription: StringDescribe,
	}
}
