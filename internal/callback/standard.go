package callback

import (
	"unsafe"

	"github.com/Voskan/hashkernel/internal/objrt"
)

// Standard is the well-known "object type" callback table spec.md §6
// describes: "The reserved 'type' callback table supplies default
// retain/release/equate/hash/describe appropriate for runtime objects." Every
// Slot it touches is reinterpreted as an *objrt.Header, so it only makes
// sense for keys/values that are themselves hashkernel objects.
//
// Standard is a package-level singleton (not a constructor) precisely so the
// fast-path detector in fastpath.go can recognize it by pointer identity,
// mirroring the source's comparison against its own well-known function
// pointers (CFBasicHash.c's __CFTypeCollectionCallbacks instance).
var Standard = &Table{
	RetainKey:   objectRetain,
	RetainValue: objectRetain,
	ReleaseKey:  objectRelease,
	ReleaseValue: objectRelease,
	EquateKeys:   objectEquate,
	EquateValues: objectEquate,
	HashKey:      objectHash,
	CopyKeyDescription:   objectDescribe,
	CopyValueDescription: objectDescribe,
}

func headerOf(s Slot) *objrt.Header {
	return (*objrt.Header)(unsafe.Pointer(s))
}

func objectRetain(s Slot) Slot {
	if s == 0 {
		return s
	}
	objrt.Retain(headerOf(s))
	return s
}

func objectRelease(s Slot) {
	if s == 0 {
		return
	}
	objrt.Release(headerOf(s))
}

func objectEquate(collSide, probe Slot) bool {
	if collSide == probe {
		return true
	}
	if collSide == 0 || probe == 0 {
		return false
	}
	td := objrt.Lookup(headerOf(collSide).TypeID())
	if td == nil || td.Equal == nil {
		return false
	}
	return td.Equal(unsafe.Pointer(headerOf(collSide)), unsafe.Pointer(headerOf(probe)))
}

func objectHash(s Slot) uintptr {
	if s == 0 {
		return 0
	}
	h := headerOf(s)
	td := objrt.Lookup(h.TypeID())
	if td == nil || td.Hash == nil {
		return s // identity hash fallback
	}
	return td.Hash(unsafe.Pointer(h))
}

func objectDescribe(s Slot) string {
	if s == 0 {
		return "<nil>"
	}
	h := headerOf(s)
	td := objrt.Lookup(h.TypeID())
	if td == nil || td.Describe == nil {
		return hexSlot(s)
	}
	return td.Describe(unsafe.Pointer(h))
}
