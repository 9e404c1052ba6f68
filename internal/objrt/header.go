// Package objrt implements the object runtime that the hashing containers in
// pkg/container are built on: type descriptors, a packed per-object header,
// and lock-free retain/release. It is the Go-idiomatic reshaping of
// CoreFoundation's CFRuntime (see original_source/CFRuntime.c): the bitfield
// packing stays, carried in an explicit struct with accessor operations
// instead of raw macro twiddling on a C struct (design note in spec.md §9).
//
// © 2025 hashkernel authors. MIT License.
package objrt

import (
	"sync/atomic"
)

// TypeID is a dense, non-zero integer identifying a registered TypeDescriptor.
// Two values are reserved: TypeIDInvalid ("not a type") and TypeIDAny (the
// generic root whose operations all abort).
type TypeID uint32

const (
	// TypeIDInvalid is the "not a type" sentinel; never returned by Register.
	TypeIDInvalid TypeID = 0
	// TypeIDAny is the generic "any type" root. Every operation on it aborts.
	TypeIDAny TypeID = 1

	firstDynamicTypeID TypeID = 2
)

// Info-word bit layout. Kept in one atomic.Uint64 so that a single
// compare-and-swap covers the deallocating bit and the refcount together, as
// recommended in spec.md §9 ("Packed object header").
const (
	infoTypeIDBits    = 20 // bits 0-19: type id
	infoTypeIDShift   = 0
	infoTypeIDMask    = (uint64(1) << infoTypeIDBits) - 1

	infoDeallocatingBit     = uint64(1) << 20
	infoCustomRefcountBit   = uint64(1) << 21
	infoDefaultAllocatorBit = uint64(1) << 22
	infoKVOAuxiliaryBit     = uint64(1) << 23
	infoImmutableBit        = uint64(1) << 24 // "mutable-is-false": set means immutable

	// infoExternRefBit marks an object whose inline refcount field has
	// saturated and pegged at externRefPegValue; the true count beyond the
	// peg lives in the sharded extern bank (externrefs.go), spec.md §4.6's
	// overflow escape valve.
	infoExternRefBit = uint64(1) << 25

	refcountShift = 32 // high 32 bits hold the refcount
)

// customRefcountSentinel is the refcount field value reserved for types with
// a custom refcount hook (mirrors CFRuntime's 0xFF "escape" byte, widened to
// fit our 32-bit refcount field).
const customRefcountSentinel = 0xFFFFFFFF

// externRefPegValue is the inline refcount value an object freezes at once
// it overflows: the field stops moving and the extern bank tracks every
// retain/release past this point (spec.md §4.6).
const externRefPegValue = customRefcountSentinel - 1

// Header is the two-machine-word prologue every hashkernel object begins
// with, mirroring CFRuntimeBase: an isa/bridge word and a packed info word.
type Header struct {
	// Isa is zero for a native object; for a bridged (foreign) object it
	// holds an opaque identifier the bridge dispatcher recognizes (see
	// internal/bridge).
	Isa  uintptr
	info atomic.Uint64
}

// Hdr returns h itself, letting any struct that embeds Header as its first
// field promote a Hdr() accessor for free -- this is what lets objrt.Create
// work generically over any object shape without reflection.
func (h *Header) Hdr() *Header { return h }

// TypeID returns the type-id stored in the header's info word.
func (h *Header) TypeID() TypeID {
	return TypeID(h.info.Load() & infoTypeIDMask)
}

func (h *Header) isDeallocating(v uint64) bool { return v&infoDeallocatingBit != 0 }

// IsDeallocating reports whether the object has observed refcount 0 and is
// currently running its finalizer (spec.md §3 invariant 5).
func (h *Header) IsDeallocating() bool { return h.isDeallocating(h.info.Load()) }

// IsImmutable reports the immutable-transition bit (bit 14 inverted in the
// original 32-bit packing: set here means immutable).
func (h *Header) IsImmutable() bool { return h.info.Load()&infoImmutableBit != 0 }

// MakeImmutable performs the one-way mutable->immutable transition. Calling
// it twice is a no-op: the transition is idempotent, never a second event.
func (h *Header) MakeImmutable() {
	for {
		old := h.info.Load()
		if old&infoImmutableBit != 0 {
			return
		}
		if h.info.CompareAndSwap(old, old|infoImmutableBit) {
			return
		}
	}
}

func (h *Header) hasCustomRefcount(v uint64) bool { return v&infoCustomRefcountBit != 0 }

func (h *Header) usesDefaultAllocator(v uint64) bool { return v&infoDefaultAllocatorBit != 0 }

// UsesDefaultAllocator reports the header's "uses-default-allocator" bit
// (spec.md §3): hashkernel never actually swaps allocators (spec.md §1
// scopes allocator implementations out, referenced only through the
// capability); objrt.Create sets the bit when its useDefaultAllocator
// argument is true, as every caller in this module passes, and the bit
// exists purely for header-layout parity with the source.
func (h *Header) UsesDefaultAllocator() bool { return h.usesDefaultAllocator(h.info.Load()) }

// rawRefcount extracts the stored 32-bit refcount field from a snapshot of
// the info word.
func rawRefcount(v uint64) uint32 { return uint32(v >> refcountShift) }
