package objrt

import (
	"errors"
	"unsafe"
)

// ErrDeallocating is returned by TryRetain when the object has already
// observed refcount 0 and entered the deallocating state (spec.md §4.1).
var ErrDeallocating = errors.New("objrt: object is deallocating")

// WithHeader is implemented (by embedding) by every type objrt.Create can
// construct: Header's own Hdr method satisfies it for any struct that embeds
// Header as its first field.
type WithHeader interface {
	Hdr() *Header
}

// Create allocates a new instance of T at refcount 1 (or the custom-refcount
// sentinel, if the registered type supplies its own refcount hook), writes
// the packed info word, and invokes the type's initializer if present.
// useDefaultAllocator records whether T should be treated as using the
// process default allocator for the "uses-default-allocator" header bit
// (spec.md §3); hashkernel never actually swaps allocators (that concern is
// explicitly out of scope, see spec.md §1), so this is carried purely as
// header metadata for parity with the source.
func Create[T any, PT interface {
	*T
	WithHeader
}](typeID TypeID, useDefaultAllocator bool) PT {
	td := Lookup(typeID)
	if td == nil {
		Halt("create: unregistered type id")
	}

	obj := new(T)
	p := PT(obj)
	h := p.Hdr()
	h.Isa = 0

	info := uint64(typeID) & infoTypeIDMask
	var rc0 uint64 = 1
	if td.customRefcount() {
		info |= infoCustomRefcountBit
		rc0 = customRefcountSentinel
	}
	if useDefaultAllocator {
		info |= infoDefaultAllocatorBit
	}
	info |= rc0 << refcountShift
	h.info.Store(info)

	if td.Init != nil {
		td.Init(unsafe.Pointer(p))
	}
	return p
}

// externAddr is the extern bank's key for h: the header's own address, stable
// for as long as the object is live.
func externAddr(h *Header) uintptr { return uintptr(unsafe.Pointer(h)) }

// Retain increments the refcount. Per spec.md §4.1 its behavior is undefined
// if the object is already deallocating; callers that must not resurrect a
// half-torn-down object should use TryRetain instead. Retain halts the
// process with a bogus-object diagnostic if the object's custom-refcount bit
// is set but its refcount field is not the reserved sentinel. An inline field
// about to overflow is pegged at externRefPegValue and handed off to the
// sharded extern bank instead (spec.md §4.6's overflow escape valve).
func Retain(h *Header) {
	for {
		old := h.info.Load()
		rc := rawRefcount(old)
		if rc == 0 {
			return // constant: stored refcount 0 objects are never retained/freed
		}
		if h.hasCustomRefcount(old) {
			if rc != customRefcountSentinel {
				Halt("retain: bogus-object (custom-refcount bit set, field not at sentinel)")
			}
			return // refcount is tracked entirely by the type's own hook
		}
		if old&infoExternRefBit != 0 {
			ExternIncrement(externAddr(h))
			return
		}
		if rc == externRefPegValue {
			if h.info.CompareAndSwap(old, old|infoExternRefBit) {
				ExternIncrement(externAddr(h))
				return
			}
			continue
		}
		if h.info.CompareAndSwap(old, old+(uint64(1)<<refcountShift)) {
			return
		}
	}
}

// TryRetain is Retain's safe sibling: it reports ErrDeallocating instead of
// racing a teardown in progress, so that weak references cannot resurrect an
// object mid-finalization (spec.md §4.1, §8 invariant 8).
func TryRetain(h *Header) error {
	for {
		old := h.info.Load()
		if h.isDeallocating(old) {
			return ErrDeallocating
		}
		rc := rawRefcount(old)
		if rc == 0 {
			return nil
		}
		if h.hasCustomRefcount(old) {
			if rc != customRefcountSentinel {
				Halt("try-retain: bogus-object (custom-refcount bit set, field not at sentinel)")
			}
			return nil
		}
		if old&infoExternRefBit != 0 {
			ExternIncrement(externAddr(h))
			return nil
		}
		if rc == externRefPegValue {
			if h.info.CompareAndSwap(old, old|infoExternRefBit) {
				ExternIncrement(externAddr(h))
				return nil
			}
			continue
		}
		if h.info.CompareAndSwap(old, old+(uint64(1)<<refcountShift)) {
			return nil
		}
	}
}

// RetainCount returns the stored refcount, delegating to the type's
// CustomRefcount hook when the custom-refcount bit is set, or adding the
// extern bank's overflow count when the inline field is pegged.
func RetainCount(h *Header) uintptr {
	v := h.info.Load()
	if h.hasCustomRefcount(v) {
		td := Lookup(h.TypeID())
		if td != nil && td.CustomRefcount != nil {
			return td.CustomRefcount(unsafe.Pointer(h))
		}
		return customRefcountSentinel
	}
	if v&infoExternRefBit != 0 {
		return uintptr(rawRefcount(v)) + uintptr(ExternCount(externAddr(h)))
	}
	return uintptr(rawRefcount(v))
}

// Resurrect is called only from within a type's Finalize hook, for the rare,
// documented edge case where a finalizer re-adds the object to a uniquing
// cache it is removing itself from (spec.md §9 "Resurrection in release").
// It bypasses the deallocating check that TryRetain enforces, which is
// exactly what distinguishes it from ordinary retain paths; calling it
// outside of a Finalize hook is undefined.
func Resurrect(h *Header) {
	for {
		old := h.info.Load()
		if h.hasCustomRefcount(old) {
			return
		}
		if h.info.CompareAndSwap(old, old+(uint64(1)<<refcountShift)) {
			return
		}
	}
}

// Release atomically decrements the refcount. On the 1->0 transition it
// calls the type's resourceful reclaim hook, sets the deallocating bit, then
// calls Finalize; if the finalizer resurrected the object (refcount rose
// above 0 again), the deallocating bit is cleared and release is retried,
// per spec.md §4.1 and the "Resurrection" glossary entry. Objects at stored
// refcount 0 (constants) are a no-op.
func Release(h *Header) {
	for {
		old := h.info.Load()
		rc := rawRefcount(old)
		if rc == 0 {
			return
		}
		if h.hasCustomRefcount(old) {
			if rc != customRefcountSentinel {
				Halt("release: bogus-object (custom-refcount bit set, field not at sentinel)")
			}
			return
		}
		if old&infoExternRefBit != 0 {
			// Pegged: the real count lives in the bank. The release that
			// drains it to zero unpegs the object and leaves the inline field
			// at externRefPegValue; later releases take the ordinary
			// decrement branch below.
			if ExternDecrementAndTest(externAddr(h)) {
				for {
					c := h.info.Load()
					if h.info.CompareAndSwap(c, c&^infoExternRefBit) {
						return
					}
				}
			}
			return
		}
		if rc > 1 {
			if h.info.CompareAndSwap(old, old-(uint64(1)<<refcountShift)) {
				return
			}
			continue
		}

		// rc == 1: the 1->0 transition. spec.md's release sequence is reclaim,
		// then deallocating bit, then finalize (original_source/CFRuntime.c's
		// _CFRelease: cfClass->reclaim(cf) runs before the bit is set, which
		// runs before cfClass->finalize(cf)) -- reclaimResources must run
		// first, while the object is still fully live.
		reclaimResources(h)

		// Clear the refcount field and set the deallocating bit in a single
		// CAS so no other thread can observe a half-updated state.
		zeroed := (old &^ (uint64(0xFFFFFFFF) << refcountShift)) | infoDeallocatingBit
		if !h.info.CompareAndSwap(old, zeroed) {
			continue
		}

		finalizeOnly(h)

		// Observe refcount again: Resurrect may have run inside Finalize.
		cur := h.info.Load()
		if rawRefcount(cur) > 0 {
			for {
				c := h.info.Load()
				cleared := c &^ infoDeallocatingBit
				if h.info.CompareAndSwap(c, cleared) {
					break
				}
			}
			Release(h) // re-enter release on the resurrected object
		}
		// Otherwise: storage is freed by the Go garbage collector once the
		// last reference to h drops; there is no explicit free() step here
		// (see spec.md §9 "Tracing-allocator coupling").
		return
	}
}

// reclaimResources runs the type's resourceful reclaim hook, if any, ahead of
// the deallocating-bit CAS (spec.md's release ordering).
func reclaimResources(h *Header) {
	td := Lookup(h.TypeID())
	if td == nil {
		return
	}
	if td.resourceful() && td.ReclaimResources != nil {
		td.ReclaimResources(unsafe.Pointer(h))
	}
}

// finalizeOnly runs the type's finalize hook once the deallocating bit is
// already set.
func finalizeOnly(h *Header) {
	td := Lookup(h.TypeID())
	if td == nil {
		return
	}
	if td.Finalize != nil {
		td.Finalize(unsafe.Pointer(h))
	}
}
