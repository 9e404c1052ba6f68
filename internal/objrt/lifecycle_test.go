package objrt

import (
	"sync"
	"testing"
	"unsafe"
)

// probeObj is a minimal hashkernel object: Header embedded as the first
// field promotes Hdr(), satisfying WithHeader for objrt.Create.
type probeObj struct {
	Header
	tag int
}

func registerProbeType(finalize func()) TypeID {
	return Register(&TypeDescriptor{
		Name:    "probeObj",
		Version: VersionResourceful,
		Finalize: func(obj unsafe.Pointer) {
			if finalize != nil {
				finalize()
			}
		},
	})
}

func TestRetainReleaseRoundTrip(t *testing.T) {
	var finalizeCount int
	var mu sync.Mutex
	id := registerProbeType(func() {
		mu.Lock()
		finalizeCount++
		mu.Unlock()
	})

	obj := Create[probeObj](id, true)
	h := obj.Hdr()

	if got := RetainCount(h); got != 1 {
		t.Fatalf("new object retain count = %d, want 1", got)
	}

	for i := 0; i < 5; i++ {
		Retain(h)
	}
	if got := RetainCount(h); got != 6 {
		t.Fatalf("after 5 retains, retain count = %d, want 6", got)
	}

	for i := 0; i < 5; i++ {
		Release(h)
	}
	if got := RetainCount(h); got != 1 {
		t.Fatalf("after 5 releases, retain count = %d, want 1", got)
	}
	mu.Lock()
	if finalizeCount != 0 {
		t.Fatalf("finalize ran early: %d", finalizeCount)
	}
	mu.Unlock()

	Release(h) // final release: 1 -> 0, triggers finalize exactly once

	mu.Lock()
	if finalizeCount != 1 {
		t.Fatalf("finalize count = %d, want 1", finalizeCount)
	}
	mu.Unlock()
	if !h.IsDeallocating() {
		t.Fatalf("header should report deallocating after final release")
	}
}

func TestTryRetainFailsWhileDeallocating(t *testing.T) {
	var capturedHeader *Header
	id := Register(&TypeDescriptor{
		Name:    "probeObjTryRetain",
		Version: 0,
		Finalize: func(obj unsafe.Pointer) {
			h := (*Header)(obj)
			capturedHeader = h
			if err := TryRetain(h); err != ErrDeallocating {
				t.Errorf("TryRetain during finalize: got %v, want ErrDeallocating", err)
			}
		},
	})

	obj := Create[probeObj](id, true)
	Release(obj.Hdr())

	if capturedHeader == nil {
		t.Fatal("finalize did not run")
	}
}

func TestMakeImmutableIsIdempotent(t *testing.T) {
	id := registerProbeType(nil)
	obj := Create[probeObj](id, true)
	h := obj.Hdr()

	if h.IsImmutable() {
		t.Fatal("fresh object reports immutable")
	}
	h.MakeImmutable()
	h.MakeImmutable()
	if !h.IsImmutable() {
		t.Fatal("MakeImmutable did not stick")
	}
}

// TestReclaimRunsBeforeDeallocatingBit checks the release ordering: the
// resourceful reclaim hook must observe the object as not-yet-deallocating,
// since it runs before the deallocating bit is set.
func TestReclaimRunsBeforeDeallocatingBit(t *testing.T) {
	var sawDeallocatingDuringReclaim bool
	id := Register(&TypeDescriptor{
		Name:    "probeObjReclaimOrder",
		Version: VersionResourceful,
		ReclaimResources: func(obj unsafe.Pointer) {
			h := (*Header)(obj)
			sawDeallocatingDuringReclaim = h.IsDeallocating()
		},
	})

	obj := Create[probeObj](id, true)
	Release(obj.Hdr())

	if sawDeallocatingDuringReclaim {
		t.Fatal("reclaim observed the deallocating bit already set; it must run first")
	}
	if !obj.Hdr().IsDeallocating() {
		t.Fatal("deallocating bit never got set after release")
	}
}

// TestRetainOverflowEscalatesToExternBank exercises spec.md §4.6's overflow
// escape valve: once the inline field pegs, further retain/release traffic
// is tracked in the extern bank instead of halting the process.
func TestRetainOverflowEscalatesToExternBank(t *testing.T) {
	id := registerProbeType(nil)
	obj := Create[probeObj](id, true)
	h := obj.Hdr()

	// Force the inline field to the peg threshold directly, skipping
	// externRefPegValue-1 ordinary retains.
	old := h.info.Load()
	pegged := (old &^ (uint64(0xFFFFFFFF) << refcountShift)) | (uint64(externRefPegValue) << refcountShift)
	h.info.Store(pegged)

	Retain(h) // pegs the field and records the first overflow retain
	if h.info.Load()&infoExternRefBit == 0 {
		t.Fatal("retain past the ceiling did not set the extern-ref bit")
	}
	if got := RetainCount(h); got != uintptr(externRefPegValue)+1 {
		t.Fatalf("RetainCount = %d, want %d", got, uintptr(externRefPegValue)+1)
	}

	Retain(h)
	if got := RetainCount(h); got != uintptr(externRefPegValue)+2 {
		t.Fatalf("RetainCount after second overflow retain = %d, want %d", got, uintptr(externRefPegValue)+2)
	}

	Release(h)
	if got := RetainCount(h); got != uintptr(externRefPegValue)+1 {
		t.Fatalf("RetainCount after draining one overflow release = %d, want %d", got, uintptr(externRefPegValue)+1)
	}

	Release(h) // bank drains to zero: unpegs, inline field resumes at externRefPegValue
	if h.info.Load()&infoExternRefBit != 0 {
		t.Fatal("extern-ref bit still set after the bank fully drained")
	}
	if got := RetainCount(h); got != uintptr(externRefPegValue) {
		t.Fatalf("RetainCount after unpegging = %d, want %d", got, uintptr(externRefPegValue))
	}
}

func TestConstantNeverFreed(t *testing.T) {
	id := registerProbeType(func() {
		t.Fatal("finalize should never run for a constant (refcount 0) object")
	})
	obj := Create[probeObj](id, true)
	h := obj.Hdr()
	// Force the header into the "constant" state (stored refcount 0) the
	// way a process-wide static instance would be born, per spec.md §3
	// invariant 6.
	h.info.Store(h.info.Load() &^ (uint64(0xFFFFFFFF) << refcountShift))

	Retain(h)
	Release(h)
	if got := RetainCount(h); got != 0 {
		t.Fatalf("constant retain count changed: %d", got)
	}
}
