package objrt

import (
	"sync"
	"unsafe"

	"github.com/cespare/xxhash/v2"

	"github.com/Voskan/hashkernel/internal/unsafehelpers"
)

// externShardCount mirrors spec.md §4.6: eight shards on large-address
// (64-bit) platforms, one elsewhere.
var externShardCount = func() int {
	if unsafe.Sizeof(uintptr(0)) >= 8 {
		return 8
	}
	return 1
}()

type externShard struct {
	mu     sync.Mutex
	counts map[uintptr]uint64
}

// externBank is the overflow bank for refcounts that saturate their inline
// bits (spec.md §4.6). It is deliberately implemented as a plain
// mutex-guarded map rather than on top of internal/hashengine's own Table:
// the bank must be usable before -- and during -- the hash engine's own
// bootstrapping, and a self-hosted implementation risks recursing back into
// objrt during its own initialization (spec.md §9 calls this out explicitly).
var externBank = func() []externShard {
	shards := make([]externShard, externShardCount)
	for i := range shards {
		shards[i].counts = make(map[uintptr]uint64)
	}
	return shards
}()

func externShardFor(disguisedAddr uintptr) *externShard {
	idx := xxhash.Sum64(addrBytes(disguisedAddr)) % uint64(externShardCount)
	return &externBank[idx]
}

// addrBytes reuses the teacher's raw-memory-to-[]byte helper (originally
// written for hashing arena-allocated scalars) instead of hand-rolling a
// byte-twiddling loop.
func addrBytes(addr uintptr) []byte {
	return unsafehelpers.ByteSliceFrom(unsafe.Pointer(&addr), unsafe.Sizeof(addr))
}

// The five operations below are the sole external interface to the bank,
// numbered as in original_source/CFRuntime.c's __CFDoExternRefOperation
// (300/350/400/450/500); the numbers are kept only in comments, not in
// identifiers, per this module's naming conventions.

// ExternIncrement (op 300): increments the overflow count for addr and
// returns the new value.
func ExternIncrement(addr uintptr) uint64 {
	s := externShardFor(addr)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[addr]++
	return s.counts[addr]
}

// ExternDecrementAndTest (op 350): decrements the overflow count for addr and
// reports whether it has reached zero (in which case the entry is evicted
// from the bank).
func ExternDecrementAndTest(addr uintptr) (reachedZero bool) {
	s := externShardFor(addr)
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.counts[addr]
	if !ok || v == 0 {
		return true
	}
	v--
	if v == 0 {
		delete(s.counts, addr)
		return true
	}
	s.counts[addr] = v
	return false
}

// ExternCount (op 400): returns the current overflow count for addr, 0 if
// absent.
func ExternCount(addr uintptr) uint64 {
	s := externShardFor(addr)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[addr]
}

// ExternIncrementOverflow (op 450): like ExternIncrement, but only records an
// entry if one already exists or force is true; used when a caller wants to
// start tracking overflow for an object transitioning out of its inline
// refcount bits.
func ExternIncrementOverflow(addr uintptr, force bool) uint64 {
	s := externShardFor(addr)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.counts[addr]; !ok && !force {
		return 0
	}
	s.counts[addr]++
	return s.counts[addr]
}

// ExternQueryOverflow (op 500): reports whether addr currently has any
// overflow bytes recorded in the bank at all, without allocating an entry.
func ExternQueryOverflow(addr uintptr) bool {
	s := externShardFor(addr)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.counts[addr]
	return ok
}
