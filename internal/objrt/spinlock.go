package objrt

import (
	"runtime"
	"sync/atomic"
)

// spinlock is the single process-wide lock guarding type registration
// (spec.md §5: "a process-wide table guarded by a single spinlock used only
// at registration/unregistration"). It is never held across a user callback
// and never held alongside an extern-counter shard lock (§5 locking
// discipline), so a simple CAS spin (rather than a futex-backed mutex) is
// enough -- registration is rare and never contended in steady state.
type spinlock struct {
	held atomic.Bool
}

func (s *spinlock) Lock() {
	for !s.held.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

func (s *spinlock) Unlock() {
	s.held.Store(false)
}
