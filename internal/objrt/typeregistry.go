package objrt

import (
	"sync/atomic"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// Version feature bits for a TypeDescriptor, carried from spec.md §3
// ("a version word carrying feature bits").
const (
	VersionTracingAware   uint32 = 1 << 0 // type is safe under a tracing allocator
	VersionCustomRefcount uint32 = 1 << 1 // type supplies its own refcount hook
	VersionResourceful    uint32 = 1 << 2 // type has non-memory resources to reclaim
)

// TypeDescriptor is a registered class: a name, a feature-bit version word,
// and up to nine optional operations. Mirrors the CFRuntimeClass /
// __CFRuntimeClassTable pairing in original_source/CFRuntime.c, generalized
// to operate on unsafe.Pointer instances rather than CFTypeRef.
type TypeDescriptor struct {
	Name    string
	Version uint32

	Init             func(obj unsafe.Pointer)
	Copy             func(obj unsafe.Pointer) unsafe.Pointer
	Finalize         func(obj unsafe.Pointer)
	Equal            func(a, b unsafe.Pointer) bool
	Hash             func(obj unsafe.Pointer) uintptr
	Describe         func(obj unsafe.Pointer) string
	DebugDescribe    func(obj unsafe.Pointer) string
	ReclaimResources func(obj unsafe.Pointer) // called before Finalize when VersionResourceful is set
	CustomRefcount   func(obj unsafe.Pointer) uintptr
}

func (d *TypeDescriptor) tracingAware() bool   { return d.Version&VersionTracingAware != 0 }
func (d *TypeDescriptor) customRefcount() bool { return d.Version&VersionCustomRefcount != 0 }
func (d *TypeDescriptor) resourceful() bool    { return d.Version&VersionResourceful != 0 }

// registry is the process-wide type table. Lookups are unsynchronized reads
// of an atomically-published slice; registration is serialized by a single
// spinlock and publishes a brand-new slice, exactly as spec.md §5 describes
// ("append-mostly and an old table is leaked if reallocated so that
// concurrent readers stay valid").
type registry struct {
	lock  spinlock
	table atomic.Pointer[[]*TypeDescriptor]
}

var globalRegistry = func() *registry {
	r := &registry{}
	// Slot 0: TypeIDInvalid ("not a type"). Slot 1: TypeIDAny, whose
	// operations all abort -- enforced by abortingType's hooks.
	initial := []*TypeDescriptor{nil, abortingType()}
	r.table.Store(&initial)
	return r
}()

func abortingType() *TypeDescriptor {
	abort := func(op string) { Halt("operation " + op + " invoked on the generic any-type root") }
	return &TypeDescriptor{
		Name:     "AnyType",
		Init:     func(unsafe.Pointer) { abort("init") },
		Copy:     func(unsafe.Pointer) unsafe.Pointer { abort("copy"); return nil },
		Finalize: func(unsafe.Pointer) { abort("finalize") },
		Equal:    func(a, b unsafe.Pointer) bool { abort("equal"); return false },
		Hash:     func(unsafe.Pointer) uintptr { abort("hash"); return 0 },
		Describe: func(unsafe.Pointer) string { abort("describe"); return "" },
	}
}

// Register assigns a dense, non-zero TypeID to d and publishes it for the
// process lifetime. There is no recoverable unregister: UnregisterAdvisory
// below exists only as the advisory hook spec.md §3 mentions.
func Register(d *TypeDescriptor) TypeID {
	globalRegistry.lock.Lock()
	defer globalRegistry.lock.Unlock()

	old := *globalRegistry.table.Load()
	next := make([]*TypeDescriptor, len(old)+1)
	copy(next, old)
	next[len(old)] = d
	id := TypeID(len(old))
	globalRegistry.table.Store(&next)
	return id
}

// Lookup returns the TypeDescriptor for id, or nil if id is unknown.
// Unsynchronized by design: registration publishes via the lock, readers
// never block (spec.md §5: "Lookups are unsynchronized").
func Lookup(id TypeID) *TypeDescriptor {
	table := *globalRegistry.table.Load()
	if int(id) >= len(table) {
		return nil
	}
	return table[id]
}

// UnregisterAdvisory exists for API parity with the source's unregister hook;
// spec.md §3 calls it "advisory" because type descriptors live for the
// process lifetime in practice. It intentionally does not remove the slot
// (that would shift every later TypeID), it only nils out the descriptor so
// that future Lookup calls observe it as gone while TypeIDs already handed
// out remain dense.
func UnregisterAdvisory(id TypeID) {
	globalRegistry.lock.Lock()
	defer globalRegistry.lock.Unlock()
	old := *globalRegistry.table.Load()
	if int(id) >= len(old) {
		return
	}
	next := make([]*TypeDescriptor, len(old))
	copy(next, old)
	next[id] = nil
	globalRegistry.table.Store(&next)
}

// HashName folds a type's name into a uintptr using xxhash, the same
// default-hasher family the teacher pulls in transitively through badger
// (github.com/cespare/xxhash/v2), for callers that want a stable, cheap
// key-id for a type without walking the table.
func HashName(name string) uintptr {
	return uintptr(xxhash.Sum64String(name))
}
