// Package bridge implements spec.md §4.5's bridge dispatch, in the shape
// spec.md §9's "Bridging foreign objects" design note recommends for a
// target language with real interfaces: rather than a selector string
// dispatched through a per-type-id method table, a container handle is a
// tagged variant of a native engine table or anything satisfying the
// Container capability interface, and the façade simply type-switches.
//
// The foreign-class registry spec.md §4.5 still describes ("populated once
// at initialization and immutable thereafter") survives in reduced form: it
// maps an objrt.TypeID to the Adapter that turns a raw pointer of that type
// into a Container, for the rare case where a foreign value arrives as an
// unsafe.Pointer rather than already wrapped.
package bridge

import (
	"sync"
	"sync/atomic"

	"github.com/Voskan/hashkernel/internal/callback"
	"github.com/Voskan/hashkernel/internal/objrt"
)

// Container is the capability every foreign container implementation must
// satisfy to stand in for the native hash engine (spec.md §4.4's shared
// operation set, reduced to what the façades actually forward).
type Container interface {
	Count() int
	CountOfKey(key callback.Slot) uintptr
	CountOfValue(value callback.Slot) int
	Find(key callback.Slot) (value callback.Slot, found bool)
	Apply(fn func(key, value callback.Slot) bool)
	Add(key, value callback.Slot) bool
	Set(key, value callback.Slot)
	Replace(key, value callback.Slot)
	Remove(key callback.Slot) uintptr
	RemoveAll()
}

// Handle is the tagged variant spec.md §9 calls for: exactly one of Native
// or Foreign is set. A container façade holds a Handle instead of a bare
// *hashengine.Table so that every operation can dispatch without a type-id
// lookup on the hot path.
type Handle[Native any] struct {
	native  *Native
	foreign Container
}

// NewNative wraps an engine-backed instance.
func NewNative[Native any](n *Native) Handle[Native] { return Handle[Native]{native: n} }

// NewForeign wraps a foreign implementation of Container.
func NewForeign[Native any](f Container) Handle[Native] { return Handle[Native]{foreign: f} }

// IsForeign reports which arm of the variant is occupied.
func (h Handle[Native]) IsForeign() bool { return h.foreign != nil }

// Native returns the engine-backed instance and true, or (nil, false) if the
// handle wraps a foreign implementation instead.
func (h Handle[Native]) Native() (*Native, bool) {
	if h.foreign != nil {
		return nil, false
	}
	return h.native, true
}

// Foreign returns the foreign implementation and true, or (nil, false) if
// the handle wraps a native instance instead.
func (h Handle[Native]) Foreign() (Container, bool) {
	if h.foreign == nil {
		return nil, false
	}
	return h.foreign, true
}

// Adapter turns a raw foreign object pointer into a Container, for the path
// where a foreign value must be recovered from a bare type-id/pointer pair
// rather than being constructed as a Handle directly (e.g. a value arriving
// through the object runtime's generic Equal/Hash/Describe hooks).
type Adapter func(obj objrt.TypeID, raw uintptr) Container

type classTable struct {
	mu      sync.Mutex
	sealed  atomic.Bool
	classes map[objrt.TypeID]Adapter
}

var globalClasses = &classTable{classes: make(map[objrt.TypeID]Adapter)}

// Register adds a foreign class's adapter. Per spec.md §4.5, the table "is
// populated once at initialization and immutable thereafter": Register
// halts the process if called after the first Resolve (init-time
// registration only; mirrors objrt's own registry discipline).
func Register(typeID objrt.TypeID, adapt Adapter) {
	if globalClasses.sealed.Load() {
		objrt.Halt("bridge: class table registration after seal")
	}
	globalClasses.mu.Lock()
	defer globalClasses.mu.Unlock()
	globalClasses.classes[typeID] = adapt
}

// Resolve looks up the adapter for typeID and, if found, applies it to raw.
// The first call seals the table against further Register calls.
func Resolve(typeID objrt.TypeID, raw uintptr) (Container, bool) {
	globalClasses.sealed.Store(true)
	globalClasses.mu.Lock()
	adapt, ok := globalClasses.classes[typeID]
	globalClasses.mu.Unlock()
	if !ok {
		return nil, false
	}
	return adapt(typeID, raw), true
}
