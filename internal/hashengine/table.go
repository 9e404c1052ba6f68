package hashengine

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/Voskan/hashkernel/internal/callback"
	"github.com/Voskan/hashkernel/internal/objrt"
)

type bucketState uint8

const (
	bucketEmpty bucketState = iota
	bucketDeleted
	bucketOccupied
)

// TypeID is registered once, in init(), for every Table instance regardless
// of shape: the dictionary/set/bag distinction lives entirely in Flags, not
// in separate objrt types, mirroring CFBasicHash being the single engine
// behind CFDictionary/CFSet/CFBag (spec.md §2 "Data flow").
var TypeID objrt.TypeID

func init() {
	TypeID = objrt.Register(&objrt.TypeDescriptor{
		Name:             "BasicHash",
		Version:          objrt.VersionResourceful,
		ReclaimResources: func(obj unsafe.Pointer) {},
	})
}

// Table is the single engine serving all three public shapes. Its object
// header (embedded first, per objrt's WithHeader convention) carries the
// engine's type-id (shared by all shapes) and the mutable/immutable bit; everything else is the
// bucket storage spec.md §3 "Hash table" describes.
type Table struct {
	objrt.Header

	// No lock: per spec.md §5 a live mutable Table is owned by a single
	// mutator thread; immutable Tables are read-only and therefore safe to
	// share without synchronization once MakeImmutable has run.

	flags       Flags
	family      ProbeFamily
	specialBits callback.SpecialBits
	cb          *callback.Table

	keys   []callback.Slot // live only when flags.HasKeys()
	values []callback.Slot // always live; IS the key array for set/bag shapes
	counts []uintptr       // live only when flags.HasCounts()
	states []bucketState

	count int // sum of counts over occupied buckets == external element count
}

// New creates a mutable Table. capacityHint of 0 means "use the smallest
// schedule entry", matching spec.md §6 "Mutable constructors accept a
// capacity hint (zero means default)."
func New(flags Flags, family ProbeFamily, userCallbacks *callback.Table, capacityHint int) *Table {
	if family == 0 {
		family = LinearHashing
	}
	t := objrt.Create[Table](TypeID, true)
	t.flags = flags
	t.family = family
	t.cb, t.specialBits = callback.Resolve(userCallbacks)
	t.growTo(capacityAtLeast(family, capacityHint))
	return t
}

func (t *Table) Flags() Flags                     { return t.flags }
func (t *Table) Callbacks() *callback.Table        { return t.cb }
func (t *Table) SpecialBits() callback.SpecialBits { return t.specialBits }
func (t *Table) Capacity() int                     { return len(t.states) }
func (t *Table) Count() int                        { return t.count }

// Size reports the table's byte footprint; total additionally includes the
// callback context area, matching CFBasicHashGetSize(ht, total).
func (t *Table) Size(total bool) int {
	const wordSize = int(8)
	n := len(t.states)*1 + n3Arrays(t)*wordSize
	if total && t.cb != nil {
		n += len(t.cb.Context) * wordSize
	}
	return n
}

func n3Arrays(t *Table) int {
	count := len(t.values)
	if t.flags.HasKeys() {
		count += len(t.keys)
	}
	if t.flags.HasCounts() {
		count += len(t.counts)
	}
	return count
}

// ensureMutable enforces spec.md §7's immutable-violation semantics: log a
// warning, then leave the table untouched. It returns false when the caller
// must stop (table is immutable).
func (t *Table) ensureMutable(op string) bool {
	if !t.IsImmutable() {
		return true
	}
	objrt.Logger().Warn("hashkernel: mutating operation on immutable table ignored",
		zap.String("op", op))
	return false
}
