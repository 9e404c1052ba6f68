package container

import (
	"github.com/Voskan/hashkernel/internal/callback"
	"github.com/Voskan/hashkernel/internal/hashengine"
)

// Bag is a multiset backed by the shared hash engine with HasCounts set:
// each occupied bucket tracks an explicit multiplicity rather than an
// implicit count of 1 (spec.md §3 "Bag").
type Bag struct{ base }

// NewBag creates a mutable, empty Bag.
func NewBag(opts ...Option) (*Bag, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	flags := hashengine.HasCounts
	if cfg.aggressive {
		flags |= hashengine.AggressiveGrowth
	}
	return &Bag{base: newBase("bag", flags, cfg)}, nil
}

// NewImmutableBag builds a Bag from values (repeats create multiplicity)
// and immediately transitions it to immutable (spec.md §4.4
// "create-immutable").
func NewImmutableBag(values []callback.Slot, opts ...Option) (*Bag, error) {
	b, err := NewBag(opts...)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		b.Add(v, v)
	}
	b.MakeImmutable()
	return b, nil
}

// Copy produces an immutable deep structural copy, preserving every
// bucket's multiplicity (spec.md §4.4 "create-copy").
func (b *Bag) Copy() *Bag {
	return &Bag{base: b.cloneAs("bag")}
}

// MutableCopy produces a mutable deep structural copy (spec.md §4.4
// "create-mutable-copy"), preserving every bucket's multiplicity by
// retaining directly out of b rather than routing through an intermediate
// Copy() whose own retained elements would otherwise never be released.
func (b *Bag) MutableCopy() *Bag {
	mc, _ := NewBag(WithCapacityHint(b.Count()))
	b.Apply(func(_, v callback.Slot) bool {
		mc.Add(v, v)
		return true
	})
	return mc
}

// Values returns every member, with repeats matching multiplicity.
func (b *Bag) Values() []callback.Slot { return b.GetValues() }

// AddIntAndIncrement is CFBag's fast bump-or-create-with-count-1 path for
// integer-keyed bags (spec.md §4 supplemented feature
// "CFBasicHashAddIntValueAndInc"); see hashengine.Table.AddIntAndIncrement.
func (b *Bag) AddIntAndIncrement(intValue callback.Slot) bool {
	return b.engine().AddIntAndIncrement(intValue)
}

// RemoveIntAndDecrement mirrors AddIntAndIncrement for removal.
func (b *Bag) RemoveIntAndDecrement(intValue callback.Slot) uintptr {
	return b.engine().RemoveIntAndDecrement(intValue)
}
