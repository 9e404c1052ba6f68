package container

import (
	"github.com/Voskan/hashkernel/internal/callback"
	"github.com/Voskan/hashkernel/internal/hashengine"
)

// Set is a collection of unique elements backed by the shared hash engine
// with neither HasKeys nor HasCounts set: the value array doubles as the
// key array, and every occupied bucket has an implicit count of 1 (spec.md
// §3 "Set").
type Set struct{ base }

// NewSet creates a mutable, empty Set.
func NewSet(opts ...Option) (*Set, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	var flags hashengine.Flags
	if cfg.aggressive {
		flags |= hashengine.AggressiveGrowth
	}
	return &Set{base: newBase("set", flags, cfg)}, nil
}

// NewImmutableSet builds a Set from values and immediately transitions it
// to immutable (spec.md §4.4 "create-immutable").
func NewImmutableSet(values []callback.Slot, opts ...Option) (*Set, error) {
	s, err := NewSet(opts...)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		s.Add(v, v)
	}
	s.MakeImmutable()
	return s, nil
}

// Copy produces an immutable deep structural copy (spec.md §4.4
// "create-copy").
func (s *Set) Copy() *Set {
	return &Set{base: s.cloneAs("set")}
}

// MutableCopy produces a mutable deep structural copy (spec.md §4.4
// "create-mutable-copy"), retaining directly out of s rather than routing
// through an intermediate Copy() whose own retained elements would
// otherwise never be released.
func (s *Set) MutableCopy() *Set {
	values := s.GetValues()
	mc, _ := NewSet(WithCapacityHint(len(values)))
	for _, v := range values {
		mc.Add(v, v)
	}
	return mc
}

// Values returns every member, in enumeration order.
func (s *Set) Values() []callback.Slot { return s.GetValues() }
