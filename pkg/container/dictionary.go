package container

import (
	"github.com/Voskan/hashkernel/internal/callback"
	"github.com/Voskan/hashkernel/internal/hashengine"
)

// Dictionary is a key->value mapping backed by the shared hash engine with
// HasKeys set: keys and values live in separate arrays, and CountOfKey is
// always 0 or 1 (spec.md §3 "Dictionary").
type Dictionary struct{ base }

// NewDictionary creates a mutable, empty Dictionary.
func NewDictionary(opts ...Option) (*Dictionary, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	flags := hashengine.HasKeys
	if cfg.aggressive {
		flags |= hashengine.AggressiveGrowth
	}
	return &Dictionary{base: newBase("dictionary", flags, cfg)}, nil
}

// NewImmutableDictionary builds a Dictionary from parallel key/value slices
// and immediately transitions it to immutable (spec.md §4.4
// "create-immutable").
func NewImmutableDictionary(keys, values []callback.Slot, opts ...Option) (*Dictionary, error) {
	d, err := NewDictionary(opts...)
	if err != nil {
		return nil, err
	}
	n := len(keys)
	if len(values) < n {
		n = len(values)
	}
	for i := 0; i < n; i++ {
		d.Set(keys[i], values[i])
	}
	d.MakeImmutable()
	return d, nil
}

// Copy produces an immutable deep structural copy (spec.md §4.4
// "create-copy").
func (d *Dictionary) Copy() *Dictionary {
	return &Dictionary{base: d.cloneAs("dictionary")}
}

// MutableCopy produces a mutable deep structural copy (spec.md §4.4
// "create-mutable-copy"). The engine's Copy() always yields an immutable
// table (spec.md §4.2 "Copy") and Header.MakeImmutable is one-way, so this
// builds a fresh mutable table by retaining directly out of d rather than
// routing through an intermediate Copy() whose own retained elements would
// otherwise never be released.
func (d *Dictionary) MutableCopy() *Dictionary {
	keys, values := d.GetKeysAndValues()
	mc, _ := NewDictionary(WithCapacityHint(len(keys)))
	for i := range keys {
		mc.Set(keys[i], values[i])
	}
	return mc
}

// Get returns the value for key, or 0 if absent.
func (d *Dictionary) Get(key callback.Slot) callback.Slot { return d.GetValue(key) }

// GetIfPresent returns the value for key and whether it was found.
func (d *Dictionary) GetIfPresent(key callback.Slot) (callback.Slot, bool) {
	return d.GetValueIfPresent(key)
}
