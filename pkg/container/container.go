// Package container implements the three public shapes spec.md §4.4
// describes -- Dictionary, Set, Bag -- as thin, shape-specific surfaces over
// the single internal/hashengine.Table engine. Each façade validates
// arguments, consults internal/bridge for a foreign implementation, and
// otherwise forwards straight to the engine, exactly as spec.md §2's data
// flow diagram describes.
package container

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/Voskan/hashkernel/internal/bridge"
	"github.com/Voskan/hashkernel/internal/callback"
	"github.com/Voskan/hashkernel/internal/hashengine"
	"github.com/Voskan/hashkernel/internal/objrt"
)

// base holds what every shape shares: the tagged native/foreign handle, the
// metrics sink and logger threaded through from Option, and the shape name
// used to label metrics and the debug description.
type base struct {
	shape   string
	handle  bridge.Handle[hashengine.Table]
	metrics metricsSink
	logger  *zap.Logger
}

// newBase constructs the engine table and wraps it as a native bridge
// handle. flags must already include hashengine.AggressiveGrowth if
// cfg.aggressive was set -- callers fold that in before calling here, since
// it is a creation-time bit of the flags word, not a post-hoc option.
func newBase(shape string, flags hashengine.Flags, cfg *config) base {
	if cfg.logger != nil {
		// objrt's halt/immutable-violation logger is process-wide (spec.md
		// §5): a per-container WithLogger option installs it globally
		// rather than threading a logger through the engine itself, which
		// logs only through objrt.Logger().
		objrt.SetLogger(cfg.logger)
	}
	t := hashengine.New(flags, cfg.family, cfg.callbacks, cfg.capacityHint)
	b := base{
		shape:   shape,
		handle:  bridge.NewNative[hashengine.Table](t),
		metrics: newMetricsSink(cfg.registry),
		logger:  cfg.logger,
	}
	b.metrics.setCapacity(shape, t.Capacity())
	return b
}

// engine returns the native engine table, halting with a clear message if
// this handle actually wraps a foreign implementation -- every exported
// method below checks IsForeign first and never reaches here in that case.
func (b *base) engine() *hashengine.Table {
	t, ok := b.handle.Native()
	if !ok {
		panic("hashkernel: engine() called on a foreign-backed container")
	}
	return t
}

// Count returns the number of logical elements (sum of bag multiplicities,
// or simple occupancy for dictionary/set) (spec.md §4.4 "count").
func (b *base) Count() int {
	if f, ok := b.handle.Foreign(); ok {
		return f.Count()
	}
	return b.engine().Count()
}

// Capacity returns the current bucket capacity, 0 for a foreign-backed
// container (the capability interface has no analogous accessor).
func (b *base) Capacity() int {
	t, ok := b.handle.Native()
	if !ok {
		return 0
	}
	return t.Capacity()
}

// SizeBytes reports the engine's byte footprint (spec.md §4 supplemented
// feature "CFBasicHashGetSize equivalent"), 0 for a foreign-backed
// container.
func (b *base) SizeBytes(total bool) int {
	t, ok := b.handle.Native()
	if !ok {
		return 0
	}
	return t.Size(total)
}

// CountOfKey returns key's multiplicity, 0 if absent (spec.md §4.4
// "count-of-key").
func (b *base) CountOfKey(key callback.Slot) uintptr {
	if f, ok := b.handle.Foreign(); ok {
		return f.CountOfKey(key)
	}
	return b.engine().CountOfKey(key)
}

// CountOfValue returns how many elements hold a value equating to value:
// each matching bucket adds its multiplicity for a bag, and 1 otherwise
// (spec.md §4.4 "count-of-value").
func (b *base) CountOfValue(value callback.Slot) int {
	if f, ok := b.handle.Foreign(); ok {
		return f.CountOfValue(value)
	}
	return b.engine().CountOfValue(value)
}

// Contains reports whether key is present (spec.md §4.4 "contains").
func (b *base) Contains(key callback.Slot) bool {
	var found bool
	if f, ok := b.handle.Foreign(); ok {
		_, found = f.Find(key)
	} else {
		found = b.engine().Find(key).Found
	}
	b.metrics.incFind(b.shape, found)
	return found
}

// GetValueIfPresent returns the stored value for key and whether it was
// found (spec.md §4.4 "get-value-if-present").
func (b *base) GetValueIfPresent(key callback.Slot) (callback.Slot, bool) {
	var value callback.Slot
	var found bool
	if f, ok := b.handle.Foreign(); ok {
		value, found = f.Find(key)
	} else {
		res := b.engine().Find(key)
		value, found = res.Value, res.Found
	}
	b.metrics.incFind(b.shape, found)
	return value, found
}

// GetValue returns the stored value for key, or 0 if absent (spec.md §4.4
// "get-value").
func (b *base) GetValue(key callback.Slot) callback.Slot {
	v, _ := b.GetValueIfPresent(key)
	return v
}

// Add stores key/value if key is absent; see hashengine.Table.Add for the
// present-key behavior per shape (spec.md §4.4 "add").
func (b *base) Add(key, value callback.Slot) bool {
	var inserted bool
	if f, ok := b.handle.Foreign(); ok {
		inserted = f.Add(key, value)
	} else {
		before := b.engine().Capacity()
		inserted = b.engine().Add(key, value)
		if after := b.engine().Capacity(); after != before {
			b.metrics.incRehash(b.shape)
			b.metrics.setCapacity(b.shape, after)
		}
	}
	if inserted {
		b.metrics.incAdd(b.shape)
	}
	return inserted
}

// Set inserts or replaces (spec.md §4.4 "set").
func (b *base) Set(key, value callback.Slot) {
	if f, ok := b.handle.Foreign(); ok {
		f.Set(key, value)
		return
	}
	b.engine().Set(key, value)
	b.metrics.setCapacity(b.shape, b.engine().Capacity())
}

// Replace replaces only if key is already present (spec.md §4.4 "replace").
func (b *base) Replace(key, value callback.Slot) {
	if f, ok := b.handle.Foreign(); ok {
		f.Replace(key, value)
		return
	}
	b.engine().Replace(key, value)
}

// Remove evicts/decrements key, returning the prior count (spec.md §4.4
// "remove").
func (b *base) Remove(key callback.Slot) uintptr {
	var prior uintptr
	if f, ok := b.handle.Foreign(); ok {
		prior = f.Remove(key)
	} else {
		prior = b.engine().Remove(key)
	}
	if prior > 0 {
		b.metrics.incRemove(b.shape)
	}
	return prior
}

// RemoveAll empties the container (spec.md §4.4 "remove-all").
func (b *base) RemoveAll() {
	if f, ok := b.handle.Foreign(); ok {
		f.RemoveAll()
		return
	}
	b.engine().RemoveAll()
}

// Apply enumerates every element; fn returning false stops enumeration
// early (spec.md §4.4 "apply").
func (b *base) Apply(fn func(key, value callback.Slot) bool) {
	if f, ok := b.handle.Foreign(); ok {
		f.Apply(fn)
		return
	}
	b.engine().Apply(func(bucket hashengine.Bucket) bool {
		return fn(bucket.Key, bucket.Value)
	})
}

// GetValues returns every stored value, in enumeration order (spec.md §4.4
// "get-values").
func (b *base) GetValues() []callback.Slot {
	out := make([]callback.Slot, 0, b.Count())
	b.Apply(func(_, v callback.Slot) bool {
		out = append(out, v)
		return true
	})
	return out
}

// GetKeysAndValues returns parallel key/value slices in enumeration order
// (spec.md §4.4 "get-keys-and-values").
func (b *base) GetKeysAndValues() (keys, values []callback.Slot) {
	n := b.Count()
	keys = make([]callback.Slot, 0, n)
	values = make([]callback.Slot, 0, n)
	b.Apply(func(k, v callback.Slot) bool {
		keys = append(keys, k)
		values = append(values, v)
		return true
	})
	return keys, values
}

// cloneAs builds a new base wrapping an immutable structural copy of the
// native engine table, sharing this base's metrics sink and logger (spec.md
// §4.4 "create-copy"). Panics if called on a foreign-backed container --
// none of the three façades expose Copy() in that case today.
func (b *base) cloneAs(shape string) base {
	copied := b.engine().Copy()
	nb := base{
		shape:   shape,
		handle:  bridge.NewNative[hashengine.Table](copied),
		metrics: b.metrics,
		logger:  b.logger,
	}
	nb.metrics.setCapacity(shape, copied.Capacity())
	return nb
}

// MakeImmutable transitions the container to read-only (spec.md §4.2
// "Make-immutable"); thereafter it is safe to share across goroutines
// without synchronization (spec.md §5).
func (b *base) MakeImmutable() {
	if t, ok := b.handle.Native(); ok {
		t.MakeImmutable()
	}
}

// String renders a one-line debug description in the style
// CFBasicHashCopyDescription produces, e.g.
// "HashKernelDictionary<3 entries, capacity 7>" (spec.md §4 supplemented
// feature "CopyDescription-equivalent").
func (b *base) String() string {
	count := b.Count()
	capacity := 0
	if t, ok := b.handle.Native(); ok {
		capacity = t.Capacity()
	}
	return fmt.Sprintf("HashKernel%s<%s entries, capacity %d>",
		capitalize(b.shape), humanize.Comma(int64(count)), capacity)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
