// Package hashengine implements the single open-addressed hash table that
// backs all three container shapes (dictionary, set, bag) via a flags word
// chosen at creation, mirroring original_source/CFBasicHash.{h,c}. It is the
// 45%-of-budget core component spec.md §2 describes.
package hashengine

// Flags select which shape-specific behavior a Table exhibits. They mirror
// CFBasicHash.h's kCFBasicHash* enum bit-for-bit in meaning (not in bit
// position, which is an implementation detail the original never exposed).
type Flags uint32

const (
	// HasKeys: the keys array is live (dictionary). Unset: keys are aliased
	// to values (set, bag).
	HasKeys Flags = 1 << iota
	// HasCounts: the counts array is live (bag). Unset: every occupied
	// bucket has an implicit count of 1.
	HasCounts
	// The six element-discipline bits below (IntegerKeys through
	// WeakValues) are carried in the flags word and reported by their
	// accessors, but the engine does not read them: retain/release,
	// equality and hashing follow the callback table and its special bits
	// whatever these bits say.

	// IntegerKeys marks keys as unboxed integers.
	IntegerKeys
	// IntegerValues is IntegerKeys' value-side counterpart.
	IntegerValues
	// StrongKeys marks keys as owning references.
	StrongKeys
	// StrongValues is StrongKeys' value-side counterpart.
	StrongValues
	// WeakKeys marks keys as non-owning references.
	WeakKeys
	// WeakValues is WeakKeys' value-side counterpart.
	WeakValues
	// IndirectKeys: a dictionary variant where the key is not stored but
	// derived from the value via Callbacks.GetIndirectKey.
	IndirectKeys
	// AggressiveGrowth lowers the load-factor bound that triggers a rehash
	// (spec.md §4.2 "the aggressive-growth flag lowers the bound").
	AggressiveGrowth
)

// ProbeFamily selects the probe-sequence family at creation time, mirroring
// the three __kCFBasicHash*HashingValue constants.
type ProbeFamily uint8

const (
	// LinearHashing: deterministic linear step of 1.
	LinearHashing ProbeFamily = iota + 1
	// DoubleHashing: a secondary-hash step.
	DoubleHashing
	// ExponentialHashing: capacity schedule of doubling sizes with a linear
	// step.
	ExponentialHashing
)

func (f Flags) has(bit Flags) bool { return f&bit != 0 }

func (f Flags) HasKeys() bool          { return f.has(HasKeys) }
func (f Flags) HasCounts() bool        { return f.has(HasCounts) }
func (f Flags) IntegerKeys() bool      { return f.has(IntegerKeys) }
func (f Flags) IntegerValues() bool    { return f.has(IntegerValues) }
func (f Flags) StrongKeys() bool       { return f.has(StrongKeys) }
func (f Flags) StrongValues() bool     { return f.has(StrongValues) }
func (f Flags) WeakKeys() bool         { return f.has(WeakKeys) }
func (f Flags) WeakValues() bool       { return f.has(WeakValues) }
func (f Flags) IndirectKeys() bool     { return f.has(IndirectKeys) }
func (f Flags) AggressiveGrowth() bool { return f.has(AggressiveGrowth) }
