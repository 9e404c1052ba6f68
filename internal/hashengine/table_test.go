package hashengine

import "testing"

// TestDictionaryShapeAddFindRemove exercises spec.md §4.2's Add/Find/Remove
// directly against the engine (HasKeys set), independent of any façade.
func TestDictionaryShapeAddFindRemove(t *testing.T) {
	tb := New(HasKeys, LinearHashing, nil, 0)

	if introduced := tb.Add(1, 100); !introduced {
		t.Fatal("Add on an absent key should report a new key introduced")
	}
	if introduced := tb.Add(1, 999); introduced {
		t.Fatal("Add on a present dictionary key must be a no-op, not report new")
	}
	b := tb.Find(1)
	if !b.Found || b.Value != 100 {
		t.Fatalf("Find(1) = %+v, want Value=100 (Add must not overwrite)", b)
	}

	tb.Set(1, 7)
	b = tb.Find(1)
	if b.Value != 7 {
		t.Fatalf("after Set(1,7), Find(1).Value = %d, want 7", b.Value)
	}

	if prior := tb.Remove(1); prior != 1 {
		t.Fatalf("Remove(1) prior = %d, want 1", prior)
	}
	if b := tb.Find(1); b.Found {
		t.Fatal("key found after Remove")
	}
	if prior := tb.Remove(1); prior != 0 {
		t.Fatalf("Remove on an absent key returned prior=%d, want 0", prior)
	}
}

// TestSetShapeDedup exercises the set shape (no HasKeys, no HasCounts):
// Add is idempotent and Count tracks unique elements only.
func TestSetShapeDedup(t *testing.T) {
	tb := New(0, LinearHashing, nil, 0)
	tb.Add(42, 42)
	tb.Add(42, 42)
	tb.Add(7, 7)

	if got := tb.Count(); got != 2 {
		t.Fatalf("Count = %d, want 2", got)
	}
	if !tb.Find(42).Found {
		t.Fatal("Find(42) should report found")
	}
}

// TestBagShapeCounts exercises the bag shape: Add increments multiplicity,
// Remove decrements until eviction (spec.md §4.2 "Remove(key)").
func TestBagShapeCounts(t *testing.T) {
	tb := New(HasCounts, LinearHashing, nil, 0)
	tb.Add(9, 9)
	tb.Add(9, 9)
	tb.Add(9, 9)

	if got := tb.CountOfKey(9); got != 3 {
		t.Fatalf("CountOfKey(9) = %d, want 3", got)
	}
	if got := tb.Count(); got != 3 {
		t.Fatalf("Count = %d, want 3 (sum of multiplicities)", got)
	}
	if prior := tb.Remove(9); prior != 3 {
		t.Fatalf("Remove prior = %d, want 3", prior)
	}
	if got := tb.CountOfKey(9); got != 2 {
		t.Fatalf("CountOfKey(9) after one Remove = %d, want 2", got)
	}
}

// TestReplaceIsNoOpWhenAbsent is spec.md §4.2's "Replace": "If absent,
// no-op".
func TestReplaceIsNoOpWhenAbsent(t *testing.T) {
	tb := New(HasKeys, LinearHashing, nil, 0)
	tb.Replace(1, 100)
	if tb.Find(1).Found {
		t.Fatal("Replace on an absent key must not insert")
	}
	tb.Add(1, 1)
	tb.Replace(1, 55)
	if got := tb.Find(1).Value; got != 55 {
		t.Fatalf("Replace on a present key = %d, want 55", got)
	}
}

// TestGrowthAcrossScheduleBoundary is spec.md §8 scenario 4: start with a
// tiny capacity hint, insert far past it, verify every key survives with no
// duplication and the reported capacity actually grew.
func TestGrowthAcrossScheduleBoundary(t *testing.T) {
	tb := New(HasKeys, LinearHashing, nil, 4)
	startCap := tb.Capacity()

	const n = 100
	for i := uintptr(1); i <= n; i++ {
		tb.Set(i, i*10)
	}
	if got := tb.Count(); got != n {
		t.Fatalf("Count = %d, want %d", got, n)
	}
	if tb.Capacity() <= startCap {
		t.Fatalf("capacity did not grow past the initial hint: start=%d now=%d", startCap, tb.Capacity())
	}
	for i := uintptr(1); i <= n; i++ {
		b := tb.Find(i)
		if !b.Found || b.Value != i*10 {
			t.Fatalf("Find(%d) = %+v, want Value=%d", i, b, i*10)
		}
	}
}

// TestMakeImmutableRejectsMutation is spec.md §7's immutable-violation rule
// applied directly at the engine layer.
func TestMakeImmutableRejectsMutation(t *testing.T) {
	tb := New(HasKeys, LinearHashing, nil, 0)
	tb.Set(1, 1)
	tb.MakeImmutable()

	tb.Set(1, 2)
	tb.Add(2, 2)
	tb.Remove(1)

	if got := tb.Count(); got != 1 {
		t.Fatalf("Count after mutating an immutable table = %d, want 1", got)
	}
	if got := tb.Find(1).Value; got != 1 {
		t.Fatalf("Find(1).Value after mutating an immutable table = %d, want 1 (unchanged)", got)
	}
}

// TestCopyPreservesBagMultiplicities is spec.md §4.2 "Copy": a structural
// copy must mirror bag counts exactly, not flatten them to 1.
func TestCopyPreservesBagMultiplicities(t *testing.T) {
	tb := New(HasCounts, LinearHashing, nil, 0)
	tb.Add(5, 5)
	tb.Add(5, 5)
	tb.Add(5, 5)

	cp := tb.Copy()
	if !cp.IsImmutable() {
		t.Fatal("Copy() must produce an immutable table")
	}
	if got := cp.CountOfKey(5); got != 3 {
		t.Fatalf("copy CountOfKey(5) = %d, want 3", got)
	}

	tb.Remove(5)
	if got := cp.CountOfKey(5); got != 3 {
		t.Fatalf("copy CountOfKey(5) after mutating source = %d, want 3 (unaffected)", got)
	}
}

// TestApplyStopsEarlyOnFalse checks Apply's early-exit contract.
func TestApplyStopsEarlyOnFalse(t *testing.T) {
	tb := New(HasKeys, LinearHashing, nil, 0)
	for i := uintptr(1); i <= 10; i++ {
		tb.Set(i, i)
	}
	seen := 0
	tb.Apply(func(Bucket) bool {
		seen++
		return seen < 3
	})
	if seen != 3 {
		t.Fatalf("Apply invoked fn %d times after an early false, want exactly 3", seen)
	}
}

// TestDoubleHashingProbeFamilyFindsAllKeys exercises the DoubleHashing probe
// family end to end (spec.md §4.2 "a secondary-hash step").
func TestDoubleHashingProbeFamilyFindsAllKeys(t *testing.T) {
	tb := New(HasKeys, DoubleHashing, nil, 8)
	const n = 200
	for i := uintptr(1); i <= n; i++ {
		tb.Set(i, i)
	}
	for i := uintptr(1); i <= n; i++ {
		if !tb.Find(i).Found {
			t.Fatalf("key %d missing under double hashing", i)
		}
	}
}
