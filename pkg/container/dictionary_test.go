package container

import (
	"sort"
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

// TestDictionaryAddThenSetSemantics exercises spec.md §8 scenario 1: under
// Set semantics the last write wins; Add alone would have left "a" at 1.
func TestDictionaryAddThenSetSemantics(t *testing.T) {
	d, err := NewDictionary()
	if err != nil {
		t.Fatalf("NewDictionary: %v", err)
	}
	d.Set(1, 1) // k="a", v=1
	d.Set(2, 2) // k="b", v=2
	d.Set(1, 3) // k="a", v=3 -- overwrite

	if got := d.Count(); got != 2 {
		t.Fatalf("Count = %d, want 2", got)
	}
	if got := d.Get(1); got != 3 {
		t.Fatalf("Get(\"a\") = %d, want 3", got)
	}
	keys, _ := d.GetKeysAndValues()
	seen := map[uintptr]bool{}
	for _, k := range keys {
		seen[k] = true
	}
	if !seen[1] || !seen[2] || len(seen) != 2 {
		t.Fatalf("key set = %v, want {1,2}", keys)
	}
}

// TestDictionaryAddIsNoOpWhenPresent checks the Add-no-op branch spec.md §4.2
// describes for the dictionary/set shape (as opposed to Set's overwrite).
func TestDictionaryAddIsNoOpWhenPresent(t *testing.T) {
	d, _ := NewDictionary()
	d.Add(1, 10)
	introduced := d.Add(1, 99)
	if introduced {
		t.Fatal("Add on an existing key should report no new key introduced")
	}
	if got := d.Get(1); got != 10 {
		t.Fatalf("Get(1) = %d, want 10 (Add must not overwrite)", got)
	}
}

// TestDictionaryGrowthPreservesAllEntries is spec.md §8 scenario 4: start
// small, insert far past the initial capacity, verify every key survives.
func TestDictionaryGrowthPreservesAllEntries(t *testing.T) {
	d, _ := NewDictionary(WithCapacityHint(4))
	for i := uintptr(1); i <= 100; i++ {
		d.Set(i, i*10)
	}
	if got := d.Count(); got != 100 {
		t.Fatalf("Count = %d, want 100", got)
	}
	for i := uintptr(1); i <= 100; i++ {
		if got := d.Get(i); got != i*10 {
			t.Fatalf("Get(%d) = %d, want %d", i, got, i*10)
		}
	}
}

// TestDictionaryCopyIsIndependentOfSource is spec.md §8 scenario 5 and
// invariant 5: a copy keeps every entry even after the source is mutated.
func TestDictionaryCopyIsIndependentOfSource(t *testing.T) {
	d, _ := NewDictionary()
	const n = 1000
	for i := uintptr(0); i < n; i++ {
		d.Set(i, i+1)
	}
	snapshot := d.Copy()

	for i := uintptr(0); i < n/2; i++ {
		d.Remove(i)
	}
	if got := d.Count(); got != n/2 {
		t.Fatalf("source Count after removing half = %d, want %d", got, n/2)
	}
	if got := snapshot.Count(); got != n {
		t.Fatalf("copy Count = %d, want %d (copy must be unaffected)", got, n)
	}
	for i := uintptr(0); i < n; i++ {
		if got := snapshot.CountOfKey(i); got != 1 {
			t.Fatalf("copy CountOfKey(%d) = %d, want 1", i, got)
		}
	}

	wantKeys := make([]uintptr, n)
	for i := range wantKeys {
		wantKeys[i] = uintptr(i)
	}
	gotKeys, _ := snapshot.GetKeysAndValues()
	sort.Slice(gotKeys, func(i, j int) bool { return gotKeys[i] < gotKeys[j] })
	if diff := pretty.Compare(wantKeys, gotKeys); diff != "" {
		t.Fatalf("copy key set diff (-want +got):\n%s", diff)
	}
}

// TestDictionaryMakeImmutableRejectsMutation is spec.md §8 invariant 6 and
// §7's immutable-violation rule: mutation after MakeImmutable is a no-op.
func TestDictionaryMakeImmutableRejectsMutation(t *testing.T) {
	d, _ := NewDictionary()
	d.Set(1, 1)
	d.MakeImmutable()

	d.Set(1, 2)
	d.Set(2, 2)
	d.Remove(1)

	if got := d.Count(); got != 1 {
		t.Fatalf("Count after mutating an immutable dictionary = %d, want 1", got)
	}
	if got := d.Get(1); got != 1 {
		t.Fatalf("Get(1) after mutating an immutable dictionary = %d, want 1 (unchanged)", got)
	}
}

// TestDictionaryRemoveIsLeftInverseOfAdd is spec.md §8 invariant 3.
func TestDictionaryRemoveIsLeftInverseOfAdd(t *testing.T) {
	d, _ := NewDictionary()
	d.Add(5, 50)
	d.Remove(5)
	if got := d.CountOfKey(5); got != 0 {
		t.Fatalf("CountOfKey(5) after Add+Remove = %d, want 0", got)
	}
	if got := d.Count(); got != 0 {
		t.Fatalf("Count after Add+Remove = %d, want 0", got)
	}
}
