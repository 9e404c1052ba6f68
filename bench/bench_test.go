// Package bench provides reproducible micro-benchmarks for hashkernel.
// Run via:  go test ./bench -bench=. -benchmem -cpu 1,4,16
//
// The benchmarks intentionally use a single key shape so results are
// comparable across versions: a uint64 key is both the Slot value and the
// thing being hashed, via the null-callback path (no WithCallbacks option:
// identity hash and equality, no retain) -- no boxing, no pointer chasing.
//
// We measure:
//  1. DictionaryAdd   -- write-only workload, growing from empty
//  2. DictionarySet   -- write-only workload, growing from empty
//  3. DictionaryGet   -- read-only workload (after warm-up)
//  4. SetAdd          -- write-only workload, growing from empty
//  5. BagAdd          -- write-only workload with multiplicity tracking
//
// Results are printed in ns/op + alloc/op so CI can diff via benchstat.
//
// NOTE: Unit tests live in pkg/container; this file is only for performance.
//
// © 2025 hashkernel authors. MIT License.

package bench

import (
	"math/rand"
	"testing"

	"github.com/Voskan/hashkernel/internal/callback"
	"github.com/Voskan/hashkernel/pkg/container"
)

const keys = 1 << 16 // 64k keys for dataset

// ds is the global dataset reused across benches to avoid reallocating large
// slices. Keys are plain uintptrs: the hash kernel hashes and
// compares them directly, with no indirection.
var ds = func() []callback.Slot {
	arr := make([]callback.Slot, keys)
	for i := range arr {
		arr[i] = callback.Slot(rand.Uint64())
	}
	return arr
}()

func newDictionary(b *testing.B) *container.Dictionary {
	b.Helper()
	d, err := container.NewDictionary(container.WithCapacityHint(keys))
	if err != nil {
		b.Fatalf("dictionary init: %v", err)
	}
	return d
}

func BenchmarkDictionaryAdd(b *testing.B) {
	d := newDictionary(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := ds[i&(keys-1)]
		d.Add(k, k)
	}
}

func BenchmarkDictionarySet(b *testing.B) {
	d := newDictionary(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := ds[i&(keys-1)]
		d.Set(k, k)
	}
}

func BenchmarkDictionaryGet(b *testing.B) {
	d := newDictionary(b)
	for _, k := range ds {
		d.Set(k, k)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := ds[i&(keys-1)]
		_, _ = d.GetIfPresent(k)
	}
}

func BenchmarkDictionaryGetParallel(b *testing.B) {
	d := newDictionary(b)
	for _, k := range ds {
		d.Set(k, k)
	}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		idx := rand.Intn(keys)
		for pb.Next() {
			idx = (idx + 1) & (keys - 1)
			_, _ = d.GetIfPresent(ds[idx])
		}
	})
}

func BenchmarkSetAdd(b *testing.B) {
	s, err := container.NewSet(container.WithCapacityHint(keys))
	if err != nil {
		b.Fatalf("set init: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := ds[i&(keys-1)]
		s.Add(k, k)
	}
}

func BenchmarkBagAdd(b *testing.B) {
	bag, err := container.NewBag(container.WithCapacityHint(keys))
	if err != nil {
		b.Fatalf("bag init: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := ds[i&(keys-1)]
		bag.AddIntAndIncrement(k)
	}
}
