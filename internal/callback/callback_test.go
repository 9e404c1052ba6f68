package callback

import "testing"

func TestResolveNilTableTakesFastPath(t *testing.T) {
	tbl, bits := Resolve(nil)
	if tbl != Standard {
		t.Fatalf("nil table did not resolve to Standard")
	}
	if bits != allNullBits() {
		t.Fatalf("nil table special bits = %v, want all-null", bits)
	}
}

func TestResolveStandardFieldsTakesFastPath(t *testing.T) {
	user := &Table{
		RetainKey: Standard.RetainKey,
		HashKey:   Standard.HashKey,
	}
	tbl, bits := Resolve(user)
	if tbl != Standard {
		t.Fatalf("table matching Standard fields did not fast-path")
	}
	if bits&BitRetainKeyNull != 0 {
		t.Fatalf("RetainKey was supplied, should not be marked null")
	}
	if bits&BitReleaseKeyNull == 0 {
		t.Fatalf("ReleaseKey was absent, should be marked null")
	}
}

func TestResolveCustomCallbackTakesSlowPath(t *testing.T) {
	called := false
	user := &Table{
		EquateKeys: func(a, b Slot) bool { called = true; return a == b },
	}
	tbl, bits := Resolve(user)
	if tbl == Standard {
		t.Fatalf("custom EquateKeys should not fast-path")
	}
	if bits != 0 {
		t.Fatalf("slow path should report zero special bits, got %v", bits)
	}
	tbl.EquateKeys(1, 1)
	if !called {
		t.Fatalf("resolved table lost the custom EquateKeys callback")
	}
}

func TestIdentityFallbackWhenNoCallbacks(t *testing.T) {
	var tbl *Table
	if !tbl.EquateKeys(5, 5) {
		t.Fatalf("nil table should compare keys by identity")
	}
	if tbl.HashKey(7) != 7 {
		t.Fatalf("nil table should hash keys by identity")
	}
	if tbl.RetainKey(9) != 9 {
		t.Fatalf("nil table retain should be a pass-through")
	}
}
