package wasmtype

import "testing"

func TestAtomicOpcodes_AlignForcedToMax(t *testing.T) {
	cases := map[string]uint32{
		"i32.atomic.load":          2,
		"i32.atomic.load8_u":       0,
		"i32.atomic.load16_u":      1,
		"i64.atomic.load":          3,
		"i64.atomic.rmw32.add_u":   2,
		"i64.atomic.rmw8.cmpxchg_u": 0,
	}
	for name, want := range cases {
		got := MemArgAlign[name]
		if len(got) != 1 || got[0] != want {
			t.Fatalf("%s: align candidates = %v, want [%d]", name, got, want)
		}
	}
}

func TestAtomicOpcodes_RegisteredWithCorrectShape(t *testing.T) {
	info, ok := Table["i32.atomic.rmw.cmpxchg"]
	if !ok {
		t.Fatal("i32.atomic.rmw.cmpxchg not registered")
	}
	if len(info.Inputs) != 3 || len(info.Outputs) != 1 {
		t.Fatalf("i32.atomic.rmw.cmpxchg shape = %+v", info)
	}

	store, ok := Table["i64.atomic.store32"]
	if !ok {
		t.Fatal("i64.atomic.store32 not registered")
	}
	if len(store.Inputs) != 2 || len(store.Outputs) != 0 {
		t.Fatalf("i64.atomic.store32 shape = %+v", store)
	}
}
