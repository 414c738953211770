// Package bench benchmarks generated modules against two independent
// native Wasm engines, so a regression in either the generator's encoding
// or its synthesis shape shows up as an instantiation/validation failure
// here rather than only downstream in a differential-testing harness.
package bench

import (
	"testing"

	"github.com/bytecodealliance/wasmtime-go"
	"github.com/cranerule/wasmgen"
	"github.com/cranerule/wasmgen/internal/wasmtype"
	"github.com/wasmerio/wasmer-go/wasmer"
)

func genModule(b *testing.B, seed int64) *wasmgen.Module {
	b.Helper()
	cfg := wasmgen.NewConfig().
		WithSeed(seed).
		WithMaxDepth(3).
		WithBlacklistTypes(wasmtype.V128, wasmtype.ExternRef, wasmtype.FuncRef)
	gen, err := wasmgen.New(cfg)
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	mod, err := gen.Generate()
	if err != nil {
		b.Fatalf("Generate: %v", err)
	}
	return mod
}

func BenchmarkWasmtimeInstantiate(b *testing.B) {
	mod := genModule(b, 1)

	engine := wasmtime.NewEngine()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store := wasmtime.NewStore(engine)
		m, err := wasmtime.NewModule(engine, mod.Bytes())
		if err != nil {
			b.Fatalf("NewModule: %v", err)
		}
		if _, err := wasmtime.NewInstance(store, m, nil); err != nil {
			b.Fatalf("NewInstance: %v", err)
		}
	}
}

func BenchmarkWasmerInstantiate(b *testing.B) {
	mod := genModule(b, 1)

	engine := wasmer.NewEngine()
	store := wasmer.NewStore(engine)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m, err := wasmer.NewModule(store, mod.Bytes())
		if err != nil {
			b.Fatalf("NewModule: %v", err)
		}
		importObject := wasmer.NewImportObject()
		if _, err := wasmer.NewInstance(m, importObject); err != nil {
			b.Fatalf("NewInstance: %v", err)
		}
	}
}

// BenchmarkGenerate isolates synthesis cost from either engine, so a slow
// benchmark run can tell apart "the generator got slower" from "the
// engine's instantiation path got slower".
func BenchmarkGenerate(b *testing.B) {
	cfg := wasmgen.NewConfig().WithMaxDepth(3)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gen, err := wasmgen.New(cfg.WithSeed(int64(i)))
		if err != nil {
			b.Fatalf("New: %v", err)
		}
		if _, err := gen.Generate(); err != nil {
			b.Fatalf("Generate: %v", err)
		}
	}
}
