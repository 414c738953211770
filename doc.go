// Package wasmgen synthesizes type-correct WebAssembly modules from a
// library of typed rewrite rules, for differential testing of Wasm
// engines: the same generated module, run under several engines or
// wrapped in the same JS harness, should behave identically everywhere a
// spec-compliant engine is expected to agree.
//
// A Generator owns one rule Store and one randomness Source; each call to
// Generate produces one complete, independently valid module:
//
//	gen, err := wasmgen.New(wasmgen.NewConfig().WithSeed(42))
//	if err != nil {
//		// ...
//	}
//	mod, err := gen.Generate()
//	if err != nil {
//		// ...
//	}
//	bytes := mod.Bytes()
package wasmgen
