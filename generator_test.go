package wasmgen

import (
	"strings"
	"testing"

	"github.com/cranerule/wasmgen/internal/wasmtype"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsFullyBlacklistedTypes(t *testing.T) {
	cfg := NewConfig().WithBlacklistTypes(wasmtype.AllValueTypes...)
	_, err := New(cfg)
	require.Error(t, err)
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestNew_RejectsZeroMemoryPages(t *testing.T) {
	cfg := NewConfig().WithMemoryPages(0)
	_, err := New(cfg)
	require.Error(t, err)
}

func TestGenerate_ProducesValidWasmMagicHeader(t *testing.T) {
	gen, err := New(NewConfig().WithSeed(7))
	require.NoError(t, err)

	mod, err := gen.Generate()
	require.NoError(t, err)

	b := mod.Bytes()
	require.GreaterOrEqual(t, len(b), 8)
	require.Equal(t, []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}, b[:8])
}

func TestGenerate_SameSeedReproducesSameModule(t *testing.T) {
	gen1, err := New(NewConfig().WithSeed(42))
	require.NoError(t, err)
	mod1, err := gen1.Generate()
	require.NoError(t, err)

	gen2, err := New(NewConfig().WithSeed(42))
	require.NoError(t, err)
	mod2, err := gen2.Generate()
	require.NoError(t, err)

	require.Equal(t, mod1.Bytes(), mod2.Bytes())
}

func TestModule_RawMatchesBytes(t *testing.T) {
	gen, err := New(NewConfig().WithSeed(3))
	require.NoError(t, err)
	mod, err := gen.Generate()
	require.NoError(t, err)

	require.Equal(t, mod.Bytes(), mod.Raw())
}

func TestModule_JSRejectsV128MainWithoutAdapter(t *testing.T) {
	// A high struct/call probability alone can't force a v128 main
	// signature (randomSignatureTypes draws uniformly from allowed
	// types), so this test drives the blacklist the other way: allow
	// only v128 alongside noout, forcing any non-empty signature slot to
	// be v128.
	cfg := NewConfig().
		WithSeed(1).
		WithBlacklistTypes(wasmtype.I32, wasmtype.I64, wasmtype.F32, wasmtype.F64, wasmtype.FuncRef, wasmtype.ExternRef)
	gen, err := New(cfg)
	require.NoError(t, err)

	var mod *Module
	for i := int64(0); i < 50; i++ {
		gen, err = New(cfg.WithSeed(i))
		require.NoError(t, err)
		mod, err = gen.Generate()
		require.NoError(t, err)
		params, results := mod.MainSignature()
		if containsV128(params) || containsV128(results) {
			break
		}
	}

	params, results := mod.MainSignature()
	if !containsV128(params) && !containsV128(results) {
		t.Skip("no v128-bearing main signature drawn in 50 seeds")
	}

	_, err = mod.JS()
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "WithWrapV128ArgsViaI64"))
}

func TestModule_JSSucceedsWithAdapterEnabled(t *testing.T) {
	cfg := NewConfig().WithSeed(5).WithWrapV128ArgsViaI64(true)
	gen, err := New(cfg)
	require.NoError(t, err)
	mod, err := gen.Generate()
	require.NoError(t, err)

	js, err := mod.JS()
	require.NoError(t, err)
	require.Contains(t, js, "xxHash32")
}

func containsV128(types []wasmtype.ValueType) bool {
	for _, t := range types {
		if t == wasmtype.V128 {
			return true
		}
	}
	return false
}
