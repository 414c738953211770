package wrapper

import (
	"strings"
	"testing"

	"github.com/cranerule/wasmgen/internal/rng"
	"github.com/cranerule/wasmgen/internal/wasmtype"
	"github.com/stretchr/testify/require"
)

func TestRaw_CopiesBytesVerbatim(t *testing.T) {
	in := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	out := Raw(in)
	require.Equal(t, in, out)

	// Raw must not alias its input: mutating the source shouldn't affect
	// a previously returned copy.
	in[0] = 0xff
	require.Equal(t, byte(0x00), out[0])
}

func TestJS_EmbedsModuleBytesAndMemoryMax(t *testing.T) {
	modBytes := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	source := rng.NewPRNG(1)

	js := JS(modBytes, []wasmtype.ValueType{wasmtype.I32}, 7, source)

	require.Contains(t, js, "const code = new Uint8Array([0,97,115,109,1,0,0,0]);")
	require.Contains(t, js, "const wasmMemoryMaxPages = 7;")
	require.Contains(t, js, "run_interesting_i32")
	require.Contains(t, js, "xxHash32(new Uint8Array(mem.buffer))")
}

func TestJS_CrossProductForFewParams(t *testing.T) {
	source := rng.NewPRNG(1)
	js := JS(nil, []wasmtype.ValueType{wasmtype.I32, wasmtype.I64}, 1, source)

	require.Contains(t, js, "for (let a0 of run_interesting_i32)")
	require.Contains(t, js, "for (let a1 of run_interesting_i64)")
	require.Contains(t, js, "exports.main(a0,a1)")
}

func TestJS_RandomDrawsForManyParams(t *testing.T) {
	source := rng.NewPRNG(1)
	params := []wasmtype.ValueType{wasmtype.I32, wasmtype.I32, wasmtype.I64}
	js := JS(nil, params, 1, source)

	require.NotContains(t, js, "for (let a0 of")
	// One initial zero-arg call plus 1000 randomly drawn ones.
	require.Equal(t, 1001, strings.Count(js, "exports.main("))
}

func TestJS_NiladicMainStillCallable(t *testing.T) {
	source := rng.NewPRNG(1)
	js := JS(nil, nil, 1, source)
	require.Contains(t, js, "try{exports.main()}catch(e){print(e)};")
}
