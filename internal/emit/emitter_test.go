package emit

import (
	"testing"

	"github.com/cranerule/wasmgen/internal/wasmtype"
	"github.com/stretchr/testify/require"
)

func TestEmitToBytes_MinimalModule(t *testing.T) {
	m := &Module{
		Types:     []FuncType{{}},
		FuncTypes: []uint32{0},
		Memories:  []MemoryType{{Min: 1, Max: u32ptr(1)}},
		Tables:    []TableType{{RefType: wasmtype.FuncRef, Min: 65536, Max: u32ptr(65536)}},
		Exports: []Export{
			{Name: "main", Kind: ExportFunc, Idx: 0},
			{Name: "mem", Kind: ExportMemory, Idx: 0},
			{Name: "table", Kind: ExportTable, Idx: 0},
		},
		Codes: []Code{{Body: nil}},
	}
	out, err := EmitToBytes(m)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x61, 0x73, 0x6d}, out[:4])
	require.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, out[4:8])
	require.Less(t, len(out), 200)
}

func TestWriteInstruction_I32AddRoundTrips(t *testing.T) {
	code := Code{
		Body: []wasmtype.Instruction{
			{Op: "i32.const", Immediates: []any{int32(1)}},
			{Op: "i32.const", Immediates: []any{int32(2)}},
			{Op: "i32.add"},
		},
	}
	body := encodeFunctionBody(code)
	require.Equal(t, byte(0x41), body[1]) // after the 0-locals-vec-length byte
	require.Contains(t, body, byte(0x6A)) // i32.add
}

func TestGlobalSection_I32Const(t *testing.T) {
	m := &Module{
		Globals: []Global{{Type: wasmtype.I32, Mutable: true, Init: ConstExpr{Op: "i32.const", Value: int32(7)}}},
	}
	out, err := EmitToBytes(m)
	require.NoError(t, err)
	require.NotEmpty(t, out)
}

func u32ptr(v uint32) *uint32 { return &v }
