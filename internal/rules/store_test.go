package rules

import (
	"strings"
	"testing"

	"github.com/cranerule/wasmgen/internal/rng"
	"github.com/cranerule/wasmgen/internal/wasmtype"
	"github.com/stretchr/testify/require"
)

func TestBuildTypingRules_CoversI32Add(t *testing.T) {
	rs := BuildTypingRules(wasmtype.Table)
	nodes := rs[wasmtype.I32]["i32.add"]
	require.Len(t, nodes, 1)
	require.Equal(t, []wasmtype.ValueType{wasmtype.I32, wasmtype.I32}, nodes[0].ParamTypes)
	require.Equal(t, wasmtype.I32, nodes[0].RetType())
}

func TestBuildTypingRules_ExcludesNonSynthesisOpcodes(t *testing.T) {
	rs := BuildTypingRules(wasmtype.Table)
	for _, byOp := range rs {
		for op := range byOp {
			require.False(t, wasmtype.ExcludedFromSynthesis[op], "opcode %s should not appear in TypingRules", op)
		}
	}
}

func TestStore_Get_FallsBackToTypingWhenNoExtracted(t *testing.T) {
	store := NewStore(wasmtype.Table, nil)
	source := rng.NewPRNG(1)
	node, ok := store.Get(wasmtype.I32, source, 0.0)
	require.True(t, ok)
	require.Equal(t, wasmtype.I32, node.RetType())
}

func TestStore_Get_NoOutIsValidTarget(t *testing.T) {
	store := NewStore(wasmtype.Table, nil)
	source := rng.NewPRNG(2)
	node, ok := store.Get(wasmtype.NoOut, source, 1.0)
	require.True(t, ok)
	require.Equal(t, wasmtype.NoOut, node.RetType())
}

func TestParseRecords_DropsUnknownOpcode(t *testing.T) {
	input := `{"param_types":["i32"],"ret_types":["i32"],"body":[{"arg":0},{"op":"i32.not_a_real_opcode"}],"oparg_conditions":[]}
{"param_types":["i32","i32"],"ret_types":["i32"],"body":[{"arg":0},{"arg":1},{"op":"i32.add","opargs":[]}],"oparg_conditions":[]}
`
	records, malformed := ParseRecords(strings.NewReader(input))
	require.Equal(t, 0, malformed)
	require.Len(t, records, 2)

	store := NewStore(wasmtype.Table, nil)
	store.LoadExtracted(records)
	require.Equal(t, 1, store.DroppedCount())

	node, ok := store.Get(wasmtype.I32, rng.NewPRNG(3), 0.0)
	require.True(t, ok)
	_ = node
}

func TestRecord_ConditionTreeRoundTrips(t *testing.T) {
	input := `{"param_types":[],"ret_types":["i32"],"body":[{"op":"i32.const","opargs":[0]}],"oparg_conditions":[{"oparg_index":0,"conditions":[{"op":"pow2"},{"op":"ge","args":[{"op":"const","int_val":1},{"op":"const","int_val":0}]}]}]}`
	records, malformed := ParseRecords(strings.NewReader(input))
	require.Equal(t, 0, malformed)
	require.Len(t, records, 1)

	node, ok := records[0].toInstrNode()
	require.True(t, ok)
	require.Len(t, node.Conds[0], 2)
	require.Equal(t, "pow2", node.Conds[0][0].Op)
	require.Equal(t, "ge", node.Conds[0][1].Op)
	require.Len(t, node.Conds[0][1].Args, 2)
}
