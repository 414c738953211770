package modgen

import (
	"testing"

	"github.com/cranerule/wasmgen/internal/operand"
	"github.com/cranerule/wasmgen/internal/rng"
	"github.com/cranerule/wasmgen/internal/rules"
	"github.com/cranerule/wasmgen/internal/wasmtype"
	"github.com/stretchr/testify/require"
)

func newTestContext(seed int64) *ModuleContext {
	store := rules.NewStore(wasmtype.Table, nil)
	source := rng.NewPRNG(seed)
	params := DefaultParams
	params.MaxDepth = 3
	return New(params, store, source)
}

func TestGenerate_ProducesWellFormedModule(t *testing.T) {
	mod := newTestContext(1)
	out := mod.Generate(wasmtype.AllValueTypes, 2)

	require.NotEmpty(t, out.Codes)
	require.Equal(t, len(out.Codes), len(out.FuncTypes))
	require.Len(t, out.Memories, 1)
	require.Len(t, out.Tables, 1)

	main := out.Codes[0]
	require.NotEmpty(t, main.Body)
	last := main.Body[len(main.Body)-1]
	require.Equal(t, "end", last.Op)
}

func TestGenerate_GlobalsHaveExports(t *testing.T) {
	mod := newTestContext(2)
	out := mod.Generate([]wasmtype.ValueType{wasmtype.I32, wasmtype.I64}, 3)
	require.Len(t, out.Globals, 3)

	globalExports := 0
	for _, ex := range out.Exports {
		if ex.Kind == 0x03 {
			globalExports++
		}
	}
	require.Equal(t, 3, globalExports)
}

func TestGenerate_HelperFunctionsStayWithinBudget(t *testing.T) {
	mod := newTestContext(3)
	mod.Params.ProbCall = 1.0 // force call-site generation at every opportunity
	mod.Generate(wasmtype.AllValueTypes, 1)
	require.LessOrEqual(t, len(mod.funcs), maxHelperFuncs)
}

func TestFrame_PushPopRoundTrips(t *testing.T) {
	f := NewFunctionFrame([]wasmtype.ValueType{wasmtype.I32})
	f.Push(wasmtype.I32)
	require.True(t, f.MatchesResults())
	ty, ok := f.Pop()
	require.True(t, ok)
	require.Equal(t, wasmtype.I32, ty)
	require.False(t, f.MatchesResults())
}

func TestGenerate_LocalAndGlobalAccessRulesDoNotPanic(t *testing.T) {
	mod := newTestContext(7)
	mod.Params.PUseTyping = 1.0
	mod.Sampler = operand.New(mod.Source, operand.DefaultParams)
	require.NotPanics(t, func() {
		mod.Generate([]wasmtype.ValueType{wasmtype.I32}, 2)
	})
}

func TestResolveGlobalIdx_SetRequiresMutableGlobal(t *testing.T) {
	mod := newTestContext(4)
	mod.Sampler = operand.New(mod.Source, operand.DefaultParams)
	mod.allocGlobalOfType(wasmtype.I32, false)
	fc := newFunctionContext(mod, nil, nil, wasmtype.AllValueTypes)

	idx := fc.resolveGlobalIdx(wasmtype.OpInfo{Inputs: []wasmtype.ValueType{wasmtype.I32}}, "global.set")
	require.True(t, mod.globals[idx].Mutable)
}

func TestBlockTypeImmediate_PicksValTypeOrTypeIdx(t *testing.T) {
	mod := newTestContext(1)
	fc := newFunctionContext(mod, nil, nil, wasmtype.AllValueTypes)

	require.Equal(t, wasmtype.EmptyBlockType, fc.blockTypeImmediate(nil, nil))
	require.Equal(t, wasmtype.EncodingByte[wasmtype.I32], fc.blockTypeImmediate(nil, []wasmtype.ValueType{wasmtype.I32}))

	idx := fc.blockTypeImmediate([]wasmtype.ValueType{wasmtype.I32}, []wasmtype.ValueType{wasmtype.I64})
	require.IsType(t, uint32(0), idx)
	require.Len(t, mod.types, 1)
}

func TestGenStructured_PopsStackSuffixIntoBlockParams(t *testing.T) {
	mod := newTestContext(9)
	mod.Params.ProbStructRet = 1.0
	mod.Sampler = operand.New(mod.Source, operand.DefaultParams)
	fc := newFunctionContext(mod, nil, []wasmtype.ValueType{wasmtype.I32}, wasmtype.AllValueTypes)

	cur := fc.top()
	cur.Push(wasmtype.I32)
	cur.Push(wasmtype.I64)

	fc.genStructured(wasmtype.I32, 1)

	require.Equal(t, []wasmtype.ValueType{wasmtype.I32}, cur.Stack)
}

func TestCanonicalizeIfFloat_GatesOnFloatCanonOpcodes(t *testing.T) {
	mod := newTestContext(1)
	fc := newFunctionContext(mod, nil, nil, wasmtype.AllValueTypes)

	fc.canonicalizeIfFloat(wasmtype.F32, "f32.const") // not in FloatCanonOpcodes
	require.Empty(t, fc.body)

	fc.canonicalizeIfFloat(wasmtype.F32, "f32.add")
	require.Equal(t, []string{"local.tee", "f32.const", "local.get", "local.get", "f32.eq", "select"}, opNames(fc.body))
}

func TestCanonicalizeIfFloat_V128UsesBitselectAndLaneShape(t *testing.T) {
	mod := newTestContext(1)
	fc := newFunctionContext(mod, nil, nil, wasmtype.AllValueTypes)

	fc.canonicalizeIfFloat(wasmtype.V128, "f64x2.add")
	require.Equal(t, []string{"local.tee", "v128.const", "local.get", "local.get", "f64x2.eq", "v128.bitselect"}, opNames(fc.body))
	require.Equal(t, f64x2NaNPattern(), fc.body[1].Immediates[0].([16]byte))
}

func TestInstantiateRule_ReusedArgIndexRoundTripsThroughLocal(t *testing.T) {
	mod := newTestContext(11)
	mod.Sampler = operand.New(mod.Source, operand.DefaultParams)
	fc := newFunctionContext(mod, nil, nil, wasmtype.AllValueTypes)

	node := &rules.InstrNode{
		ParamTypes: []wasmtype.ValueType{wasmtype.I32},
		RetTypes:   []wasmtype.ValueType{wasmtype.I32},
		Body: []rules.Step{
			{Op: "arg", ArgIndex: 0},
			{Op: "arg", ArgIndex: 0},
			{Op: "i32.add"},
		},
		Conds: map[int][]rules.ConditionExpr{},
	}

	fc.instantiateRule(node, 1)

	names := opNames(fc.body)
	require.Contains(t, names, "local.tee")
	require.Contains(t, names, "local.get")
	require.Equal(t, "i32.add", names[len(names)-1])
	require.Equal(t, []wasmtype.ValueType{wasmtype.I32}, fc.top().Stack)
}

func TestGlobalExportName_MatchesLiteralPattern(t *testing.T) {
	require.Equal(t, "global0", globalExportName(0))
	require.Equal(t, "global1", globalExportName(1))
	require.Equal(t, "global26", globalExportName(26))
}

func opNames(body []wasmtype.Instruction) []string {
	out := make([]string, len(body))
	for i, ins := range body {
		out[i] = ins.Op
	}
	return out
}

func TestFunctionContext_GenerateReachesGoalType(t *testing.T) {
	store := rules.NewStore(wasmtype.Table, nil)
	source := rng.NewPRNG(42)
	params := DefaultParams
	params.MaxDepth = 2
	mod := New(params, store, source)
	mod.Sampler = operand.New(source, operand.DefaultParams)

	fc := newFunctionContext(mod, nil, []wasmtype.ValueType{wasmtype.I32}, wasmtype.AllValueTypes)
	body := fc.Generate()
	require.NotEmpty(t, body)
	require.Equal(t, "end", body[len(body)-1].Op)
}
