// Package modgen implements the recursive, stack-typed Wasm program
// synthesizer (spec C5 ModuleContext, C6 FunctionContext/BlockContext/
// LoopContext). Its shape mirrors the teacher's internal/modgen.Gen: a
// context struct closing over a RandomnessSource, filling an in-memory
// module's sections in order, with allocation of globals/locals/types
// monotonic and index-stable (spec.md §5).
package modgen

import (
	"github.com/cranerule/wasmgen/internal/emit"
	"github.com/cranerule/wasmgen/internal/operand"
	"github.com/cranerule/wasmgen/internal/rng"
	"github.com/cranerule/wasmgen/internal/rules"
	"github.com/cranerule/wasmgen/internal/wasmtype"
)

// ModuleContext owns every monotonic allocation table for one module
// synthesis run: globals, mem-params, table-params, and type-section
// entries (spec C5). None of its allocations are ever retracted.
type ModuleContext struct {
	Params  Params
	Store   *rules.Store
	Source  rng.Source
	Sampler *operand.Sampler

	globals   []emit.Global
	types     []emit.FuncType
	typeIndex map[string]uint32

	memParamCount   int
	tableParamCount int

	allowedTypes []wasmtype.ValueType
	funcs        []*funcPlan

	tableSlots map[int]uint32
	elemFuncs  []uint32

	mainIdx int
}

type funcPlan struct {
	params, results []wasmtype.ValueType
	typeIdx         uint32
	locals          []wasmtype.ValueType
	body            []wasmtype.Instruction
}

// New builds a ModuleContext ready to Generate, given a rule store and the
// randomness source that drives every decision in this run.
func New(params Params, store *rules.Store, source rng.Source) *ModuleContext {
	return &ModuleContext{
		Params:    params,
		Store:     store,
		Source:    source,
		Sampler: operand.New(source, operand.Params{
			ProbConstUseInteresting: params.ProbConstUseInteresting,
			ProbMemargInbounds:      params.ProbMemargInbounds,
			ProbPerturb:             params.ProbPerturb,
			MemoryPages:             params.MemoryPages,
		}),
		typeIndex: map[string]uint32{},
	}
}

// allocType interns a function signature, returning its stable type
// index (spec.md §5 "monotonic append with stable indices").
func (m *ModuleContext) allocType(params, results []wasmtype.ValueType) uint32 {
	key := sigKey(params, results)
	if idx, ok := m.typeIndex[key]; ok {
		return idx
	}
	idx := uint32(len(m.types))
	m.types = append(m.types, emit.FuncType{Params: params, Results: results})
	m.typeIndex[key] = idx
	return idx
}

func sigKey(params, results []wasmtype.ValueType) string {
	out := make([]byte, 0, len(params)+len(results)+1)
	for _, p := range params {
		out = append(out, []byte(p)...)
		out = append(out, ',')
	}
	out = append(out, '|')
	for _, r := range results {
		out = append(out, []byte(r)...)
		out = append(out, ',')
	}
	return string(out)
}

// randomSignatureTypes draws between 0 and maxCount concrete types for a
// function parameter or single-result list, excluding wasmtype.NoOut
// (never a value a harness could pass in or read back).
func (m *ModuleContext) randomSignatureTypes(allowedTypes []wasmtype.ValueType, maxCount int) []wasmtype.ValueType {
	concrete := wasmtype.Filter(allowedTypes, func(t wasmtype.ValueType) bool { return t != wasmtype.NoOut })
	if len(concrete) == 0 {
		return nil
	}
	n := m.Source.Choice(maxCount + 1)
	out := make([]wasmtype.ValueType, n)
	for i := range out {
		out[i] = concrete[m.Source.Choice(len(concrete))]
	}
	return out
}

// allocGlobal appends a new global of a random allowed type with a
// const-expr initializer, and returns its index.
func (m *ModuleContext) allocGlobal(allowedTypes []wasmtype.ValueType) uint32 {
	ty := allowedTypes[m.Source.Choice(len(allowedTypes))]
	mutable := m.Source.ChoiceProb(0.5)
	return m.allocGlobalOfType(ty, mutable)
}

// allocGlobalOfType appends a new global of exactly ty, for a global.get/
// set/tee rule instantiation that found nothing to reuse (spec.md §4.4
// alloc_global). mutable must be true when the caller needs to global.set
// it.
func (m *ModuleContext) allocGlobalOfType(ty wasmtype.ValueType, mutable bool) uint32 {
	m.globals = append(m.globals, emit.Global{
		Type:    ty,
		Mutable: mutable,
		Init:    m.constInitializer(ty),
	})
	return uint32(len(m.globals) - 1)
}

// globalsOfType returns the indices of every already-declared global of
// type ty, filtered to mutable ones when mutableOnly is set (global.set
// requires a mutable target).
func (m *ModuleContext) globalsOfType(ty wasmtype.ValueType, mutableOnly bool) []uint32 {
	var out []uint32
	for i, g := range m.globals {
		if g.Type != ty {
			continue
		}
		if mutableOnly && !g.Mutable {
			continue
		}
		out = append(out, uint32(i))
	}
	return out
}

func (m *ModuleContext) constInitializer(ty wasmtype.ValueType) emit.ConstExpr {
	switch ty {
	case wasmtype.I32:
		return emit.ConstExpr{Op: "i32.const", Value: int32(m.Source.Int(0, 1000))}
	case wasmtype.I64:
		return emit.ConstExpr{Op: "i64.const", Value: int64(m.Source.Int(0, 1000))}
	case wasmtype.F32:
		return emit.ConstExpr{Op: "f32.const", Value: float32(m.Source.Float(-1000, 1000))}
	case wasmtype.F64:
		return emit.ConstExpr{Op: "f64.const", Value: m.Source.Float(-1000, 1000)}
	default:
		return emit.ConstExpr{Op: "ref.null", Value: ty}
	}
}

// Generate synthesizes a complete module: a set of globals, one exported
// `main` function (with a freshly chosen, non-concurrency-sensitive
// parameter/result signature a harness can drive directly, per spec.md
// §6's Harness output) plus whatever helper functions its call sites
// allocate, one memory, and one funcref table.
func (m *ModuleContext) Generate(allowedTypes []wasmtype.ValueType, globalCount int) *emit.Module {
	m.allowedTypes = allowedTypes
	for i := 0; i < globalCount; i++ {
		m.allocGlobal(allowedTypes)
	}

	mainParams := m.randomSignatureTypes(allowedTypes, 3)
	mainResults := m.randomSignatureTypes(allowedTypes, 1)

	mainTypeIdx := m.allocType(mainParams, mainResults)
	generated := &funcPlan{params: mainParams, results: mainResults, typeIdx: mainTypeIdx}
	generatedIdx := len(m.funcs)
	m.funcs = append(m.funcs, generated)

	fc := newFunctionContext(m, mainParams, mainResults, allowedTypes)
	generated.body = fc.Generate()
	generated.locals = fc.ExtraLocals()

	// generatedIdx is exported as "main" directly, unless v128 marshalling
	// needs a shim in front of it: the generated function's own index never
	// moves, so any self-recursive call it emitted against itself mid
	// generation still lands correctly either way.
	m.mainIdx = generatedIdx
	if m.Params.WrapV128ArgsViaI64 && hasV128(mainParams, mainResults) {
		// A JS harness can't pass or receive a true v128 value, so `main`
		// becomes a thin adapter in front of the function just generated:
		// it marshals v128s as pairs of i64 halves and calls through to it
		// (spec.md §9 OQ3).
		adapter := m.buildCallAdapter(generatedIdx)
		m.mainIdx = len(m.funcs)
		m.funcs = append(m.funcs, adapter)
	}

	return m.assemble()
}

func (m *ModuleContext) assemble() *emit.Module {
	mod := &emit.Module{
		Types:    m.types,
		Tables:   []emit.TableType{{RefType: wasmtype.FuncRef, Min: m.Params.TableSize, Max: u32ptr(m.Params.TableSize)}},
		Memories: []emit.MemoryType{{Min: m.Params.MemoryPages, Max: u32ptr(m.Params.MemoryPages)}},
		Globals:  m.globals,
		Exports: []emit.Export{
			{Name: "main", Kind: emit.ExportFunc, Idx: uint32(m.mainIdx)},
			{Name: "mem", Kind: emit.ExportMemory, Idx: 0},
			{Name: "table", Kind: emit.ExportTable, Idx: 0},
		},
	}
	for i, g := range m.globals {
		_ = g
		mod.Exports = append(mod.Exports, emit.Export{Name: globalExportName(i), Kind: emit.ExportGlobal, Idx: uint32(i)})
	}
	for _, fn := range m.funcs {
		mod.FuncTypes = append(mod.FuncTypes, fn.typeIdx)
		mod.Codes = append(mod.Codes, emit.Code{
			Locals: groupLocals(fn.locals),
			Body:   fn.body,
		})
	}
	if len(m.elemFuncs) > 0 {
		mod.Elems = []emit.Elem{{
			Offset:   emit.ConstExpr{Op: "i32.const", Value: int32(0)},
			FuncIdxs: m.elemFuncs,
		}}
	}
	return mod
}

// globalExportName returns the literal "globalK" export name spec.md §5
// requires (e.g. "global0", "global1", ...).
func globalExportName(i int) string {
	return "global" + itoa(i)
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	neg := v < 0
	if neg {
		v = -v
	}
	for v > 0 {
		pos--
		buf[pos] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func groupLocals(locals []wasmtype.ValueType) []emit.LocalGroup {
	var groups []emit.LocalGroup
	for _, ty := range locals {
		if n := len(groups); n > 0 && groups[n-1].Type == ty {
			groups[n-1].Count++
			continue
		}
		groups = append(groups, emit.LocalGroup{Count: 1, Type: ty})
	}
	return groups
}

func u32ptr(v uint32) *uint32 { return &v }
