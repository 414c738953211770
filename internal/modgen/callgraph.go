package modgen

import "github.com/cranerule/wasmgen/internal/wasmtype"

// maxHelperFuncs bounds how many helper functions one module may
// accumulate through call-site generation. The original generator has no
// analogous hard cap (it relies on struct_depth exhaustion to terminate
// recursive function creation); a fixed module-wide cap serves the same
// purpose without needing to thread an extra budget through every call.
const maxHelperFuncs = 16

// genCall emits either a call to an existing, already-generated function
// whose result matches target (function reuse, spec.md §4.5
// prob_reuse_func), or allocates and generates a brand new helper
// function and calls it. Reports whether it emitted anything; false
// means the caller should fall back to a direct rule instantiation
// (e.g. the helper-function budget is exhausted).
func (fc *FunctionContext) genCall(target wasmtype.ValueType, depth int) bool {
	mod := fc.mod
	source := mod.Source

	var resultShape []wasmtype.ValueType
	if target != wasmtype.NoOut {
		resultShape = []wasmtype.ValueType{target}
	}

	candidates := mod.funcsWithResult(resultShape)
	if len(candidates) > 0 && source.ChoiceProb(mod.Params.ProbReuseFunc) {
		idx := candidates[source.Choice(len(candidates))]
		fc.emitCallTo(idx, depth)
		return true
	}

	if len(mod.funcs) >= maxHelperFuncs || depth <= 0 {
		if len(candidates) > 0 {
			idx := candidates[source.Choice(len(candidates))]
			fc.emitCallTo(idx, depth)
			return true
		}
		return false
	}

	idx := mod.newHelperFunc(resultShape)
	fc.emitCallTo(idx, depth)
	return true
}

// emitCallTo emits a direct or table-indirect call to funcs[idx], first
// generating values for every one of its declared parameters.
func (fc *FunctionContext) emitCallTo(idx int, depth int) {
	mod := fc.mod
	plan := mod.funcs[idx]

	for _, pt := range plan.params {
		fc.genValue(pt, depth-1)
	}

	if mod.Source.ChoiceProb(mod.Params.ProbCallIndirect) {
		tableSlot := mod.tableSlotFor(idx)
		fc.emit(wasmtype.Instruction{Op: "i32.const", Immediates: []any{int32(tableSlot)}})
		fc.emit(wasmtype.Instruction{Op: "call_indirect", Immediates: []any{uint32(plan.typeIdx), uint32(0)}})
	} else {
		fc.emit(wasmtype.Instruction{Op: "call", Immediates: []any{uint32(idx)}})
	}

	f := fc.top()
	for range plan.params {
		f.Pop()
	}
	for _, out := range plan.results {
		f.Push(out)
	}
}

// funcsWithResult returns the indices of every already-planned function
// (including the one currently being generated, since forward references
// via the table are legal) whose result shape equals want.
func (m *ModuleContext) funcsWithResult(want []wasmtype.ValueType) []int {
	var out []int
	for i, fn := range m.funcs {
		if sameTypes(fn.results, want) {
			out = append(out, i)
		}
	}
	return out
}

// newHelperFunc allocates a new, empty-parameter helper function
// returning results, generates its body immediately, and registers it in
// the table's element segment so call_indirect can reach it, then
// returns its function index.
func (m *ModuleContext) newHelperFunc(results []wasmtype.ValueType) int {
	typeIdx := m.allocType(nil, results)
	plan := &funcPlan{results: results, typeIdx: typeIdx}
	idx := len(m.funcs)
	m.funcs = append(m.funcs, plan)

	fc := newFunctionContext(m, nil, results, m.allowedTypes)
	plan.body = fc.Generate()
	plan.locals = fc.ExtraLocals()

	m.registerTableSlot(idx)
	return idx
}

// tableSlotFor returns the table index a call_indirect to funcs[idx]
// should use, registering one if this is the first indirect call to it.
func (m *ModuleContext) tableSlotFor(idx int) uint32 {
	if slot, ok := m.tableSlots[idx]; ok {
		return slot
	}
	return m.registerTableSlot(idx)
}

func (m *ModuleContext) registerTableSlot(idx int) uint32 {
	if m.tableSlots == nil {
		m.tableSlots = map[int]uint32{}
	}
	if slot, ok := m.tableSlots[idx]; ok {
		return slot
	}
	slot := uint32(len(m.elemFuncs))
	m.elemFuncs = append(m.elemFuncs, uint32(idx))
	m.tableSlots[idx] = slot
	return slot
}

func hasV128(types ...[]wasmtype.ValueType) bool {
	for _, list := range types {
		for _, t := range list {
			if t == wasmtype.V128 {
				return true
			}
		}
	}
	return false
}

// flattenV128 replaces each v128 entry with a pair of i64 halves: the
// signature shape a JS harness can actually call/receive, since the Wasm
// JS API has no representation for a v128 value at an export boundary.
func flattenV128(types []wasmtype.ValueType) []wasmtype.ValueType {
	out := make([]wasmtype.ValueType, 0, len(types))
	for _, t := range types {
		if t == wasmtype.V128 {
			out = append(out, wasmtype.I64, wasmtype.I64)
		} else {
			out = append(out, t)
		}
	}
	return out
}

// buildCallAdapter generates a function that flattens funcs[innerIdx]'s
// v128 params/results into i64 halves: reassemble each v128 argument via
// i64x2.splat/replace_lane, call straight through to innerIdx, then split
// each v128 result back into its two lanes via i64x2.extract_lane (spec.md
// §9 OQ3, Config.WrapV128ArgsViaI64).
func (m *ModuleContext) buildCallAdapter(innerIdx int) *funcPlan {
	inner := m.funcs[innerIdx]
	adapterParams := flattenV128(inner.params)
	adapterResults := flattenV128(inner.results)
	typeIdx := m.allocType(adapterParams, adapterResults)

	var body []wasmtype.Instruction
	var locals []wasmtype.ValueType
	nextLocal := func(ty wasmtype.ValueType) uint32 {
		idx := uint32(len(adapterParams) + len(locals))
		locals = append(locals, ty)
		return idx
	}

	argLocal := make([]uint32, len(inner.params))
	adapterParamIdx := 0
	for i, pt := range inner.params {
		if pt == wasmtype.V128 {
			lo, hi := uint32(adapterParamIdx), uint32(adapterParamIdx+1)
			v := nextLocal(wasmtype.V128)
			body = append(body,
				wasmtype.Instruction{Op: "local.get", Immediates: []any{lo}},
				wasmtype.Instruction{Op: "i64x2.splat"},
				wasmtype.Instruction{Op: "local.get", Immediates: []any{hi}},
				wasmtype.Instruction{Op: "i64x2.replace_lane", Immediates: []any{uint32(1)}},
				wasmtype.Instruction{Op: "local.set", Immediates: []any{v}},
			)
			argLocal[i] = v
			adapterParamIdx += 2
		} else {
			argLocal[i] = uint32(adapterParamIdx)
			adapterParamIdx++
		}
	}

	for i := range inner.params {
		body = append(body, wasmtype.Instruction{Op: "local.get", Immediates: []any{argLocal[i]}})
	}
	body = append(body, wasmtype.Instruction{Op: "call", Immediates: []any{uint32(innerIdx)}})

	// Inner's results land on the stack in declaration order; stash each in
	// a fresh local so emission order below doesn't have to match it, then
	// re-push in the adapter's flattened order.
	resultLocals := make([]uint32, len(inner.results))
	for i := len(inner.results) - 1; i >= 0; i-- {
		v := nextLocal(inner.results[i])
		body = append(body, wasmtype.Instruction{Op: "local.set", Immediates: []any{v}})
		resultLocals[i] = v
	}
	for i, rt := range inner.results {
		if rt == wasmtype.V128 {
			body = append(body,
				wasmtype.Instruction{Op: "local.get", Immediates: []any{resultLocals[i]}},
				wasmtype.Instruction{Op: "i64x2.extract_lane", Immediates: []any{uint32(0)}},
				wasmtype.Instruction{Op: "local.get", Immediates: []any{resultLocals[i]}},
				wasmtype.Instruction{Op: "i64x2.extract_lane", Immediates: []any{uint32(1)}},
			)
		} else {
			body = append(body, wasmtype.Instruction{Op: "local.get", Immediates: []any{resultLocals[i]}})
		}
	}
	body = append(body, wasmtype.Instruction{Op: "end"})

	return &funcPlan{params: adapterParams, results: adapterResults, typeIdx: typeIdx, locals: locals, body: body}
}
