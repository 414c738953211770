package modgen

import "github.com/cranerule/wasmgen/internal/wasmtype"

// FunctionContext drives generation of one function body: a stack of
// nested Frames (function/block/loop/if), the function's locals table,
// and a back-reference to the owning ModuleContext for shared resources
// (globals, other functions, the rule store) (spec C6).
type FunctionContext struct {
	mod *ModuleContext

	params, results []wasmtype.ValueType
	allowedTypes    []wasmtype.ValueType

	frames     []*Frame
	localTypes []wasmtype.ValueType

	body []wasmtype.Instruction
}

func newFunctionContext(mod *ModuleContext, params, results, allowedTypes []wasmtype.ValueType) *FunctionContext {
	fc := &FunctionContext{
		mod:          mod,
		params:       params,
		results:      results,
		allowedTypes: allowedTypes,
	}
	fc.localTypes = append(fc.localTypes, params...)
	root := NewFunctionFrame(results)
	fc.frames = append(fc.frames, root)
	return fc
}

func (fc *FunctionContext) top() *Frame {
	return fc.frames[len(fc.frames)-1]
}

// allocLocal appends a fresh local of type ty and returns its index.
func (fc *FunctionContext) allocLocal(ty wasmtype.ValueType) int {
	fc.localTypes = append(fc.localTypes, ty)
	return len(fc.localTypes) - 1
}

// localsOfType returns the indices of every already-declared local
// (including params) whose type is ty, for reuse decisions.
func (fc *FunctionContext) localsOfType(ty wasmtype.ValueType) []int {
	var out []int
	for i, t := range fc.localTypes {
		if t == ty {
			out = append(out, i)
		}
	}
	return out
}

// emit appends an instruction to the body under construction and keeps
// the active frame's simulated stack in sync with the instruction's
// signature (push/pop bookkeeping only; the actual operand values are
// supplied by internal/operand at rule-instantiation time).
func (fc *FunctionContext) emit(instr wasmtype.Instruction) {
	fc.body = append(fc.body, instr)
}

// Generate produces the instruction sequence for this function's whole
// body, recursing through nested structured control via genFrame; the
// returned body ends with the function's own `end`, emitted by genFrame
// once the outermost frame matches its declared Results.
func (fc *FunctionContext) Generate() []wasmtype.Instruction {
	fc.genFrame(fc.top(), fc.mod.Params.MaxDepth)
	return fc.body
}

// ExtraLocals returns the local declarations beyond the function's own
// parameters: the code section's local vector only ever covers locals
// allocated during generation, since parameters are already accounted for
// by the function's type (core spec §5.5.14).
func (fc *FunctionContext) ExtraLocals() []wasmtype.ValueType {
	return fc.localTypes[len(fc.params):]
}
