package modgen

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/cranerule/wasmgen/internal/operand"
	"github.com/cranerule/wasmgen/internal/rules"
	"github.com/cranerule/wasmgen/internal/wasmtype"
)

// genValue fills fc's current frame with instructions that leave exactly
// one value of type target on top of the stack (or, for target ==
// wasmtype.NoOut, a side-effecting instruction sequence that leaves the
// stack unchanged), recursing through structured control and rule bodies
// as depth allows (spec.md §4.2/§4.5 "recursive program synthesis").
func (fc *FunctionContext) genValue(target wasmtype.ValueType, depth int) {
	params := fc.mod.Params

	if depth > 0 && fc.mod.Source.ChoiceProb(params.ProbStructGen) {
		fc.genStructured(target, depth)
		return
	}

	if depth > 0 && target != wasmtype.NoOut && fc.mod.Source.ChoiceProb(params.ProbCall) {
		if fc.genCall(target, depth) {
			return
		}
	}

	fc.genRule(target, depth)
}

// genRule draws one rule for target from the shared RuleStore and
// instantiates it: each of the rule's ParamTypes is recursively generated
// (deepening by one) before the rule's own body steps are emitted.
func (fc *FunctionContext) genRule(target wasmtype.ValueType, depth int) {
	node, ok := fc.mod.Store.Get(target, fc.mod.Source, fc.mod.Params.PUseTyping)
	if !ok {
		// No rule at all for this type (e.g. a blacklisted type slipped
		// through): fall back to a local.get/global.get of a matching
		// existing binding, or a bare const, so generation never stalls.
		fc.genFallback(target)
		return
	}
	fc.instantiateRule(node, depth)
}

// genFallback is the last-resort producer used only when RuleStore has
// nothing for target: reuse an existing local if one exists, otherwise a
// zero-valued const (spec.md §7 "sampling never fails outward").
func (fc *FunctionContext) genFallback(target wasmtype.ValueType) {
	if target == wasmtype.NoOut {
		fc.emit(wasmtype.Instruction{Op: "nop"})
		return
	}
	if idxs := fc.localsOfType(target); len(idxs) > 0 {
		idx := idxs[fc.mod.Source.Choice(len(idxs))]
		fc.emit(wasmtype.Instruction{Op: "local.get", Immediates: []any{uint32(idx)}})
		fc.top().Push(target)
		return
	}
	fc.emitConst(target, zeroConst(target))
}

func zeroConst(ty wasmtype.ValueType) any {
	switch ty {
	case wasmtype.I32:
		return int32(0)
	case wasmtype.I64:
		return int64(0)
	case wasmtype.F32:
		return float32(0)
	case wasmtype.F64:
		return float64(0)
	case wasmtype.ExternRef:
		return wasmtype.ExternRef
	case wasmtype.V128:
		return [16]byte{}
	default:
		return wasmtype.FuncRef
	}
}

func (fc *FunctionContext) emitConst(ty wasmtype.ValueType, val any) {
	op := map[wasmtype.ValueType]string{
		wasmtype.I32:  "i32.const",
		wasmtype.I64:  "i64.const",
		wasmtype.F32:  "f32.const",
		wasmtype.F64:  "f64.const",
		wasmtype.V128: "v128.const",
	}[ty]
	if op == "" {
		fc.emit(wasmtype.Instruction{Op: "ref.null", Immediates: []any{val}})
	} else {
		fc.emit(wasmtype.Instruction{Op: op, Immediates: []any{val}})
	}
	fc.top().Push(ty)
}

// instantiateRule recursively generates each of node's ParamTypes (so
// they land on the stack in order), then walks node.Body emitting every
// non-"arg" Step as a real instruction with sampled operands, keeping the
// active frame's simulated stack synchronized with each step's signature.
func (fc *FunctionContext) instantiateRule(node *rules.InstrNode, depth int) {
	for _, pt := range node.ParamTypes {
		fc.genValue(pt, depth-1)
	}

	argUses := make(map[int]int, len(node.ParamTypes))
	for _, step := range node.Body {
		if step.Op == "arg" {
			argUses[step.ArgIndex]++
		}
	}

	store := operand.Store{}
	argLocals := map[int]uint32{}
	for _, step := range node.Body {
		if step.Op == "arg" {
			// A ParamTypes index can legally appear more than once in Body
			// (spec.md §4.5: extraction only guarantees i < |param_types|,
			// not uniqueness). The value landed on the stack once, up
			// front, in the ParamTypes loop above, so a singly-referenced
			// index needs no instruction: it's already sitting where its
			// one consumer expects it. A reused index needs a local to
			// survive past its first consumer — local.tee on the first
			// reference snapshots it without otherwise touching the stack,
			// and local.get re-fetches that snapshot on every later one.
			if argUses[step.ArgIndex] <= 1 {
				continue
			}
			if local, seen := argLocals[step.ArgIndex]; seen {
				fc.emit(wasmtype.Instruction{Op: "local.get", Immediates: []any{local}})
				fc.top().Push(node.ParamTypes[step.ArgIndex])
				continue
			}
			local := fc.allocLocal(node.ParamTypes[step.ArgIndex])
			fc.emit(wasmtype.Instruction{Op: "local.tee", Immediates: []any{uint32(local)}})
			argLocals[step.ArgIndex] = uint32(local)
			continue
		}
		info, ok := wasmtype.Table[step.Op]
		if !ok {
			continue
		}
		wireOp := info.WireName
		if wireOp == "" {
			wireOp = step.Op
		}
		instr := wasmtype.Instruction{Op: wireOp}
		for pos, operandSlot := range info.Operands {
			var val any
			switch operandSlot.Kind {
			case wasmtype.KindLocalIdx:
				val = fc.resolveLocalIdx(info)
			case wasmtype.KindGlobalIdx:
				val = fc.resolveGlobalIdx(info, wireOp)
			default:
				globalIdx := pos
				if pos < len(step.OpArgs) {
					globalIdx = step.OpArgs[pos]
				}
				val = fc.mod.Sampler.Sample(step.Op, operandSlot, globalIdx, node.Conds, store)
			}
			instr.Immediates = append(instr.Immediates, val)
		}
		fc.emit(instr)

		f := fc.top()
		for range info.Inputs {
			f.Pop()
		}
		for _, out := range info.Outputs {
			f.Push(out)
		}
	}

	if fc.mod.Params.CanonicalizeNaNs && wasmtype.FloatCanonOpcodes[node.TerminalOpcode()] {
		fc.canonicalizeIfFloat(node.RetType(), node.TerminalOpcode())
	}
}

// variableType returns the value type a local.get/set/tee or global.get/
// set/tee rule moves: the type it produces if it has one, otherwise the
// type of the value it consumes.
func variableType(info wasmtype.OpInfo) wasmtype.ValueType {
	if len(info.Outputs) > 0 {
		return info.Outputs[0]
	}
	return info.Inputs[0]
}

// resolveLocalIdx picks a local index for a local.get/set/tee rule: reuse
// an existing local of the right type with probability ProbReuseLocal,
// else allocate a fresh one (spec.md §4.4 alloc_local, by analogy with
// alloc_global). This, not OperandSampler, owns the function's local
// index space, per wasmtype.KindLocalIdx's doc comment.
func (fc *FunctionContext) resolveLocalIdx(info wasmtype.OpInfo) uint32 {
	ty := variableType(info)
	if idxs := fc.localsOfType(ty); len(idxs) > 0 && fc.mod.Source.ChoiceProb(fc.mod.Params.ProbReuseLocal) {
		return uint32(idxs[fc.mod.Source.Choice(len(idxs))])
	}
	return uint32(fc.allocLocal(ty))
}

// resolveGlobalIdx picks a global index for a global.get/set/tee rule:
// reuse an existing global of the right type (mutable, if wireOp writes
// it) with probability ProbReuseGlobal, else allocate a fresh one
// (spec.md §4.4 alloc_global).
func (fc *FunctionContext) resolveGlobalIdx(info wasmtype.OpInfo, wireOp string) uint32 {
	ty := variableType(info)
	needsMutable := wireOp == "global.set"
	if idxs := fc.mod.globalsOfType(ty, needsMutable); len(idxs) > 0 && fc.mod.Source.ChoiceProb(fc.mod.Params.ProbReuseGlobal) {
		return idxs[fc.mod.Source.Choice(len(idxs))]
	}
	return fc.mod.allocGlobalOfType(ty, needsMutable || fc.mod.Source.ChoiceProb(0.5))
}

// canonicalizeIfFloat replaces a NaN result with a single fixed NaN
// payload, so two engines disagreeing only on NaN bit patterns don't
// register as a spurious differential-testing mismatch (spec.md §5,
// original get_canonicalization_nans_instrs): local.tee L; <+nan>
// const; local.get L; local.get L; <eq>; <select-or-bitselect>. Emits
// nothing unless terminal is in wasmtype.FloatCanonOpcodes, so ty is
// always F32, F64, or V128 when the gadget is emitted.
func (fc *FunctionContext) canonicalizeIfFloat(ty wasmtype.ValueType, terminal string) {
	if !wasmtype.FloatCanonOpcodes[terminal] {
		return
	}
	var constOp, eqOp, selectOp string
	var nanVal any
	switch ty {
	case wasmtype.F32:
		constOp, eqOp, selectOp, nanVal = "f32.const", "f32.eq", "select", float32(math.NaN())
	case wasmtype.F64:
		constOp, eqOp, selectOp, nanVal = "f64.const", "f64.eq", "select", math.NaN()
	case wasmtype.V128:
		constOp, selectOp = "v128.const", "v128.bitselect"
		if strings.HasPrefix(terminal, "f64x2.") {
			eqOp, nanVal = "f64x2.eq", f64x2NaNPattern()
		} else {
			eqOp, nanVal = "f32x4.eq", f32x4NaNPattern()
		}
	default:
		return
	}

	local := fc.allocLocal(ty)
	fc.emit(wasmtype.Instruction{Op: "local.tee", Immediates: []any{uint32(local)}})
	fc.emit(wasmtype.Instruction{Op: constOp, Immediates: []any{nanVal}})
	fc.emit(wasmtype.Instruction{Op: "local.get", Immediates: []any{uint32(local)}})
	fc.emit(wasmtype.Instruction{Op: "local.get", Immediates: []any{uint32(local)}})
	fc.emit(wasmtype.Instruction{Op: eqOp})
	fc.emit(wasmtype.Instruction{Op: selectOp})
	// Net stack effect is a no-op (pop one ty, push one ty): the frame's
	// simulated stack doesn't need adjusting.
}

// f32x4NaNPattern splats the canonical f32 NaN (0x7fc00000) across all
// four lanes.
func f32x4NaNPattern() [16]byte {
	var out [16]byte
	for lane := 0; lane < 4; lane++ {
		binary.LittleEndian.PutUint32(out[lane*4:], math.Float32bits(float32(math.NaN())))
	}
	return out
}

// f64x2NaNPattern splats the canonical f64 NaN (0x7ff8000000000000)
// across both lanes.
func f64x2NaNPattern() [16]byte {
	var out [16]byte
	for lane := 0; lane < 2; lane++ {
		binary.LittleEndian.PutUint64(out[lane*8:], 0x7ff8000000000000)
	}
	return out
}
