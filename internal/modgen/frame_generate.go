package modgen

import "github.com/cranerule/wasmgen/internal/wasmtype"

// fillFrame fills f's body, one value at a time, until its simulated
// stack exactly equals its declared Results (spec.md §4.5's termination
// condition). Each iteration either branches out to an already-satisfied
// enclosing frame, goes unreachable, or generates the next needed value
// via genValue. It does not emit the closing `end`/`else`: the caller
// owns that, since an if/else shares one `end` between two fillFrame
// calls.
func (fc *FunctionContext) fillFrame(f *Frame, depth int) {
	for !f.MatchesResults() {
		// A block/loop/if seeded with params (genStructured's struct-ret
		// suffix) can start with more values live than its Results need, or
		// with values whose types don't lead toward Results at all: drain
		// the top into a throwaway local until what remains is a strict
		// prefix of Results, so the index-by-position logic below always
		// has a next target type to aim for (spec.md §4.5 stack
		// reconciliation).
		if !isPrefixOf(f.Stack, f.Results) {
			ty, _ := f.Pop()
			local := fc.allocLocal(ty)
			fc.emit(wasmtype.Instruction{Op: "local.set", Immediates: []any{uint32(local)}})
			continue
		}
		if depth <= 0 {
			fc.genValue(f.Results[len(f.Stack)], 0)
			continue
		}
		if fc.mod.Source.ChoiceProb(fc.mod.Params.ProbUnreachable) {
			fc.emit(wasmtype.Instruction{Op: "unreachable"})
			f.Stack = append([]wasmtype.ValueType{}, f.Results...)
			break
		}
		if fc.tryBranch(f, depth) {
			continue
		}
		if depth > 0 && fc.mod.Source.ChoiceProb(fc.mod.Params.ProbVarGen) {
			// A side-effecting statement (local.set/global.set/store/...)
			// that leaves the stack goal unchanged, interleaved between
			// value-producing steps for more varied control flow.
			fc.genValue(wasmtype.NoOut, depth-1)
			continue
		}
		fc.genValue(f.Results[len(f.Stack)], depth)
	}
}

// isPrefixOf reports whether stack is exactly results[:len(stack)]: the
// condition under which it's still safe to keep extending stack toward
// results one value at a time.
func isPrefixOf(stack, results []wasmtype.ValueType) bool {
	if len(stack) > len(results) {
		return false
	}
	for i, ty := range stack {
		if ty != results[i] {
			return false
		}
	}
	return true
}

// genFrame fills f via fillFrame and closes it with `end`; used for the
// function body and any block/loop that isn't one arm of an if/else.
func (fc *FunctionContext) genFrame(f *Frame, depth int) {
	fc.fillFrame(f, depth)
	fc.emit(wasmtype.Instruction{Op: "end"})
}

// tryBranch attempts a br or br_if to whichever enclosing frame's
// BranchTarget already matches f's current stack shape (spec.md §4.5
// structured branching). Reports whether it emitted anything.
func (fc *FunctionContext) tryBranch(f *Frame, depth int) bool {
	source := fc.mod.Source
	wantBr := source.ChoiceProb(fc.mod.Params.ProbBr)
	wantBrIf := false
	if !wantBr {
		wantBrIf = source.ChoiceProb(fc.mod.Params.ProbBrIf)
	}
	if !wantBr && !wantBrIf {
		return false
	}

	n := len(fc.frames)
	var targets []int
	for i := n - 1; i >= 0; i-- {
		if sameTypes(fc.frames[i].BranchTarget, f.Stack) {
			targets = append(targets, i)
		}
	}
	if len(targets) == 0 {
		return false
	}
	frameIdx := targets[source.Choice(len(targets))]
	labelIdx := uint32((n - 1) - frameIdx)

	if wantBrIf {
		fc.genValue(wasmtype.I32, depth-1)
		f.Pop()
		fc.emit(wasmtype.Instruction{Op: "br_if", Immediates: []any{labelIdx}})
		return true
	}
	fc.emit(wasmtype.Instruction{Op: "br", Immediates: []any{labelIdx}})
	f.Stack = append([]wasmtype.ValueType{}, f.Results...)
	return true
}

// genStructured opens a block, loop, or if producing target (or nothing,
// for wasmtype.NoOut), recurses to fill its body, and pushes its result
// back onto the enclosing frame once closed. Every structured block here
// carries at most one result type, matching the single-value RuleStore
// invariant; blocks that take params get a type-index blocktype.
func (fc *FunctionContext) genStructured(target wasmtype.ValueType, depth int) {
	kind := []FrameKind{FrameBlock, FrameLoop, FrameIf}[fc.mod.Source.Choice(3)]

	var results []wasmtype.ValueType
	if target != wasmtype.NoOut {
		results = []wasmtype.ValueType{target}
	}

	// Pop a suffix of the enclosing frame's live stack into this block's
	// params: each top element is taken with probability ProbStructRet,
	// stopping at the first miss, then reversed back to stack order
	// (spec.md §4.5 get_struct_stack). Popping here only adjusts the
	// simulated stack bookkeeping — the values themselves were already
	// emitted by earlier instructions and stay on the real operand stack,
	// beneath whatever this block goes on to produce.
	cur := fc.top()
	var params []wasmtype.ValueType
	for len(cur.Stack) > 0 && fc.mod.Source.ChoiceProb(fc.mod.Params.ProbStructRet) {
		v, _ := cur.Pop()
		params = append(params, v)
	}
	for i, j := 0, len(params)-1; i < j; i, j = i+1, j-1 {
		params[i], params[j] = params[j], params[i]
	}

	blockImm := fc.blockTypeImmediate(params, results)

	if kind == FrameIf {
		fc.genValue(wasmtype.I32, depth-1)
		cur.Pop()
		fc.emit(wasmtype.Instruction{Op: "if", Immediates: []any{blockImm}})
	} else {
		op := "block"
		if kind == FrameLoop {
			op = "loop"
		}
		fc.emit(wasmtype.Instruction{Op: op, Immediates: []any{blockImm}})
	}

	thenFrame := &Frame{Kind: kind, Results: results, Params: params, Stack: append([]wasmtype.ValueType{}, params...)}
	if kind == FrameLoop {
		thenFrame.BranchTarget = thenFrame.Params // a loop branch restarts it, re-supplying its params
	} else {
		thenFrame.BranchTarget = results
	}

	fc.frames = append(fc.frames, thenFrame)
	fc.fillFrame(thenFrame, depth-1)
	fc.frames = fc.frames[:len(fc.frames)-1]

	// An if whose params and results aren't identical must have an else
	// arm: without one, the then branch's fallthrough has to pass its
	// params straight through as results, which only typechecks when the
	// two sequences are the same.
	if kind == FrameIf && (len(results) > 0 || len(params) > 0 || fc.mod.Source.ChoiceProb(0.5)) {
		fc.emit(wasmtype.Instruction{Op: "else"})
		elseFrame := &Frame{Kind: FrameIf, Results: results, Params: params, Stack: append([]wasmtype.ValueType{}, params...), BranchTarget: results}
		fc.frames = append(fc.frames, elseFrame)
		fc.fillFrame(elseFrame, depth-1)
		fc.frames = fc.frames[:len(fc.frames)-1]
	}
	fc.emit(wasmtype.Instruction{Op: "end"})

	for _, ty := range results {
		fc.top().Push(ty)
	}
}

// blockTypeImmediate picks the Immediates[0] shape writeInstruction expects
// for a block/loop/if opcode: the single-byte valtype encoding when the
// block has no params and at most one result (the common case), or an
// interned type index for anything wider (spec.md §4.5; core spec §5.5.4
// blocktype ::= 0x40 | valtype | s33).
func (fc *FunctionContext) blockTypeImmediate(params, results []wasmtype.ValueType) any {
	if len(params) == 0 && len(results) <= 1 {
		if len(results) == 0 {
			return wasmtype.EmptyBlockType
		}
		return wasmtype.EncodingByte[results[0]]
	}
	return fc.mod.allocType(params, results)
}
