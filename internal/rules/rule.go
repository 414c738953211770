// Package rules holds the typed rewrite-rule representation and the
// RuleStore that indexes them by result type and terminal opcode (spec C3).
package rules

import "github.com/cranerule/wasmgen/internal/wasmtype"

// Step is one node of an InstrNode's body. A body is an ordered sequence
// of Steps; exactly the steps with Op == "arg" push a rule parameter onto
// the stack, in the position named by ArgIndex — everything else is a real
// opcode whose immediate operands are oparg placeholders resolved through
// Conds at instantiation time (spec.md §6 body grammar: `("arg", i)`,
// `(opcode_name, operand_tuple)`).
type Step struct {
	// Op is "arg" for a parameter push, otherwise a wasmtype opcode name.
	Op string

	// ArgIndex selects which rule parameter this step pushes. Only valid
	// when Op == "arg".
	ArgIndex int

	// OpArgs names, in operand order, which Conds key supplies each of
	// this opcode's immediate operands. Only valid when Op != "arg"; its
	// length must equal len(wasmtype.Table[Op].Operands).
	OpArgs []int
}

// ConditionExpr is a node of the small expression language attached to an
// oparg slot (spec.md §3/§4.3): either a leaf (a literal int64, or a
// reference to another oparg's sampled value) or an operator applied to
// nested ConditionExprs (e.g. lt/le/gt/ge/eq/nonzero/minusone/pow2, or one
// of the SIMD shuffle-immediate predicates).
type ConditionExpr struct {
	// Op names the operator, or one of the two leaf forms "const"/"oparg".
	Op string

	// Args holds nested operands for an operator node.
	Args []ConditionExpr

	// IntVal carries the literal value for a "const" leaf.
	IntVal int64

	// OpArgRef carries the referenced oparg index for an "oparg" leaf
	// (a condition may depend on a sibling operand already sampled for
	// the same instruction, e.g. "second shuffle lane >= first").
	OpArgRef int
}

// Const builds a constant leaf.
func Const(v int64) ConditionExpr { return ConditionExpr{Op: "const", IntVal: v} }

// OpArg builds a reference-to-sibling-oparg leaf.
func OpArg(idx int) ConditionExpr { return ConditionExpr{Op: "oparg", OpArgRef: idx} }

// Op builds an operator node.
func Op(name string, args ...ConditionExpr) ConditionExpr {
	return ConditionExpr{Op: name, Args: args}
}

// InstrNode is one typed rewrite rule: popping len(ParamTypes) values off
// the stack (in order) and pushing len(RetTypes) (0 or 1, per the §3
// invariant) after executing Body. Conds maps an oparg index (as used by
// some Step in Body) to the condition list constraining that operand's
// sampled value.
type InstrNode struct {
	ParamTypes []wasmtype.ValueType
	RetTypes   []wasmtype.ValueType
	Body       []Step
	Conds      map[int][]ConditionExpr
}

// RetType returns the rule's single output type, or wasmtype.NoOut if it
// produces no value (spec.md §4.2 "target_type == noout is valid").
func (n *InstrNode) RetType() wasmtype.ValueType {
	if len(n.RetTypes) == 0 {
		return wasmtype.NoOut
	}
	return n.RetTypes[0]
}

// TerminalOpcode returns the opcode name of the rule's last body step,
// which RuleStore indexes on (spec.md §4.2 "terminal opcode").
func (n *InstrNode) TerminalOpcode() string {
	if len(n.Body) == 0 {
		return ""
	}
	return n.Body[len(n.Body)-1].Op
}

// fromSingleOpcode builds the trivial one-instruction rule for op: push
// each input in order, then apply op itself. This is exactly the shape
// InstrNode.from_single_instr builds in the original generator, and is how
// every TypingRules entry is constructed (typing.go).
func fromSingleOpcode(info wasmtype.OpInfo) *InstrNode {
	body := make([]Step, 0, len(info.Inputs)+1)
	for i := range info.Inputs {
		body = append(body, Step{Op: "arg", ArgIndex: i})
	}
	opargs := make([]int, len(info.Operands))
	for i := range opargs {
		opargs[i] = i
	}
	body = append(body, Step{Op: info.Name, OpArgs: opargs})
	return &InstrNode{
		ParamTypes: append([]wasmtype.ValueType{}, info.Inputs...),
		RetTypes:   append([]wasmtype.ValueType{}, info.Outputs...),
		Body:       body,
		Conds:      map[int][]ConditionExpr{},
	}
}
