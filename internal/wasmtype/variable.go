package wasmtype

// registerParametricAndVariable adds drop/select and the local/global
// accessors. Each accessor is registered once per allowed value type
// because a Wasm local.get/set/tee's effective stack signature depends on
// the type stored at that index, and InstructionTable entries are keyed by
// name alone — internal/modgen resolves the concrete type before picking
// the rule, the same way the teacher's own generator does for
// context-provided indices (spec.md §4.1 "labelidx/tableidx/funcidx/typeidx
// | context-provided index").
func registerParametricAndVariable() {
	reg(OpInfo{Name: "drop", Inputs: []ValueType{AnyStack}})
	reg(OpInfo{Name: "select", Inputs: []ValueType{AnyStack, AnyStack, I32}, Outputs: []ValueType{AnyStack}})
	reg(OpInfo{Name: "select_t", Inputs: []ValueType{AnyStack, AnyStack, I32}, Outputs: []ValueType{AnyStack}, Operands: []Operand{{Kind: KindVec, Inner: KindBlockType}}})

	for _, ty := range AllValueTypes {
		reg(OpInfo{Name: "local.get." + string(ty), WireName: "local.get", Outputs: []ValueType{ty}, Operands: []Operand{{Kind: KindLocalIdx}}})
		reg(OpInfo{Name: "local.set." + string(ty), WireName: "local.set", Inputs: []ValueType{ty}, Operands: []Operand{{Kind: KindLocalIdx}}})
		reg(OpInfo{Name: "local.tee." + string(ty), WireName: "local.tee", Inputs: []ValueType{ty}, Outputs: []ValueType{ty}, Operands: []Operand{{Kind: KindLocalIdx}}})
		reg(OpInfo{Name: "global.get." + string(ty), WireName: "global.get", Outputs: []ValueType{ty}, Operands: []Operand{{Kind: KindGlobalIdx}}})
		reg(OpInfo{Name: "global.set." + string(ty), WireName: "global.set", Inputs: []ValueType{ty}, Operands: []Operand{{Kind: KindGlobalIdx}}})
	}

	// Bare (untyped) entries so the Emitter's own Signature lookup — which
	// only ever sees the wire name, not the typed rule that produced it —
	// can still recover the operand shape to encode.
	reg(OpInfo{Name: "local.get", Operands: []Operand{{Kind: KindLocalIdx}}})
	reg(OpInfo{Name: "local.set", Operands: []Operand{{Kind: KindLocalIdx}}})
	reg(OpInfo{Name: "local.tee", Operands: []Operand{{Kind: KindLocalIdx}}})
	reg(OpInfo{Name: "global.get", Operands: []Operand{{Kind: KindGlobalIdx}}})
	reg(OpInfo{Name: "global.set", Operands: []Operand{{Kind: KindGlobalIdx}}})

	reg(OpInfo{Name: "nop"})
	reg(OpInfo{Name: "unreachable"})
}
