package wasmtype

// registerReferenceAndTable adds the reference-type and table opcodes
// (core spec §5.4.5/§5.4.6). table.init/table.grow are registered here but
// also appear in ExcludedFromSynthesis: RuleStore never instantiates them,
// but the table stays queryable for validation and disassembly, mirroring
// the memory.grow/memory.init split in registerMemory.
func registerReferenceAndTable() {
	reg(OpInfo{Name: "ref.null", Outputs: []ValueType{AnyStack}, Operands: []Operand{{Kind: KindRefType}}})
	reg(OpInfo{Name: "ref.is_null", Inputs: []ValueType{AnyStack}, Outputs: []ValueType{I32}})
	reg(OpInfo{Name: "ref.func", Outputs: []ValueType{FuncRef}, Operands: []Operand{{Kind: KindFuncIdx}}})

	reg(OpInfo{Name: "table.get", Inputs: []ValueType{I32}, Outputs: []ValueType{AnyStack}, Operands: []Operand{{Kind: KindTableIdx}}})
	reg(OpInfo{Name: "table.set", Inputs: []ValueType{I32, AnyStack}, Operands: []Operand{{Kind: KindTableIdx}}})
	reg(OpInfo{Name: "table.size", Outputs: []ValueType{I32}, Operands: []Operand{{Kind: KindTableIdx}}})
	reg(OpInfo{Name: "table.grow", Inputs: []ValueType{AnyStack, I32}, Outputs: []ValueType{I32}, Operands: []Operand{{Kind: KindTableIdx}}})
	reg(OpInfo{Name: "table.fill", Inputs: []ValueType{I32, AnyStack, I32}, Operands: []Operand{{Kind: KindTableIdx}}})
	reg(OpInfo{Name: "table.copy", Inputs: []ValueType{I32, I32, I32}, Operands: []Operand{{Kind: KindTableIdx}, {Kind: KindTableIdx}}})
	reg(OpInfo{Name: "table.init", Inputs: []ValueType{I32, I32, I32}, Operands: []Operand{{Kind: KindTableIdx}, {Kind: KindTypeIdx}}})
	reg(OpInfo{Name: "elem.drop"})

	reg(OpInfo{Name: "call", Operands: []Operand{{Kind: KindFuncIdx}}})
	reg(OpInfo{Name: "call_indirect", Inputs: []ValueType{I32}, Operands: []Operand{{Kind: KindTypeIdx}, {Kind: KindTableIdx}}})
}
