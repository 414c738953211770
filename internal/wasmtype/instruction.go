package wasmtype

// Instruction is one emitted Wasm instruction: an opcode name (resolved
// against Table) plus its immediate operand values in operand order. The
// concrete Go type of each entry in Immediates depends on the
// corresponding Operand.Kind (uint32 for index/lane kinds, int32/int64/
// float32/float64 for consts, []byte for byte16, []uint32 for laneidx16,
// a MemArg for memarg, a nested []Instruction for blocktype bodies handled
// by the caller rather than stored here).
type Instruction struct {
	Op         string
	Immediates []any
}

// MemArg is the (align, offset) pair carried by every load/store
// instruction (core spec §5.4.6).
type MemArg struct {
	Align  uint32
	Offset uint32
}

// Signature looks up op's static signature, reporting ok=false for an
// unknown opcode name.
func Signature(op string) (OpInfo, bool) {
	info, ok := Table[op]
	return info, ok
}
