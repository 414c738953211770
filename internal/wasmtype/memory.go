package wasmtype

// loadOp registers a T.load(-like) opcode taking a memarg, with alignment
// candidates up to the natural width of the access.
func loadOp(name string, out ValueType, widthBytes uint32) {
	reg(OpInfo{Name: name, Inputs: []ValueType{I32}, Outputs: []ValueType{out}, Operands: []Operand{{Kind: KindMemArg}}})
	MemArgAlign[name] = alignOf(widthBytes)
}

func storeOp(name string, val ValueType, widthBytes uint32) {
	reg(OpInfo{Name: name, Inputs: []ValueType{I32, val}, Operands: []Operand{{Kind: KindMemArg}}})
	MemArgAlign[name] = alignOf(widthBytes)
}

// atomicLoadOp, atomicStoreOp, atomicRMWOp, and atomicCmpxchgOp register an
// atomic memory opcode with its alignment forced to the single maximum
// value for its access width, rather than the range loadOp/storeOp allow:
// the atomic proposal requires a natural-alignment memarg on every atomic
// access (spec.md §4.1; original_source/fuzz/executor/codegen/generator.py's
// memarg branch, "atomic instructions must always have maximum alignment").
func atomicLoadOp(name string, out ValueType, widthBytes uint32) {
	reg(OpInfo{Name: name, Inputs: []ValueType{I32}, Outputs: []ValueType{out}, Operands: []Operand{{Kind: KindMemArg}}})
	MemArgAlign[name] = []uint32{maxAlignExp(widthBytes)}
}

func atomicStoreOp(name string, val ValueType, widthBytes uint32) {
	reg(OpInfo{Name: name, Inputs: []ValueType{I32, val}, Operands: []Operand{{Kind: KindMemArg}}})
	MemArgAlign[name] = []uint32{maxAlignExp(widthBytes)}
}

func atomicRMWOp(name string, val ValueType, widthBytes uint32) {
	reg(OpInfo{Name: name, Inputs: []ValueType{I32, val}, Outputs: []ValueType{val}, Operands: []Operand{{Kind: KindMemArg}}})
	MemArgAlign[name] = []uint32{maxAlignExp(widthBytes)}
}

func atomicCmpxchgOp(name string, val ValueType, widthBytes uint32) {
	reg(OpInfo{Name: name, Inputs: []ValueType{I32, val, val}, Outputs: []ValueType{val}, Operands: []Operand{{Kind: KindMemArg}}})
	MemArgAlign[name] = []uint32{maxAlignExp(widthBytes)}
}

func maxAlignExp(widthBytes uint32) uint32 {
	exp := uint32(0)
	for (uint32(1) << exp) < widthBytes {
		exp++
	}
	return exp
}

// registerAtomic adds the threads proposal's atomic load/store/read-modify-
// write family: i32/i64 at their natural width plus the narrower _u
// sub-word accesses, per shape.
func registerAtomic() {
	atomicLoadOp("i32.atomic.load", I32, 4)
	atomicLoadOp("i32.atomic.load8_u", I32, 1)
	atomicLoadOp("i32.atomic.load16_u", I32, 2)
	atomicLoadOp("i64.atomic.load", I64, 8)
	atomicLoadOp("i64.atomic.load8_u", I64, 1)
	atomicLoadOp("i64.atomic.load16_u", I64, 2)
	atomicLoadOp("i64.atomic.load32_u", I64, 4)

	atomicStoreOp("i32.atomic.store", I32, 4)
	atomicStoreOp("i32.atomic.store8", I32, 1)
	atomicStoreOp("i32.atomic.store16", I32, 2)
	atomicStoreOp("i64.atomic.store", I64, 8)
	atomicStoreOp("i64.atomic.store8", I64, 1)
	atomicStoreOp("i64.atomic.store16", I64, 2)
	atomicStoreOp("i64.atomic.store32", I64, 4)

	for _, op := range []string{"add", "sub", "and", "or", "xor", "xchg"} {
		atomicRMWOp("i32.atomic.rmw."+op, I32, 4)
		atomicRMWOp("i32.atomic.rmw8."+op+"_u", I32, 1)
		atomicRMWOp("i32.atomic.rmw16."+op+"_u", I32, 2)
		atomicRMWOp("i64.atomic.rmw."+op, I64, 8)
		atomicRMWOp("i64.atomic.rmw8."+op+"_u", I64, 1)
		atomicRMWOp("i64.atomic.rmw16."+op+"_u", I64, 2)
		atomicRMWOp("i64.atomic.rmw32."+op+"_u", I64, 4)
	}
	atomicCmpxchgOp("i32.atomic.rmw.cmpxchg", I32, 4)
	atomicCmpxchgOp("i32.atomic.rmw8.cmpxchg_u", I32, 1)
	atomicCmpxchgOp("i32.atomic.rmw16.cmpxchg_u", I32, 2)
	atomicCmpxchgOp("i64.atomic.rmw.cmpxchg", I64, 8)
	atomicCmpxchgOp("i64.atomic.rmw8.cmpxchg_u", I64, 1)
	atomicCmpxchgOp("i64.atomic.rmw16.cmpxchg_u", I64, 2)
	atomicCmpxchgOp("i64.atomic.rmw32.cmpxchg_u", I64, 4)
}

func registerMemory() {
	loadOp("i32.load", I32, 4)
	loadOp("i64.load", I64, 8)
	loadOp("f32.load", F32, 4)
	loadOp("f64.load", F64, 8)
	loadOp("i32.load8_s", I32, 1)
	loadOp("i32.load8_u", I32, 1)
	loadOp("i32.load16_s", I32, 2)
	loadOp("i32.load16_u", I32, 2)
	loadOp("i64.load8_s", I64, 1)
	loadOp("i64.load8_u", I64, 1)
	loadOp("i64.load16_s", I64, 2)
	loadOp("i64.load16_u", I64, 2)
	loadOp("i64.load32_s", I64, 4)
	loadOp("i64.load32_u", I64, 4)

	storeOp("i32.store", I32, 4)
	storeOp("i64.store", I64, 8)
	storeOp("f32.store", F32, 4)
	storeOp("f64.store", F64, 8)
	storeOp("i32.store8", I32, 1)
	storeOp("i32.store16", I32, 2)
	storeOp("i64.store8", I64, 1)
	storeOp("i64.store16", I64, 2)
	storeOp("i64.store32", I64, 4)

	reg(OpInfo{Name: "memory.size", Outputs: []ValueType{I32}})
	reg(OpInfo{Name: "memory.grow", Inputs: []ValueType{I32}, Outputs: []ValueType{I32}})
	reg(OpInfo{Name: "memory.copy", Inputs: []ValueType{I32, I32, I32}})
	reg(OpInfo{Name: "memory.fill", Inputs: []ValueType{I32, I32, I32}})
	reg(OpInfo{Name: "memory.init", Inputs: []ValueType{I32, I32, I32}})
	reg(OpInfo{Name: "data.drop"})

	registerAtomic()
}
