package wasmtype

// simdLaneShapes are the v128 lane interpretations the generator treats as
// first-class "shapes" for splat/extract_lane/replace_lane/arithmetic
// (core spec §5.4.7 and generator.py's TYPES v128 handling).
var simdIntShapes = []string{"i8x16", "i16x8", "i32x4", "i64x2"}
var simdFloatShapes = []string{"f32x4", "f64x2"}

func simdLaneType(shape string) ValueType {
	switch shape {
	case "i8x16", "i16x8", "i32x4":
		return I32
	case "i64x2":
		return I64
	case "f32x4":
		return F32
	case "f64x2":
		return F64
	}
	panic("wasmtype: unknown simd shape " + shape)
}

// registerSIMD adds the v128 opcode family: memory access, lane
// splat/extract/replace, the per-shape arithmetic suites, the two shuffle
// immediates the OperandSampler special-cases (§4.3 shuffle predicates),
// and bitselect/select-family ops. This is a representative MVP-complete
// subset of the SIMD proposal, not the full ~240-opcode catalog.
func registerSIMD() {
	loadOp("v128.load", V128, 16)
	storeOp("v128.store", V128, 16)
	reg(OpInfo{Name: "v128.const", Outputs: []ValueType{V128}, Operands: []Operand{{Kind: KindByte16}}})

	reg(OpInfo{Name: "v128.not", Inputs: []ValueType{V128}, Outputs: []ValueType{V128}})
	reg(OpInfo{Name: "v128.and", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
	reg(OpInfo{Name: "v128.andnot", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
	reg(OpInfo{Name: "v128.or", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
	reg(OpInfo{Name: "v128.xor", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
	reg(OpInfo{Name: "v128.bitselect", Inputs: []ValueType{V128, V128, V128}, Outputs: []ValueType{V128}})
	reg(OpInfo{Name: "v128.any_true", Inputs: []ValueType{V128}, Outputs: []ValueType{I32}})

	// i8x16.shuffle takes 16 lane-index immediates selecting from the two
	// concatenated input vectors (generator.py's laneidx16 operand kind);
	// the OperandSampler's _shuffle_dupN_from_imm family constrains these
	// to produce duplicate-lane patterns that exercise broadcast lowering.
	reg(OpInfo{Name: "i8x16.shuffle", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}, Operands: []Operand{{Kind: KindLaneIdx16}}})
	reg(OpInfo{Name: "i8x16.swizzle", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})

	for _, shape := range append(append([]string{}, simdIntShapes...), simdFloatShapes...) {
		lane := simdLaneType(shape)
		reg(OpInfo{Name: shape + ".splat", Inputs: []ValueType{lane}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".extract_lane", Inputs: []ValueType{V128}, Outputs: []ValueType{lane}, Operands: []Operand{{Kind: KindLaneIdx}}})
		reg(OpInfo{Name: shape + ".replace_lane", Inputs: []ValueType{V128, lane}, Outputs: []ValueType{V128}, Operands: []Operand{{Kind: KindLaneIdx}}})
		reg(OpInfo{Name: shape + ".add", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".sub", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".neg", Inputs: []ValueType{V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".eq", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".ne", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
	}

	for _, shape := range []string{"i8x16", "i16x8", "i32x4"} {
		reg(OpInfo{Name: shape + ".shl", Inputs: []ValueType{V128, I32}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".shr_s", Inputs: []ValueType{V128, I32}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".shr_u", Inputs: []ValueType{V128, I32}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".min_s", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".min_u", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".max_s", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".max_u", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".all_true", Inputs: []ValueType{V128}, Outputs: []ValueType{I32}})
		reg(OpInfo{Name: shape + ".bitmask", Inputs: []ValueType{V128}, Outputs: []ValueType{I32}})
	}

	for _, shape := range simdFloatShapes {
		reg(OpInfo{Name: shape + ".mul", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".div", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".min", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".max", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".sqrt", Inputs: []ValueType{V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".ceil", Inputs: []ValueType{V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".floor", Inputs: []ValueType{V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".trunc", Inputs: []ValueType{V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".nearest", Inputs: []ValueType{V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".lt", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".gt", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".le", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
		reg(OpInfo{Name: shape + ".ge", Inputs: []ValueType{V128, V128}, Outputs: []ValueType{V128}})
	}

	reg(OpInfo{Name: "f32x4.demote_f64x2_zero", Inputs: []ValueType{V128}, Outputs: []ValueType{V128}})
	reg(OpInfo{Name: "f64x2.promote_low_f32x4", Inputs: []ValueType{V128}, Outputs: []ValueType{V128}})
	reg(OpInfo{Name: "i32x4.trunc_sat_f32x4_s", Inputs: []ValueType{V128}, Outputs: []ValueType{V128}})
	reg(OpInfo{Name: "i32x4.trunc_sat_f32x4_u", Inputs: []ValueType{V128}, Outputs: []ValueType{V128}})
	reg(OpInfo{Name: "f32x4.convert_i32x4_s", Inputs: []ValueType{V128}, Outputs: []ValueType{V128}})
	reg(OpInfo{Name: "f32x4.convert_i32x4_u", Inputs: []ValueType{V128}, Outputs: []ValueType{V128}})
}
