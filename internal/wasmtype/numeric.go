package wasmtype

// intBinops are the integer binary operators sharing signature (T,T)->T.
var intBinops = []string{"add", "sub", "mul", "div_s", "div_u", "rem_s", "rem_u", "and", "or", "xor", "shl", "shr_s", "shr_u", "rotl", "rotr"}

// intUnops are the integer unary operators sharing signature (T)->T.
var intUnops = []string{"clz", "ctz", "popcnt"}

// intTestops are (T)->i32.
var intTestops = []string{"eqz"}

// intRelops are (T,T)->i32.
var intRelops = []string{"eq", "ne", "lt_s", "lt_u", "gt_s", "gt_u", "le_s", "le_u", "ge_s", "ge_u"}

var floatBinops = []string{"add", "sub", "mul", "div", "min", "max", "copysign"}
var floatUnops = []string{"abs", "neg", "sqrt", "ceil", "floor", "trunc", "nearest"}
var floatRelops = []string{"eq", "ne", "lt", "gt", "le", "ge"}

func registerNumeric() {
	for _, ty := range []ValueType{I32, I64} {
		reg(OpInfo{Name: string(ty) + ".const", Inputs: nil, Outputs: []ValueType{ty}, Operands: []Operand{{Kind: OperandKind(ty)}}})
		for _, op := range intBinops {
			reg(OpInfo{Name: string(ty) + "." + op, Inputs: []ValueType{ty, ty}, Outputs: []ValueType{ty}})
		}
		for _, op := range intUnops {
			reg(OpInfo{Name: string(ty) + "." + op, Inputs: []ValueType{ty}, Outputs: []ValueType{ty}})
		}
		for _, op := range intTestops {
			reg(OpInfo{Name: string(ty) + "." + op, Inputs: []ValueType{ty}, Outputs: []ValueType{I32}})
		}
		for _, op := range intRelops {
			reg(OpInfo{Name: string(ty) + "." + op, Inputs: []ValueType{ty, ty}, Outputs: []ValueType{I32}})
		}
	}

	for _, ty := range []ValueType{F32, F64} {
		reg(OpInfo{Name: string(ty) + ".const", Inputs: nil, Outputs: []ValueType{ty}, Operands: []Operand{{Kind: OperandKind(ty)}}})
		for _, op := range floatBinops {
			reg(OpInfo{Name: string(ty) + "." + op, Inputs: []ValueType{ty, ty}, Outputs: []ValueType{ty}})
		}
		for _, op := range floatUnops {
			reg(OpInfo{Name: string(ty) + "." + op, Inputs: []ValueType{ty}, Outputs: []ValueType{ty}})
		}
		for _, op := range floatRelops {
			reg(OpInfo{Name: string(ty) + "." + op, Inputs: []ValueType{ty, ty}, Outputs: []ValueType{I32}})
		}
	}

	// Conversions between numeric types (a representative, MVP-complete set).
	conv := []OpInfo{
		{Name: "i32.wrap_i64", Inputs: []ValueType{I64}, Outputs: []ValueType{I32}},
		{Name: "i64.extend_i32_s", Inputs: []ValueType{I32}, Outputs: []ValueType{I64}},
		{Name: "i64.extend_i32_u", Inputs: []ValueType{I32}, Outputs: []ValueType{I64}},
		{Name: "i32.extend8_s", Inputs: []ValueType{I32}, Outputs: []ValueType{I32}},
		{Name: "i32.extend16_s", Inputs: []ValueType{I32}, Outputs: []ValueType{I32}},
		{Name: "i64.extend8_s", Inputs: []ValueType{I64}, Outputs: []ValueType{I64}},
		{Name: "i64.extend16_s", Inputs: []ValueType{I64}, Outputs: []ValueType{I64}},
		{Name: "i64.extend32_s", Inputs: []ValueType{I64}, Outputs: []ValueType{I64}},
		{Name: "i32.trunc_f32_s", Inputs: []ValueType{F32}, Outputs: []ValueType{I32}},
		{Name: "i32.trunc_f32_u", Inputs: []ValueType{F32}, Outputs: []ValueType{I32}},
		{Name: "i32.trunc_f64_s", Inputs: []ValueType{F64}, Outputs: []ValueType{I32}},
		{Name: "i32.trunc_f64_u", Inputs: []ValueType{F64}, Outputs: []ValueType{I32}},
		{Name: "i64.trunc_f32_s", Inputs: []ValueType{F32}, Outputs: []ValueType{I64}},
		{Name: "i64.trunc_f32_u", Inputs: []ValueType{F32}, Outputs: []ValueType{I64}},
		{Name: "i64.trunc_f64_s", Inputs: []ValueType{F64}, Outputs: []ValueType{I64}},
		{Name: "i64.trunc_f64_u", Inputs: []ValueType{F64}, Outputs: []ValueType{I64}},
		{Name: "i32.trunc_sat_f32_s", Inputs: []ValueType{F32}, Outputs: []ValueType{I32}},
		{Name: "i32.trunc_sat_f32_u", Inputs: []ValueType{F32}, Outputs: []ValueType{I32}},
		{Name: "i32.trunc_sat_f64_s", Inputs: []ValueType{F64}, Outputs: []ValueType{I32}},
		{Name: "i32.trunc_sat_f64_u", Inputs: []ValueType{F64}, Outputs: []ValueType{I32}},
		{Name: "i64.trunc_sat_f32_s", Inputs: []ValueType{F32}, Outputs: []ValueType{I64}},
		{Name: "i64.trunc_sat_f32_u", Inputs: []ValueType{F32}, Outputs: []ValueType{I64}},
		{Name: "i64.trunc_sat_f64_s", Inputs: []ValueType{F64}, Outputs: []ValueType{I64}},
		{Name: "i64.trunc_sat_f64_u", Inputs: []ValueType{F64}, Outputs: []ValueType{I64}},
		{Name: "f32.convert_i32_s", Inputs: []ValueType{I32}, Outputs: []ValueType{F32}},
		{Name: "f32.convert_i32_u", Inputs: []ValueType{I32}, Outputs: []ValueType{F32}},
		{Name: "f32.convert_i64_s", Inputs: []ValueType{I64}, Outputs: []ValueType{F32}},
		{Name: "f32.convert_i64_u", Inputs: []ValueType{I64}, Outputs: []ValueType{F32}},
		{Name: "f64.convert_i32_s", Inputs: []ValueType{I32}, Outputs: []ValueType{F64}},
		{Name: "f64.convert_i32_u", Inputs: []ValueType{I32}, Outputs: []ValueType{F64}},
		{Name: "f64.convert_i64_s", Inputs: []ValueType{I64}, Outputs: []ValueType{F64}},
		{Name: "f64.convert_i64_u", Inputs: []ValueType{I64}, Outputs: []ValueType{F64}},
		{Name: "f32.demote_f64", Inputs: []ValueType{F64}, Outputs: []ValueType{F32}},
		{Name: "f64.promote_f32", Inputs: []ValueType{F32}, Outputs: []ValueType{F64}},
		{Name: "i32.reinterpret_f32", Inputs: []ValueType{F32}, Outputs: []ValueType{I32}},
		{Name: "i64.reinterpret_f64", Inputs: []ValueType{F64}, Outputs: []ValueType{I64}},
		{Name: "f32.reinterpret_i32", Inputs: []ValueType{I32}, Outputs: []ValueType{F32}},
		{Name: "f64.reinterpret_i64", Inputs: []ValueType{I64}, Outputs: []ValueType{F64}},
	}
	for _, c := range conv {
		reg(c)
	}
}

// FloatCanonOpcodes is the set of scalar/vector opcodes whose result may be
// a non-canonical NaN bit pattern and which therefore receive the
// canonicalization gadget (spec.md §3 invariant, §4.5 step 6) when
// Config.CanonicalizeNaNs is active.
var FloatCanonOpcodes = map[string]bool{
	"f32.add": true, "f32.sub": true, "f32.mul": true, "f32.div": true,
	"f32.min": true, "f32.max": true, "f32.neg": true, "f32.sqrt": true,
	"f32.ceil": true, "f32.floor": true, "f32.trunc": true, "f32.nearest": true,
	"f64.add": true, "f64.sub": true, "f64.mul": true, "f64.div": true,
	"f64.min": true, "f64.max": true, "f64.neg": true, "f64.sqrt": true,
	"f64.ceil": true, "f64.floor": true, "f64.trunc": true, "f64.nearest": true,
	"f32x4.add": true, "f32x4.sub": true, "f32x4.mul": true, "f32x4.div": true,
	"f32x4.min": true, "f32x4.max": true, "f32x4.neg": true, "f32x4.sqrt": true,
	"f32x4.ceil": true, "f32x4.floor": true, "f32x4.trunc": true, "f32x4.nearest": true,
	"f64x2.add": true, "f64x2.sub": true, "f64x2.mul": true, "f64x2.div": true,
	"f64x2.min": true, "f64x2.max": true, "f64x2.neg": true, "f64x2.sqrt": true,
	"f64x2.ceil": true, "f64x2.floor": true, "f64x2.trunc": true, "f64x2.nearest": true,
	"f32.demote_f64": true, "f64.promote_f32": true,
	"f32x4.demote_f64x2_zero": true, "f64x2.promote_low_f32x4": true,
}
