// Package wasmtype holds the static, read-only catalog of Wasm value types
// and opcodes used by the generator (spec C1, InstructionTable).
package wasmtype

// ValueType is a Wasm value type, plus the two pseudo-types used internally
// by rule patterns and stack-effect bookkeeping: NoOut (an instruction that
// produces no value) and AnyStack (a polymorphic marker, never pushed onto
// a concrete stack).
type ValueType string

const (
	I32       ValueType = "i32"
	I64       ValueType = "i64"
	F32       ValueType = "f32"
	F64       ValueType = "f64"
	V128      ValueType = "v128"
	FuncRef   ValueType = "funcref"
	ExternRef ValueType = "externref"

	// NoOut marks an instruction that leaves the stack depth unchanged in
	// terms of produced values (e.g. stores, nop). Never appears on a
	// concrete value stack.
	NoOut ValueType = "noout"
	// AnyStack is a polymorphic placeholder used only inside rule patterns
	// before a concrete type is bound; it never reaches the value stack.
	AnyStack ValueType = "anystack"
)

// AllValueTypes lists the concrete Wasm value types a stack slot can hold.
var AllValueTypes = []ValueType{I32, I64, F32, F64, V128, FuncRef, ExternRef}

// EncodingByte is the single-byte binary encoding of a value/ref/block type,
// per the Wasm binary format (section 5.3 of the core spec).
var EncodingByte = map[ValueType]byte{
	I32:       0x7f,
	I64:       0x7e,
	F32:       0x7d,
	F64:       0x7c,
	V128:      0x7b,
	FuncRef:   0x70,
	ExternRef: 0x6f,
}

// EmptyBlockType is the encoding of a block type with no params and no
// results ("emptyblock" in spec.md §3).
const EmptyBlockType byte = 0x40

// IsFloat reports whether ty is f32 or f64 (not the v128 float lane shapes,
// which are opcode-name suffixes, not ValueTypes).
func IsFloat(ty ValueType) bool {
	return ty == F32 || ty == F64
}

// IsReference reports whether ty is funcref or externref.
func IsReference(ty ValueType) bool {
	return ty == FuncRef || ty == ExternRef
}

// Filter returns the subset of types for which keep returns true.
func Filter(types []ValueType, keep func(ValueType) bool) []ValueType {
	out := make([]ValueType, 0, len(types))
	for _, t := range types {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// WithoutBlacklist removes any type in blacklist from AllValueTypes (and
// NoOut, if blacklisted); used to build Config.allowedTypes.
func WithoutBlacklist(blacklist []ValueType) []ValueType {
	blocked := make(map[ValueType]bool, len(blacklist))
	for _, b := range blacklist {
		blocked[b] = true
	}
	all := append([]ValueType{NoOut}, AllValueTypes...)
	return Filter(all, func(t ValueType) bool { return !blocked[t] })
}
