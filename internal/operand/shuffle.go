package operand

import (
	"github.com/cranerule/wasmgen/internal/rng"
	"github.com/cranerule/wasmgen/internal/rules"
)

// ShuffleFunc draws one i8x16.shuffle (or byte16 const) immediate as 16
// lane-select bytes. Registered in shuffleFuncs so new Cranelift-mined
// predicates can be added without touching SampleConstrainedV128's
// dispatch (spec.md §9 OQ1).
type ShuffleFunc func(source rng.Source) [16]byte

// shuffleFuncs holds every SIMD shuffle/replication predicate the
// original sampler special-cases, grounded verbatim on
// generator.py.gen_operand_with_conds's pshufd/shufps/pshuflw/pshufhw/
// palignr/pblendw branches (all of them operate on lane-select bytes, so
// unlike the int path they produce a full 16-byte pattern directly rather
// than one scalar).
var shuffleFuncs = map[string]ShuffleFunc{
	"_pshufd_lhs_imm": func(source rng.Source) [16]byte { return pshufGroups4(source, 0, 2) },
	"_pshufd_rhs_imm": func(source rng.Source) [16]byte { return pshufGroups4(source, 4, 2) },
	"_shufps_imm": func(source rng.Source) [16]byte {
		return shufpsLike(source, [4]int{0, 0, 4, 4})
	},
	"_shufps_rev_imm": func(source rng.Source) [16]byte {
		return shufpsLike(source, [4]int{4, 4, 0, 0})
	},
	"_pshuflw_lhs_imm": func(source rng.Source) [16]byte { return pshufwLike(source, false, 0) },
	"_pshuflw_rhs_imm": func(source rng.Source) [16]byte { return pshufwLike(source, false, 8) },
	"_pshufhw_lhs_imm": func(source rng.Source) [16]byte { return pshufwLike(source, true, 0) },
	"_pshufhw_rhs_imm": func(source rng.Source) [16]byte { return pshufwLike(source, true, 8) },
	"_palignr_imm_from_immediate": func(source rng.Source) [16]byte {
		var out [16]byte
		imm := byte(source.Choice(17)) // 0..16
		for i := range out {
			out[i] = byte(i) + imm
		}
		return out
	},
	"_pblendw_imm": func(source rng.Source) [16]byte {
		var out [16]byte
		for i := 0; i < 8; i++ {
			imm := byte(source.Int(0, 1))*8 + byte(i)
			out[2*i] = imm * 2
			out[2*i+1] = imm*2 + 1
		}
		return out
	},
}

// pshufGroups4 builds pshufd-family immediates: four groups of 4
// consecutive bytes, each group offset by a 2-bit selector drawn in
// [base, base+3] and scaled by 4 bytes.
func pshufGroups4(source rng.Source, base int, selectorBits int) [16]byte {
	var out [16]byte
	for g := 0; g < 4; g++ {
		sel := base + source.Int(0, (1<<uint(selectorBits))-1)
		for b := 0; b < 4; b++ {
			out[4*g+b] = byte(sel*4 + b)
		}
	}
	return out
}

// shufpsLike mirrors _shufps_imm/_shufps_rev_imm: group g's selector base
// is groupBias[g], plus a uniformly drawn 2-bit offset.
func shufpsLike(source rng.Source, groupBias [4]int) [16]byte {
	var out [16]byte
	for g := 0; g < 4; g++ {
		sel := groupBias[g] + source.Int(0, 3)
		for b := 0; b < 4; b++ {
			out[4*g+b] = byte(sel*4 + b)
		}
	}
	return out
}

// pshufwLike mirrors _pshuflw_*_imm/_pshufhw_*_imm: the four word-groups
// in the untouched half pass through identity, the four in the shuffled
// half draw a 2-bit selector offset by lhsBias.
func pshufwLike(source rng.Source, highHalf bool, lhsBias int) [16]byte {
	var out [16]byte
	for g := 0; g < 8; g++ {
		var sel int
		identityGroup := (!highHalf && g >= 4) || (highHalf && g < 4)
		switch {
		case identityGroup && highHalf:
			sel = g + 8
		case identityGroup:
			sel = g
		default:
			sel = lhsBias + source.Int(0, 3)
		}
		for b := 0; b < 2; b++ {
			out[2*g+b] = byte(sel*2 + b)
		}
	}
	return out
}

// SampleConstrainedV128 draws a full 128-bit immediate (for byte16 or
// laneidx16 operands) subject to conds[opargIdx]. Unlike the int path,
// most of these predicates fully determine the 16 bytes themselves; when
// none match, the value falls back to 16 independently uniform bytes.
func SampleConstrainedV128(source rng.Source, opargIdx int, conds map[int][]rules.ConditionExpr) [16]byte {
	for _, cond := range conds[opargIdx] {
		if fn, ok := shuffleFuncs[cond.Op]; ok {
			return fn(source)
		}
		switch cond.Op {
		case "_shuffle_dup8_from_imm":
			lane := byte(source.Int(0, 0x1f))
			return fill16(lane)
		case "_shuffle_dup16_from_imm":
			return fillDup(dup16Pattern(int64(source.Int(0, (1<<10)-1))), 2)
		case "_shuffle_dup32_from_imm":
			return fillDup(dup32Pattern(int64(source.Int(0, (1<<20)-1))), 4)
		case "_shuffle_dup64_from_imm":
			return fillDup(dup64Pattern(int64(source.Int(0, (1<<40)-1))), 8)
		}
	}
	var out [16]byte
	for i := range out {
		out[i] = byte(source.Int(0, 255))
	}
	return out
}

func fill16(b byte) [16]byte {
	var out [16]byte
	for i := range out {
		out[i] = b
	}
	return out
}

// fillDup repeats a lane value of width*8 bits across all 16 bytes,
// little-endian within each repeat, mirroring the original's
// 0x0001...0001-style multiplicative replication constants.
func fillDup(lane uint64, width int) [16]byte {
	var out [16]byte
	for i := 0; i < 16; i += width {
		for b := 0; b < width; b++ {
			out[i+b] = byte(lane >> uint(8*b))
		}
	}
	return out
}

func dup16Pattern(lane int64) uint64 {
	v := uint64(lane)
	return (v & 0b11111) | ((v >> 5) & 0b11111)
}
func dup32Pattern(lane int64) uint64 {
	v := uint64(lane)
	return (v & 0b11111) | ((v >> 5) & 0b11111) | ((v >> 10) & 0b11111) | ((v >> 15) & 0b11111)
}
func dup64Pattern(lane int64) uint64 {
	v := uint64(lane)
	out := v & 0b11111
	for shift := 5; shift <= 35; shift += 5 {
		out |= (v >> uint(shift)) & 0b11111
	}
	return out
}
