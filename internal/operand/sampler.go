package operand

import (
	"math"
	"regexp"
	"strconv"

	"github.com/cranerule/wasmgen/internal/rng"
	"github.com/cranerule/wasmgen/internal/rules"
	"github.com/cranerule/wasmgen/internal/wasmtype"
)

// Params configures the probability knobs and bounds this package's
// dispatch relies on (spec.md §6 configuration surface).
type Params struct {
	ProbConstUseInteresting float64
	ProbMemargInbounds      float64
	ProbPerturb             float64
	MemoryPages             uint32
}

// DefaultParams mirrors the original generator's config.py defaults.
var DefaultParams = Params{
	ProbConstUseInteresting: 0.9,
	ProbMemargInbounds:      0.99,
	ProbPerturb:             0.05,
	MemoryPages:             1,
}

// Sampler draws immediate operand values for one instruction, threading a
// Store across calls so sibling opargs of the same rule instance can
// reference each other's sampled value (spec C4).
type Sampler struct {
	Source rng.Source
	Params Params
}

// New returns a Sampler with the given source and params.
func New(source rng.Source, params Params) *Sampler {
	return &Sampler{Source: source, Params: params}
}

var laneShapeRe = regexp.MustCompile(`[if][0-9]+x[0-9]+`)
var loadStoreNRe = regexp.MustCompile(`(load|store)([0-9]+)`)

// Sample draws the value for one operand slot of opcode, given its
// wasmtype.Operand shape, oparg index, the rule's sibling conditions, and
// the running Store (spec.md §4.1/§4.3 gen_operand / gen_operand_with_conds).
func (s *Sampler) Sample(opcode string, op wasmtype.Operand, opargIdx int, conds map[int][]rules.ConditionExpr, store Store) any {
	switch op.Kind {
	case wasmtype.KindLabelIdx, wasmtype.KindTableIdx:
		return uint32(0)

	case wasmtype.KindLaneIdx:
		return s.sampleLaneIdx(opcode)

	case wasmtype.KindByte16:
		if s.Source.ChoiceProb(s.Params.ProbConstUseInteresting) {
			return InterestingV128[s.Source.Choice(len(InterestingV128))]
		}
		if len(conds[opargIdx]) == 0 {
			var out [16]byte
			for i := range out {
				out[i] = byte(s.Source.Int(0, 255))
			}
			return out
		}
		return SampleConstrainedV128(s.Source, opargIdx, conds)

	case wasmtype.KindLaneIdx16:
		if s.Source.ChoiceProb(s.Params.ProbConstUseInteresting) {
			return InterestingLaneIdx16[s.Source.Choice(len(InterestingLaneIdx16))]
		}
		if len(conds[opargIdx]) == 0 {
			var out [16]byte
			for i := range out {
				out[i] = byte(s.Source.Int(0, 4))
			}
			return out
		}
		return SampleConstrainedV128(s.Source, opargIdx, conds)

	case wasmtype.KindMemArg:
		return s.sampleMemArg(opcode)

	case wasmtype.KindI32:
		return int32(s.sampleInt(opcode, 32, opargIdx, conds, store, InterestingI32AsInt64()))

	case wasmtype.KindI64:
		return s.sampleInt(opcode, 64, opargIdx, conds, store, InterestingI64)

	case wasmtype.KindF32:
		if s.Source.ChoiceProb(s.Params.ProbConstUseInteresting) {
			return float32(InterestingFloat[s.Source.Choice(len(InterestingFloat))])
		}
		return float32(s.Source.Float(-1e38, 1e38))

	case wasmtype.KindF64:
		if s.Source.ChoiceProb(s.Params.ProbConstUseInteresting) {
			return InterestingFloat[s.Source.Choice(len(InterestingFloat))]
		}
		return s.Source.Float(-1e300, 1e300)

	case wasmtype.KindBlockType:
		return wasmtype.EmptyBlockType

	case wasmtype.KindRefType:
		return wasmtype.FuncRef
	}
	panic("operand: unhandled operand kind " + string(op.Kind))
}

// InterestingI32AsInt64 widens InterestingI32 for use alongside the i64
// filter path, which works in int64.
func InterestingI32AsInt64() []int64 {
	return widen(InterestingI32)
}

func (s *Sampler) sampleLaneIdx(opcode string) uint32 {
	if shape := laneShapeRe.FindString(opcode); shape != "" {
		laneMax := laneCountOf(shape)
		return uint32(s.Source.Choice(laneMax))
	}
	if m := loadStoreNRe.FindStringSubmatch(opcode); m != nil {
		n, _ := strconv.Atoi(m[2])
		return uint32(s.Source.Choice(128 / n))
	}
	return 0
}

func laneCountOf(shape string) int {
	for i := len(shape) - 1; i >= 0; i-- {
		if shape[i] == 'x' {
			n, _ := strconv.Atoi(shape[i+1:])
			return n
		}
	}
	return 1
}

func (s *Sampler) sampleMemArg(opcode string) wasmtype.MemArg {
	candidates := wasmtype.MemArgAlign[opcode]
	if len(candidates) == 0 {
		candidates = []uint32{0}
	}
	align := candidates[s.Source.Choice(len(candidates))]

	var offset uint32
	if s.Source.ChoiceProb(s.Params.ProbMemargInbounds) {
		offset = uint32(s.Source.Choice(int(s.Params.MemoryPages) * 65536))
	} else {
		offset = uint32(s.Source.Int(0, math.MaxInt32))
	}
	return wasmtype.MemArg{Align: align, Offset: offset}
}

// sampleInt implements gen_operand's i32/i64 branch: prefer an
// interesting value most of the time (filtered by conds when present),
// otherwise fall to the constrained-range sampler when conds exist, or a
// flat uniform draw when they don't.
func (s *Sampler) sampleInt(opcode string, bitwidth int, opargIdx int, conds map[int][]rules.ConditionExpr, store Store, interesting []int64) int64 {
	if s.Source.ChoiceProb(s.Params.ProbConstUseInteresting) {
		filtered := filterByConds(interesting, conds[opargIdx])
		val := filtered[s.Source.Choice(len(filtered))]
		store[opargIdx] = val
		return val
	}
	if len(conds[opargIdx]) == 0 {
		val := int64(s.Source.Int(0, int(maxForBitwidth(bitwidth))))
		store[opargIdx] = val
		return val
	}
	return SampleConstrainedInt(s.Source, bitwidth, opargIdx, conds, store)
}

// filterByConds mirrors filter_operand_with_conds: narrow vals by every
// recognized predicate, but fall back to the unfiltered set if filtering
// would leave nothing (spec.md §7 sampling never fails outward).
func filterByConds(vals []int64, conds []rules.ConditionExpr) []int64 {
	filtered := append([]int64{}, vals...)
	for _, cond := range conds {
		var next []int64
		switch cond.Op {
		case "le":
			if v, ok := literalArg(cond, 0); ok {
				for _, x := range filtered {
					if x <= v {
						next = append(next, x)
					}
				}
			}
		case "lt":
			if v, ok := literalArg(cond, 0); ok {
				for _, x := range filtered {
					if x < v {
						next = append(next, x)
					}
				}
			}
		case "ge":
			if v, ok := literalArg(cond, 0); ok {
				for _, x := range filtered {
					if x >= v {
						next = append(next, x)
					}
				}
			}
		case "gt":
			if v, ok := literalArg(cond, 0); ok {
				for _, x := range filtered {
					if x > v {
						next = append(next, x)
					}
				}
			}
		case "nonzero", "_nonzero":
			for _, x := range filtered {
				if x != 0 {
					next = append(next, x)
				}
			}
		case "_nonminusone":
			for _, x := range filtered {
				if x != -1 {
					next = append(next, x)
				}
			}
		case "_minusone":
			for _, x := range filtered {
				if x == -1 {
					next = append(next, x)
				}
			}
		case "eq":
			if v, ok := literalArg(cond, 0); ok {
				for _, x := range filtered {
					if x == v {
						next = append(next, x)
					}
				}
			}
		default:
			next = filtered
		}
		if len(next) == 0 {
			return append([]int64{}, vals...)
		}
		filtered = next
	}
	return filtered
}
