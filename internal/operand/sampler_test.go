package operand

import (
	"testing"

	"github.com/cranerule/wasmgen/internal/rng"
	"github.com/cranerule/wasmgen/internal/rules"
	"github.com/cranerule/wasmgen/internal/wasmtype"
	"github.com/stretchr/testify/require"
)

func TestSampler_MemArg_UsesAlignCandidates(t *testing.T) {
	wasmtype.MemArgAlign["i32.load"] = []uint32{0, 1, 2}
	s := New(rng.NewPRNG(1), DefaultParams)
	for i := 0; i < 200; i++ {
		v := s.Sample("i32.load", wasmtype.Operand{Kind: wasmtype.KindMemArg}, 0, nil, Store{})
		memarg := v.(wasmtype.MemArg)
		require.Contains(t, []uint32{0, 1, 2}, memarg.Align)
	}
}

func TestSampler_LaneIdx_BoundedByShapeWidth(t *testing.T) {
	s := New(rng.NewPRNG(2), DefaultParams)
	for i := 0; i < 200; i++ {
		v := s.Sample("i8x16.extract_lane", wasmtype.Operand{Kind: wasmtype.KindLaneIdx}, 0, nil, Store{})
		lane := v.(uint32)
		require.Less(t, lane, uint32(16))
	}
}

func TestSampleConstrainedInt_RespectsRange(t *testing.T) {
	source := rng.NewPRNG(3)
	conds := map[int][]rules.ConditionExpr{
		0: {rules.Op("ge", rules.Const(10)), rules.Op("lt", rules.Const(20))},
	}
	for i := 0; i < 500; i++ {
		v := SampleConstrainedInt(source, 32, 0, conds, Store{})
		require.GreaterOrEqual(t, v, int64(10))
		require.Less(t, v, int64(20))
	}
}

func TestSampleConstrainedInt_Pow2(t *testing.T) {
	source := rng.NewPRNG(4)
	conds := map[int][]rules.ConditionExpr{
		0: {rules.Op("_pow2", rules.OpArg(1))},
	}
	for i := 0; i < 200; i++ {
		store := Store{}
		v := SampleConstrainedInt(source, 32, 0, conds, store)
		require.Equal(t, v&(v-1), int64(0), "expected a power of two, got %d", v)
	}
}

func TestSampleConstrainedInt_MinusOne(t *testing.T) {
	source := rng.NewPRNG(5)
	conds := map[int][]rules.ConditionExpr{0: {rules.Op("_minusone")}}
	v := SampleConstrainedInt(source, 32, 0, conds, Store{})
	require.Equal(t, int64(0xffffffff), v)
}

func TestSampleConstrainedInt_Eq(t *testing.T) {
	source := rng.NewPRNG(8)
	conds := map[int][]rules.ConditionExpr{0: {rules.Op("eq", rules.Const(42))}}
	for i := 0; i < 50; i++ {
		v := SampleConstrainedInt(source, 32, 0, conds, Store{})
		require.Equal(t, int64(42), v)
	}
}

func TestSampleConstrainedInt_LaneNReplicatesAcrossGroups(t *testing.T) {
	source := rng.NewPRNG(9)
	conds := map[int][]rules.ConditionExpr{0: {rules.Op("lane8")}}
	for i := 0; i < 50; i++ {
		v := SampleConstrainedInt(source, 32, 0, conds, Store{})
		lo := v & 0x1f
		for shift := 0; shift < 32; shift += 8 {
			require.Equal(t, lo, (v>>uint(shift))&0x1f)
		}
	}
}

func TestFilterByConds_Eq(t *testing.T) {
	vals := []int64{1, 2, 3, 2}
	conds := []rules.ConditionExpr{rules.Op("eq", rules.Const(2))}
	got := filterByConds(vals, conds)
	for _, v := range got {
		require.Equal(t, int64(2), v)
	}
	require.NotEmpty(t, got)
}

func TestFilterByConds_FallsBackWhenFilterEmpties(t *testing.T) {
	vals := []int64{1, 2, 3}
	conds := []rules.ConditionExpr{rules.Op("ge", rules.Const(1000))}
	got := filterByConds(vals, conds)
	require.Equal(t, vals, got)
}

func TestSampleConstrainedV128_ShuffleDup8ReplicatesByte(t *testing.T) {
	source := rng.NewPRNG(6)
	conds := map[int][]rules.ConditionExpr{0: {rules.Op("_shuffle_dup8_from_imm", rules.OpArg(1))}}
	out := SampleConstrainedV128(source, 0, conds)
	for _, b := range out {
		require.Equal(t, out[0], b)
	}
}

func TestPerturb_StaysWithinBounds(t *testing.T) {
	s := New(rng.NewPRNG(7), Params{ProbPerturb: 0})
	for i := 0; i < 200; i++ {
		v := s.Perturb(5, 0, 10)
		require.GreaterOrEqual(t, v, int64(0))
	}
}
