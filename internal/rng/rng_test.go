package rng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPRNG_Int_InRange(t *testing.T) {
	p := NewPRNG(42)
	for i := 0; i < 1000; i++ {
		v := p.Int(5, 10)
		require.GreaterOrEqual(t, v, 5)
		require.LessOrEqual(t, v, 10)
	}
}

func TestPRNG_Deterministic(t *testing.T) {
	a := NewPRNG(7)
	b := NewPRNG(7)
	for i := 0; i < 50; i++ {
		require.Equal(t, a.Int(0, 1000), b.Int(0, 1000))
	}
}

func TestPRNG_ChoiceArr_RespectsZeroWeights(t *testing.T) {
	p := NewPRNG(1)
	for i := 0; i < 200; i++ {
		idx := p.ChoiceArr([]float64{0, 0, 1, 0})
		require.Equal(t, 2, idx)
	}
}

func TestPRNG_ChoiceExp_BiasesTowardZero(t *testing.T) {
	p := NewPRNG(3)
	var zeros, total int
	for i := 0; i < 2000; i++ {
		if p.ChoiceExp(5, 1.5) == 0 {
			zeros++
		}
		total++
	}
	require.Greater(t, zeros, total/5)
}

func TestConsumer_ExhaustionZeroFills(t *testing.T) {
	c := NewConsumer([]byte{0xff, 0xff})
	_ = c.Int(0, 100)
	require.True(t, c.Exhausted())
	// Further draws must not panic and must stay in range.
	v := c.Int(0, 100)
	require.GreaterOrEqual(t, v, 0)
	require.LessOrEqual(t, v, 100)
}

func TestConsumer_Deterministic(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	a := NewConsumer(buf)
	b := NewConsumer(buf)
	for i := 0; i < 3; i++ {
		require.Equal(t, a.Int(0, 255), b.Int(0, 255))
	}
}

func TestConsumer_Bytes_ZeroPadsAfterExhaustion(t *testing.T) {
	c := NewConsumer([]byte{9})
	buf := make([]byte, 4)
	n, err := c.Bytes(buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []byte{9, 0, 0, 0}, buf)
}

func TestPRNG_Choice_PanicsOnZero(t *testing.T) {
	p := NewPRNG(1)
	require.Panics(t, func() { p.Choice(0) })
}
