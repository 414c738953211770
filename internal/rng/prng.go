package rng

import (
	"math"
	"math/rand"
)

// PRNG is a math/rand-backed Source, the default for seeded/standalone
// generation. It follows the teacher's internal/modgen.Gen convention of
// deriving one or more *rand.Rand instances from a fixed seed so that the
// same seed always reproduces the same module.
type PRNG struct {
	r *rand.Rand
}

// NewPRNG returns a PRNG seeded deterministically from seed.
func NewPRNG(seed int64) *PRNG {
	return &PRNG{r: rand.New(rand.NewSource(seed))}
}

func (p *PRNG) Int(lo, hi int) int {
	if hi < lo {
		panic("rng: Int requires hi >= lo")
	}
	return lo + p.r.Intn(hi-lo+1)
}

func (p *PRNG) Choice(n int) int {
	if n <= 0 {
		panic("rng: Choice requires n > 0")
	}
	return p.r.Intn(n)
}

func (p *PRNG) ChoiceProb(prob float64) bool {
	return p.r.Float64() < prob
}

func (p *PRNG) ChoiceArr(weights []float64) int {
	if len(weights) == 0 {
		panic("rng: ChoiceArr requires a non-empty weights slice")
	}
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		panic("rng: ChoiceArr requires at least one positive weight")
	}
	target := p.r.Float64() * total
	var cum float64
	for i, w := range weights {
		cum += w
		if target < cum {
			return i
		}
	}
	return len(weights) - 1
}

func (p *PRNG) ChoiceExp(n int, decay float64) int {
	if n <= 0 {
		panic("rng: ChoiceExp requires n > 0")
	}
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = math.Exp(-decay * float64(i))
	}
	return p.ChoiceArr(weights)
}

func (p *PRNG) Float(lo, hi float64) float64 {
	return lo + p.r.Float64()*(hi-lo)
}

func (p *PRNG) Bytes(buf []byte) (int, error) {
	return p.r.Read(buf)
}
