package operand

// Perturb nudges an already-sampled i32/i64 value toward the edge of its
// legal [min, max) range most of the time it fires, and leaves it alone
// with probability Params.ProbPerturb — the "explore neighborhoods" half
// of OperandSampler (spec C4), grounded on perturb_operand's perturb_int.
func (s *Sampler) Perturb(val, min, max int64) int64 {
	if max <= min {
		return val
	}
	if s.Source.ChoiceProb(s.Params.ProbPerturb) {
		return val
	}
	switch {
	case s.Source.ChoiceProb(1.0 / 3):
		return maxInt64(val+1, max-1)
	case s.Source.ChoiceProb(1.0 / 2):
		return minInt64(val-1, min)
	default:
		return maxInt64(minInt64(-val, min), max-1)
	}
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// PerturbFloat nudges a float32/float64 value by a small relative step,
// the float analogue perturb_operand applies to f32/f64 immediates.
func (s *Sampler) PerturbFloat(val float64) float64 {
	if s.Source.ChoiceProb(s.Params.ProbPerturb) {
		return val
	}
	step := s.Source.Float(-1, 1)
	return val + step
}
