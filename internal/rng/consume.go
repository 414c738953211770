package rng

import "encoding/binary"

// Consumer is a byte-stream-consuming Source: every draw advances an
// offset into a fixed buffer of mutated bytes instead of running a PRNG
// algorithm. This is the Go analogue of original_source's ConsumeRng,
// used by coverage-guided fuzzing front ends that want the generator's
// control flow to respond directly to mutated bytes rather than to an
// opaque PRNG seed. Once the buffer is exhausted, every further draw reads
// as zero, matching ConsumeRng's "zero-fill when seed depleted" behavior
// rather than erroring or wrapping around.
type Consumer struct {
	buf []byte
	off int
}

// NewConsumer wraps buf; buf is read left to right and never mutated.
func NewConsumer(buf []byte) *Consumer {
	return &Consumer{buf: buf}
}

// consume returns the next n bytes, big-endian significant, zero-padding
// on the left once buf is exhausted.
func (c *Consumer) consume(n int) uint64 {
	out := make([]byte, 8)
	start := 8 - n
	for i := 0; i < n; i++ {
		if c.off < len(c.buf) {
			out[start+i] = c.buf[c.off]
			c.off++
		}
	}
	return binary.BigEndian.Uint64(out)
}

func (c *Consumer) Int(lo, hi int) int {
	if hi < lo {
		panic("rng: Int requires hi >= lo")
	}
	span := uint64(hi-lo) + 1
	return lo + int(c.consume(4)%span)
}

func (c *Consumer) Choice(n int) int {
	if n <= 0 {
		panic("rng: Choice requires n > 0")
	}
	return int(c.consume(4) % uint64(n))
}

func (c *Consumer) ChoiceProb(prob float64) bool {
	const scale = 1 << 32
	return float64(c.consume(4)%scale)/float64(scale) < prob
}

func (c *Consumer) ChoiceArr(weights []float64) int {
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
	const scale = 1 << 32
	target := float64(c.consume(4)%scale) / float64(scale) * total
	var cum float64
	for i, w := range weights {
		cum += w
		if target < cum {
			return i
		}
	}
	return len(weights) - 1
}

func (c *Consumer) ChoiceExp(n int, decay float64) int {
	if n <= 0 {
		panic("rng: ChoiceExp requires n > 0")
	}
	// Streamed consumption has no cheap transcendental path, so bias
	// toward 0 by rejection: draw a uniform index, then with probability
	// proportional to its magnitude consume another 4 bytes and retry.
	idx := c.Choice(n)
	for attempt := 0; attempt < 8 && idx > 0; attempt++ {
		if !c.ChoiceProb(1 - 1/(1+decay*float64(idx))) {
			break
		}
		idx = c.Choice(n)
	}
	return idx
}

func (c *Consumer) Float(lo, hi float64) float64 {
	const scale = 1 << 32
	frac := float64(c.consume(4)%scale) / float64(scale)
	return lo + frac*(hi-lo)
}

func (c *Consumer) Bytes(p []byte) (int, error) {
	for i := range p {
		if c.off < len(c.buf) {
			p[i] = c.buf[c.off]
			c.off++
		} else {
			p[i] = 0
		}
	}
	return len(p), nil
}

// Exhausted reports whether the underlying buffer has been fully consumed.
func (c *Consumer) Exhausted() bool {
	return c.off >= len(c.buf)
}
