// Package quant implements the signed uniform residual quantizer.
package quant

import "math"

// SignedUniform quantizes residuals with a mid-tread uniform step.
type SignedUniform struct {
	bits uint8
	step int16
}

// New returns a quantizer with 2^bits levels; bits is clamped to [1,15].
// The step is chosen so that half of the levels cover 0..255.
func New(bits uint8) *SignedUniform {
	if bits < 1 {
		bits = 1
	}
	if bits > 15 {
		bits = 15
	}

	levels := int32(1) << bits
	half := levels/2 - 1
	if half < 1 {
		half = 1
	}

	step := (255 + half - 1) / half
	if step < 1 {
		step = 1
	}
	return &SignedUniform{bits: bits, step: int16(step)}
}

// Bits returns the clamped bit count.
func (q *SignedUniform) Bits() uint8 { return q.bits }

// Step returns the quantization step.
func (q *SignedUniform) Step() int16 { return q.step }

// Quantize rounds r to the nearest multiple of the step, ties away from zero,
// and clamps the result to the int16 range.
func (q *SignedUniform) Quantize(r int16) int16 {
	s := int32(q.step)
	ri := int32(r)

	var sign int32
	switch {
	case ri > 0:
		sign = 1
	case ri < 0:
		sign = -1
	}

	v := ((ri + (s/2)*sign) / s) * s
	if v < math.MinInt16 {
		v = math.MinInt16
	}
	if v > math.MaxInt16 {
		v = math.MaxInt16
	}
	return int16(v)
}

// Dequantize returns q unchanged. Quantize already yields values on the
// reconstruction grid; the model-driven decoder applies its own step scale.
func (q *SignedUniform) Dequantize(v int16) int16 {
	return v
}
