package mqb

import "math"

// HalfToFloat32 widens an IEEE 754 binary16 bit pattern. Every half value,
// subnormals included, is exactly representable as float32; NaN payloads
// keep their mantissa bits.
func HalfToFloat32(h uint16) float32 {
	sign := uint32(h>>15) << 31
	exp := uint32(h>>10) & 0x1f
	frac := uint32(h) & 0x03ff

	var bits uint32
	switch {
	case exp == 0 && frac == 0:
		bits = sign
	case exp == 0:
		// Subnormal: normalize the mantissa into the implicit-one position.
		e := int32(-14)
		for frac&0x0400 == 0 {
			frac <<= 1
			e--
		}
		frac &= 0x03ff
		bits = sign | uint32(e+127)<<23 | frac<<13
	case exp == 0x1f:
		bits = sign | 0xff<<23 | frac<<13
	default:
		bits = sign | (exp-15+127)<<23 | frac<<13
	}
	return math.Float32frombits(bits)
}
