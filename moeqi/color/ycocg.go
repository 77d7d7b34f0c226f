// Package color implements the reversible YCoCg-R transform used ahead of
// residual prediction.
//
// The transform is not stream compatible with encoders that evaluate the
// lifting steps in wide integers and truncate: whenever |r-b| or |cg| reaches
// 128 the stored bytes differ, e.g. (200, 0, 0) stores Y=242, Cg=28 rather
// than 50, 156, so MOEQI1 RGB streams from such encoders do not decode
// identically here.
package color

// The lifting steps run in 8-bit wraparound arithmetic: every intermediate is
// reduced modulo 256 and the halving shifts act on the signed 8-bit reading of
// the value. Each step adds a function of the other components only, so the
// inverse subtracts the very same quantity and recovers every byte triple.
// Truncating a 16-bit forward result instead is not injective.

// ForwardYCoCgR converts interleaved RGB (stride 3) or RGBA (stride 4) to
// Y, Co, Cg in place. A fourth (alpha) byte passes through untouched.
func ForwardYCoCgR(buf []byte, hasAlpha bool) {
	stride := strideOf(hasAlpha)
	for i := 0; i+stride <= len(buf); i += stride {
		buf[i], buf[i+1], buf[i+2] = ForwardPixel(buf[i], buf[i+1], buf[i+2])
	}
}

// InverseYCoCgR undoes ForwardYCoCgR in place.
func InverseYCoCgR(buf []byte, hasAlpha bool) {
	stride := strideOf(hasAlpha)
	for i := 0; i+stride <= len(buf); i += stride {
		buf[i], buf[i+1], buf[i+2] = InversePixel(buf[i], buf[i+1], buf[i+2])
	}
}

// ForwardPixel transforms a single (r, g, b) triple.
func ForwardPixel(r, g, b uint8) (y, co, cg uint8) {
	co = r - b
	t := b + half(co)
	cg = g - t
	y = t + half(cg)
	return y, co, cg
}

// InversePixel transforms a single (y, co, cg) triple back to RGB.
func InversePixel(y, co, cg uint8) (r, g, b uint8) {
	t := y - half(cg)
	g = cg + t
	b = t - half(co)
	r = b + co
	return r, g, b
}

// half is an arithmetic right shift of the signed 8-bit reading of v.
func half(v uint8) uint8 {
	return uint8(int8(v) >> 1)
}

func strideOf(hasAlpha bool) int {
	if hasAlpha {
		return 4
	}
	return 3
}
